package aggregator

import (
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// roundInt rounds half to even, so 2.5 becomes 2 and 3.5 becomes 4
func roundInt(v float64) int {
	return int(math.RoundToEven(v))
}

// roundTenth rounds to one decimal place, half to even
func roundTenth(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

// titleCase upper-cases the first letter of every word and lower-cases the rest.
// A Caser keeps state, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// metersToKm truncates a distance in meters to whole kilometers
func metersToKm(m float64) int {
	return int(math.Floor(m / 1000))
}
