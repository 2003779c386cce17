package models

import "math"

// RoundAmount rounds a monetary amount to 2 decimal places.
func RoundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}
