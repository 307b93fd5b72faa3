// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"github.com/iwvelando/rsu-optimizer/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals using half-even (banker's) rounding,
// i.e. to represent real currency.
func Round(val float64) float64 {
	rounded, _ := decimal.NewFromFloat(val).RoundBank(constants.DecimalPlaces).Float64()
	return rounded
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
