// Package format provides currency string formatting helpers.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/iwvelando/rsu-optimizer/pkg/constants"
	"github.com/iwvelando/rsu-optimizer/pkg/mathutil"
)

// Currency returns a home-currency string with symbol and thousands
// separators (e.g., "₪1,234.56").
func Currency(amount float64) string {
	rounded := mathutil.Round(amount)
	minor := int64(math.Round(rounded * 100))
	return money.New(minor, constants.HomeCurrency).Display()
}

// NumericCurrency returns a currency string without a currency symbol but
// with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + formatPositiveCurrency(math.Abs(amount))
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
