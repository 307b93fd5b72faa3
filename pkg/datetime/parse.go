// Package datetime provides date parsing utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/rsu-optimizer/pkg/constants"
)

// DateLayout is the ISO date format used throughout the application.
const DateLayout = constants.DateLayout

// inputLayouts are the formats accepted for dates in grant CSVs, day-first
// per the upstream sheet exports, plus ISO.
var inputLayouts = []string{
	DateLayout,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseInput parses a date from any of the accepted input formats.
func ParseInput(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("date value cannot be empty")
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// AddMonths returns the date offset by the given number of months.
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}

// DateBeforeDate returns true if firstDate is strictly before secondDate.
func DateBeforeDate(firstDate, secondDate time.Time) bool {
	return firstDate.Before(secondDate)
}
