// Package validation provides input validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/rsu-optimizer/pkg/constants"
)

// ValidateOutputFormat checks whether the requested output format is supported.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return nil
	default:
		return fmt.Errorf("invalid output format %q; supported formats: %s, %s",
			format, constants.OutputFormatPretty, constants.OutputFormatCSV)
	}
}
