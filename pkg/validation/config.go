package validation

import "fmt"

// CeilingWarnings returns warnings about the income / ceiling relationship.
func CeilingWarnings(income, ceiling float64) []string {
	var warnings []string

	if income < 0 {
		warnings = append(warnings, fmt.Sprintf("current income %.2f is negative and will be rejected by the optimizer", income))
	}
	if ceiling < income {
		warnings = append(warnings, fmt.Sprintf("target ceiling %.2f is below current income %.2f; it will be treated as equal and no ordinary-bearing sales will be recommended", ceiling, income))
	}

	return warnings
}

// BracketRateWarnings flags schedules whose rates decrease as income rises.
// A decreasing rate is legal but almost always a typo in the config.
func BracketRateWarnings(rates []float64) []string {
	var warnings []string

	for i := 1; i < len(rates); i++ {
		if rates[i] < rates[i-1] {
			warnings = append(warnings, fmt.Sprintf("bracket %d rate %.2f is below the preceding rate %.2f", i+1, rates[i], rates[i-1]))
		}
	}

	return warnings
}
