// Package tax implements the progressive ordinary-income and flat
// capital-gains tax arithmetic for a single tax year. Schedules are passed
// explicitly into every computation so multiple years can be evaluated
// concurrently without shared state.
package tax

import (
	"fmt"
	"math"
)

// Bracket is one rung of a progressive schedule. Upper is math.Inf(1) for
// the unbounded top bracket.
type Bracket struct {
	Lower float64
	Upper float64
	Rate  float64
}

// Schedule is an ordered, contiguous bracket sequence covering the full
// non-negative income domain. Construct with NewSchedule; an unvalidated
// schedule is never used for computation.
type Schedule struct {
	brackets []Bracket
}

// ConfigurationError reports a malformed bracket schedule. It is fatal and
// aborts the run before any computation.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("tax schedule configuration: %s", e.Reason)
}

// NewSchedule validates the bracket sequence and returns a usable schedule.
func NewSchedule(brackets []Bracket) (*Schedule, error) {
	if len(brackets) == 0 {
		return nil, &ConfigurationError{Reason: "bracket sequence is empty"}
	}
	if brackets[0].Lower != 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("first bracket must start at 0, starts at %.2f", brackets[0].Lower)}
	}
	for i, bracket := range brackets {
		if bracket.Rate < 0 || bracket.Rate > 1 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("bracket %d rate %.4f is outside [0, 1]", i+1, bracket.Rate)}
		}
		if bracket.Upper <= bracket.Lower {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("bracket %d upper bound %.2f is not above its lower bound %.2f", i+1, bracket.Upper, bracket.Lower)}
		}
		if i > 0 && brackets[i-1].Upper != bracket.Lower {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("bracket %d lower bound %.2f does not meet the preceding upper bound %.2f", i+1, bracket.Lower, brackets[i-1].Upper)}
		}
	}
	if !math.IsInf(brackets[len(brackets)-1].Upper, 1) {
		return nil, &ConfigurationError{Reason: "top bracket must be unbounded"}
	}

	owned := make([]Bracket, len(brackets))
	copy(owned, brackets)
	return &Schedule{brackets: owned}, nil
}

// Brackets returns a copy of the schedule's brackets.
func (s *Schedule) Brackets() []Bracket {
	brackets := make([]Bracket, len(s.brackets))
	copy(brackets, s.brackets)
	return brackets
}

// OrdinaryTax returns the progressive tax due on the given income. It is
// zero for non-positive income, non-decreasing, and continuous at bracket
// boundaries.
func (s *Schedule) OrdinaryTax(income float64) float64 {
	if income <= 0 {
		return 0
	}
	tax := 0.0
	for _, bracket := range s.brackets {
		if income <= bracket.Lower {
			break
		}
		tax += (math.Min(income, bracket.Upper) - bracket.Lower) * bracket.Rate
	}
	return tax
}

// IncrementalTax returns the additional ordinary tax due when income rises
// from base to base+increment. Non-positive increments cost nothing.
func (s *Schedule) IncrementalTax(base, increment float64) float64 {
	if increment <= 0 {
		return 0
	}
	return s.OrdinaryTax(base+increment) - s.OrdinaryTax(base)
}

// MarginalRate returns the rate of the bracket containing the given income.
// Incomes below zero map to the first bracket's rate.
func (s *Schedule) MarginalRate(income float64) float64 {
	if income < 0 {
		income = 0
	}
	for _, bracket := range s.brackets {
		if income < bracket.Upper {
			return bracket.Rate
		}
	}
	return s.brackets[len(s.brackets)-1].Rate
}

// CapitalGainsTax returns the flat tax on a net capital gain. Losses are
// never taxed and never produce negative tax.
func CapitalGainsTax(netGain, rate float64) float64 {
	if netGain <= 0 {
		return 0
	}
	return netGain * rate
}
