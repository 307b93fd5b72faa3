package optimizer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/rsu-optimizer/internal/valuation"
	"go.uber.org/zap"
)

// Directive names an explicit unit count to sell from one grant.
type Directive struct {
	GrantID string
	Units   int
}

// ParseDirectives parses a manual allocation string such as
// "GRANT-1:50, GRANT-2:30" into directives. Malformed entries are rejected
// before any computation runs.
func ParseDirectives(s string) ([]Directive, error) {
	var directives []Directive
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, count, found := strings.Cut(part, ":")
		if !found {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("directive %q is not in GRANT:UNITS form", part)}
		}
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("directive %q has an empty grant identifier", part)}
		}
		if seen[id] {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("duplicate directive for grant %s", id)}
		}
		seen[id] = true
		units, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("directive %q has a malformed unit count", part)}
		}
		if units < 0 {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("directive %q has a negative unit count", part)}
		}
		directives = append(directives, Directive{GrantID: id, Units: units})
	}
	if len(directives) == 0 {
		return nil, &InvalidInputError{Reason: "no directives supplied"}
	}
	return directives, nil
}

// OptimizeManual applies explicit per-grant unit counts, bypassing the
// greedy ranking; the capital netting and tax computation are identical to
// Optimize. A directive naming an unknown grant rejects the whole override.
// A directive exceeding a grant's holdings fails the run unless
// fallbackToZero is set, in which case that grant alone is zero-sold and
// reported as an exclusion.
func OptimizeManual(logger *zap.Logger, params Parameters, grants []valuation.ClassifiedGrant, directives []Directive, fallbackToZero bool) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	byID := make(map[string]valuation.ClassifiedGrant, len(grants))
	for _, grant := range grants {
		byID[grant.ID] = grant
	}

	var allocations []SaleAllocation
	var exclusions []valuation.Exclusion
	for _, directive := range directives {
		grant, ok := byID[directive.GrantID]
		if !ok {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("directive names unknown grant %s", directive.GrantID)}
		}
		if directive.Units > grant.Units {
			overflow := &AllocationOverflowError{
				GrantID:   directive.GrantID,
				Requested: directive.Units,
				Available: grant.Units,
			}
			if !fallbackToZero {
				return nil, overflow
			}
			logger.Warn("zero-selling grant with overflowing directive",
				zap.String("op", "optimizer.OptimizeManual"),
				zap.String("grant", directive.GrantID),
				zap.Error(overflow),
			)
			exclusions = append(exclusions, valuation.Exclusion{GrantID: directive.GrantID, Reason: overflow.Error()})
			continue
		}
		if directive.Units == 0 {
			continue
		}
		allocations = append(allocations, SaleAllocation{Grant: grant, UnitsSold: directive.Units})
	}

	return finalize(params, allocations, exclusions), nil
}
