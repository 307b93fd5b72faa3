package optimizer

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/iwvelando/rsu-optimizer/internal/valuation"
)

func TestParseDirectives(t *testing.T) {
	directives, err := ParseDirectives("GRANT-1:50, GRANT-2:30")
	if err != nil {
		t.Fatalf("ParseDirectives returned error: %v", err)
	}
	want := []Directive{
		{GrantID: "GRANT-1", Units: 50},
		{GrantID: "GRANT-2", Units: 30},
	}
	if !reflect.DeepEqual(directives, want) {
		t.Errorf("got %+v, want %+v", directives, want)
	}
}

func TestParseDirectivesRejectsMalformedInput(t *testing.T) {
	tests := []string{
		"",
		"GRANT-1",
		"GRANT-1:abc",
		"GRANT-1:-5",
		":10",
		"GRANT-1:10, GRANT-1:20", // duplicate
	}
	for _, input := range tests {
		_, err := ParseDirectives(input)
		if err == nil {
			t.Errorf("ParseDirectives(%q) succeeded, want error", input)
			continue
		}
		var invalidErr *InvalidInputError
		if !errors.As(err, &invalidErr) {
			t.Errorf("ParseDirectives(%q): expected InvalidInputError, got %T", input, err)
		}
	}
}

func TestOptimizeManualBypassesRanking(t *testing.T) {
	params := Parameters{
		CurrentIncome:    80,
		TargetCeiling:    100,
		Schedule:         twoBracketSchedule(t),
		CapitalGainsRate: 0.25,
	}
	grants := []valuation.ClassifiedGrant{
		classified("GRANT-1", 10, 10, 10, 120),
	}

	// The directive sells more ordinary income than the headroom admits;
	// manual allocation honors it anyway.
	result, err := OptimizeManual(nil, params, grants, []Directive{{GrantID: "GRANT-1", Units: 5}}, false)
	if err != nil {
		t.Fatalf("OptimizeManual returned error: %v", err)
	}
	if got := unitsSold(result, "GRANT-1"); got != 5 {
		t.Fatalf("sold %d units, want 5", got)
	}
	if math.Abs(result.TotalOrdinaryIncome-50) > 1e-9 {
		t.Errorf("total ordinary income = %.2f, want 50", result.TotalOrdinaryIncome)
	}
	// 80 -> 130: 20 at 10% plus 30 at 30%.
	if math.Abs(result.OrdinaryTax-11.0) > 1e-9 {
		t.Errorf("ordinary tax = %.4f, want 11.0", result.OrdinaryTax)
	}
	if math.Abs(result.CapitalTax-12.5) > 1e-9 {
		t.Errorf("capital tax = %.4f, want 12.5", result.CapitalTax)
	}
}

func TestOptimizeManualUnknownGrant(t *testing.T) {
	params := Parameters{
		CurrentIncome: 0,
		TargetCeiling: 100,
		Schedule:      twoBracketSchedule(t),
	}
	_, err := OptimizeManual(nil, params, nil, []Directive{{GrantID: "GRANT-9", Units: 1}}, false)
	var invalidErr *InvalidInputError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidInputError for unknown grant, got %T: %v", err, err)
	}
}

func TestOptimizeManualOverflowStrict(t *testing.T) {
	params := Parameters{
		CurrentIncome: 0,
		TargetCeiling: 100,
		Schedule:      twoBracketSchedule(t),
	}
	grants := []valuation.ClassifiedGrant{
		classified("GRANT-1", 10, 1, 1, 20),
	}

	_, err := OptimizeManual(nil, params, grants, []Directive{{GrantID: "GRANT-1", Units: 11}}, false)
	if err == nil {
		t.Fatal("expected overflow error")
	}
	var overflowErr *AllocationOverflowError
	if !errors.As(err, &overflowErr) {
		t.Fatalf("expected AllocationOverflowError, got %T: %v", err, err)
	}
	if overflowErr.GrantID != "GRANT-1" || overflowErr.Requested != 11 || overflowErr.Available != 10 {
		t.Errorf("unexpected overflow detail: %+v", overflowErr)
	}
}

func TestOptimizeManualOverflowFallbackZeroSells(t *testing.T) {
	params := Parameters{
		CurrentIncome: 0,
		TargetCeiling: 100,
		Schedule:      twoBracketSchedule(t),
	}
	grants := []valuation.ClassifiedGrant{
		classified("GRANT-1", 10, 1, 1, 20),
		classified("GRANT-2", 10, 1, 1, 20),
	}
	directives := []Directive{
		{GrantID: "GRANT-1", Units: 11}, // overflows, zero-sold
		{GrantID: "GRANT-2", Units: 4},
	}

	result, err := OptimizeManual(nil, params, grants, directives, true)
	if err != nil {
		t.Fatalf("OptimizeManual returned error: %v", err)
	}
	if got := unitsSold(result, "GRANT-1"); got != 0 {
		t.Errorf("GRANT-1 sold %d units, want 0 (fallback)", got)
	}
	if got := unitsSold(result, "GRANT-2"); got != 4 {
		t.Errorf("GRANT-2 sold %d units, want 4", got)
	}
	if len(result.Exclusions) != 1 || result.Exclusions[0].GrantID != "GRANT-1" {
		t.Errorf("expected GRANT-1 exclusion, got %+v", result.Exclusions)
	}
}

func TestOptimizeManualZeroUnitDirective(t *testing.T) {
	params := Parameters{
		CurrentIncome: 0,
		TargetCeiling: 100,
		Schedule:      twoBracketSchedule(t),
	}
	grants := []valuation.ClassifiedGrant{
		classified("GRANT-1", 10, 1, 1, 20),
	}

	result, err := OptimizeManual(nil, params, grants, []Directive{{GrantID: "GRANT-1", Units: 0}}, false)
	if err != nil {
		t.Fatalf("OptimizeManual returned error: %v", err)
	}
	if len(result.Allocations) != 0 {
		t.Errorf("expected no allocations for a zero-unit directive, got %d", len(result.Allocations))
	}
}
