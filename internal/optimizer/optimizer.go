// Package optimizer implements the sale-allocation algorithm: given current
// income, a target bracket ceiling, and a set of classified grants, it
// decides how many units of each grant to sell, filling the remaining
// ordinary-income headroom with the least ordinary-income-generating units
// first. Capital gains and losses are netted across all sold units and do
// not consume bracket headroom.
package optimizer

import (
	"fmt"
	"sort"

	"github.com/iwvelando/rsu-optimizer/internal/tax"
	"github.com/iwvelando/rsu-optimizer/internal/valuation"
	"github.com/iwvelando/rsu-optimizer/pkg/mathutil"
	"go.uber.org/zap"
)

// InvalidInputError reports input rejected at the boundary before any
// allocation is attempted.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid optimizer input: %s", e.Reason)
}

// AllocationOverflowError reports a manual directive requesting more units
// than the named grant holds. It is surfaced per grant; the rest of the run
// is unaffected.
type AllocationOverflowError struct {
	GrantID   string
	Requested int
	Available int
}

func (e *AllocationOverflowError) Error() string {
	return fmt.Sprintf("grant %s: directive requests %d units but only %d are held", e.GrantID, e.Requested, e.Available)
}

// SaleAllocation is the number of units to sell from one grant.
type SaleAllocation struct {
	Grant     valuation.ClassifiedGrant
	UnitsSold int
}

// Result is the outcome of one optimization run. It is produced fresh per
// run and never mutated afterward; re-running with different parameters
// produces a new Result.
type Result struct {
	Allocations         []SaleAllocation
	TotalOrdinaryIncome float64
	NetCapitalGain      float64
	OrdinaryTax         float64
	CapitalTax          float64
	Exclusions          []valuation.Exclusion
}

// Parameters bundles the inputs of one optimization run. The bracket
// schedule is passed explicitly so multiple tax years can be evaluated
// concurrently without cross-talk. CapitalGainsRate is applied as given; a
// zero rate means untaxed gains, and defaulting is the config layer's job.
type Parameters struct {
	CurrentIncome    float64
	TargetCeiling    float64
	Schedule         *tax.Schedule
	CapitalGainsRate float64
}

func (p Parameters) validate() error {
	if p.Schedule == nil {
		return &InvalidInputError{Reason: "bracket schedule is required"}
	}
	if p.CurrentIncome < 0 {
		return &InvalidInputError{Reason: fmt.Sprintf("current taxable income cannot be negative, got %.2f", p.CurrentIncome)}
	}
	if p.CapitalGainsRate < 0 {
		return &InvalidInputError{Reason: fmt.Sprintf("capital gains rate cannot be negative, got %.4f", p.CapitalGainsRate)}
	}
	return nil
}

// Optimize chooses how many units of each grant to sell. Grants are ranked
// ascending by ordinary income per unit (ties broken by descending capital
// per unit, then ingestion order) and sold greedily until the ordinary
// headroom between current income and the target ceiling is exhausted.
// Grants carrying no ordinary income are always sold in full. The ceiling
// is never exceeded implicitly; callers wanting to exceed it must raise
// TargetCeiling explicitly.
func Optimize(logger *zap.Logger, params Parameters, grants []valuation.ClassifiedGrant) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	headroom := mathutil.Max(params.TargetCeiling-params.CurrentIncome, 0)
	remaining := headroom

	var allocations []SaleAllocation
	stopped := false
	for _, grant := range rank(grants) {
		if grant.OrdinaryPerUnit <= 0 {
			// Consumes no headroom, so it is never blocked.
			allocations = append(allocations, SaleAllocation{Grant: grant, UnitsSold: grant.Units})
			continue
		}
		if stopped || remaining <= 0 {
			continue
		}
		cost := float64(grant.Units) * grant.OrdinaryPerUnit
		if cost <= remaining {
			allocations = append(allocations, SaleAllocation{Grant: grant, UnitsSold: grant.Units})
			remaining -= cost
			continue
		}
		// Partial sale of the grant that would overflow the headroom, then
		// no further ordinary-bearing units.
		units := int(remaining / grant.OrdinaryPerUnit)
		if units > 0 {
			allocations = append(allocations, SaleAllocation{Grant: grant, UnitsSold: units})
			remaining -= float64(units) * grant.OrdinaryPerUnit
		}
		stopped = true
	}

	logger.Debug("greedy allocation complete",
		zap.String("op", "optimizer.Optimize"),
		zap.Float64("headroom", headroom),
		zap.Float64("headroomRemaining", remaining),
		zap.Int("grantsConsidered", len(grants)),
		zap.Int("grantsSold", len(allocations)),
	)

	return finalize(params, allocations, nil), nil
}

// rank orders grants ascending by ordinary income per unit; ties prefer the
// higher capital component (more proceeds for the same ordinary cost), and
// the stable sort preserves ingestion order beyond that, keeping runs
// deterministic.
func rank(grants []valuation.ClassifiedGrant) []valuation.ClassifiedGrant {
	ranked := make([]valuation.ClassifiedGrant, len(grants))
	copy(ranked, grants)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].OrdinaryPerUnit != ranked[j].OrdinaryPerUnit {
			return ranked[i].OrdinaryPerUnit < ranked[j].OrdinaryPerUnit
		}
		return ranked[i].CapitalPerUnit > ranked[j].CapitalPerUnit
	})
	return ranked
}

// finalize nets the capital result across all sold units and prices the
// incremental ordinary tax and flat capital tax for the run.
func finalize(params Parameters, allocations []SaleAllocation, exclusions []valuation.Exclusion) *Result {
	var totalOrdinary, netCapital float64
	for _, allocation := range allocations {
		totalOrdinary += float64(allocation.UnitsSold) * allocation.Grant.OrdinaryPerUnit
		netCapital += float64(allocation.UnitsSold) * allocation.Grant.CapitalPerUnit
	}

	return &Result{
		Allocations:         allocations,
		TotalOrdinaryIncome: totalOrdinary,
		NetCapitalGain:      netCapital,
		OrdinaryTax:         params.Schedule.IncrementalTax(params.CurrentIncome, totalOrdinary),
		CapitalTax:          tax.CapitalGainsTax(netCapital, params.CapitalGainsRate),
		Exclusions:          exclusions,
	}
}
