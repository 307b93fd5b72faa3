package valuation

import (
	"fmt"
	"time"

	"github.com/iwvelando/rsu-optimizer/pkg/datetime"
	"go.uber.org/zap"
)

// PricingError reports a missing or invalid quote for a specific grant.
// The grant is excluded from the batch; the run continues for the rest.
type PricingError struct {
	GrantID string
	Reason  string
}

func (e *PricingError) Error() string {
	return fmt.Sprintf("pricing grant %s: %s", e.GrantID, e.Reason)
}

// Assemble combines a validated grant with its quote bundle into a
// classified grant ready for optimization. There is no retry logic here;
// pricing failures are surfaced per grant so the caller may exclude or
// re-request that single grant.
func Assemble(grant Grant, bundle QuoteBundle, saleDate time.Time) (ClassifiedGrant, error) {
	if grant.Units <= 0 {
		return ClassifiedGrant{}, &PricingError{GrantID: grant.ID, Reason: fmt.Sprintf("units must be positive, got %d", grant.Units)}
	}
	if datetime.DateBeforeDate(grant.VestDate, grant.GrantDate) {
		return ClassifiedGrant{}, &PricingError{GrantID: grant.ID, Reason: "vest date precedes grant date"}
	}
	if bundle.GrantValue <= 0 {
		return ClassifiedGrant{}, &PricingError{GrantID: grant.ID, Reason: "missing or non-positive grant-date value"}
	}
	if bundle.SaleValue <= 0 {
		return ClassifiedGrant{}, &PricingError{GrantID: grant.ID, Reason: "missing or non-positive sale-date value"}
	}
	// The vest value only matters on the ordinary-income track.
	if grant.Route == RouteOrdinaryIncome && bundle.VestValue <= 0 {
		return ClassifiedGrant{}, &PricingError{GrantID: grant.ID, Reason: "missing or non-positive vest-date value"}
	}

	priced := PricedGrant{
		Grant:      grant,
		GrantValue: bundle.GrantValue,
		VestValue:  bundle.VestValue,
		SaleValue:  bundle.SaleValue,
	}
	components := Classify(priced, saleDate)
	return ClassifiedGrant{
		PricedGrant:     priced,
		OrdinaryPerUnit: components.OrdinaryPerUnit,
		CapitalPerUnit:  components.CapitalPerUnit,
		Note:            components.Note,
	}, nil
}

// AssembleBatch prices and classifies every grant in the batch, collecting
// per-grant pricing failures as exclusions instead of aborting the run.
func AssembleBatch(logger *zap.Logger, grants []Grant, quotes QuoteSource, saleDate time.Time) ([]ClassifiedGrant, []Exclusion) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var classified []ClassifiedGrant
	var exclusions []Exclusion
	for _, grant := range grants {
		bundle, err := quotes.Bundle(grant, saleDate)
		if err == nil {
			var assembled ClassifiedGrant
			assembled, err = Assemble(grant, bundle, saleDate)
			if err == nil {
				classified = append(classified, assembled)
				continue
			}
		}
		logger.Warn("excluding grant from batch",
			zap.String("op", "valuation.AssembleBatch"),
			zap.String("grant", grant.ID),
			zap.String("ticker", grant.Ticker),
			zap.Error(err),
		)
		exclusions = append(exclusions, Exclusion{GrantID: grant.ID, Reason: err.Error()})
	}

	return classified, exclusions
}
