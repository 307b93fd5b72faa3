package valuation

import (
	"time"

	"github.com/iwvelando/rsu-optimizer/pkg/constants"
	"github.com/iwvelando/rsu-optimizer/pkg/datetime"
	"github.com/iwvelando/rsu-optimizer/pkg/mathutil"
)

// Components is the per-unit split of taxable appreciation. OrdinaryPerUnit
// is never negative; any shortfall is absorbed into CapitalPerUnit so the
// split stays a partition of sale minus grant value.
type Components struct {
	OrdinaryPerUnit float64
	CapitalPerUnit  float64
	Note            string
}

// Compliant reports whether a sale on saleDate satisfies the trustee
// holding period counted from the grant date. A sale exactly at the
// 24-month mark is compliant.
func Compliant(grantDate, saleDate time.Time) bool {
	return !saleDate.Before(datetime.AddMonths(grantDate, constants.HoldingPeriodMonths))
}

// Classify splits a grant's per-unit appreciation into ordinary and capital
// components under the route and holding-period rules. Pure function of its
// inputs; total over the route x compliance space.
func Classify(grant PricedGrant, saleDate time.Time) Components {
	appreciation := grant.SaleValue - grant.GrantValue

	switch grant.Route {
	case RouteOrdinaryIncome:
		// Grant-to-vest appreciation is ordinary regardless of holding
		// period; the rest of the appreciation is capital.
		ordinary := mathutil.Max(grant.VestValue-grant.GrantValue, 0)
		return Components{
			OrdinaryPerUnit: ordinary,
			CapitalPerUnit:  appreciation - ordinary,
			Note:            "ordinary income route: grant-to-vest ordinary, remainder capital",
		}
	default:
		// Capital-gains track; unknown routes ingest as capital gains.
		if Compliant(grant.GrantDate, saleDate) {
			return Components{
				CapitalPerUnit: appreciation,
				Note:           "§102 capital gains route",
			}
		}
		// Early sale disqualifies the gain from capital treatment. A loss
		// stays a capital loss.
		return Components{
			OrdinaryPerUnit: mathutil.Max(appreciation, 0),
			CapitalPerUnit:  mathutil.Min(appreciation, 0),
			Note:            "§102 disqualified (sold < 24m): gain is ordinary income",
		}
	}
}
