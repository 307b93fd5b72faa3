package summary

import (
	"math"
	"testing"
	"time"

	"github.com/iwvelando/rsu-optimizer/internal/optimizer"
	"github.com/iwvelando/rsu-optimizer/internal/tax"
	"github.com/iwvelando/rsu-optimizer/internal/valuation"
)

func classified(id string, units int, ordinary, capital, sale float64) valuation.ClassifiedGrant {
	return valuation.ClassifiedGrant{
		PricedGrant: valuation.PricedGrant{
			Grant: valuation.Grant{
				ID:        id,
				Company:   "Example Corp",
				Ticker:    "EXMP",
				GrantDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
				Units:     units,
			},
			GrantValue: sale - ordinary - capital,
			SaleValue:  sale,
		},
		OrdinaryPerUnit: ordinary,
		CapitalPerUnit:  capital,
		Note:            "test",
	}
}

func result(t *testing.T, grants []valuation.ClassifiedGrant, income, ceiling float64) *optimizer.Result {
	t.Helper()
	schedule, err := tax.NewSchedule([]tax.Bracket{
		{Lower: 0, Upper: 100, Rate: 0.10},
		{Lower: 100, Upper: math.Inf(1), Rate: 0.30},
	})
	if err != nil {
		t.Fatalf("failed to build schedule: %v", err)
	}
	params := optimizer.Parameters{
		CurrentIncome:    income,
		TargetCeiling:    ceiling,
		Schedule:         schedule,
		CapitalGainsRate: 0.25,
	}
	res, err := optimizer.Optimize(nil, params, grants)
	if err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}
	return res
}

func findRow(report *Report, id string) *Row {
	for i := range report.Rows {
		if report.Rows[i].GrantID == id {
			return &report.Rows[i]
		}
	}
	return nil
}

func TestAggregateRollsUpRowsAndTotals(t *testing.T) {
	grants := []valuation.ClassifiedGrant{
		classified("GRANT-1", 2, 5, 10, 50), // 10 ordinary, 20 capital
		classified("GRANT-2", 4, 0, -5, 30), // pure capital loss of -20
	}
	res := result(t, grants, 0, 1000)
	report := Aggregate(res, nil, 0, 1000)

	if len(report.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(report.Rows))
	}

	first := findRow(report, "GRANT-1")
	if first == nil {
		t.Fatal("missing row for GRANT-1")
	}
	if first.GrossProceeds != 100 {
		t.Errorf("GRANT-1 gross proceeds = %.2f, want 100", first.GrossProceeds)
	}
	if first.OrdinaryIncome != 10 || first.CapitalGain != 20 {
		t.Errorf("GRANT-1 amounts = (%.2f, %.2f), want (10, 20)", first.OrdinaryIncome, first.CapitalGain)
	}
	// All ordinary income comes from GRANT-1, so it carries the whole
	// ordinary tax (1.00); it also holds all positive capital gain, so it
	// carries the whole capital tax (net 0 -> tax 0 here).
	if first.OrdinaryTax != 1.00 {
		t.Errorf("GRANT-1 ordinary tax share = %.2f, want 1.00", first.OrdinaryTax)
	}

	loss := findRow(report, "GRANT-2")
	if loss == nil {
		t.Fatal("missing row for GRANT-2")
	}
	if loss.CapitalGain != -20 {
		t.Errorf("GRANT-2 capital gain = %.2f, want -20", loss.CapitalGain)
	}
	if loss.CapitalTax != 0 {
		t.Errorf("loss rows must carry no capital tax share, got %.2f", loss.CapitalTax)
	}

	if report.Total.UnitsSold != 6 {
		t.Errorf("total units = %d, want 6", report.Total.UnitsSold)
	}
	if report.Total.GrossProceeds != 220 {
		t.Errorf("total gross = %.2f, want 220", report.Total.GrossProceeds)
	}
	if report.Total.NetCapitalGain != 0 {
		t.Errorf("net capital gain = %.2f, want 0 (20 gain against 20 loss)", report.Total.NetCapitalGain)
	}
	if report.Total.CapitalTax != 0 {
		t.Errorf("capital tax = %.2f, want 0", report.Total.CapitalTax)
	}
	if report.Total.TotalTax != 1.00 {
		t.Errorf("total tax = %.2f, want 1.00", report.Total.TotalTax)
	}
	if report.Total.NetProceeds != 219 {
		t.Errorf("net proceeds = %.2f, want 219", report.Total.NetProceeds)
	}
}

func TestAggregateApportionsCapitalTaxByPositiveGain(t *testing.T) {
	grants := []valuation.ClassifiedGrant{
		classified("GRANT-1", 2, 0, 15, 50), // +30 gain
		classified("GRANT-2", 1, 0, 10, 40), // +10 gain
		classified("GRANT-3", 2, 0, -5, 30), // -10 loss
	}
	res := result(t, grants, 0, 100)
	// Net gain 30, capital tax 7.50 split 3:1 across the gain rows.
	report := Aggregate(res, nil, 0, 100)

	first := findRow(report, "GRANT-1")
	second := findRow(report, "GRANT-2")
	third := findRow(report, "GRANT-3")
	if first == nil || second == nil || third == nil {
		t.Fatal("missing rows")
	}
	if math.Abs(first.CapitalTax-5.62) > 1e-9 {
		t.Errorf("GRANT-1 capital tax share = %.2f, want 5.62", first.CapitalTax)
	}
	if math.Abs(second.CapitalTax-1.88) > 1e-9 {
		t.Errorf("GRANT-2 capital tax share = %.2f, want 1.88", second.CapitalTax)
	}
	if third.CapitalTax != 0 {
		t.Errorf("GRANT-3 capital tax share = %.2f, want 0", third.CapitalTax)
	}
	if math.Abs(report.Total.CapitalTax-7.50) > 1e-9 {
		t.Errorf("total capital tax = %.2f, want 7.50", report.Total.CapitalTax)
	}
}

func TestAggregateRoundsHalfEven(t *testing.T) {
	// 3 units at 2.375 ordinary per unit: 7.125 rounds to 7.12 under
	// half-even rounding, not 7.13.
	grants := []valuation.ClassifiedGrant{
		classified("GRANT-1", 3, 2.375, 0, 10),
	}
	res := result(t, grants, 0, 100)
	report := Aggregate(res, nil, 0, 100)

	row := findRow(report, "GRANT-1")
	if row == nil {
		t.Fatal("missing row")
	}
	if row.OrdinaryIncome != 7.12 {
		t.Errorf("ordinary income = %.2f, want 7.12 (half-even)", row.OrdinaryIncome)
	}
}

func TestAggregateCarriesExclusions(t *testing.T) {
	res := result(t, nil, 0, 100)
	res.Exclusions = []valuation.Exclusion{{GrantID: "GRANT-2", Reason: "directive overflow"}}
	pricing := []valuation.Exclusion{{GrantID: "GRANT-1", Reason: "no quotes"}}

	report := Aggregate(res, pricing, 0, 100)
	if len(report.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(report.Rows))
	}
	if len(report.Exclusions) != 2 {
		t.Fatalf("expected 2 exclusions, got %d", len(report.Exclusions))
	}
	if report.Exclusions[0].GrantID != "GRANT-1" || report.Exclusions[1].GrantID != "GRANT-2" {
		t.Errorf("unexpected exclusion order: %+v", report.Exclusions)
	}
}
