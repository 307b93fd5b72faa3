// Package summary rolls per-grant sale allocations into per-grant rows and
// a consolidated total suitable for direct display. Pure arithmetic rollup;
// no business rules beyond pro-rata apportionment and currency rounding.
package summary

import (
	"time"

	"github.com/iwvelando/rsu-optimizer/internal/optimizer"
	"github.com/iwvelando/rsu-optimizer/internal/valuation"
	"github.com/iwvelando/rsu-optimizer/pkg/constants"
	"github.com/shopspring/decimal"
)

// Row is the display rollup for one grant's sale. Currency values are in
// the home currency, rounded to two decimals half-even.
type Row struct {
	GrantID         string
	Company         string
	Ticker          string
	GrantDate       time.Time
	Route           valuation.Route
	UnitsSold       int
	GrantPerUnit    float64
	SalePerUnit     float64
	OrdinaryPerUnit float64
	CapitalPerUnit  float64
	GrossProceeds   float64
	OrdinaryIncome  float64
	CapitalGain     float64
	OrdinaryTax     float64
	CapitalTax      float64
	TotalTax        float64
	NetProceeds     float64
	Note            string
}

// Totals is the consolidated row across all sales.
type Totals struct {
	UnitsSold      int
	GrossProceeds  float64
	OrdinaryIncome float64
	NetCapitalGain float64
	OrdinaryTax    float64
	CapitalTax     float64
	TotalTax       float64
	NetProceeds    float64
}

// Report is the full tabular summary handed to the presentation layer; no
// further interpretation is required to display it.
type Report struct {
	Rows          []Row
	Total         Totals
	Exclusions    []valuation.Exclusion
	CurrentIncome float64
	TargetCeiling float64
}

// Aggregate builds the report for one optimization result. Each row's tax
// estimate is apportioned pro-rata from the run's aggregate taxes: ordinary
// tax by the row's share of total ordinary income, capital tax by the row's
// share of the positive capital gains (loss rows carry no capital tax).
func Aggregate(result *optimizer.Result, pricingExclusions []valuation.Exclusion, currentIncome, targetCeiling float64) *Report {
	report := &Report{
		CurrentIncome: currentIncome,
		TargetCeiling: targetCeiling,
	}
	report.Exclusions = append(report.Exclusions, pricingExclusions...)
	report.Exclusions = append(report.Exclusions, result.Exclusions...)

	var grossGain float64
	for _, allocation := range result.Allocations {
		if allocation.Grant.CapitalPerUnit > 0 {
			grossGain += float64(allocation.UnitsSold) * allocation.Grant.CapitalPerUnit
		}
	}

	var grossProceeds float64
	for _, allocation := range result.Allocations {
		grant := allocation.Grant
		units := float64(allocation.UnitsSold)

		gross := units * grant.SaleValue
		ordinary := units * grant.OrdinaryPerUnit
		capital := units * grant.CapitalPerUnit
		grossProceeds += gross

		ordinaryTax := apportion(result.OrdinaryTax, ordinary, result.TotalOrdinaryIncome)
		capitalTax := 0.0
		if capital > 0 {
			capitalTax = apportion(result.CapitalTax, capital, grossGain)
		}

		report.Rows = append(report.Rows, Row{
			GrantID:         grant.ID,
			Company:         grant.Company,
			Ticker:          grant.Ticker,
			GrantDate:       grant.GrantDate,
			Route:           grant.Route,
			UnitsSold:       allocation.UnitsSold,
			GrantPerUnit:    round(grant.GrantValue),
			SalePerUnit:     round(grant.SaleValue),
			OrdinaryPerUnit: round(grant.OrdinaryPerUnit),
			CapitalPerUnit:  round(grant.CapitalPerUnit),
			GrossProceeds:   round(gross),
			OrdinaryIncome:  round(ordinary),
			CapitalGain:     round(capital),
			OrdinaryTax:     ordinaryTax,
			CapitalTax:      capitalTax,
			TotalTax:        round(ordinaryTax + capitalTax),
			NetProceeds:     round(gross - ordinaryTax - capitalTax),
			Note:            grant.Note,
		})
	}

	for _, allocation := range result.Allocations {
		report.Total.UnitsSold += allocation.UnitsSold
	}
	report.Total.GrossProceeds = round(grossProceeds)
	report.Total.OrdinaryIncome = round(result.TotalOrdinaryIncome)
	report.Total.NetCapitalGain = round(result.NetCapitalGain)
	report.Total.OrdinaryTax = round(result.OrdinaryTax)
	report.Total.CapitalTax = round(result.CapitalTax)
	report.Total.TotalTax = round(result.OrdinaryTax + result.CapitalTax)
	report.Total.NetProceeds = round(grossProceeds - result.OrdinaryTax - result.CapitalTax)

	return report
}

// apportion gives one row its pro-rata share of an aggregate tax amount.
func apportion(total, contribution, base float64) float64 {
	if base <= 0 || contribution <= 0 || total <= 0 {
		return 0
	}
	share := decimal.NewFromFloat(total).
		Mul(decimal.NewFromFloat(contribution)).
		Div(decimal.NewFromFloat(base)).
		RoundBank(constants.DecimalPlaces)
	rounded, _ := share.Float64()
	return rounded
}

func round(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).RoundBank(constants.DecimalPlaces).Float64()
	return rounded
}
