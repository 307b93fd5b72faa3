// Package output provides utilities for formatting and displaying sale
// allocation summaries.
package output

import (
	"fmt"

	"github.com/iwvelando/rsu-optimizer/internal/summary"
	"github.com/iwvelando/rsu-optimizer/pkg/constants"
	"github.com/iwvelando/rsu-optimizer/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table,
// followed by the consolidated financial summary.
func PrettyFormat(report *summary.Report) {
	p := message.NewPrinter(language.English)

	if len(report.Rows) == 0 {
		fmt.Println("No sales recommended within the selected constraints.")
	} else {
		fmt.Println("--- Recommended sales ---")
		p.Printf("%-9s | %-20s | %-10s | %6s | %10s | %10s | %10s | %12s | %12s | %12s | %12s\n",
			"Grant", "Company", "Grant Date", "Units", "Sale/u", "Ord/u", "Cap/u", "Ordinary", "Capital", "Tax", "Net")
		for _, row := range report.Rows {
			p.Printf("%-9s | %-20s | %-10s | %6d | %10s | %10s | %10s | %12s | %12s | %12s | %12s\n",
				row.GrantID,
				row.Company,
				row.GrantDate.Format(constants.DateLayout),
				row.UnitsSold,
				format.NumericCurrency(row.SalePerUnit),
				format.NumericCurrency(row.OrdinaryPerUnit),
				format.NumericCurrency(row.CapitalPerUnit),
				format.NumericCurrency(row.OrdinaryIncome),
				format.NumericCurrency(row.CapitalGain),
				format.NumericCurrency(row.TotalTax),
				format.NumericCurrency(row.NetProceeds),
			)
		}
		fmt.Println()

		fmt.Println("--- Financial summary ---")
		printSummaryLine("Salary", report.CurrentIncome)
		printSummaryLine("RSU ordinary income", report.Total.OrdinaryIncome)
		printSummaryLine("Taxable income for brackets", report.CurrentIncome+report.Total.OrdinaryIncome)
		fmt.Printf("%-28s %s\n", "", fmt.Sprintf("(target bracket ceiling %s)", format.Currency(report.TargetCeiling)))
		printSummaryLine("Net capital gain", report.Total.NetCapitalGain)
		fmt.Printf("%-28s %s\n", "", "(taxed separately at the flat rate)")
		printSummaryLine("Income tax", report.Total.OrdinaryTax)
		printSummaryLine("Capital gains tax", report.Total.CapitalTax)
		printSummaryLine("Total tax", report.Total.TotalTax)
		printSummaryLine("Gross proceeds", report.Total.GrossProceeds)
		printSummaryLine("Net proceeds", report.Total.NetProceeds)
	}

	if len(report.Exclusions) > 0 {
		fmt.Println()
		fmt.Println("--- Excluded grants ---")
		for _, exclusion := range report.Exclusions {
			fmt.Printf("%s: %s\n", exclusion.GrantID, exclusion.Reason)
		}
	}
}

func printSummaryLine(label string, amount float64) {
	fmt.Printf("%-28s %s\n", label, format.Currency(amount))
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(report *summary.Report) {
	fmt.Printf(`"grant","company","ticker","grant date","route","units sold","grant/unit","sale/unit","ordinary/unit","capital/unit","gross proceeds","ordinary income","capital gain","ordinary tax","capital tax","total tax","net proceeds","note"`)
	fmt.Printf("\n")
	for _, row := range report.Rows {
		fmt.Printf(`"%s","%s","%s","%s","%s","%d","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%s"`,
			row.GrantID,
			row.Company,
			row.Ticker,
			row.GrantDate.Format(constants.DateLayout),
			row.Route,
			row.UnitsSold,
			row.GrantPerUnit,
			row.SalePerUnit,
			row.OrdinaryPerUnit,
			row.CapitalPerUnit,
			row.GrossProceeds,
			row.OrdinaryIncome,
			row.CapitalGain,
			row.OrdinaryTax,
			row.CapitalTax,
			row.TotalTax,
			row.NetProceeds,
			row.Note,
		)
		fmt.Printf("\n")
	}
	fmt.Printf(`"total","","","","","%d","","","","","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f",""`,
		report.Total.UnitsSold,
		report.Total.GrossProceeds,
		report.Total.OrdinaryIncome,
		report.Total.NetCapitalGain,
		report.Total.OrdinaryTax,
		report.Total.CapitalTax,
		report.Total.TotalTax,
		report.Total.NetProceeds,
	)
	fmt.Printf("\n")
}
