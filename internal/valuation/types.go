// Package valuation builds priced, tax-classified grants from validated
// grant records and externally supplied quotes. All inputs are fully
// materialized before assembly runs; nothing here performs I/O.
package valuation

import (
	"strings"
	"time"
)

// Route is the Section 102 election governing how a grant's appreciation is
// taxed. The variant space is closed; classification switches over it
// exhaustively.
type Route int

const (
	// RouteCapitalGains is the trustee capital-gains track: appreciation is
	// capital when the 24-month holding period is satisfied.
	RouteCapitalGains Route = iota

	// RouteOrdinaryIncome is the ordinary-income track: grant-to-vest
	// appreciation is ordinary, vest-to-sale is capital.
	RouteOrdinaryIncome
)

func (r Route) String() string {
	switch r {
	case RouteOrdinaryIncome:
		return "Ordinary Income Route"
	default:
		return "Capital Gains Route"
	}
}

// ParseRoute maps a route label from a grant record onto a Route. Unknown
// or absent labels default to the capital-gains track.
func ParseRoute(label string) Route {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "ordinary income route", "ordinary income", "ordinary", "income route", "non-102":
		return RouteOrdinaryIncome
	default:
		return RouteCapitalGains
	}
}

// Grant is one validated equity-grant record. Immutable once ingested.
type Grant struct {
	ID        string
	Company   string
	Ticker    string
	GrantDate time.Time
	VestDate  time.Time
	Units     int
	Route     Route
}

// QuoteBundle carries a grant's per-unit values in the home currency,
// already converted by the quote source.
type QuoteBundle struct {
	GrantValue float64
	VestValue  float64
	SaleValue  float64
}

// PricedGrant is a grant combined with its per-unit home-currency values.
type PricedGrant struct {
	Grant
	GrantValue float64
	VestValue  float64
	SaleValue  float64
}

// ClassifiedGrant is a priced grant whose per-unit appreciation has been
// split into ordinary-income and capital-gain components.
type ClassifiedGrant struct {
	PricedGrant
	OrdinaryPerUnit float64
	CapitalPerUnit  float64
	Note            string
}

// Exclusion records a grant dropped from a batch and why. Exclusions are
// reported alongside results so a caller can re-request a single grant
// without re-running the batch.
type Exclusion struct {
	GrantID string
	Reason  string
}

// QuoteSource supplies per-unit home-currency values for a grant. All
// quote retrieval must be complete before assembly runs; implementations
// must not block during Bundle.
type QuoteSource interface {
	Bundle(grant Grant, saleDate time.Time) (QuoteBundle, error)
}
