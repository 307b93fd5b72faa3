// Package quotes loads historical stock prices and USD/ILS exchange rates
// from a local quotes file and converts them into home-currency per-unit
// values. All retrieval happens before the optimization core runs; the core
// never reaches the network.
package quotes

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/rsu-optimizer/internal/valuation"
	"github.com/iwvelando/rsu-optimizer/pkg/constants"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Source answers as-of price and FX lookups from an in-memory quote table.
//
// The quotes file is YAML of the form:
//
//	prices:
//	  MSFT:
//	    2023-06-01: 335.40
//	fx:
//	  2023-06-01: 3.72
//
// Prices are USD closes per ISO date; fx is the USD/ILS rate per ISO date.
type Source struct {
	logger *zap.Logger
	prices map[string]map[string]float64
	fx     map[string]float64
}

// Load reads the YAML quotes file at the given path.
func Load(path string, logger *zap.Logger) (*Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading quotes file, %s", err)
	}

	var raw struct {
		Prices map[string]map[string]float64 `mapstructure:"prices"`
		FX     map[string]float64            `mapstructure:"fx"`
	}
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("unable to decode quotes into struct, %s", err)
	}

	// Viper lowercases map keys; ticker lookups are uppercase.
	prices := make(map[string]map[string]float64, len(raw.Prices))
	for ticker, series := range raw.Prices {
		prices[strings.ToUpper(ticker)] = normalizeDateKeys(series)
	}

	return &Source{logger: logger, prices: prices, fx: normalizeDateKeys(raw.FX)}, nil
}

// NewSource builds a Source directly from in-memory tables.
func NewSource(prices map[string]map[string]float64, fx map[string]float64, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	normalized := make(map[string]map[string]float64, len(prices))
	for ticker, series := range prices {
		normalized[strings.ToUpper(ticker)] = normalizeDateKeys(series)
	}
	return &Source{logger: logger, prices: normalized, fx: normalizeDateKeys(fx)}
}

// YAML parses unquoted keys like 2025-06-02 as timestamps, and viper then
// stringifies them into "2025-06-02 00:00:00 +0000 utc". Reduce either that
// form or a quoted ISO key back to the plain ISO date so as-of lookups match.
func normalizeDateKeys(series map[string]float64) map[string]float64 {
	normalized := make(map[string]float64, len(series))
	for key, value := range series {
		normalized[normalizeDateKey(key)] = value
	}
	return normalized
}

func normalizeDateKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) >= len(constants.DateLayout) {
		prefix := key[:len(constants.DateLayout)]
		if _, err := time.Parse(constants.DateLayout, prefix); err == nil {
			return prefix
		}
	}
	return key
}

// PriceAsOf returns the last USD close for the ticker at or before the
// given date, searching back through the lookback window so weekends and
// market holidays resolve to the preceding trading day.
func (s *Source) PriceAsOf(ticker string, date time.Time) (float64, error) {
	series, ok := s.prices[strings.ToUpper(strings.TrimSpace(ticker))]
	if !ok {
		return 0, fmt.Errorf("no price series for ticker %s", ticker)
	}
	for i := 0; i <= constants.QuoteLookbackDays; i++ {
		key := date.AddDate(0, 0, -i).Format(constants.DateLayout)
		if price, ok := series[key]; ok {
			return price, nil
		}
	}
	return 0, fmt.Errorf("no %s close within %d days of %s",
		ticker, constants.QuoteLookbackDays, date.Format(constants.DateLayout))
}

// FXAsOf returns the USD/ILS rate at or before the given date within the
// lookback window, falling back to the default rate when the series has no
// nearby value.
func (s *Source) FXAsOf(date time.Time) float64 {
	for i := 0; i <= constants.QuoteLookbackDays; i++ {
		key := date.AddDate(0, 0, -i).Format(constants.DateLayout)
		if rate, ok := s.fx[key]; ok {
			return rate
		}
	}
	s.logger.Warn("no FX rate near date, using fallback",
		zap.String("op", "quotes.FXAsOf"),
		zap.String("date", date.Format(constants.DateLayout)),
		zap.Float64("fallback", constants.DefaultFXRate),
	)
	return constants.DefaultFXRate
}

// Bundle implements valuation.QuoteSource: it prices one grant's
// grant-date, vest-date, and sale-date values in the home currency. The
// vest-date value is only fetched on the ordinary-income route, where the
// classifier needs it.
func (s *Source) Bundle(grant valuation.Grant, saleDate time.Time) (valuation.QuoteBundle, error) {
	grantUSD, err := s.PriceAsOf(grant.Ticker, grant.GrantDate)
	if err != nil {
		return valuation.QuoteBundle{}, &valuation.PricingError{GrantID: grant.ID, Reason: err.Error()}
	}
	saleUSD, err := s.PriceAsOf(grant.Ticker, saleDate)
	if err != nil {
		return valuation.QuoteBundle{}, &valuation.PricingError{GrantID: grant.ID, Reason: err.Error()}
	}

	bundle := valuation.QuoteBundle{
		GrantValue: grantUSD * s.FXAsOf(grant.GrantDate),
		SaleValue:  saleUSD * s.FXAsOf(saleDate),
	}

	if grant.Route == valuation.RouteOrdinaryIncome {
		vestUSD, err := s.PriceAsOf(grant.Ticker, grant.VestDate)
		if err != nil {
			return valuation.QuoteBundle{}, &valuation.PricingError{GrantID: grant.ID, Reason: err.Error()}
		}
		bundle.VestValue = vestUSD * s.FXAsOf(grant.VestDate)
	}

	return bundle, nil
}
