// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/iwvelando/rsu-optimizer/internal/tax"
	"github.com/iwvelando/rsu-optimizer/pkg/constants"
	"github.com/iwvelando/rsu-optimizer/pkg/datetime"
	"github.com/iwvelando/rsu-optimizer/pkg/validation"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DateLayout is the format expected in config files and is also the output
// date format.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for rsu-optimizer.
type Configuration struct {
	Tax           TaxConfig     `yaml:"tax,omitempty"`
	Income        float64       `yaml:"income,omitempty"`
	TargetCeiling float64       `yaml:"targetCeiling,omitempty"`
	SaleDate      string        `yaml:"saleDate,omitempty"`
	GrantsFile    string        `yaml:"grantsFile,omitempty"`
	QuotesFile    string        `yaml:"quotesFile,omitempty"`
	Logging       LoggingConfig `yaml:"logging,omitempty"`
	Output        OutputConfig  `yaml:"output,omitempty"`
}

// TaxConfig holds the tax year's bracket schedule and capital-gains rate.
// The rate is a pointer so an explicit zero is distinguishable from an
// omitted value.
type TaxConfig struct {
	Brackets         []BracketConfig `yaml:"brackets,omitempty"`
	CapitalGainsRate *float64        `yaml:"capitalGainsRate,omitempty"`
}

// BracketConfig is one rung of the progressive schedule as written in the
// config file. The last entry omits upTo for the unbounded top bracket.
type BracketConfig struct {
	UpTo float64 `yaml:"upTo,omitempty"`
	Rate float64 `yaml:"rate"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// DefaultBrackets is the Israeli 2025 ordinary-income schedule, used when
// the config file does not carry its own.
func DefaultBrackets() []BracketConfig {
	return []BracketConfig{
		{UpTo: 84120, Rate: 0.10},
		{UpTo: 120720, Rate: 0.14},
		{UpTo: 193800, Rate: 0.20},
		{UpTo: 269280, Rate: 0.31},
		{UpTo: 560280, Rate: 0.35},
		{UpTo: 721560, Rate: 0.47},
		{Rate: 0.50},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there, filling defaults for anything omitted.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		timeToISOHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.ApplyDefaults()
	return &configuration, nil
}

// YAML decodes an unquoted date such as 2025-06-01 into time.Time; render
// it back to the ISO string the configuration schema expects.
func timeToISOHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if f == reflect.TypeOf(time.Time{}) && t.Kind() == reflect.String {
		return data.(time.Time).Format(DateLayout), nil
	}
	return data, nil
}

// ApplyDefaults fills unset values: the bracket schedule, the capital-gains
// rate, and a sale date of today.
func (conf *Configuration) ApplyDefaults() {
	if len(conf.Tax.Brackets) == 0 {
		conf.Tax.Brackets = DefaultBrackets()
	}
	if conf.Tax.CapitalGainsRate == nil {
		rate := constants.DefaultCapitalGainsRate
		conf.Tax.CapitalGainsRate = &rate
	}
	if conf.SaleDate == "" {
		conf.SaleDate = time.Now().Format(DateLayout)
	}
}

// Schedule converts the configured brackets into a validated tax schedule.
// A malformed schedule is a fatal ConfigurationError.
func (conf *Configuration) Schedule() (*tax.Schedule, error) {
	brackets := make([]tax.Bracket, len(conf.Tax.Brackets))
	lower := 0.0
	for i, bracket := range conf.Tax.Brackets {
		upper := bracket.UpTo
		if i == len(conf.Tax.Brackets)-1 && bracket.UpTo == 0 {
			upper = math.Inf(1)
		}
		brackets[i] = tax.Bracket{Lower: lower, Upper: upper, Rate: bracket.Rate}
		lower = upper
	}
	return tax.NewSchedule(brackets)
}

// ParseSaleDate parses the configured assumed sale date.
func (conf *Configuration) ParseSaleDate() (time.Time, error) {
	saleDate, err := datetime.ParseInput(conf.SaleDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid sale date %q: %w", conf.SaleDate, err)
	}
	return saleDate, nil
}

// ValidateConfiguration performs general validation of the configuration
// and returns warnings.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	warnings = append(warnings, validation.CeilingWarnings(conf.Income, conf.TargetCeiling)...)

	rates := make([]float64, len(conf.Tax.Brackets))
	for i, bracket := range conf.Tax.Brackets {
		rates[i] = bracket.Rate
	}
	warnings = append(warnings, validation.BracketRateWarnings(rates)...)

	if conf.Tax.CapitalGainsRate != nil && *conf.Tax.CapitalGainsRate > 0.5 {
		warnings = append(warnings, fmt.Sprintf("capital gains rate %.2f is unusually high", *conf.Tax.CapitalGainsRate))
	}

	return warnings
}
