// Package constants provides shared constants for the rsu-optimizer application.
package constants

// DateLayout is the ISO date format expected in config files, quote files,
// and grant CSVs; it is also the output date format.
const DateLayout = "2006-01-02"

// Tax constants
const (
	// DefaultCapitalGainsRate is the flat rate applied to net capital gains.
	// The 30% substantial-shareholder rate is out of scope.
	DefaultCapitalGainsRate = 0.25

	// HoldingPeriodMonths is the trustee holding period required from the
	// grant date for capital-gains treatment under Section 102.
	HoldingPeriodMonths = 24
)

// Quote constants
const (
	// DefaultFXRate is the USD/ILS rate used when the quotes file has no
	// rate within the lookback window of the requested date.
	DefaultFXRate = 3.8

	// QuoteLookbackDays bounds the as-of search for prices and FX rates.
	QuoteLookbackDays = 7
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"
)

// Currency constants
const (
	// DecimalPlaces is the precision for currency rounding (2 decimal places)
	DecimalPlaces = 2

	// HomeCurrency is the ISO code all monetary values are converted into.
	HomeCurrency = "ILS"
)
