package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/rsu-optimizer/internal/config"
	"github.com/iwvelando/rsu-optimizer/internal/ingest"
	"github.com/iwvelando/rsu-optimizer/internal/optimizer"
	"github.com/iwvelando/rsu-optimizer/internal/quotes"
	"github.com/iwvelando/rsu-optimizer/internal/summary"
	"github.com/iwvelando/rsu-optimizer/internal/valuation"
	"github.com/iwvelando/rsu-optimizer/pkg/constants"
	"github.com/iwvelando/rsu-optimizer/pkg/output"
	"github.com/iwvelando/rsu-optimizer/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "console"
	}

	// Configure encoder
	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	grantsFile := flag.String("grants", "", "path to grants CSV (overrides config)")
	quotesFile := flag.String("quotes", "", "path to quotes file (overrides config)")
	saleDate := flag.String("sale-date", "", "assumed sale date override (YYYY-MM-DD)")
	income := flag.Float64("income", -1, "current annual taxable income override")
	ceiling := flag.Float64("ceiling", -1, "target bracket ceiling override")
	sell := flag.String("sell", "", `manual allocation directives, e.g. "GRANT-1:50, GRANT-2:30" (bypasses the greedy ranking)`)
	sellFallback := flag.Bool("sell-fallback", false, "zero-sell grants whose manual directive exceeds holdings instead of failing the run")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s (see %s for the expected layout)\", \"error\": \"%v\"}\n", *configLocation, constants.ExampleConfigFile, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over config
	if *grantsFile != "" {
		conf.GrantsFile = *grantsFile
	}
	if *quotesFile != "" {
		conf.QuotesFile = *quotesFile
	}
	if *saleDate != "" {
		conf.SaleDate = *saleDate
	}
	if *income >= 0 {
		conf.Income = *income
	}
	if *ceiling >= 0 {
		conf.TargetCeiling = *ceiling
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// The bracket schedule is a precondition; a malformed one is fatal
	// before any computation.
	schedule, err := conf.Schedule()
	if err != nil {
		logger.Fatal("invalid bracket schedule",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	assumedSaleDate, err := conf.ParseSaleDate()
	if err != nil {
		logger.Fatal("failed to parse sale date",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if conf.GrantsFile == "" {
		logger.Fatal("no grants file specified (use -grants or grantsFile in the config)",
			zap.String("op", "main"),
		)
	}
	grants, err := ingest.LoadCSV(conf.GrantsFile, logger)
	if err != nil {
		logger.Fatal("failed to load grant records",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if conf.QuotesFile == "" {
		logger.Fatal("no quotes file specified (use -quotes or quotesFile in the config)",
			zap.String("op", "main"),
		)
	}
	quoteSource, err := quotes.Load(conf.QuotesFile, logger)
	if err != nil {
		logger.Fatal("failed to load quotes",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Price and classify the batch; pricing failures exclude individual
	// grants without aborting the run.
	classified, exclusions := valuation.AssembleBatch(logger, grants, quoteSource, assumedSaleDate)

	params := optimizer.Parameters{
		CurrentIncome:    conf.Income,
		TargetCeiling:    conf.TargetCeiling,
		Schedule:         schedule,
		CapitalGainsRate: *conf.Tax.CapitalGainsRate,
	}

	var result *optimizer.Result
	if *sell != "" {
		directives, err := optimizer.ParseDirectives(*sell)
		if err != nil {
			logger.Fatal("failed to parse manual allocation directives",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		result, err = optimizer.OptimizeManual(logger, params, classified, directives, *sellFallback)
		if err != nil {
			logger.Fatal("manual allocation failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	} else {
		result, err = optimizer.Optimize(logger, params, classified)
		if err != nil {
			logger.Fatal("optimization failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	report := summary.Aggregate(result, exclusions, conf.Income, conf.TargetCeiling)

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(report)
	case constants.OutputFormatCSV:
		output.CsvFormat(report)
	}
}
