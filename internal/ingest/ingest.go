// Package ingest reads, cleans, and validates tabular grant records. It
// hands the rest of the application pre-validated grants: non-empty ticker,
// positive units, vest date at or after grant date.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/rsu-optimizer/internal/valuation"
	"github.com/iwvelando/rsu-optimizer/pkg/datetime"
	"go.uber.org/zap"
)

// Required CSV columns. The Section 102 column is optional; absent routes
// ingest as the capital-gains track.
var requiredColumns = []string{
	"Company name",
	"Stock Code",
	"Grant date",
	"Vesting date",
	"Number of units",
}

const routeColumn = "Section 102"

// LoadCSV reads grant records from the CSV file at the given path.
func LoadCSV(path string, logger *zap.Logger) ([]valuation.Grant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening grants file, %s", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Read(f, logger)
}

// Read parses grant records from r. Rows are cleaned the way the upstream
// sheet exports require: tickers trimmed and uppercased, company names
// trimmed, dates parsed day-first, rows with no sellable units dropped.
// Grants keep file order and receive GRANT-<n> identifiers.
func Read(r io.Reader, logger *zap.Logger) ([]valuation.Grant, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header, %s", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	if missing := missingColumns(index); len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var grants []valuation.Grant
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d, %s", row+1, err)
		}
		row++

		grant, ok := cleanRecord(record, index, row, logger)
		if !ok {
			continue
		}
		grant.ID = fmt.Sprintf("GRANT-%d", len(grants)+1)
		grants = append(grants, grant)
	}

	return grants, nil
}

func missingColumns(index map[string]int) []string {
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// cleanRecord standardizes one CSV row into a Grant, reporting false for
// rows that cannot produce a sellable grant.
func cleanRecord(record []string, index map[string]int, row int, logger *zap.Logger) (valuation.Grant, bool) {
	ticker := strings.ToUpper(strings.TrimSpace(field(record, index, "Stock Code")))
	if ticker == "" {
		logger.Warn("dropping row with empty stock code",
			zap.String("op", "ingest.Read"),
			zap.Int("row", row),
		)
		return valuation.Grant{}, false
	}

	units, err := strconv.Atoi(strings.TrimSpace(field(record, index, "Number of units")))
	if err != nil || units <= 0 {
		logger.Debug("dropping row without sellable units",
			zap.String("op", "ingest.Read"),
			zap.Int("row", row),
			zap.String("ticker", ticker),
		)
		return valuation.Grant{}, false
	}

	grantDate, err := datetime.ParseInput(field(record, index, "Grant date"))
	if err != nil {
		logger.Warn("dropping row with unparseable grant date",
			zap.String("op", "ingest.Read"),
			zap.Int("row", row),
			zap.String("ticker", ticker),
			zap.Error(err),
		)
		return valuation.Grant{}, false
	}
	vestDate, err := datetime.ParseInput(field(record, index, "Vesting date"))
	if err != nil {
		logger.Warn("dropping row with unparseable vesting date",
			zap.String("op", "ingest.Read"),
			zap.Int("row", row),
			zap.String("ticker", ticker),
			zap.Error(err),
		)
		return valuation.Grant{}, false
	}
	if vestDate.Before(grantDate) {
		logger.Warn("dropping row whose vesting date precedes its grant date",
			zap.String("op", "ingest.Read"),
			zap.Int("row", row),
			zap.String("ticker", ticker),
		)
		return valuation.Grant{}, false
	}

	return valuation.Grant{
		Company:   strings.TrimSpace(field(record, index, "Company name")),
		Ticker:    ticker,
		GrantDate: grantDate,
		VestDate:  vestDate,
		Units:     units,
		Route:     valuation.ParseRoute(field(record, index, routeColumn)),
	}, true
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}
