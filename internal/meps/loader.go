package meps

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Column aliases accepted in the CSV header, matched case-insensitively.
// MEPS consolidated files suffix the panel year (TOTCHR17, TOTEXP17), so a
// prefix match covers those too.
var (
	conditionAliases   = []string{"totchr", "chronic_conditions", "conditions"}
	expenditureAliases = []string{"totexp", "annual_expenditure", "expenditure"}
)

// LoadRecords reads a per-person expenditure CSV:
//
//   - The first row is a header naming at least the condition-count and
//     expenditure columns (see aliases above). Extra columns are ignored.
//   - Condition counts are non-negative integers.
//   - Expenditure cells are non-negative dollar amounts; empty, "NA" or "."
//     cells count as missing and are excluded from averaging downstream.
func LoadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	condIdx, err := findColumn(header, conditionAliases)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	expIdx, err := findColumn(header, expenditureAliases)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var (
		records []Record
		missing int
		row     int
	)

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+2, err)
		}

		// Skip completely empty lines
		if len(record) == 1 && record[0] == "" {
			continue
		}

		conditions, err := strconv.Atoi(strings.TrimSpace(record[condIdx]))
		if err != nil {
			return nil, fmt.Errorf("row %d: condition count %q is not an integer: %w", row+2, record[condIdx], err)
		}
		if conditions < 0 {
			return nil, fmt.Errorf("row %d: condition count %d is negative", row+2, conditions)
		}

		rec := Record{ChronicConditions: conditions}

		cell := strings.TrimSpace(record[expIdx])
		if isMissing(cell) {
			missing++
		} else {
			amount, err := decimal.NewFromString(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d: expenditure %q is not a number: %w", row+2, cell, err)
			}
			if amount.IsNegative() {
				return nil, fmt.Errorf("row %d: expenditure %s is negative", row+2, amount)
			}
			rec.Expenditure = amount
			rec.HasExpenditure = true
		}

		records = append(records, rec)
		row++
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	log.Debug().
		Str("path", path).
		Int("records", len(records)).
		Int("missing_expenditure", missing).
		Msg("Loaded expenditure records")

	return records, nil
}

func findColumn(header []string, aliases []string) (int, error) {
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(name))
		for _, alias := range aliases {
			if normalized == alias || strings.HasPrefix(normalized, alias) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("no column matching %v in header %v", aliases, header)
}

func isMissing(cell string) bool {
	switch strings.ToUpper(cell) {
	case "", ".", "NA", "N/A":
		return true
	}
	return false
}
