package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Parser reads source-system CSV exports and produces contribution records.
// The format is auto-detected by matching column headers against known
// profiles; preamble and footer rows around the data block are tolerated.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]Record, error) {
	utf8r, err := decodeUTF8(r)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrUnknownFormat
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts records from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]Record, error) {
	dateIdx := cols[p.DateCol]
	refIdx := cols[p.RefCol]

	var records []Record

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		occurredAt, ok := parseDate(row, dateIdx)
		if !ok {
			continue
		}

		ref := cellValue(row, refIdx)
		if ref == "" {
			return nil, fmt.Errorf("row %d: missing reference", rowNum)
		}

		amount, ok := parseProfileAmount(p, cols, row)
		if !ok {
			continue
		}

		records = append(records, Record{
			Source:     p.Source,
			Reference:  ref,
			OccurredAt: occurredAt,
			Amount:     amount,
		})
	}

	return records, nil
}

// parseDate returns false for empty or unparseable cells (footer rows, etc).
func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// parseProfileAmount extracts the tax amount based on the profile's amount
// mode. Rows that net out to zero or below carry no securable tax and are
// skipped.
func parseProfileAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, bool) {
	switch p.AmountMode {
	case amountSingle:
		amount, err := parseAmount(cellValue(row, cols[p.AmountCol]))
		if err != nil || !amount.IsPositive() {
			return decimal.Zero, false
		}

		return amount, true
	case amountNet:
		collected, err := parseAmount(cellValue(row, cols[p.CollectedCol]))
		if err != nil {
			return decimal.Zero, false
		}

		refunded := decimal.Zero
		if s := cellValue(row, cols[p.RefundedCol]); s != "" {
			refunded, err = parseAmount(s)
			if err != nil {
				return decimal.Zero, false
			}
		}

		net := collected.Sub(refunded)
		if !net.IsPositive() {
			return decimal.Zero, false
		}

		return net, true
	}

	return decimal.Zero, false
}

// parseAmount accepts plain decimals with optional thousands separators:
// "1,234.56" -> 1234.56.
func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
