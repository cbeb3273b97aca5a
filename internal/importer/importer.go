// Package importer ingests CSV exports from payroll and point-of-sale
// systems as contributions. The export format is auto-detected from column
// headers, and re-uploading the same file is safe: each row deduplicates
// through the idempotency guard on its payload digest.
package importer

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/contribution"
)

// ErrUnknownFormat means no known export profile matched the file's headers.
var ErrUnknownFormat = errors.New("no matching export format found")

// Record is one tax-relevant row extracted from an export file.
type Record struct {
	Source     contribution.Source
	Reference  string
	OccurredAt time.Time
	Amount     decimal.Decimal
}
