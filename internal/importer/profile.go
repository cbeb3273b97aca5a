package importer

import "github.com/lodgeguard/lodgeguard/internal/contribution"

// amountMode determines how the tax amount is extracted from a row.
type amountMode int

const (
	// amountSingle means one column carrying the withheld or collected amount.
	amountSingle amountMode = iota
	// amountNet means separate collected and refunded columns; the record
	// carries the net.
	amountNet
)

// Profile describes the column layout of one source-system export format.
// Supporting a new format is just another entry in the profiles slice.
type Profile struct {
	Name         string
	Source       contribution.Source
	DateCol      string
	RefCol       string
	AmountMode   amountMode
	AmountCol    string // used when AmountMode == amountSingle
	CollectedCol string // used when AmountMode == amountNet
	RefundedCol  string // used when AmountMode == amountNet
}

// requiredCols returns the column names that must be present for this
// profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.RefCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountNet:
		cols = append(cols, p.CollectedCol, p.RefundedCol)
	}

	return cols
}

// profiles is the ordered list of export formats to try during
// auto-detection. More specific profiles come first.
var profiles = []Profile{
	{
		Name:         "pos-settlement",
		Source:       contribution.SourcePOS,
		DateCol:      "Business Date",
		RefCol:       "Terminal",
		AmountMode:   amountNet,
		CollectedCol: "Tax Collected",
		RefundedCol:  "Tax Refunded",
	},
	{
		Name:       "payroll-run",
		Source:     contribution.SourcePayroll,
		DateCol:    "Pay Date",
		RefCol:     "Employee Ref",
		AmountMode: amountSingle,
		AmountCol:  "Tax Withheld",
	},
}
