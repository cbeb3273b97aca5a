package banking

import (
	"errors"
	"fmt"
)

// Status is the partner's view of a credit request.
type Status string

const (
	StatusAccepted Status = "ACCEPTED"
	StatusSettled  Status = "SETTLED"
	StatusPending  Status = "PENDING"
	StatusRejected Status = "REJECTED"
)

var (
	// ErrInvalidAmount rejects non-positive credit amounts before any network call.
	ErrInvalidAmount = errors.New("credit amount must be positive")

	// ErrPartnerPending means the partner has not settled the credit yet.
	// Retryable with bounded backoff.
	ErrPartnerPending = errors.New("banking partner left the credit pending")

	// ErrPartnerTimeout means the partner did not answer within the bounded
	// wait. Retryable; no local transfer may be applied.
	ErrPartnerTimeout = errors.New("banking partner timed out")

	// ErrPartnerRejected is terminal; requires manual reconciliation.
	ErrPartnerRejected = errors.New("banking partner rejected the credit")

	// ErrAmountMismatch means the partner settled a different amount than
	// requested. Terminal; requires manual reconciliation.
	ErrAmountMismatch = errors.New("banking partner settled a mismatched amount")

	// ErrInvalidResponse covers missing or malformed partner references and
	// statuses. Terminal.
	ErrInvalidResponse = errors.New("banking partner returned an invalid response")

	// ErrDebitBlocked is the expected outcome of a debit probe: designated
	// accounts are one-way and the partner must refuse withdrawals.
	ErrDebitBlocked = errors.New("debit attempts against designated accounts are blocked")

	// ErrDebitPolicyViolation means the partner accepted a debit against a
	// one-way account. Fatal invariant violation; must alert operators.
	ErrDebitPolicyViolation = errors.New("partner accepted a debit against a designated account")
)

// PartnerError wraps a partner failure with the reference needed for
// reconciliation.
type PartnerError struct {
	Reference string
	Err       error
}

func (e *PartnerError) Error() string {
	if e.Reference == "" {
		return e.Err.Error()
	}

	return fmt.Sprintf("%s (partner reference %s)", e.Err.Error(), e.Reference)
}

func (e *PartnerError) Unwrap() error { return e.Err }

// Retryable reports whether the caller may retry the credit. Only the
// pending and timeout classes are retryable; every other partner failure is
// terminal.
func Retryable(err error) bool {
	return errors.Is(err, ErrPartnerPending) || errors.Is(err, ErrPartnerTimeout)
}
