package banking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway talks to the partner bank that holds the designated accounts.
// Amounts cross the wire as integer minor units (cents).
type Gateway struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewGateway(baseURL, apiKey string, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Gateway{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type CreditRequest struct {
	OrgID     string
	AccountID string
	Amount    decimal.Decimal
	Source    string
	ActorID   string
}

type CreditResponse struct {
	Status             Status
	PartnerReference   string
	ClientReference    string
	SettledAmountCents int64
}

type partnerPayload struct {
	Status             string `json:"status"`
	PartnerReference   string `json:"partnerReference"`
	SettledAmountCents *int64 `json:"settledAmountCents"`
}

// CreditDesignatedAccount pushes a credit to the partner. The request is
// validated locally first; a fresh client reference is generated per attempt
// so a retry never aliases an earlier in-flight credit.
func (g *Gateway) CreditDesignatedAccount(ctx context.Context, req CreditRequest) (*CreditResponse, error) {
	cents, err := toCents(req.Amount)
	if err != nil {
		return nil, err
	}

	clientRef := uuid.NewString()

	body := map[string]any{
		"orgId":           req.OrgID,
		"accountId":       req.AccountID,
		"amountCents":     cents,
		"source":          req.Source,
		"actorId":         req.ActorID,
		"clientReference": clientRef,
	}

	payload, err := g.post(ctx, "/designated-accounts/credit", body)
	if err != nil {
		return nil, err
	}

	resp, err := normalize(payload)
	if err != nil {
		return nil, err
	}

	resp.ClientReference = clientRef

	switch resp.Status {
	case StatusPending:
		return nil, &PartnerError{Reference: resp.PartnerReference, Err: ErrPartnerPending}
	case StatusRejected:
		return nil, &PartnerError{Reference: resp.PartnerReference, Err: ErrPartnerRejected}
	}

	if resp.SettledAmountCents != 0 && resp.SettledAmountCents != cents {
		return nil, &PartnerError{Reference: resp.PartnerReference, Err: ErrAmountMismatch}
	}

	return resp, nil
}

// SimulateDebitAttempt probes the partner's debit endpoint and must always
// return an error: ErrDebitBlocked when the partner refuses (the healthy
// outcome) or ErrDebitPolicyViolation when it would accept. One-way accounts
// must never be drawable down.
func (g *Gateway) SimulateDebitAttempt(ctx context.Context, accountID string, amount decimal.Decimal) error {
	cents, err := toCents(amount)
	if err != nil {
		return err
	}

	body := map[string]any{
		"accountId":       accountID,
		"amountCents":     cents,
		"clientReference": uuid.NewString(),
	}

	payload, err := g.post(ctx, "/designated-accounts/debit", body)
	if err != nil {
		var pe *PartnerError
		if errors.As(err, &pe) || errors.Is(err, ErrInvalidResponse) || errors.Is(err, ErrPartnerTimeout) {
			return ErrDebitBlocked
		}

		return err
	}

	resp, err := normalize(payload)
	if err != nil {
		return ErrDebitBlocked
	}

	if resp.Status == StatusAccepted || resp.Status == StatusSettled {
		return &PartnerError{Reference: resp.PartnerReference, Err: ErrDebitPolicyViolation}
	}

	return ErrDebitBlocked
}

// AccountBalance reads the partner-reported balance of a designated account.
func (g *Gateway) AccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/designated-accounts/%s/balance", g.baseURL, url.PathEscape(accountID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("creating request: %w", err)
	}

	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return decimal.Zero, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, &PartnerError{Err: fmt.Errorf("%w: balance fetch returned status %d", ErrInvalidResponse, resp.StatusCode)}
	}

	var payload struct {
		Balance string `json:"balance"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, &PartnerError{Err: fmt.Errorf("%w: %v", ErrInvalidResponse, err)}
	}

	balance, err := decimal.NewFromString(payload.Balance)
	if err != nil {
		return decimal.Zero, &PartnerError{Err: fmt.Errorf("%w: unparseable balance %q", ErrInvalidResponse, payload.Balance)}
	}

	return balance, nil
}

// LockAccount advises the partner to block outgoing transfers while a
// shortfall persists.
func (g *Gateway) LockAccount(ctx context.Context, accountID string, shortfall decimal.Decimal) error {
	path := fmt.Sprintf("/designated-accounts/%s/lock", url.PathEscape(accountID))

	_, err := g.post(ctx, path, map[string]any{"shortfall": shortfall.String()})

	return err
}

func (g *Gateway) post(ctx context.Context, path string, body map[string]any) (*partnerPayload, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &PartnerError{Err: fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)}
	}

	var payload partnerPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &PartnerError{Err: fmt.Errorf("%w: %v", ErrInvalidResponse, err)}
	}

	return &payload, nil
}

func (g *Gateway) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")

	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}
}

func normalize(payload *partnerPayload) (*CreditResponse, error) {
	if strings.TrimSpace(payload.PartnerReference) == "" {
		return nil, &PartnerError{Err: fmt.Errorf("%w: missing partnerReference", ErrInvalidResponse)}
	}

	status := Status(strings.ToUpper(payload.Status))

	switch status {
	case StatusAccepted, StatusSettled, StatusPending, StatusRejected:
	default:
		return nil, &PartnerError{
			Reference: payload.PartnerReference,
			Err:       fmt.Errorf("%w: unknown status %q", ErrInvalidResponse, payload.Status),
		}
	}

	resp := &CreditResponse{
		Status:           status,
		PartnerReference: payload.PartnerReference,
	}

	if payload.SettledAmountCents != nil {
		resp.SettledAmountCents = *payload.SettledAmountCents
	}

	return resp, nil
}

// toCents converts an exact decimal amount to integer minor units, rejecting
// anything that rounds to zero or below.
func toCents(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, ErrInvalidAmount
	}

	cents := amount.Shift(2).Round(0).IntPart()
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}

	return cents, nil
}

func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &PartnerError{Err: ErrPartnerTimeout}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &PartnerError{Err: ErrPartnerTimeout}
	}

	return fmt.Errorf("calling banking partner: %w", err)
}
