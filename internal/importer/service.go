package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/lodgeguard/lodgeguard/internal/contribution"
	"github.com/lodgeguard/lodgeguard/internal/idempotency"
)

type Service struct {
	parser        *Parser
	contributions *contribution.Service
}

func NewService(contributions *contribution.Service) *Service {
	return &Service{
		parser:        NewParser(),
		contributions: contributions,
	}
}

// Result summarizes one import. Duplicates are rows whose payload digest was
// already recorded; re-uploading a file is expected to produce only
// duplicates.
type Result struct {
	Imported   int
	Duplicates int
	Skipped    int
}

// Import parses an export file and records each row as a contribution. No
// explicit idempotency key is passed: the guard derives one from the row
// payload, so the same (reference, date, amount) never lands twice.
func (s *Service) Import(ctx context.Context, orgID, actorID string, r io.Reader) (*Result, error) {
	records, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	for _, rec := range records {
		params := contribution.RecordParams{
			OrgID:   orgID,
			Amount:  rec.Amount,
			ActorID: actorID,
			Payload: map[string]any{
				"reference":   rec.Reference,
				"occurred_at": rec.OccurredAt.Format(time.DateOnly),
				"amount":      rec.Amount.String(),
			},
		}

		switch rec.Source {
		case contribution.SourcePayroll:
			err = s.contributions.RecordPayroll(ctx, params)
		case contribution.SourcePOS:
			err = s.contributions.RecordPOS(ctx, params)
		}

		switch {
		case err == nil:
			result.Imported++
		case errors.Is(err, idempotency.ErrReplay):
			result.Duplicates++
		case errors.Is(err, contribution.ErrInvalidAmount):
			result.Skipped++
		default:
			return nil, fmt.Errorf("importing row %q: %w", rec.Reference, err)
		}
	}

	return result, nil
}
