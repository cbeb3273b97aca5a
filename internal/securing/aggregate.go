package securing

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lodgeguard/lodgeguard/internal/contribution"
)

// Schedule controls the aggregation bucket size.
type Schedule string

const (
	ScheduleDaily  Schedule = "daily"
	ScheduleWeekly Schedule = "weekly"
)

var ErrUnknownSchedule = errors.New("unknown securing schedule")

// Batch is an ephemeral grouping of unapplied contributions for one
// (source, bucket). Never persisted; rebuilt on every aggregation run.
type Batch struct {
	BatchStart      time.Time
	Source          contribution.Source
	TotalAmount     decimal.Decimal
	ContributionIDs []uuid.UUID
}

// Aggregate groups unapplied contributions into time buckets. Daily buckets
// start at UTC midnight, weekly buckets at the most recent Monday UTC
// midnight. Only buckets that have fully elapsed are returned: the bucket
// containing now is always excluded, so a contribution becomes eligible
// exactly once and partial periods never settle. Batches come back ordered
// by bucket start ascending.
func Aggregate(entries []*contribution.Contribution, schedule Schedule, now time.Time) ([]Batch, error) {
	if schedule != ScheduleDaily && schedule != ScheduleWeekly {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchedule, schedule)
	}

	currentBucket := bucketStart(now, schedule)

	type key struct {
		source contribution.Source
		start  time.Time
	}

	groups := make(map[key]*Batch)

	for _, entry := range entries {
		bucket := bucketStart(entry.CreatedAt, schedule)
		if !bucket.Before(currentBucket) {
			continue
		}

		k := key{source: entry.Source, start: bucket}

		batch, ok := groups[k]
		if !ok {
			batch = &Batch{BatchStart: bucket, Source: entry.Source}
			groups[k] = batch
		}

		batch.TotalAmount = batch.TotalAmount.Add(entry.Amount)
		batch.ContributionIDs = append(batch.ContributionIDs, entry.ID)
	}

	batches := make([]Batch, 0, len(groups))
	for _, batch := range groups {
		batches = append(batches, *batch)
	}

	sort.Slice(batches, func(i, j int) bool {
		if !batches[i].BatchStart.Equal(batches[j].BatchStart) {
			return batches[i].BatchStart.Before(batches[j].BatchStart)
		}

		return batches[i].Source < batches[j].Source
	})

	return batches, nil
}

func bucketStart(t time.Time, schedule Schedule) time.Time {
	utc := t.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)

	if schedule == ScheduleDaily {
		return midnight
	}

	// Monday-anchored week: Monday=0 ... Sunday=6.
	daysSinceMonday := (int(utc.Weekday()) + 6) % 7

	return midnight.AddDate(0, 0, -daysSinceMonday)
}
