package securing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodgeguard/lodgeguard/internal/contribution"
	"github.com/lodgeguard/lodgeguard/internal/securing"
)

func entry(source contribution.Source, amount string, createdAt time.Time) *contribution.Contribution {
	return &contribution.Contribution{
		ID:        uuid.New(),
		OrgID:     "org-123",
		Source:    source,
		Amount:    decimal.RequireFromString(amount),
		CreatedAt: createdAt,
	}
}

func TestAggregate_DailyGroupsBySourceAndBucket(t *testing.T) {
	now := time.Date(2026, 1, 14, 10, 30, 0, 0, time.UTC)
	yesterday := time.Date(2026, 1, 13, 9, 0, 0, 0, time.UTC)
	dayBefore := time.Date(2026, 1, 12, 23, 59, 59, 0, time.UTC)

	entries := []*contribution.Contribution{
		entry(contribution.SourcePayroll, "100.00", yesterday),
		entry(contribution.SourcePayroll, "50.50", yesterday.Add(4*time.Hour)),
		entry(contribution.SourcePOS, "30.00", yesterday),
		entry(contribution.SourcePayroll, "75.00", dayBefore),
	}

	batches, err := securing.Aggregate(entries, securing.ScheduleDaily, now)
	require.NoError(t, err)
	require.Len(t, batches, 3)

	assert.Equal(t, time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), batches[0].BatchStart)
	assert.Equal(t, contribution.SourcePayroll, batches[0].Source)
	assert.True(t, batches[0].TotalAmount.Equal(decimal.RequireFromString("75.00")))

	assert.Equal(t, time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC), batches[1].BatchStart)
	assert.Equal(t, contribution.SourcePayroll, batches[1].Source)
	assert.True(t, batches[1].TotalAmount.Equal(decimal.RequireFromString("150.50")))
	assert.Len(t, batches[1].ContributionIDs, 2)

	assert.Equal(t, contribution.SourcePOS, batches[2].Source)
	assert.True(t, batches[2].TotalAmount.Equal(decimal.RequireFromString("30.00")))
}

func TestAggregate_CurrentBucketExcluded(t *testing.T) {
	now := time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)

	entries := []*contribution.Contribution{
		entry(contribution.SourcePayroll, "100.00", now.Add(-time.Hour)),
		entry(contribution.SourcePayroll, "200.00", time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)),
	}

	batches, err := securing.Aggregate(entries, securing.ScheduleDaily, now)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestAggregate_WeeklyAnchorsOnMonday(t *testing.T) {
	// 2026-01-14 is a Wednesday; its week bucket starts Monday 2026-01-12.
	now := time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)

	sameWeek := entry(contribution.SourcePayroll, "40.00", time.Date(2026, 1, 13, 8, 0, 0, 0, time.UTC))
	lastSunday := entry(contribution.SourcePayroll, "10.00", time.Date(2026, 1, 11, 23, 0, 0, 0, time.UTC))
	lastSaturday := entry(contribution.SourcePayroll, "20.00", time.Date(2026, 1, 10, 6, 0, 0, 0, time.UTC))

	batches, err := securing.Aggregate(
		[]*contribution.Contribution{sameWeek, lastSunday, lastSaturday},
		securing.ScheduleWeekly, now)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), batches[0].BatchStart)
	assert.True(t, batches[0].TotalAmount.Equal(decimal.RequireFromString("30.00")))
	assert.Len(t, batches[0].ContributionIDs, 2)
}

func TestAggregate_RerunIsIdempotent(t *testing.T) {
	now := time.Date(2026, 1, 14, 10, 0, 0, 0, time.UTC)

	entries := []*contribution.Contribution{
		entry(contribution.SourcePayroll, "100.00", now.AddDate(0, 0, -1)),
		entry(contribution.SourcePOS, "25.00", now.AddDate(0, 0, -2)),
	}

	first, err := securing.Aggregate(entries, securing.ScheduleDaily, now)
	require.NoError(t, err)

	second, err := securing.Aggregate(entries, securing.ScheduleDaily, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregate_UnknownSchedule(t *testing.T) {
	_, err := securing.Aggregate(nil, securing.Schedule("monthly"), time.Now())
	assert.ErrorIs(t, err, securing.ErrUnknownSchedule)
}

func TestAggregate_NoEntries(t *testing.T) {
	batches, err := securing.Aggregate(nil, securing.ScheduleDaily, time.Now())
	require.NoError(t, err)
	assert.Empty(t, batches)
}
