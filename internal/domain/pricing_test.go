package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuote(t *testing.T) {
	checkIn := time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC)

	q, err := NewQuote(12_000, checkIn, checkIn.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, int64(36_000), q.SubtotalCents)
	assert.Equal(t, int64(3_600), q.ServiceFeeCents)
	assert.Equal(t, int64(39_600), q.TotalCents)
}

func TestNewQuote_PartialDayCountsAsNight(t *testing.T) {
	checkIn := time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC)

	q, err := NewQuote(10_005, checkIn, checkIn.Add(30*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, q.Nights)
	assert.Equal(t, int64(20_010), q.SubtotalCents)
	assert.Equal(t, int64(2_001), q.ServiceFeeCents)
}

func TestNewQuote_Validation(t *testing.T) {
	checkIn := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		price    int64
		checkIn  time.Time
		checkOut time.Time
		errText  string
	}{
		{"zero price", 0, checkIn, checkIn.AddDate(0, 0, 1), "nightly price must be positive"},
		{"missing dates", 100, time.Time{}, checkIn, "dates are required"},
		{"same day", 100, checkIn, checkIn, "check-out must be after check-in"},
		{"reversed", 100, checkIn, checkIn.AddDate(0, 0, -1), "check-out must be after check-in"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewQuote(tc.price, tc.checkIn, tc.checkOut)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 7, DaysUntil(now.AddDate(0, 0, 7), now))
	assert.Equal(t, 7, DaysUntil(now.Add(6*24*time.Hour+time.Hour), now))
	assert.Equal(t, 1, DaysUntil(now.Add(time.Minute), now))
	assert.Equal(t, 0, DaysUntil(now, now))
	assert.Equal(t, -1, DaysUntil(now.AddDate(0, 0, -1), now))
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, int64(10), PercentOf(100, 10))
	assert.Equal(t, int64(1), PercentOf(5, 10))
	assert.Equal(t, int64(0), PercentOf(4, 10))
	assert.Equal(t, int64(50), PercentOf(99, 50))
}
