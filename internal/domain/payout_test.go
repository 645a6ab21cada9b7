package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEarnings(t *testing.T) {
	soon := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	later := soon.AddDate(0, 0, 7)

	payments := []Payment{
		{AmountCents: 10_000, Status: PaymentRecordSucceeded, BookingStatus: BookingStatusConfirmed},
		{AmountCents: 5_000, Status: PaymentRecordSucceeded, BookingStatus: BookingStatusCompleted},
		{AmountCents: 7_000, Status: PaymentRecordSucceeded, BookingStatus: BookingStatusCancelled},
		{AmountCents: 3_000, Status: PaymentRecordPending, BookingStatus: BookingStatusConfirmed},
		{AmountCents: 1_000, Status: PaymentRecordRefunded, BookingStatus: BookingStatusCompleted},
	}
	payouts := []Payout{
		{AmountCents: 4_000, Status: PayoutStatusPending, ScheduledDate: later},
		{AmountCents: 2_000, Status: PayoutStatusProcessing, ScheduledDate: soon},
		{AmountCents: 9_000, Status: PayoutStatusCompleted, ScheduledDate: soon.AddDate(0, 0, -7)},
		{AmountCents: 500, Status: PayoutStatusFailed, ScheduledDate: soon.AddDate(0, 0, -1)},
	}

	e := ComputeEarnings(payments, payouts)
	assert.Equal(t, int64(15_000), e.TotalEarnedCents)
	assert.Equal(t, int64(6_500), e.PendingPayoutCents)
	require.NotNil(t, e.NextPayoutDate)
	assert.True(t, e.NextPayoutDate.Equal(soon))
}

func TestComputeEarnings_Empty(t *testing.T) {
	e := ComputeEarnings(nil, nil)
	assert.Zero(t, e.TotalEarnedCents)
	assert.Zero(t, e.PendingPayoutCents)
	assert.Nil(t, e.NextPayoutDate)
}

func TestPayoutStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to PayoutStatus
		want     bool
	}{
		{PayoutStatusPending, PayoutStatusProcessing, true},
		{PayoutStatusPending, PayoutStatusCompleted, false},
		{PayoutStatusProcessing, PayoutStatusCompleted, true},
		{PayoutStatusProcessing, PayoutStatusFailed, true},
		{PayoutStatusFailed, PayoutStatusProcessing, true},
		{PayoutStatusFailed, PayoutStatusCompleted, false},
		{PayoutStatusCompleted, PayoutStatusFailed, false},
		{"bogus", PayoutStatusProcessing, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestPayout_Transition(t *testing.T) {
	p := &Payout{Status: PayoutStatusCompleted}
	assert.ErrorIs(t, p.Transition(PayoutStatusProcessing), ErrInvalidTransition)
	assert.Equal(t, PayoutStatusCompleted, p.Status)

	p.Status = PayoutStatusFailed
	require.NoError(t, p.Transition(PayoutStatusProcessing))
	assert.Equal(t, PayoutStatusProcessing, p.Status)
}
