package domain

import (
	"fmt"
	"sort"
	"time"
)

type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusFailed     PayoutStatus = "failed"
)

var payoutTransitions = map[PayoutStatus]map[PayoutStatus]struct{}{
	PayoutStatusPending: {PayoutStatusProcessing: {}},
	PayoutStatusProcessing: {
		PayoutStatusCompleted: {},
		PayoutStatusFailed:    {},
	},
	PayoutStatusFailed:    {PayoutStatusProcessing: {}},
	PayoutStatusCompleted: {},
}

func (s PayoutStatus) CanTransitionTo(next PayoutStatus) bool {
	allowed, ok := payoutTransitions[s]
	if !ok {
		return false
	}
	_, ok = allowed[next]
	return ok
}

type Payout struct {
	ID            string       `json:"id"`
	AgentID       string       `json:"agent_id"`
	AmountCents   int64        `json:"amount_cents"`
	Currency      string       `json:"currency"`
	Status        PayoutStatus `json:"status"`
	ScheduledDate time.Time    `json:"scheduled_date"`
	CompletedDate *time.Time   `json:"completed_date,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Transition moves the payout to next or returns ErrInvalidTransition.
func (p *Payout) Transition(next PayoutStatus) error {
	if !p.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: payout %s -> %s", ErrInvalidTransition, p.Status, next)
	}
	p.Status = next
	return nil
}

type Earnings struct {
	TotalEarnedCents   int64      `json:"total_earned_cents"`
	PendingPayoutCents int64      `json:"pending_payout_cents"`
	NextPayoutDate     *time.Time `json:"next_payout_date,omitempty"`
}

// ComputeEarnings summarises an agent's income: succeeded payments on stays
// that went ahead, payouts not yet completed and the next scheduled payout.
func ComputeEarnings(payments []Payment, payouts []Payout) Earnings {
	var e Earnings
	for _, p := range payments {
		if p.Status != PaymentRecordSucceeded {
			continue
		}
		if p.BookingStatus == BookingStatusConfirmed || p.BookingStatus == BookingStatusCompleted {
			e.TotalEarnedCents += p.AmountCents
		}
	}

	upcoming := make([]Payout, 0, len(payouts))
	for _, p := range payouts {
		if p.Status != PayoutStatusCompleted {
			e.PendingPayoutCents += p.AmountCents
		}
		if p.Status == PayoutStatusPending || p.Status == PayoutStatusProcessing {
			upcoming = append(upcoming, p)
		}
	}
	if len(upcoming) > 0 {
		sort.Slice(upcoming, func(i, j int) bool {
			return upcoming[i].ScheduledDate.Before(upcoming[j].ScheduledDate)
		})
		next := upcoming[0].ScheduledDate
		e.NextPayoutDate = &next
	}
	return e
}
