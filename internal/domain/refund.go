package domain

import "time"

type RefundTier string

const (
	RefundTierFull          RefundTier = "full"
	RefundTierHalf          RefundTier = "half"
	RefundTierNone          RefundTier = "none"
	RefundTierHostCancelled RefundTier = "host_cancelled"
)

const (
	FullRefundMinDays = 7
	HalfRefundMinDays = 3
)

type Refund struct {
	Tier             RefundTier `json:"tier"`
	AmountCents      int64      `json:"amount_cents"`
	DaysUntilCheckIn int        `json:"days_until_check_in"`
}

// RefundFor applies the cancellation policy. Guests get the stay price back
// (never the service fee) depending on notice; a host cancellation refunds
// everything. Nothing is refunded for a booking that was never paid.
func RefundFor(b *Booking, now time.Time, by CancelledBy) Refund {
	days := DaysUntil(b.CheckIn, now)
	refundable := b.TotalCents - b.ServiceFeeCents

	r := Refund{DaysUntilCheckIn: days}
	switch {
	case by == CancelledByAgent:
		r.Tier = RefundTierHostCancelled
		r.AmountCents = b.TotalCents
	case days >= FullRefundMinDays:
		r.Tier = RefundTierFull
		r.AmountCents = refundable
	case days >= HalfRefundMinDays:
		r.Tier = RefundTierHalf
		r.AmountCents = PercentOf(refundable, 50)
	default:
		r.Tier = RefundTierNone
	}

	if b.PaymentStatus != PaymentStatusPaid {
		r.AmountCents = 0
	}
	return r
}

func (r Refund) Message() string {
	switch r.Tier {
	case RefundTierFull:
		return "You will receive a full refund (excluding service fee)."
	case RefundTierHalf:
		return "You will receive a 50% refund."
	case RefundTierHostCancelled:
		return "The guest will receive a full refund."
	default:
		return "No refund will be issued as per the cancellation policy."
	}
}
