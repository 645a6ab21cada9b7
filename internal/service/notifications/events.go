package notifications

import (
	"fmt"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/kafka"
)

var categories = map[domain.NotificationType]domain.NotificationCategory{
	domain.NotificationBookingRequested: domain.CategoryBookings,
	domain.NotificationBookingConfirmed: domain.CategoryBookings,
	domain.NotificationBookingRejected:  domain.CategoryBookings,
	domain.NotificationBookingCancelled: domain.CategoryBookings,
	domain.NotificationBookingCompleted: domain.CategoryBookings,
	domain.NotificationPaymentReceived:  domain.CategoryPayments,
	domain.NotificationPaymentRefunded:  domain.CategoryPayments,
	domain.NotificationReviewPosted:     domain.CategoryReviews,
	domain.NotificationPayoutCompleted:  domain.CategoryPayouts,
}

func CategoryOf(t domain.NotificationType) domain.NotificationCategory {
	if c, ok := categories[t]; ok {
		return c
	}
	return domain.CategorySystem
}

// FromEvent describes a domain event as a notification for its recipient.
// It reports false for events nobody should be notified about.
func FromEvent(e kafka.Event) (SendInput, bool) {
	if e.RecipientID == "" {
		return SendInput{}, false
	}

	input := SendInput{
		UserID:   e.RecipientID,
		Type:     domain.NotificationType(e.Type),
		Priority: domain.PriorityNormal,
		Data:     eventData(e),
	}
	bookingURL := "/bookings/" + e.BookingID

	switch e.Type {
	case kafka.EventBookingRequested:
		input.Title = "New booking request"
		input.Message = fmt.Sprintf("You have a new booking request worth %s.", formatAmount(e.AmountCents))
		input.ActionURL = bookingURL
		input.Priority = domain.PriorityHigh
	case kafka.EventBookingConfirmed:
		input.Title = "Booking confirmed"
		input.Message = "Your booking has been confirmed by the host."
		input.ActionURL = bookingURL
		input.Priority = domain.PriorityHigh
	case kafka.EventBookingRejected:
		input.Title = "Booking declined"
		input.Message = "The host declined your booking request."
		if e.Reason != "" {
			input.Message = fmt.Sprintf("The host declined your booking request: %s", e.Reason)
		}
		input.ActionURL = bookingURL
	case kafka.EventBookingCancelled:
		input.Title = "Booking cancelled"
		input.Message = fmt.Sprintf("The %s cancelled the booking.", cancelledBy(e.Reason))
		if e.AmountCents > 0 {
			input.Message += fmt.Sprintf(" A refund of %s will be issued.", formatAmount(e.AmountCents))
		}
		input.ActionURL = bookingURL
		input.Priority = domain.PriorityHigh
	case kafka.EventBookingCompleted:
		input.Title = "How was your stay?"
		input.Message = "Your stay is over. Leave a review to help other guests."
		input.ActionURL = "/properties/" + e.PropertyID
		input.Priority = domain.PriorityLow
	case kafka.EventPaymentReceived:
		input.Title = "Payment received"
		input.Message = fmt.Sprintf("A payment of %s was made for your booking.", formatAmount(e.AmountCents))
		if e.Reason != "" {
			input.Message = fmt.Sprintf("A payment of %s was made for your booking (%s).", formatAmount(e.AmountCents), e.Reason)
		}
		if e.Status == string(domain.PaymentRecordPending) {
			input.Title = "Payment pending"
			input.Message = fmt.Sprintf("The guest chose to pay %s offline. Mark it received once settled.", formatAmount(e.AmountCents))
		}
		input.ActionURL = bookingURL
	case kafka.EventPaymentRefunded:
		input.Title = "Refund issued"
		input.Message = fmt.Sprintf("%s has been refunded to your payment method.", formatAmount(e.AmountCents))
		input.ActionURL = bookingURL
	case kafka.EventReviewPosted:
		input.Title = "New review"
		input.Message = "A guest reviewed one of your properties."
		input.ActionURL = "/properties/" + e.PropertyID
		input.Priority = domain.PriorityLow
	case kafka.EventPayoutCompleted:
		input.Title = "Payout sent"
		input.Message = fmt.Sprintf("A payout of %s has been sent to you.", formatAmount(e.AmountCents))
		input.ActionURL = "/earnings"
	default:
		return SendInput{}, false
	}
	return input, true
}

func eventData(e kafka.Event) map[string]any {
	data := map[string]any{}
	add := func(key, value string) {
		if value != "" {
			data[key] = value
		}
	}
	add("booking_id", e.BookingID)
	add("property_id", e.PropertyID)
	add("payment_id", e.PaymentID)
	add("payout_id", e.PayoutID)
	add("review_id", e.ReviewID)
	add("actor_id", e.ActorID)
	if e.AmountCents != 0 {
		data["amount_cents"] = e.AmountCents
	}
	return data
}

func cancelledBy(side string) string {
	if side == string(domain.CancelledByAgent) {
		return "host"
	}
	return "guest"
}

func formatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
