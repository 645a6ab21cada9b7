package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type CancelledBy string

const (
	CancelledByGuest CancelledBy = "guest"
	CancelledByAgent CancelledBy = "agent"
)

var bookingTransitions = map[BookingStatus]map[BookingStatus]struct{}{
	BookingStatusPending: {
		BookingStatusConfirmed: {},
		BookingStatusRejected:  {},
		BookingStatusCancelled: {},
	},
	BookingStatusConfirmed: {
		BookingStatusCancelled: {},
		BookingStatusCompleted: {},
	},
	BookingStatusRejected:  {},
	BookingStatusCancelled: {},
	BookingStatusCompleted: {},
}

var paymentTransitions = map[PaymentStatus]map[PaymentStatus]struct{}{
	PaymentStatusUnpaid:   {PaymentStatusPaid: {}},
	PaymentStatusPaid:     {PaymentStatusRefunded: {}},
	PaymentStatusRefunded: {},
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	allowed, ok := bookingTransitions[s]
	if !ok {
		return false
	}
	_, ok = allowed[next]
	return ok
}

func (s BookingStatus) Terminal() bool {
	return s.Valid() && len(bookingTransitions[s]) == 0
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	allowed, ok := paymentTransitions[s]
	if !ok {
		return false
	}
	_, ok = allowed[next]
	return ok
}

type Booking struct {
	ID                 string        `json:"id"`
	PropertyID         string        `json:"property_id"`
	GuestID            string        `json:"guest_id"`
	AgentID            string        `json:"agent_id"`
	CheckIn            time.Time     `json:"check_in"`
	CheckOut           time.Time     `json:"check_out"`
	NumberOfGuests     int           `json:"number_of_guests"`
	NumberOfNights     int           `json:"number_of_nights"`
	PricePerNightCents int64         `json:"price_per_night_cents"`
	SubtotalCents      int64         `json:"subtotal_cents"`
	ServiceFeeCents    int64         `json:"service_fee_cents"`
	TotalCents         int64         `json:"total_cents"`
	Status             BookingStatus `json:"status"`
	PaymentStatus      PaymentStatus `json:"payment_status"`
	SpecialRequests    string        `json:"special_requests,omitempty"`
	RejectionReason    string        `json:"rejection_reason,omitempty"`
	CancelledBy        CancelledBy   `json:"cancelled_by,omitempty"`
	RefundCents        int64         `json:"refund_cents"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// BookingState is the pair of statuses a stored booking update is conditioned on.
type BookingState struct {
	Status        BookingStatus
	PaymentStatus PaymentStatus
}

// State snapshots the booking and payment status before a transition.
func (b *Booking) State() BookingState {
	return BookingState{Status: b.Status, PaymentStatus: b.PaymentStatus}
}

// Transition moves the booking to next or returns ErrInvalidTransition.
func (b *Booking) Transition(next BookingStatus) error {
	if !b.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}
	b.Status = next
	return nil
}

// TransitionPayment moves the payment status to next or returns ErrInvalidTransition.
func (b *Booking) TransitionPayment(next PaymentStatus) error {
	if !b.PaymentStatus.CanTransitionTo(next) {
		return fmt.Errorf("%w: payment %s -> %s", ErrInvalidTransition, b.PaymentStatus, next)
	}
	b.PaymentStatus = next
	return nil
}

// Overlaps reports whether [checkIn, checkOut) intersects the booked stay.
// Back-to-back stays (check-out day == check-in day) do not overlap.
func (b *Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckIn.Before(checkOut) && checkIn.Before(b.CheckOut)
}

// Blocking reports whether the booking holds its dates on the calendar.
func (b *Booking) Blocking() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

func (b *Booking) IsParty(userID string) bool {
	return userID != "" && (b.GuestID == userID || b.AgentID == userID)
}

// SideOf returns which side of the booking userID is on.
func (b *Booking) SideOf(userID string) (CancelledBy, bool) {
	switch userID {
	case "":
		return "", false
	case b.GuestID:
		return CancelledByGuest, true
	case b.AgentID:
		return CancelledByAgent, true
	default:
		return "", false
	}
}

// Counterparty returns the other participant of the booking.
func (b *Booking) Counterparty(userID string) string {
	if userID == b.GuestID {
		return b.AgentID
	}
	return b.GuestID
}

// FilterBookings keeps the bookings with the given status. An empty status
// or "all" returns the input unchanged.
func FilterBookings(bookings []Booking, status string) []Booking {
	if status == "" || status == "all" {
		return bookings
	}
	filtered := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if string(b.Status) == status {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
