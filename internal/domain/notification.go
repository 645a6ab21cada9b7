package domain

import "time"

type NotificationType string

const (
	NotificationBookingRequested NotificationType = "booking_requested"
	NotificationBookingConfirmed NotificationType = "booking_confirmed"
	NotificationBookingRejected  NotificationType = "booking_rejected"
	NotificationBookingCancelled NotificationType = "booking_cancelled"
	NotificationBookingCompleted NotificationType = "booking_completed"
	NotificationPaymentReceived  NotificationType = "payment_received"
	NotificationPaymentRefunded  NotificationType = "payment_refunded"
	NotificationReviewPosted     NotificationType = "review_posted"
	NotificationPayoutCompleted  NotificationType = "payout_completed"
	NotificationSystem           NotificationType = "system"
)

type NotificationCategory string

const (
	CategoryBookings NotificationCategory = "bookings"
	CategoryPayments NotificationCategory = "payments"
	CategoryReviews  NotificationCategory = "reviews"
	CategoryPayouts  NotificationCategory = "payouts"
	CategorySystem   NotificationCategory = "system"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

type Notification struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id"`
	Type      NotificationType     `json:"type"`
	Category  NotificationCategory `json:"category"`
	Priority  NotificationPriority `json:"priority"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	ActionURL string               `json:"action_url,omitempty"`
	ImageURL  string               `json:"image_url,omitempty"`
	Data      map[string]any       `json:"data,omitempty"`
	IsRead    bool                 `json:"is_read"`
	ReadAt    *time.Time           `json:"read_at,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

type NotificationPreferences struct {
	UserID      string    `json:"user_id"`
	Bookings    bool      `json:"bookings"`
	Payments    bool      `json:"payments"`
	Reviews     bool      `json:"reviews"`
	Payouts     bool      `json:"payouts"`
	System      bool      `json:"system"`
	PushEnabled bool      `json:"push_enabled"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func DefaultPreferences(userID string) NotificationPreferences {
	return NotificationPreferences{
		UserID:      userID,
		Bookings:    true,
		Payments:    true,
		Reviews:     true,
		Payouts:     true,
		System:      true,
		PushEnabled: true,
	}
}

// Allows reports whether the user accepts notifications of category c.
// Unknown categories are allowed.
func (p NotificationPreferences) Allows(c NotificationCategory) bool {
	switch c {
	case CategoryBookings:
		return p.Bookings
	case CategoryPayments:
		return p.Payments
	case CategoryReviews:
		return p.Reviews
	case CategoryPayouts:
		return p.Payouts
	case CategorySystem:
		return p.System
	}
	return true
}

type PreferencesPatch struct {
	Bookings    *bool `json:"bookings"`
	Payments    *bool `json:"payments"`
	Reviews     *bool `json:"reviews"`
	Payouts     *bool `json:"payouts"`
	System      *bool `json:"system"`
	PushEnabled *bool `json:"push_enabled"`
}

func (p NotificationPreferences) Apply(patch PreferencesPatch) NotificationPreferences {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Bookings, patch.Bookings)
	set(&p.Payments, patch.Payments)
	set(&p.Reviews, patch.Reviews)
	set(&p.Payouts, patch.Payouts)
	set(&p.System, patch.System)
	set(&p.PushEnabled, patch.PushEnabled)
	return p
}

type Device struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}
