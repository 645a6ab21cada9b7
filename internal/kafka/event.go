package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

const (
	EventBookingRequested = "booking_requested"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingRejected  = "booking_rejected"
	EventBookingCancelled = "booking_cancelled"
	EventBookingCompleted = "booking_completed"
	EventPaymentReceived  = "payment_received"
	EventPaymentRefunded  = "payment_refunded"
	EventReviewPosted     = "review_posted"
	EventPayoutCompleted  = "payout_completed"
)

// Event is a domain event addressed to the user who should hear about it.
type Event struct {
	Type        string    `json:"type"`
	RecipientID string    `json:"recipient_id"`
	ActorID     string    `json:"actor_id,omitempty"`
	BookingID   string    `json:"booking_id,omitempty"`
	PropertyID  string    `json:"property_id,omitempty"`
	PaymentID   string    `json:"payment_id,omitempty"`
	PayoutID    string    `json:"payout_id,omitempty"`
	ReviewID    string    `json:"review_id,omitempty"`
	Status      string    `json:"status,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func DecodeEvent(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Emitter fans an event out to the events topic and the notifications topic.
// Failures are logged and never returned.
type Emitter struct {
	producer           Publisher
	eventsTopic        string
	notificationsTopic string
}

func NewEmitter(producer Publisher, eventsTopic, notificationsTopic string) *Emitter {
	return &Emitter{
		producer:           producer,
		eventsTopic:        eventsTopic,
		notificationsTopic: notificationsTopic,
	}
}

func (e *Emitter) Emit(ctx context.Context, event Event) {
	if e == nil || e.producer == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	for _, topic := range []string{e.eventsTopic, e.notificationsTopic} {
		if topic == "" {
			continue
		}
		if err := e.producer.Publish(ctx, topic, event.RecipientID, event); err != nil {
			log.Printf("WARNING: failed to publish %s event to %s for %s: %v", event.Type, topic, event.RecipientID, err)
		}
	}
}
