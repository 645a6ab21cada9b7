package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/kafka"
	"github.com/Domenick1991/restate/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	Create(ctx context.Context, guestID string, input CreateBookingInput) (*domain.Booking, error)
	ListForGuest(ctx context.Context, guestID, status string) ([]domain.Booking, error)
	ListForAgent(ctx context.Context, agentID, status string) ([]domain.Booking, error)
	Get(ctx context.Context, userID, id string) (*domain.Booking, error)
	Accept(ctx context.Context, agentID, id string) (*domain.Booking, error)
	Reject(ctx context.Context, agentID, id, reason string) (*domain.Booking, error)
	Cancel(ctx context.Context, userID, id string) (*domain.Booking, error)
	CancellationQuote(ctx context.Context, userID, id string) (*domain.Refund, error)
	CompleteFinishedStays(ctx context.Context) ([]domain.Booking, error)
}

type Locker interface {
	AcquirePropertyLock(ctx context.Context, propertyID string, ttl time.Duration) (bool, error)
	ReleasePropertyLock(ctx context.Context, propertyID string) error
}

type EventEmitter interface {
	Emit(ctx context.Context, event kafka.Event)
}

type CreateBookingInput struct {
	PropertyID      string    `json:"property_id"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	NumberOfGuests  int       `json:"number_of_guests"`
	SpecialRequests string    `json:"special_requests"`
}

type BookingService struct {
	bookings   repository.BookingRepository
	properties repository.PropertyRepository
	payments   repository.PaymentRepository
	locker     Locker
	events     EventEmitter
	lockTTL    time.Duration
	now        func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	properties repository.PropertyRepository,
	payments repository.PaymentRepository,
	locker Locker,
	events EventEmitter,
	lockTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:   bookings,
		properties: properties,
		payments:   payments,
		locker:     locker,
		events:     events,
		lockTTL:    lockTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Create(ctx context.Context, guestID string, input CreateBookingInput) (*domain.Booking, error) {
	if input.NumberOfGuests < 1 {
		return nil, fmt.Errorf("%w: at least one guest is required", domain.ErrValidation)
	}

	property, err := s.properties.GetByID(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.AgentID == guestID {
		return nil, domain.ErrOwnProperty
	}

	quote, err := domain.NewQuote(property.PriceCents, input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, err
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if input.CheckIn.Before(today) {
		return nil, fmt.Errorf("%w: check-in cannot be in the past", domain.ErrValidation)
	}

	if s.locker != nil {
		ok, err := s.locker.AcquirePropertyLock(ctx, property.ID, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire property lock: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: another booking for this property is in progress, try again", domain.ErrConflict)
		}
		defer func() {
			if err := s.locker.ReleasePropertyLock(ctx, property.ID); err != nil {
				log.Printf("WARNING: failed to release lock for property %s: %v", property.ID, err)
			}
		}()
	}

	active, err := s.bookings.ListActiveForProperty(ctx, property.ID)
	if err != nil {
		return nil, err
	}
	for _, other := range active {
		if other.Overlaps(input.CheckIn, input.CheckOut) {
			return nil, domain.ErrDatesUnavailable
		}
	}

	booking := &domain.Booking{
		ID:                 uuid.NewString(),
		PropertyID:         property.ID,
		GuestID:            guestID,
		AgentID:            property.AgentID,
		CheckIn:            input.CheckIn,
		CheckOut:           input.CheckOut,
		NumberOfGuests:     input.NumberOfGuests,
		NumberOfNights:     quote.Nights,
		PricePerNightCents: quote.PricePerNightCents,
		SubtotalCents:      quote.SubtotalCents,
		ServiceFeeCents:    quote.ServiceFeeCents,
		TotalCents:         quote.TotalCents,
		Status:             domain.BookingStatusPending,
		PaymentStatus:      domain.PaymentStatusUnpaid,
		SpecialRequests:    strings.TrimSpace(input.SpecialRequests),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.emit(ctx, kafka.EventBookingRequested, booking, booking.AgentID, guestID, nil)
	return booking, nil
}

func (s *BookingService) ListForGuest(ctx context.Context, guestID, status string) ([]domain.Booking, error) {
	list, err := s.bookings.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	return domain.FilterBookings(list, status), nil
}

func (s *BookingService) ListForAgent(ctx context.Context, agentID, status string) ([]domain.Booking, error) {
	list, err := s.bookings.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	return domain.FilterBookings(list, status), nil
}

func (s *BookingService) Get(ctx context.Context, userID, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(userID) {
		return nil, fmt.Errorf("%w: not a party to this booking", domain.ErrForbidden)
	}
	return booking, nil
}

func (s *BookingService) Accept(ctx context.Context, agentID, id string) (*domain.Booking, error) {
	booking, err := s.forAgent(ctx, agentID, id)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus == domain.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: booking was already auto-confirmed", domain.ErrAlreadyPaid)
	}

	previous := booking.State()
	if err := booking.Transition(domain.BookingStatusConfirmed); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, booking, previous); err != nil {
		return nil, err
	}

	s.emit(ctx, kafka.EventBookingConfirmed, booking, booking.GuestID, agentID, nil)
	return booking, nil
}

func (s *BookingService) Reject(ctx context.Context, agentID, id, reason string) (*domain.Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a rejection reason is required", domain.ErrValidation)
	}

	booking, err := s.forAgent(ctx, agentID, id)
	if err != nil {
		return nil, err
	}

	previous := booking.State()
	if err := booking.Transition(domain.BookingStatusRejected); err != nil {
		return nil, err
	}
	booking.RejectionReason = reason
	if err := s.bookings.Update(ctx, booking, previous); err != nil {
		return nil, err
	}

	s.emit(ctx, kafka.EventBookingRejected, booking, booking.GuestID, agentID, func(e *kafka.Event) {
		e.Reason = reason
	})
	return booking, nil
}

// Cancel lets either party cancel a pending or confirmed booking. A paid
// booking is refunded according to domain.RefundFor.
func (s *BookingService) Cancel(ctx context.Context, userID, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	side, ok := booking.SideOf(userID)
	if !ok {
		return nil, fmt.Errorf("%w: not a party to this booking", domain.ErrForbidden)
	}

	previous := booking.State()
	if err := booking.Transition(domain.BookingStatusCancelled); err != nil {
		return nil, err
	}

	now := s.now()
	refund := domain.RefundFor(booking, now, side)
	booking.CancelledBy = side
	booking.CancelledAt = &now
	booking.RefundCents = refund.AmountCents

	if refund.AmountCents > 0 {
		if err := booking.TransitionPayment(domain.PaymentStatusRefunded); err != nil {
			return nil, err
		}
		paymentID := ""
		payment, err := s.payments.GetSucceededForBooking(ctx, booking.ID)
		switch {
		case err == nil:
			paymentID = payment.ID
		case errors.Is(err, domain.ErrNotFound):
			log.Printf("WARNING: paid booking %s has no succeeded payment to refund", booking.ID)
		default:
			return nil, err
		}
		if err := s.payments.RefundForBooking(ctx, paymentID, refund.AmountCents, booking, previous); err != nil {
			return nil, err
		}
	} else if err := s.bookings.Update(ctx, booking, previous); err != nil {
		return nil, err
	}

	s.emit(ctx, kafka.EventBookingCancelled, booking, booking.Counterparty(userID), userID, func(e *kafka.Event) {
		e.Reason = string(side)
		e.AmountCents = refund.AmountCents
	})
	if refund.AmountCents > 0 {
		s.emit(ctx, kafka.EventPaymentRefunded, booking, booking.GuestID, userID, func(e *kafka.Event) {
			e.AmountCents = refund.AmountCents
		})
	}
	return booking, nil
}

// CancellationQuote previews the refund the caller would trigger by cancelling now.
func (s *BookingService) CancellationQuote(ctx context.Context, userID, id string) (*domain.Refund, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	side, ok := booking.SideOf(userID)
	if !ok {
		return nil, fmt.Errorf("%w: not a party to this booking", domain.ErrForbidden)
	}
	if !booking.Status.CanTransitionTo(domain.BookingStatusCancelled) {
		return nil, fmt.Errorf("%w: %s booking cannot be cancelled", domain.ErrInvalidTransition, booking.Status)
	}
	refund := domain.RefundFor(booking, s.now(), side)
	return &refund, nil
}

// CompleteFinishedStays marks confirmed bookings whose check-out has passed as completed.
func (s *BookingService) CompleteFinishedStays(ctx context.Context) ([]domain.Booking, error) {
	finished, err := s.bookings.ListConfirmedEndingBefore(ctx, s.now())
	if err != nil {
		return nil, err
	}

	completed := make([]domain.Booking, 0, len(finished))
	for i := range finished {
		b := &finished[i]
		previous := b.State()
		if err := b.Transition(domain.BookingStatusCompleted); err != nil {
			continue
		}
		if err := s.bookings.Update(ctx, b, previous); err != nil {
			if !errors.Is(err, domain.ErrConflict) {
				log.Printf("complete booking %s: %v", b.ID, err)
			}
			continue
		}
		s.emit(ctx, kafka.EventBookingCompleted, b, b.GuestID, "", nil)
		completed = append(completed, *b)
	}
	return completed, nil
}

func (s *BookingService) forAgent(ctx context.Context, agentID, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.AgentID != agentID {
		return nil, fmt.Errorf("%w: only the host can respond to this booking", domain.ErrForbidden)
	}
	return booking, nil
}

func (s *BookingService) emit(ctx context.Context, eventType string, b *domain.Booking, recipientID, actorID string, decorate func(*kafka.Event)) {
	if s.events == nil || recipientID == "" {
		return
	}
	event := kafka.Event{
		Type:        eventType,
		RecipientID: recipientID,
		ActorID:     actorID,
		BookingID:   b.ID,
		PropertyID:  b.PropertyID,
		Status:      string(b.Status),
		AmountCents: b.TotalCents,
		OccurredAt:  s.now(),
	}
	if decorate != nil {
		decorate(&event)
	}
	s.events.Emit(ctx, event)
}

var _ BookingUseCase = (*BookingService)(nil)
