package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/kafka"
	"github.com/Domenick1991/restate/internal/repository"
	"github.com/google/uuid"
)

type PaymentUseCase interface {
	Pay(ctx context.Context, userID string, input PayInput) (*domain.Payment, *domain.Booking, error)
	Settle(ctx context.Context, agentID, paymentID string) (*domain.Payment, *domain.Booking, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Payment, error)
	ListForAgent(ctx context.Context, agentID string) ([]domain.Payment, error)
	Earnings(ctx context.Context, agentID string) (domain.Earnings, error)
}

type EventEmitter interface {
	Emit(ctx context.Context, event kafka.Event)
}

type PayInput struct {
	BookingID  string               `json:"booking_id"`
	Method     domain.PaymentMethod `json:"method"`
	CardNumber string               `json:"card_number"`
}

type PaymentService struct {
	payments repository.PaymentRepository
	bookings repository.BookingRepository
	payouts  repository.PayoutRepository
	events   EventEmitter
	currency string
	now      func() time.Time
}

type PaymentServiceOption func(*PaymentService)

func WithClock(now func() time.Time) PaymentServiceOption {
	return func(s *PaymentService) {
		s.now = now
	}
}

func NewPaymentService(
	payments repository.PaymentRepository,
	bookings repository.BookingRepository,
	payouts repository.PayoutRepository,
	events EventEmitter,
	currency string,
	opts ...PaymentServiceOption,
) *PaymentService {
	service := &PaymentService{
		payments: payments,
		bookings: bookings,
		payouts:  payouts,
		events:   events,
		currency: currency,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Pay charges the booking total. Card payments succeed immediately and
// auto-confirm a pending booking; offline methods wait for Settle, one at a
// time per booking. Once the booking is paid any offline payment still
// pending is failed by the repository.
func (s *PaymentService) Pay(ctx context.Context, userID string, input PayInput) (*domain.Payment, *domain.Booking, error) {
	if !input.Method.Valid() {
		return nil, nil, fmt.Errorf("%w: unsupported payment method %q", domain.ErrValidation, input.Method)
	}
	gatewayResponse := ""
	if input.Method == domain.PaymentMethodCard {
		gatewayResponse = domain.CardGatewayResponse(input.CardNumber)
		if gatewayResponse == "" {
			return nil, nil, fmt.Errorf("%w: card number is required", domain.ErrValidation)
		}
	}

	booking, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking.GuestID != userID {
		return nil, nil, fmt.Errorf("%w: only the guest can pay for this booking", domain.ErrForbidden)
	}
	if booking.PaymentStatus != domain.PaymentStatusUnpaid {
		return nil, nil, domain.ErrAlreadyPaid
	}
	if !booking.Blocking() {
		return nil, nil, fmt.Errorf("%w: %s booking cannot be paid", domain.ErrInvalidTransition, booking.Status)
	}
	if input.Method != domain.PaymentMethodCard {
		pending, err := s.payments.HasPendingForBooking(ctx, booking.ID)
		if err != nil {
			return nil, nil, err
		}
		if pending {
			return nil, nil, fmt.Errorf("%w: an offline payment is already awaiting settlement", domain.ErrConflict)
		}
	}

	payment := &domain.Payment{
		ID:              uuid.NewString(),
		BookingID:       booking.ID,
		UserID:          userID,
		AgentID:         booking.AgentID,
		AmountCents:     booking.TotalCents,
		Currency:        s.currency,
		Method:          input.Method,
		Gateway:         input.Method.Gateway(),
		TransactionID:   "PAY-" + uuid.NewString(),
		Status:          domain.PaymentRecordPending,
		GatewayResponse: gatewayResponse,
	}

	previous := booking.State()
	if input.Method == domain.PaymentMethodCard {
		payment.Status = domain.PaymentRecordSucceeded
		if err := markPaid(booking); err != nil {
			return nil, nil, err
		}
	}
	payment.BookingStatus = booking.Status

	if err := s.payments.CreateForBooking(ctx, payment, booking, previous); err != nil {
		return nil, nil, err
	}

	s.emit(ctx, payment, booking)
	return payment, booking, nil
}

// Settle records that the agent received an offline payment.
func (s *PaymentService) Settle(ctx context.Context, agentID, paymentID string) (*domain.Payment, *domain.Booking, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	if payment.AgentID != agentID {
		return nil, nil, fmt.Errorf("%w: payment belongs to another agent", domain.ErrForbidden)
	}
	if payment.Status != domain.PaymentRecordPending {
		return nil, nil, fmt.Errorf("%w: payment is %s", domain.ErrInvalidTransition, payment.Status)
	}

	booking, err := s.bookings.GetByID(ctx, payment.BookingID)
	if err != nil {
		return nil, nil, err
	}
	if !booking.Blocking() {
		return nil, nil, fmt.Errorf("%w: %s booking cannot be paid", domain.ErrInvalidTransition, booking.Status)
	}

	previous := booking.State()
	if err := markPaid(booking); err != nil {
		return nil, nil, err
	}
	payment.Status = domain.PaymentRecordSucceeded
	payment.BookingStatus = booking.Status

	if err := s.payments.SettleForBooking(ctx, payment, booking, previous); err != nil {
		return nil, nil, err
	}

	s.emit(ctx, payment, booking)
	return payment, booking, nil
}

func (s *PaymentService) ListForUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}

func (s *PaymentService) ListForAgent(ctx context.Context, agentID string) ([]domain.Payment, error) {
	return s.payments.ListByAgent(ctx, agentID)
}

func (s *PaymentService) Earnings(ctx context.Context, agentID string) (domain.Earnings, error) {
	payments, err := s.payments.ListByAgent(ctx, agentID)
	if err != nil {
		return domain.Earnings{}, err
	}
	payouts, err := s.payouts.ListByAgent(ctx, agentID)
	if err != nil {
		return domain.Earnings{}, err
	}
	return domain.ComputeEarnings(payments, payouts), nil
}

func markPaid(b *domain.Booking) error {
	if err := b.TransitionPayment(domain.PaymentStatusPaid); err != nil {
		return err
	}
	if b.Status == domain.BookingStatusPending {
		return b.Transition(domain.BookingStatusConfirmed)
	}
	return nil
}

func (s *PaymentService) emit(ctx context.Context, p *domain.Payment, b *domain.Booking) {
	if s.events == nil {
		return
	}
	s.events.Emit(ctx, kafka.Event{
		Type:        kafka.EventPaymentReceived,
		RecipientID: b.AgentID,
		ActorID:     p.UserID,
		BookingID:   b.ID,
		PropertyID:  b.PropertyID,
		PaymentID:   p.ID,
		Status:      string(p.Status),
		AmountCents: p.AmountCents,
		Reason:      p.MethodLabel(),
		OccurredAt:  s.now(),
	})
}

var _ PaymentUseCase = (*PaymentService)(nil)
