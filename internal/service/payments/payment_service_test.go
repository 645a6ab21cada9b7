package payments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/kafka"
	"github.com/Domenick1991/restate/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	payments *mocks.PaymentRepository
	bookings *mocks.BookingRepository
	payouts  *mocks.PayoutRepository
	events   *mocks.EventRecorder
	service  *PaymentService
}

func newFixture() *fixture {
	f := &fixture{
		payments: &mocks.PaymentRepository{},
		bookings: &mocks.BookingRepository{},
		payouts:  &mocks.PayoutRepository{},
		events:   &mocks.EventRecorder{},
	}
	f.service = NewPaymentService(f.payments, f.bookings, f.payouts, f.events, "USD",
		WithClock(func() time.Time { return fixedNow }))
	return f
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:            "b1",
		PropertyID:    "p1",
		GuestID:       "guest",
		AgentID:       "agent",
		TotalCents:    33000,
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
	}
}

func unpaid(status domain.BookingStatus) domain.BookingState {
	return domain.BookingState{Status: status, PaymentStatus: domain.PaymentStatusUnpaid}
}

func TestPaymentService_Pay_CardAutoConfirms(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b := pendingBooking()
	f.bookings.On("GetByID", ctx, "b1").Return(b, nil)
	f.payments.On("CreateForBooking", ctx, mock.AnythingOfType("*domain.Payment"), b, unpaid(domain.BookingStatusPending)).Return(nil)

	payment, booking, err := f.service.Pay(ctx, "guest", PayInput{
		BookingID: "b1", Method: domain.PaymentMethodCard, CardNumber: "4242 4242 4242 1234",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRecordSucceeded, payment.Status)
	assert.Equal(t, int64(33000), payment.AmountCents)
	assert.Equal(t, "USD", payment.Currency)
	assert.Equal(t, "mock-card", payment.Gateway)
	assert.True(t, strings.HasPrefix(payment.TransactionID, "PAY-"))
	assert.Equal(t, "1234", payment.Last4())
	assert.Equal(t, "Card •••• 1234", payment.MethodLabel())

	assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, domain.PaymentStatusPaid, booking.PaymentStatus)

	require.Len(t, f.events.Events, 1)
	assert.Equal(t, kafka.EventPaymentReceived, f.events.Last().Type)
	assert.Equal(t, "agent", f.events.Last().RecipientID)
	f.payments.AssertExpectations(t)
}

func TestPaymentService_Pay_OfflineStaysUnpaid(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b := pendingBooking()
	f.bookings.On("GetByID", ctx, "b1").Return(b, nil)
	f.payments.On("HasPendingForBooking", ctx, "b1").Return(false, nil)
	f.payments.On("CreateForBooking", ctx, mock.AnythingOfType("*domain.Payment"), b, unpaid(domain.BookingStatusPending)).Return(nil)

	payment, booking, err := f.service.Pay(ctx, "guest", PayInput{BookingID: "b1", Method: domain.PaymentMethodCash})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRecordPending, payment.Status)
	assert.Equal(t, "cash", payment.Gateway)
	assert.Equal(t, "Pay on arrival", payment.MethodLabel())
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	assert.Equal(t, domain.PaymentStatusUnpaid, booking.PaymentStatus)
}

func TestPaymentService_Pay_ConfirmedBookingChargedOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first := pendingBooking()
	first.Status = domain.BookingStatusConfirmed
	second := pendingBooking()
	second.Status = domain.BookingStatusConfirmed
	f.bookings.On("GetByID", ctx, "b1").Return(first, nil).Once()
	f.bookings.On("GetByID", ctx, "b1").Return(second, nil).Once()

	var guards []domain.BookingState
	f.payments.On("CreateForBooking", ctx, mock.AnythingOfType("*domain.Payment"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			guards = append(guards, args.Get(3).(domain.BookingState))
		}).Return(nil).Once()
	f.payments.On("CreateForBooking", ctx, mock.AnythingOfType("*domain.Payment"), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			guards = append(guards, args.Get(3).(domain.BookingState))
		}).Return(domain.ErrConflict).Once()

	card := PayInput{BookingID: "b1", Method: domain.PaymentMethodCard, CardNumber: "4242424242424242"}
	_, booking, err := f.service.Pay(ctx, "guest", card)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, domain.PaymentStatusPaid, booking.PaymentStatus)

	_, _, err = f.service.Pay(ctx, "guest", card)
	assert.ErrorIs(t, err, domain.ErrConflict)

	want := unpaid(domain.BookingStatusConfirmed)
	assert.Equal(t, []domain.BookingState{want, want}, guards)
	assert.Len(t, f.events.Events, 1)
}

func TestPaymentService_Pay_OfflineWhilePendingRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "b1").Return(pendingBooking(), nil)
	f.payments.On("HasPendingForBooking", ctx, "b1").Return(true, nil)

	_, _, err := f.service.Pay(ctx, "guest", PayInput{BookingID: "b1", Method: domain.PaymentMethodBankTransfer})

	assert.ErrorIs(t, err, domain.ErrConflict)
	f.payments.AssertNotCalled(t, "CreateForBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.events.Events)
}

func TestPaymentService_Pay_CardSkipsPendingLookup(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b := pendingBooking()
	f.bookings.On("GetByID", ctx, "b1").Return(b, nil)
	f.payments.On("CreateForBooking", ctx, mock.AnythingOfType("*domain.Payment"), b, unpaid(domain.BookingStatusPending)).Return(nil)

	_, _, err := f.service.Pay(ctx, "guest", PayInput{BookingID: "b1", Method: domain.PaymentMethodCard, CardNumber: "4000000000000002"})

	require.NoError(t, err)
	f.payments.AssertNotCalled(t, "HasPendingForBooking", mock.Anything, mock.Anything)
}

func TestPaymentService_Pay_Errors(t *testing.T) {
	paid := pendingBooking()
	paid.Status = domain.BookingStatusConfirmed
	paid.PaymentStatus = domain.PaymentStatusPaid

	rejected := pendingBooking()
	rejected.Status = domain.BookingStatusRejected

	tests := []struct {
		name    string
		userID  string
		input   PayInput
		booking *domain.Booking
		wantErr error
	}{
		{"unknown method", "guest", PayInput{BookingID: "b1", Method: "crypto"}, nil, domain.ErrValidation},
		{"card without number", "guest", PayInput{BookingID: "b1", Method: domain.PaymentMethodCard}, nil, domain.ErrValidation},
		{"not the guest", "agent", PayInput{BookingID: "b1", Method: domain.PaymentMethodCash}, pendingBooking(), domain.ErrForbidden},
		{"already paid", "guest", PayInput{BookingID: "b1", Method: domain.PaymentMethodCash}, paid, domain.ErrAlreadyPaid},
		{"rejected booking", "guest", PayInput{BookingID: "b1", Method: domain.PaymentMethodCash}, rejected, domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			if tt.booking != nil {
				f.bookings.On("GetByID", ctx, "b1").Return(tt.booking, nil)
			}

			_, _, err := f.service.Pay(ctx, tt.userID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			f.payments.AssertNotCalled(t, "CreateForBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			assert.Empty(t, f.events.Events)
		})
	}
}

func TestPaymentService_Settle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b := pendingBooking()
	b.Status = domain.BookingStatusConfirmed
	p := &domain.Payment{ID: "pay1", BookingID: "b1", UserID: "guest", AgentID: "agent", AmountCents: 33000,
		Method: domain.PaymentMethodBankTransfer, Status: domain.PaymentRecordPending}
	f.payments.On("GetByID", ctx, "pay1").Return(p, nil)
	f.bookings.On("GetByID", ctx, "b1").Return(b, nil)
	f.payments.On("SettleForBooking", ctx, p, b, unpaid(domain.BookingStatusConfirmed)).Return(nil)

	payment, booking, err := f.service.Settle(ctx, "agent", "pay1")

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRecordSucceeded, payment.Status)
	assert.Equal(t, domain.PaymentStatusPaid, booking.PaymentStatus)
	assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, kafka.EventPaymentReceived, f.events.Last().Type)
}

func TestPaymentService_Settle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		agentID string
		status  domain.PaymentRecordStatus
		wantErr error
	}{
		{"other agent", "someone", domain.PaymentRecordPending, domain.ErrForbidden},
		{"already settled", "agent", domain.PaymentRecordSucceeded, domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			f.payments.On("GetByID", ctx, "pay1").Return(&domain.Payment{ID: "pay1", BookingID: "b1", AgentID: "agent", Status: tt.status}, nil)

			_, _, err := f.service.Settle(ctx, tt.agentID, "pay1")
			assert.ErrorIs(t, err, tt.wantErr)
			f.bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestPaymentService_Earnings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	scheduled := fixedNow.Add(72 * time.Hour)
	f.payments.On("ListByAgent", ctx, "agent").Return([]domain.Payment{
		{AmountCents: 10000, Status: domain.PaymentRecordSucceeded, BookingStatus: domain.BookingStatusCompleted},
		{AmountCents: 5000, Status: domain.PaymentRecordSucceeded, BookingStatus: domain.BookingStatusCancelled},
		{AmountCents: 7000, Status: domain.PaymentRecordPending, BookingStatus: domain.BookingStatusConfirmed},
	}, nil)
	f.payouts.On("ListByAgent", ctx, "agent").Return([]domain.Payout{
		{AmountCents: 10000, Status: domain.PayoutStatusPending, ScheduledDate: scheduled},
	}, nil)

	earnings, err := f.service.Earnings(ctx, "agent")

	require.NoError(t, err)
	assert.Equal(t, int64(10000), earnings.TotalEarnedCents)
	assert.Equal(t, int64(10000), earnings.PendingPayoutCents)
	require.NotNil(t, earnings.NextPayoutDate)
	assert.Equal(t, scheduled, *earnings.NextPayoutDate)
}
