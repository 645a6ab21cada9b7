// Package mocks holds testify mocks of the repository interfaces for service tests.
package mocks

import (
	"context"
	"time"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/repository"
	"github.com/stretchr/testify/mock"
)

type PropertyRepository struct {
	mock.Mock
}

func (m *PropertyRepository) List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *PropertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *PropertyRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Property, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PropertyRepository) Delete(ctx context.Context, id, agentID string) error {
	args := m.Called(ctx, id, agentID)
	return args.Error(0)
}

func (m *PropertyRepository) AppendImage(ctx context.Context, id, agentID, url string) (*domain.Property, error) {
	args := m.Called(ctx, id, agentID, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *PropertyRepository) UpdateRating(ctx context.Context, id string, summary domain.RatingSummary) error {
	args := m.Called(ctx, id, summary)
	return args.Error(0)
}

type BookingRepository struct {
	mock.Mock
}

func (m *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]domain.Booking, error) {
	args := m.Called(ctx, guestID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *BookingRepository) ListByAgent(ctx context.Context, agentID string) ([]domain.Booking, error) {
	args := m.Called(ctx, agentID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *BookingRepository) ListActiveForProperty(ctx context.Context, propertyID string) ([]domain.Booking, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *BookingRepository) Update(ctx context.Context, b *domain.Booking, expected domain.BookingState) error {
	args := m.Called(ctx, b, expected)
	return args.Error(0)
}

func (m *BookingRepository) ListConfirmedEndingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type PaymentRepository struct {
	mock.Mock
}

func (m *PaymentRepository) CreateForBooking(ctx context.Context, p *domain.Payment, b *domain.Booking, expected domain.BookingState) error {
	args := m.Called(ctx, p, b, expected)
	return args.Error(0)
}

func (m *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *PaymentRepository) GetSucceededForBooking(ctx context.Context, bookingID string) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *PaymentRepository) HasPendingForBooking(ctx context.Context, bookingID string) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *PaymentRepository) SettleForBooking(ctx context.Context, p *domain.Payment, b *domain.Booking, expected domain.BookingState) error {
	args := m.Called(ctx, p, b, expected)
	return args.Error(0)
}

func (m *PaymentRepository) RefundForBooking(ctx context.Context, paymentID string, refundCents int64, b *domain.Booking, expected domain.BookingState) error {
	args := m.Called(ctx, paymentID, refundCents, b, expected)
	return args.Error(0)
}

func (m *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *PaymentRepository) ListByAgent(ctx context.Context, agentID string) ([]domain.Payment, error) {
	args := m.Called(ctx, agentID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *PaymentRepository) ListUnpaidOut(ctx context.Context) ([]domain.Payment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

type PayoutRepository struct {
	mock.Mock
}

func (m *PayoutRepository) CreateWithPayments(ctx context.Context, p *domain.Payout, paymentIDs []string) error {
	args := m.Called(ctx, p, paymentIDs)
	return args.Error(0)
}

func (m *PayoutRepository) ListByAgent(ctx context.Context, agentID string) ([]domain.Payout, error) {
	args := m.Called(ctx, agentID)
	return args.Get(0).([]domain.Payout), args.Error(1)
}

func (m *PayoutRepository) ListDue(ctx context.Context, before, staleBefore time.Time) ([]domain.Payout, error) {
	args := m.Called(ctx, before, staleBefore)
	return args.Get(0).([]domain.Payout), args.Error(1)
}

func (m *PayoutRepository) UpdateStatus(ctx context.Context, p *domain.Payout, expected domain.PayoutStatus) error {
	args := m.Called(ctx, p, expected)
	return args.Error(0)
}

type ReviewRepository struct {
	mock.Mock
}

func (m *ReviewRepository) Create(ctx context.Context, r *domain.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *ReviewRepository) GetByUserAndProperty(ctx context.Context, userID, propertyID string) (*domain.Review, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *ReviewRepository) ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *ReviewRepository) Update(ctx context.Context, r *domain.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *ReviewRepository) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *ReviewRepository) ToggleLike(ctx context.Context, id, userID string) (*domain.Review, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *ReviewRepository) RatingStats(ctx context.Context, propertyID string) (domain.RatingSummary, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).(domain.RatingSummary), args.Error(1)
}

type FavoriteRepository struct {
	mock.Mock
}

func (m *FavoriteRepository) Add(ctx context.Context, f *domain.Favorite) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *FavoriteRepository) Remove(ctx context.Context, userID, propertyID string) error {
	args := m.Called(ctx, userID, propertyID)
	return args.Error(0)
}

func (m *FavoriteRepository) ListPropertyIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *FavoriteRepository) Exists(ctx context.Context, userID, propertyID string) (bool, error) {
	args := m.Called(ctx, userID, propertyID)
	return args.Bool(0), args.Error(1)
}

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationRepository) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *NotificationRepository) GetPreferences(ctx context.Context, userID string) (*domain.NotificationPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationPreferences), args.Error(1)
}

func (m *NotificationRepository) UpsertPreferences(ctx context.Context, p *domain.NotificationPreferences) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *NotificationRepository) AddDevice(ctx context.Context, d *domain.Device) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *NotificationRepository) ListDeviceTokens(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *NotificationRepository) RemoveDevice(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) Get(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

var (
	_ repository.PropertyRepository     = (*PropertyRepository)(nil)
	_ repository.BookingRepository      = (*BookingRepository)(nil)
	_ repository.PaymentRepository      = (*PaymentRepository)(nil)
	_ repository.PayoutRepository       = (*PayoutRepository)(nil)
	_ repository.ReviewRepository       = (*ReviewRepository)(nil)
	_ repository.FavoriteRepository     = (*FavoriteRepository)(nil)
	_ repository.NotificationRepository = (*NotificationRepository)(nil)
	_ repository.ProfileRepository      = (*ProfileRepository)(nil)
)
