package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/kafka"
	"github.com/Domenick1991/restate/internal/push"
	"github.com/Domenick1991/restate/internal/realtime"
	"github.com/Domenick1991/restate/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, channel string, payload any) error {
	args := m.Called(ctx, channel, payload)
	return args.Error(0)
}

type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *MockPusher) SendToTokens(ctx context.Context, tokens []string, msg push.Message) []string {
	args := m.Called(ctx, tokens, msg)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func isEnvelope(kind string) interface{} {
	return mock.MatchedBy(func(e realtime.Envelope) bool { return e.Type == kind })
}

func TestNotificationService_Send_DeliversEverywhere(t *testing.T) {
	repo := &mocks.NotificationRepository{}
	publisher := &MockPublisher{}
	pusher := &MockPusher{}
	service := NewNotificationService(repo, publisher, pusher)
	ctx := context.Background()

	repo.On("GetPreferences", ctx, "u1").Return(nil, domain.ErrNotFound)
	repo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Category == domain.CategoryBookings && n.Priority == domain.PriorityNormal && n.ID != ""
	})).Return(nil)
	publisher.On("Publish", ctx, "notifications:u1", isEnvelope(realtime.MessageNotification)).Return(nil).Once()
	repo.On("CountUnread", ctx, "u1").Return(3, nil)
	publisher.On("Publish", ctx, "notifications:u1", mock.MatchedBy(func(e realtime.Envelope) bool {
		return e.Type == realtime.MessageUnreadCount && e.UnreadCount != nil && *e.UnreadCount == 3
	})).Return(nil).Once()
	pusher.On("Enabled").Return(true)
	repo.On("ListDeviceTokens", ctx, "u1").Return([]string{"t1", "t2"}, nil)
	pusher.On("SendToTokens", ctx, []string{"t1", "t2"}, mock.MatchedBy(func(m push.Message) bool {
		return m.Title == "Booking confirmed" && m.Data["type"] == "booking_confirmed"
	})).Return([]string{"t2"})
	repo.On("RemoveDevice", ctx, "t2").Return(nil)

	n, err := service.Send(ctx, SendInput{
		UserID:  "u1",
		Type:    domain.NotificationBookingConfirmed,
		Title:   "Booking confirmed",
		Message: "See you soon",
	})

	require.NoError(t, err)
	require.NotNil(t, n)
	publisher.AssertExpectations(t)
	pusher.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestNotificationService_Send_DroppedByPreferences(t *testing.T) {
	repo := &mocks.NotificationRepository{}
	publisher := &MockPublisher{}
	service := NewNotificationService(repo, publisher, nil)
	ctx := context.Background()

	prefs := domain.DefaultPreferences("u1")
	prefs.Reviews = false
	repo.On("GetPreferences", ctx, "u1").Return(&prefs, nil)

	n, err := service.Send(ctx, SendInput{UserID: "u1", Type: domain.NotificationReviewPosted, Title: "New review"})

	require.NoError(t, err)
	assert.Nil(t, n)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationService_Send_PushDisabledByUser(t *testing.T) {
	repo := &mocks.NotificationRepository{}
	publisher := &MockPublisher{}
	pusher := &MockPusher{}
	service := NewNotificationService(repo, publisher, pusher)
	ctx := context.Background()

	prefs := domain.DefaultPreferences("u1")
	prefs.PushEnabled = false
	repo.On("GetPreferences", ctx, "u1").Return(&prefs, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)
	repo.On("CountUnread", ctx, "u1").Return(1, nil)
	publisher.On("Publish", ctx, "notifications:u1", mock.Anything).Return(errors.New("redis down"))

	n, err := service.Send(ctx, SendInput{UserID: "u1", Type: domain.NotificationSystem, Title: "Hello"})

	require.NoError(t, err)
	assert.Equal(t, domain.CategorySystem, n.Category)
	pusher.AssertNotCalled(t, "SendToTokens", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationService_Send_Validation(t *testing.T) {
	service := NewNotificationService(&mocks.NotificationRepository{}, nil, nil)

	_, err := service.Send(context.Background(), SendInput{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Send(context.Background(), SendInput{UserID: "u1", Title: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNotificationService_HandleEvent(t *testing.T) {
	repo := &mocks.NotificationRepository{}
	service := NewNotificationService(repo, nil, nil)
	ctx := context.Background()

	repo.On("GetPreferences", ctx, "agent").Return(nil, domain.ErrNotFound)
	repo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Type == domain.NotificationBookingRequested && n.ActionURL == "/bookings/b1" && n.Priority == domain.PriorityHigh
	})).Return(nil)

	err := service.HandleEvent(ctx, kafka.Event{
		Type: kafka.EventBookingRequested, RecipientID: "agent", BookingID: "b1", AmountCents: 33000,
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestNotificationService_HandleEvent_Unknown(t *testing.T) {
	repo := &mocks.NotificationRepository{}
	service := NewNotificationService(repo, nil, nil)

	err := service.HandleEvent(context.Background(), kafka.Event{Type: "something_else", RecipientID: "u1"})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNotificationService_MarkAllRead_PublishesCount(t *testing.T) {
	repo := &mocks.NotificationRepository{}
	publisher := &MockPublisher{}
	service := NewNotificationService(repo, publisher, nil)
	ctx := context.Background()

	repo.On("MarkAllRead", ctx, "u1").Return(int64(4), nil)
	repo.On("CountUnread", ctx, "u1").Return(0, nil)
	publisher.On("Publish", ctx, "notifications:u1", isEnvelope(realtime.MessageUnreadCount)).Return(nil)

	n, err := service.MarkAllRead(ctx, "u1")

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	publisher.AssertExpectations(t)
}

func TestNotificationService_MarkRead_NotFound(t *testing.T) {
	repo := &mocks.NotificationRepository{}
	publisher := &MockPublisher{}
	service := NewNotificationService(repo, publisher, nil)
	ctx := context.Background()

	repo.On("MarkRead", ctx, "n1", "u1").Return(domain.ErrNotFound)

	err := service.MarkRead(ctx, "u1", "n1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationService_UpdatePreferences(t *testing.T) {
	repo := &mocks.NotificationRepository{}
	service := NewNotificationService(repo, nil, nil)
	ctx := context.Background()

	off := false
	repo.On("GetPreferences", ctx, "u1").Return(nil, domain.ErrNotFound)
	repo.On("UpsertPreferences", ctx, mock.MatchedBy(func(p *domain.NotificationPreferences) bool {
		return !p.Payments && p.Bookings && p.UserID == "u1"
	})).Return(nil)

	prefs, err := service.UpdatePreferences(ctx, "u1", domain.PreferencesPatch{Payments: &off})

	require.NoError(t, err)
	assert.False(t, prefs.Payments)
	assert.True(t, prefs.PushEnabled)
}

func TestNotificationService_RegisterDevice(t *testing.T) {
	repo := &mocks.NotificationRepository{}
	service := NewNotificationService(repo, nil, nil)
	ctx := context.Background()

	repo.On("AddDevice", ctx, mock.MatchedBy(func(d *domain.Device) bool {
		return d.Token == "tok" && d.Platform == "ios" && d.UserID == "u1"
	})).Return(nil)

	require.NoError(t, service.RegisterDevice(ctx, "u1", " tok ", "iOS"))
	assert.ErrorIs(t, service.RegisterDevice(ctx, "u1", "", "ios"), domain.ErrValidation)
	assert.ErrorIs(t, service.RegisterDevice(ctx, "u1", "tok", "symbian"), domain.ErrValidation)
}
