package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func TestEmitter_PublishesToBothTopics(t *testing.T) {
	ctx := context.Background()
	pub := &MockPublisher{}
	emitter := NewEmitter(pub, "events", "notifications")

	matchEvent := mock.MatchedBy(func(v interface{}) bool {
		e, ok := v.(Event)
		return ok && e.Type == EventBookingRequested && !e.OccurredAt.IsZero()
	})
	pub.On("Publish", ctx, "events", "agent-1", matchEvent).Return(nil).Once()
	pub.On("Publish", ctx, "notifications", "agent-1", matchEvent).Return(nil).Once()

	emitter.Emit(ctx, Event{Type: EventBookingRequested, RecipientID: "agent-1", BookingID: "b1"})

	pub.AssertExpectations(t)
}

func TestEmitter_FailureDoesNotStopFanOut(t *testing.T) {
	ctx := context.Background()
	pub := &MockPublisher{}
	emitter := NewEmitter(pub, "events", "notifications")

	pub.On("Publish", ctx, "events", "u1", mock.Anything).Return(errors.New("broker down")).Once()
	pub.On("Publish", ctx, "notifications", "u1", mock.Anything).Return(nil).Once()

	emitter.Emit(ctx, Event{Type: EventPayoutCompleted, RecipientID: "u1"})

	pub.AssertExpectations(t)
}

func TestEmitter_SkipsEmptyTopicAndNilProducer(t *testing.T) {
	ctx := context.Background()
	pub := &MockPublisher{}
	emitter := NewEmitter(pub, "", "notifications")

	pub.On("Publish", ctx, "notifications", "u1", mock.Anything).Return(nil).Once()
	emitter.Emit(ctx, Event{Type: EventReviewPosted, RecipientID: "u1"})
	pub.AssertExpectations(t)

	var nilEmitter *Emitter
	assert.NotPanics(t, func() { nilEmitter.Emit(ctx, Event{}) })
	assert.NotPanics(t, func() { NewEmitter(nil, "a", "b").Emit(ctx, Event{}) })
}

func TestDecodeEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	data, err := json.Marshal(Event{Type: EventPaymentReceived, RecipientID: "a1", AmountCents: 1500, OccurredAt: at})
	require.NoError(t, err)

	e, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentReceived, e.Type)
	assert.Equal(t, int64(1500), e.AmountCents)
	assert.True(t, e.OccurredAt.Equal(at))

	_, err = DecodeEvent([]byte("{"))
	assert.Error(t, err)
}
