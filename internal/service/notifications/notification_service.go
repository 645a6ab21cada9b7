package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/restate/internal/cache"
	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/kafka"
	"github.com/Domenick1991/restate/internal/push"
	"github.com/Domenick1991/restate/internal/realtime"
	"github.com/Domenick1991/restate/internal/repository"
	"github.com/google/uuid"
)

const defaultListLimit = 50

type NotificationUseCase interface {
	Send(ctx context.Context, input SendInput) (*domain.Notification, error)
	HandleEvent(ctx context.Context, event kafka.Event) error
	List(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error
	Preferences(ctx context.Context, userID string) (domain.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, userID string, patch domain.PreferencesPatch) (domain.NotificationPreferences, error)
	RegisterDevice(ctx context.Context, userID, token, platform string) error
}

type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

type Pusher interface {
	Enabled() bool
	SendToTokens(ctx context.Context, tokens []string, msg push.Message) []string
}

type SendInput struct {
	UserID    string                      `json:"user_id"`
	Type      domain.NotificationType     `json:"type"`
	Priority  domain.NotificationPriority `json:"priority"`
	Title     string                      `json:"title"`
	Message   string                      `json:"message"`
	ActionURL string                      `json:"action_url"`
	ImageURL  string                      `json:"image_url"`
	Data      map[string]any              `json:"data"`
}

type NotificationService struct {
	repo      repository.NotificationRepository
	publisher Publisher
	pusher    Pusher
}

func NewNotificationService(repo repository.NotificationRepository, publisher Publisher, pusher Pusher) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher, pusher: pusher}
}

// Send stores a notification and delivers it over the realtime channel and
// push. A category the user has switched off is dropped and (nil, nil) is returned.
func (s *NotificationService) Send(ctx context.Context, input SendInput) (*domain.Notification, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: recipient is required", domain.ErrValidation)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	prefs, err := s.Preferences(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	category := CategoryOf(input.Type)
	if !prefs.Allows(category) {
		return nil, nil
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		Type:      input.Type,
		Category:  category,
		Priority:  priority,
		Title:     strings.TrimSpace(input.Title),
		Message:   strings.TrimSpace(input.Message),
		ActionURL: input.ActionURL,
		ImageURL:  input.ImageURL,
		Data:      input.Data,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	s.publish(ctx, n.UserID, realtime.Envelope{Type: realtime.MessageNotification, Notification: n})
	s.publishUnread(ctx, n.UserID)

	if prefs.PushEnabled {
		s.push(ctx, n)
	}
	return n, nil
}

// HandleEvent turns a domain event into a notification for its recipient.
func (s *NotificationService) HandleEvent(ctx context.Context, event kafka.Event) error {
	input, ok := FromEvent(event)
	if !ok {
		log.Printf("WARNING: skipping event %q for %q", event.Type, event.RecipientID)
		return nil
	}
	_, err := s.Send(ctx, input)
	return err
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly, defaultListLimit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return err
	}
	s.publishUnread(ctx, userID)
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.publishUnread(ctx, userID)
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.publishUnread(ctx, userID)
	return nil
}

func (s *NotificationService) Preferences(ctx context.Context, userID string) (domain.NotificationPreferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultPreferences(userID), nil
	}
	if err != nil {
		return domain.NotificationPreferences{}, err
	}
	return *prefs, nil
}

func (s *NotificationService) UpdatePreferences(ctx context.Context, userID string, patch domain.PreferencesPatch) (domain.NotificationPreferences, error) {
	current, err := s.Preferences(ctx, userID)
	if err != nil {
		return domain.NotificationPreferences{}, err
	}
	updated := current.Apply(patch)
	if err := s.repo.UpsertPreferences(ctx, &updated); err != nil {
		return domain.NotificationPreferences{}, err
	}
	return updated, nil
}

func (s *NotificationService) RegisterDevice(ctx context.Context, userID, token, platform string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: device token is required", domain.ErrValidation)
	}
	platform = strings.ToLower(strings.TrimSpace(platform))
	switch platform {
	case "ios", "android", "web":
	default:
		return fmt.Errorf("%w: unknown platform %q", domain.ErrValidation, platform)
	}
	return s.repo.AddDevice(ctx, &domain.Device{UserID: userID, Token: token, Platform: platform})
}

func (s *NotificationService) publish(ctx context.Context, userID string, envelope realtime.Envelope) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, cache.NotificationChannel(userID), envelope); err != nil {
		log.Printf("WARNING: failed to publish %s to %s: %v", envelope.Type, userID, err)
	}
}

func (s *NotificationService) publishUnread(ctx context.Context, userID string) {
	if s.publisher == nil {
		return
	}
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		log.Printf("WARNING: failed to count unread notifications for %s: %v", userID, err)
		return
	}
	s.publish(ctx, userID, realtime.Envelope{Type: realtime.MessageUnreadCount, UnreadCount: &count})
}

func (s *NotificationService) push(ctx context.Context, n *domain.Notification) {
	if s.pusher == nil || !s.pusher.Enabled() {
		return
	}
	tokens, err := s.repo.ListDeviceTokens(ctx, n.UserID)
	if err != nil {
		log.Printf("WARNING: failed to load device tokens for %s: %v", n.UserID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	data := map[string]string{
		"notification_id": n.ID,
		"type":            string(n.Type),
	}
	if n.ActionURL != "" {
		data["action_url"] = n.ActionURL
	}
	stale := s.pusher.SendToTokens(ctx, tokens, push.Message{Title: n.Title, Body: n.Message, Data: data})
	for _, token := range stale {
		if err := s.repo.RemoveDevice(ctx, token); err != nil {
			log.Printf("WARNING: failed to remove stale device token: %v", err)
		}
	}
}

var _ NotificationUseCase = (*NotificationService)(nil)
