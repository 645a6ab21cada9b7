package push

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"
)

type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender delivers push notifications through Firebase Cloud Messaging.
// A sender built without credentials is disabled and sends nothing.
type FCMSender struct {
	client         messagingClient
	isUnregistered func(error) bool
}

func NewFCMSender(ctx context.Context, credentialsFile string) (*FCMSender, error) {
	if credentialsFile == "" {
		log.Printf("push: no FCM credentials configured, push delivery disabled")
		return &FCMSender{}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	return newFCMSender(client), nil
}

func newFCMSender(client messagingClient) *FCMSender {
	return &FCMSender{client: client, isUnregistered: messaging.IsRegistrationTokenNotRegistered}
}

func (s *FCMSender) Enabled() bool {
	return s != nil && s.client != nil
}

// SendToTokens pushes msg to every token and returns the tokens FCM reports as
// no longer registered, so the caller can forget them.
func (s *FCMSender) SendToTokens(ctx context.Context, tokens []string, msg Message) []string {
	if !s.Enabled() {
		return nil
	}

	var stale []string
	for _, token := range tokens {
		if _, err := s.client.Send(ctx, buildMessage(token, msg)); err != nil {
			if s.isUnregistered != nil && s.isUnregistered(err) {
				stale = append(stale, token)
				continue
			}
			log.Printf("WARNING: push to token %s failed: %v", token, err)
		}
	}
	return stale
}

func buildMessage(token string, msg Message) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: msg.Title,
						Body:  msg.Body,
					},
					Sound: "default",
				},
			},
		},
	}
}
