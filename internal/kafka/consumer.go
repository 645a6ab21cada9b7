package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventHandler processes one decoded domain event.
type EventHandler func(ctx context.Context, event Event) error

type Consumer struct {
	reader messageReader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			MinBytes:          1,
			MaxBytes:          1 << 20,
			MaxWait:           time.Second,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// ConsumeEvents fetches events until ctx is cancelled. Undecodable messages
// and handler failures are logged and committed so one bad event cannot
// stall the partition.
func (c *Consumer) ConsumeEvents(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		event, err := DecodeEvent(msg.Value)
		switch {
		case err != nil:
			log.Printf("WARNING: skipping undecodable message at %s/%d offset %d: %v", msg.Topic, msg.Partition, msg.Offset, err)
		case event.Type == "" || event.RecipientID == "":
			log.Printf("WARNING: skipping event without type or recipient at offset %d", msg.Offset)
		default:
			if err := handler(ctx, event); err != nil {
				log.Printf("WARNING: failed to handle %s event for %s: %v", event.Type, event.RecipientID, err)
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}
