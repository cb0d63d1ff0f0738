package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Handler processes one ledger event. Returning an error leaves the message
// un-acked so it is redelivered.
type Handler func(ctx context.Context, event Event) error

// Subscriber reads ledger events from the stream via a consumer group, so
// each event is handled by exactly one instance per group.
type Subscriber struct {
	client        *redis.Client
	group         string
	consumer      string
	handler       Handler
	batchSize     int64
	blockDuration time.Duration
}

// NewSubscriber creates a Subscriber. group is the consumer-group name;
// consumer identifies this instance within it.
func NewSubscriber(client *redis.Client, group, consumer string, handler Handler) *Subscriber {
	return &Subscriber{
		client:        client,
		group:         group,
		consumer:      consumer,
		handler:       handler,
		batchSize:     16,
		blockDuration: 5 * time.Second,
	}
}

// Run consumes events until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, LedgerStream, s.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	slog.Info("Event subscriber started",
		"stream", LedgerStream, "group", s.group, "consumer", s.consumer)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Event subscriber stopping", "stream", LedgerStream)
			return ctx.Err()
		default:
			if err := s.readBatch(ctx); err != nil && ctx.Err() == nil {
				slog.Error("Failed to read events", "error", err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (s *Subscriber) readBatch(ctx context.Context) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{LedgerStream, ">"},
		Count:    s.batchSize,
		Block:    s.blockDuration,
	}).Result()
	if err == redis.Nil {
		return nil // No messages within the block window.
	}
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			if err := s.handleMessage(ctx, message); err != nil {
				slog.Error("Failed to process event", "message_id", message.ID, "error", err)
				continue // Not acked; redelivered later.
			}
			if err := s.client.XAck(ctx, LedgerStream, s.group, message.ID).Err(); err != nil {
				slog.Error("Failed to ack event", "message_id", message.ID, "error", err)
			}
		}
	}
	return nil
}

func (s *Subscriber) handleMessage(ctx context.Context, message redis.XMessage) error {
	payload, ok := message.Values["event"].(string)
	if !ok {
		return fmt.Errorf("invalid message format")
	}

	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return s.handler(ctx, event)
}
