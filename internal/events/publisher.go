package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher appends ledger events to the Redis stream. A nil Publisher is
// valid and drops every event, so callers don't need to special-case
// running without Redis.
type Publisher struct {
	client *redis.Client
}

// NewPublisher creates a Publisher on the given Redis client.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish appends one event to the ledger stream.
func (p *Publisher) Publish(ctx context.Context, eventType, groupID, entityID, actorID string) error {
	if p == nil {
		return nil
	}

	event := Event{
		Type:      eventType,
		GroupID:   groupID,
		EntityID:  entityID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: LedgerStream,
		Values: map[string]any{"event": payload},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
