package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type Publisher interface {
	PublishSessionRevoked(ctx context.Context, userID, sessionID int64) error
	Close() error
}

type Subscriber interface {
	// SubscribeUser delivers auth events for one user until ctx is canceled.
	// The returned channel is closed when the subscription ends.
	SubscribeUser(ctx context.Context, userID int64) (<-chan AuthEvent, error)
}

// UserChannel names the per-user pub/sub channel under the configured base.
func UserChannel(base string, userID int64) string {
	return fmt.Sprintf("%s:user-%d", base, userID)
}

type redisBroker struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// NewRedisBroker returns a Publisher+Subscriber over a shared Redis client.
func NewRedisBroker(client *redis.Client, channel string, logger *slog.Logger) *redisBroker {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisBroker{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (b *redisBroker) PublishSessionRevoked(ctx context.Context, userID, sessionID int64) error {
	evt := AuthEvent{
		At:        time.Now().UTC(),
		Type:      AuthEventSessionRevoked,
		UserID:    userID,
		SessionID: sessionID,
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encoding auth event: %w", err)
	}

	if err := b.client.Publish(ctx, UserChannel(b.channel, userID), payload).Err(); err != nil {
		return fmt.Errorf("publishing auth event: %w", err)
	}

	b.logger.InfoContext(ctx, "published session revocation", "user_id", userID, "session_id", sessionID)
	return nil
}

func (b *redisBroker) SubscribeUser(ctx context.Context, userID int64) (<-chan AuthEvent, error) {
	sub := b.client.Subscribe(ctx, UserChannel(b.channel, userID))

	// Confirm the subscription before handing the channel out, so a
	// revocation published right after cannot be missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribing to auth events: %w", err)
	}

	out := make(chan AuthEvent)
	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var evt AuthEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					b.logger.WarnContext(ctx, "dropping malformed auth event", "error", err)
					continue
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (b *redisBroker) Close() error {
	return b.client.Close()
}
