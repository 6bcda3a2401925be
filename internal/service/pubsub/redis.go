package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kingrain94/notes-saas-api/internal/domain"
	"github.com/kingrain94/notes-saas-api/pkg/logger"
)

const (
	channelPrefix = "notes:events:"
)

// RedisPubSub fans note events out to every API instance over one channel per tenant.
type RedisPubSub struct {
	client       *redis.Client
	logger       *logger.Logger
	subscribers  map[string]*redis.PubSub // tenant slug to subscription
	subscriberMu sync.RWMutex
}

func NewRedisPubSub(client *redis.Client, logger *logger.Logger) *RedisPubSub {
	return &RedisPubSub{
		client:      client,
		logger:      logger,
		subscribers: make(map[string]*redis.PubSub),
	}
}

func ChannelName(tenantSlug string) string {
	return channelPrefix + tenantSlug
}

// PublishNoteEvent publishes event on its tenant's channel.
func (ps *RedisPubSub) PublishNoteEvent(ctx context.Context, event *domain.NoteEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal note event: %w", err)
	}

	channel := ChannelName(event.TenantSlug)
	if err := ps.client.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis channel %s: %w", channel, err)
	}

	return nil
}

// Subscribe starts delivering a tenant's events to callback until ctx is cancelled or
// Unsubscribe is called. A second Subscribe for the same tenant is a no-op.
func (ps *RedisPubSub) Subscribe(ctx context.Context, tenantSlug string, callback func(*domain.NoteEvent)) error {
	channel := ChannelName(tenantSlug)

	ps.subscriberMu.Lock()
	if _, exists := ps.subscribers[tenantSlug]; exists {
		ps.subscriberMu.Unlock()
		return nil
	}
	sub := ps.client.Subscribe(ctx, channel)
	ps.subscribers[tenantSlug] = sub
	ps.subscriberMu.Unlock()

	// Wait for the subscription confirmation so events published right after
	// Subscribe returns are not lost.
	if _, err := sub.Receive(ctx); err != nil {
		ps.Unsubscribe(tenantSlug)
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	go func() {
		defer func() {
			ps.subscriberMu.Lock()
			if current, ok := ps.subscribers[tenantSlug]; ok && current == sub {
				delete(ps.subscribers, tenantSlug)
			}
			ps.subscriberMu.Unlock()
			sub.Close()
		}()

		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event domain.NoteEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					ps.logger.Error("failed to decode note event", err, zap.String("channel", channel))
					continue
				}
				callback(&event)

			case <-ctx.Done():
				return
			}
		}
	}()

	ps.logger.Info("subscribed to tenant channel", zap.String("channel", channel))
	return nil
}

// Unsubscribe removes subscription for a tenant
func (ps *RedisPubSub) Unsubscribe(tenantSlug string) {
	ps.subscriberMu.Lock()
	defer ps.subscriberMu.Unlock()

	if sub, exists := ps.subscribers[tenantSlug]; exists {
		sub.Close()
		delete(ps.subscribers, tenantSlug)
		ps.logger.Info("unsubscribed from tenant channel", zap.String("channel", ChannelName(tenantSlug)))
	}
}

func (ps *RedisPubSub) Close() {
	ps.subscriberMu.Lock()
	defer ps.subscriberMu.Unlock()

	for tenantSlug, sub := range ps.subscribers {
		sub.Close()
		delete(ps.subscribers, tenantSlug)
	}
}
