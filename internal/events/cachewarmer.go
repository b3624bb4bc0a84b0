package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/stubby/internal/messaging"
	"github.com/serroba/stubby/internal/shortener"
	"go.uber.org/zap"
)

// LinkCache receives links that should be served without a store round trip.
type LinkCache interface {
	Put(ctx context.Context, link *shortener.ShortLink) error
}

// NewCacheWarmer returns a handler that copies every created link into cache,
// so the first redirect for a new slug is already a cache hit.
func NewCacheWarmer(cache LinkCache, logger *zap.Logger) messaging.Handler[LinkCreatedEvent] {
	return func(ctx context.Context, event *LinkCreatedEvent) error {
		if event.Slug == "" {
			// Redelivery will not fix a malformed event, so drop it.
			logger.Warn("dropping link event without slug", zap.String("id", event.ID.String()))

			return nil
		}

		if err := cache.Put(ctx, event.Link()); err != nil {
			return fmt.Errorf("warm cache for %q: %w", event.Slug, err)
		}

		logger.Debug("warmed link cache", zap.String("slug", event.Slug))

		return nil
	}
}

// NewLinkCreatedConsumer subscribes the cache warmer to link creations.
func NewLinkCreatedConsumer(
	subscriber message.Subscriber,
	cache LinkCache,
	logger *zap.Logger,
) *messaging.Consumer[LinkCreatedEvent] {
	return messaging.NewConsumer(subscriber, TopicLinkCreated, NewCacheWarmer(cache, logger), logger)
}
