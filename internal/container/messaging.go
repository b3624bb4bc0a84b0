package container

import (
	"github.com/samber/do"
	"github.com/serroba/stubby/internal/events"
	"github.com/serroba/stubby/internal/messaging"
	"github.com/serroba/stubby/internal/store"
	"go.uber.org/zap"
)

// cacheWarmerGroup is the Redis Streams consumer group of the consumer binary.
const cacheWarmerGroup = "link-cache-warmer"

// PublisherGroupPackage provides the link.created publish function. Without
// Options.Events it drops events and never connects to Redis.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client, err := do.Invoke[*RedisClient](i)
		if err != nil {
			return nil, err
		}

		publisher, err := messaging.NewRedisPublisher(client.Client, do.MustInvoke[*zap.Logger](i))
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (messaging.Publish[events.LinkCreatedEvent], error) {
		if !do.MustInvoke[*Options](i).Events {
			return messaging.NoopPublish[events.LinkCreatedEvent](), nil
		}

		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublishFunc[events.LinkCreatedEvent](group.Publisher(), events.TopicLinkCreated), nil
	})
}

// ConsumerGroupPackage provides the consumers that keep the link cache warm.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		client, err := do.Invoke[*RedisClient](i)
		if err != nil {
			return nil, err
		}

		subscriber, err := messaging.NewRedisSubscriber(client.Client, cacheWarmerGroup, logger)
		if err != nil {
			return nil, err
		}

		cache := store.NewRedisLinkCache(client.Client, opts.CacheDuration())

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(events.NewLinkCreatedConsumer(subscriber, cache, logger))

		return group, nil
	})
}
