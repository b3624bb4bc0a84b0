package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// ErrGroupStarted is returned when Start is called on a running group.
var ErrGroupStarted = errors.New("consumer group already started")

// Runnable is a topic consumer the group can start and stop.
type Runnable interface {
	Topic() string
	Start(ctx context.Context) error
	Shutdown() error
}

// ConsumerGroup runs the consumers of one process over a shared subscriber.
// Only consumers that started are stopped, and the subscriber is closed once,
// after all of them have drained.
type ConsumerGroup struct {
	mu         sync.Mutex
	consumers  []Runnable
	running    []Runnable
	subscriber message.Subscriber
	logger     *zap.Logger
	stopOnce   sync.Once
	stopErr    error
}

// NewConsumerGroup creates a consumer group over subscriber.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers a consumer. Consumers added after Start are not run.
func (g *ConsumerGroup) Add(consumer Runnable) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.consumers = append(g.consumers, consumer)
}

// Topics lists the topics of the registered consumers.
func (g *ConsumerGroup) Topics() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return topicsOf(g.consumers)
}

// Start starts every consumer. If one fails, the ones already running are
// stopped again and the group stays idle.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.running) > 0 {
		return ErrGroupStarted
	}

	for _, consumer := range g.consumers {
		if err := consumer.Start(ctx); err != nil {
			g.stopRunning()

			return fmt.Errorf("start consumer for %q: %w", consumer.Topic(), err)
		}

		g.running = append(g.running, consumer)
	}

	g.logger.Info("consumer group started", zap.Strings("topics", topicsOf(g.running)))

	return nil
}

// Shutdown stops the running consumers, then closes the shared subscriber.
// Later calls return the first call's result.
func (g *ConsumerGroup) Shutdown() error {
	g.stopOnce.Do(func() {
		g.mu.Lock()
		defer g.mu.Unlock()

		g.logger.Info("shutting down consumer group", zap.Strings("topics", topicsOf(g.running)))

		g.stopErr = g.stopRunning()

		if err := g.subscriber.Close(); err != nil && g.stopErr == nil {
			g.stopErr = err
		}
	})

	return g.stopErr
}

// stopRunning stops running consumers in reverse start order; callers hold g.mu.
func (g *ConsumerGroup) stopRunning() error {
	var firstErr error

	for i := len(g.running) - 1; i >= 0; i-- {
		if err := g.running[i].Shutdown(); err != nil {
			g.logger.Error("failed to stop consumer",
				zap.String("topic", g.running[i].Topic()),
				zap.Error(err),
			)

			if firstErr == nil {
				firstErr = err
			}
		}
	}

	g.running = nil

	return firstErr
}

func topicsOf(consumers []Runnable) []string {
	topics := make([]string, 0, len(consumers))
	for _, c := range consumers {
		topics = append(topics, c.Topic())
	}

	return topics
}
