package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/stubby/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRunnable struct {
	topic       string
	startErr    error
	shutdownErr error
	starts      int
	stops       int
}

func (m *mockRunnable) Topic() string {
	return m.topic
}

func (m *mockRunnable) Start(_ context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}

	m.starts++

	return nil
}

func (m *mockRunnable) Shutdown() error {
	m.stops++

	return m.shutdownErr
}

func TestConsumerGroup_Start(t *testing.T) {
	t.Run("starts every consumer", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		first, second := &mockRunnable{topic: "a"}, &mockRunnable{topic: "b"}
		group.Add(first)
		group.Add(second)

		require.NoError(t, group.Start(context.Background()))

		assert.Equal(t, 1, first.starts)
		assert.Equal(t, 1, second.starts)
		assert.Equal(t, []string{"a", "b"}, group.Topics())
	})

	t.Run("stops started consumers when one fails", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		first := &mockRunnable{topic: "link.created"}
		failing := &mockRunnable{topic: "broken", startErr: errors.New("boom")}
		group.Add(first)
		group.Add(failing)

		err := group.Start(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), `"broken"`)
		assert.Equal(t, 1, first.stops)
		assert.Zero(t, failing.stops)
	})

	t.Run("refuses to start twice", func(t *testing.T) {
		group := messaging.NewConsumerGroup(newMockSubscriber(), zap.NewNop())
		consumer := &mockRunnable{topic: "link.created"}
		group.Add(consumer)
		require.NoError(t, group.Start(context.Background()))

		err := group.Start(context.Background())

		assert.ErrorIs(t, err, messaging.ErrGroupStarted)
		assert.Equal(t, 1, consumer.starts)
	})
}

func TestConsumerGroup_Shutdown(t *testing.T) {
	t.Run("stops running consumers and closes the subscriber", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		consumer := &mockRunnable{topic: "link.created"}
		group.Add(consumer)
		require.NoError(t, group.Start(context.Background()))

		require.NoError(t, group.Shutdown())

		assert.Equal(t, 1, consumer.stops)
		assert.True(t, sub.closed)
	})

	t.Run("skips consumers that never started", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		consumer := &mockRunnable{topic: "link.created"}
		group.Add(consumer)

		require.NoError(t, group.Shutdown())

		assert.Zero(t, consumer.stops)
		assert.True(t, sub.closed)
	})

	t.Run("returns the first error and only runs once", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		first := &mockRunnable{topic: "a", shutdownErr: errors.New("first")}
		second := &mockRunnable{topic: "b", shutdownErr: errors.New("second")}
		group.Add(first)
		group.Add(second)
		require.NoError(t, group.Start(context.Background()))

		err := group.Shutdown()

		require.Error(t, err)
		assert.EqualError(t, group.Shutdown(), err.Error())
		assert.Equal(t, 1, first.stops)
		assert.Equal(t, 1, second.stops)
	})
}
