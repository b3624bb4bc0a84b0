package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/stubby/internal/events"
	"github.com/serroba/stubby/internal/handlers"
	"github.com/serroba/stubby/internal/messaging"
	"github.com/serroba/stubby/internal/shortener"
	"github.com/serroba/stubby/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errBackend = errors.New("backend down")

// brokenStore fails every call.
type brokenStore struct{}

func (brokenStore) Exists(context.Context, shortener.Slug) (bool, error) { return false, errBackend }

func (brokenStore) Create(context.Context, *shortener.ShortLink) error { return errBackend }

func (brokenStore) GetBySlug(context.Context, shortener.Slug) (*shortener.ShortLink, error) {
	return nil, errBackend
}

// recordPublish returns a publish function that remembers every event.
func recordPublish(sink *[]*events.LinkCreatedEvent, err error) messaging.Publish[events.LinkCreatedEvent] {
	return func(_ context.Context, event *events.LinkCreatedEvent) error {
		*sink = append(*sink, event)

		return err
	}
}

func newService(repo shortener.Repository) *shortener.Service {
	return shortener.NewService(
		repo,
		shortener.NewValidator(shortener.DefaultMaxSlugLength, true),
		func() string { return "sugg3st" },
	)
}

func newTestHandler(repo shortener.Repository) *handlers.LinkHandler {
	return handlers.NewLinkHandler(newService(repo), messaging.NoopPublish[events.LinkCreatedEvent](), zap.NewNop())
}

func createRequest(slug, url string) *handlers.CreateSlugRequest {
	req := &handlers.CreateSlugRequest{}
	req.Body.Slug = slug
	req.Body.URL = url

	return req
}

func requireStatus(t *testing.T, err error, status int) *huma.ErrorModel {
	t.Helper()

	var model *huma.ErrorModel
	require.ErrorAs(t, err, &model)
	assert.Equal(t, status, model.Status)

	return model
}

func TestLinkHandler_CheckSlug(t *testing.T) {
	t.Run("reports unused slug", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())

		resp, err := handler.CheckSlug(context.Background(), &handlers.CheckSlugRequest{Slug: "abc"})

		require.NoError(t, err)
		assert.False(t, resp.Body.Used)
	})

	t.Run("reports used slug", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())
		_, err := handler.CreateSlug(context.Background(), createRequest("abc", "https://x.test"))
		require.NoError(t, err)

		resp, err := handler.CheckSlug(context.Background(), &handlers.CheckSlugRequest{Slug: "abc"})

		require.NoError(t, err)
		assert.True(t, resp.Body.Used)
	})

	t.Run("maps store failures to 500", func(t *testing.T) {
		handler := newTestHandler(brokenStore{})

		resp, err := handler.CheckSlug(context.Background(), &handlers.CheckSlugRequest{Slug: "abc"})

		assert.Nil(t, resp)
		requireStatus(t, err, http.StatusInternalServerError)
	})
}

func TestLinkHandler_CreateSlug(t *testing.T) {
	t.Run("creates a link and publishes an event", func(t *testing.T) {
		var published []*events.LinkCreatedEvent
		handler := handlers.NewLinkHandler(newService(store.NewMemoryStore()), recordPublish(&published, nil), zap.NewNop())
		ctx := handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
			ClientIP:  "10.0.0.1",
			UserAgent: "test-agent",
		})

		resp, err := handler.CreateSlug(ctx, createRequest("abc", "https://x.test"))

		require.NoError(t, err)
		assert.Equal(t, "abc", resp.Body.Slug)
		assert.Equal(t, "https://x.test", resp.Body.URL)
		assert.NotEmpty(t, resp.Body.ID)
		assert.Equal(t, "/abc", resp.Location)

		require.Len(t, published, 1)
		assert.Equal(t, "abc", published[0].Slug)
		assert.Equal(t, "10.0.0.1", published[0].ClientIP)
		assert.Equal(t, "test-agent", published[0].UserAgent)
	})

	t.Run("lists every violation with its field", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())

		resp, err := handler.CreateSlug(context.Background(), createRequest(" bad slug", "not-a-url"))

		assert.Nil(t, resp)

		model := requireStatus(t, err, http.StatusUnprocessableEntity)
		require.Len(t, model.Errors, 2)
		assert.Equal(t, "body.slug", model.Errors[0].Location)
		assert.Equal(t, shortener.MsgSlugWhitespace, model.Errors[0].Message)
		assert.Equal(t, " bad slug", model.Errors[0].Value)
		assert.Equal(t, "body.url", model.Errors[1].Location)
		assert.Equal(t, shortener.MsgURLScheme, model.Errors[1].Message)
	})

	t.Run("rejects a taken slug with conflict", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())
		_, err := handler.CreateSlug(context.Background(), createRequest("abc", "https://one.test"))
		require.NoError(t, err)

		_, err = handler.CreateSlug(context.Background(), createRequest("abc", "https://two.test"))

		model := requireStatus(t, err, http.StatusConflict)
		assert.Equal(t, "Slug is already used", model.Detail)
		require.Len(t, model.Errors, 1)
		assert.Equal(t, "body.slug", model.Errors[0].Location)
	})

	t.Run("maps store failures to 500", func(t *testing.T) {
		handler := newTestHandler(brokenStore{})

		_, err := handler.CreateSlug(context.Background(), createRequest("abc", "https://x.test"))

		requireStatus(t, err, http.StatusInternalServerError)
	})

	t.Run("publish failures do not fail the request", func(t *testing.T) {
		var published []*events.LinkCreatedEvent
		handler := handlers.NewLinkHandler(
			newService(store.NewMemoryStore()),
			recordPublish(&published, errors.New("stream down")),
			zap.NewNop(),
		)

		resp, err := handler.CreateSlug(context.Background(), createRequest("abc", "https://x.test"))

		require.NoError(t, err)
		assert.Equal(t, "abc", resp.Body.Slug)
		assert.Len(t, published, 1)
	})
}

func TestLinkHandler_SuggestSlug(t *testing.T) {
	t.Run("returns an unused slug", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())

		resp, err := handler.SuggestSlug(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "sugg3st", resp.Body.Slug)
	})

	t.Run("is unavailable when candidates are taken", func(t *testing.T) {
		handler := newTestHandler(store.NewMemoryStore())
		_, err := handler.CreateSlug(context.Background(), createRequest("sugg3st", "https://x.test"))
		require.NoError(t, err)

		_, err = handler.SuggestSlug(context.Background(), nil)

		requireStatus(t, err, http.StatusServiceUnavailable)
	})

	t.Run("maps store failures to 500", func(t *testing.T) {
		handler := newTestHandler(brokenStore{})

		_, err := handler.SuggestSlug(context.Background(), nil)

		requireStatus(t, err, http.StatusInternalServerError)
	})
}

func TestLinkHandler_Index(t *testing.T) {
	handler := handlers.NewLinkHandler(
		shortener.NewService(store.NewMemoryStore(), shortener.NewValidator(42, false), nil),
		messaging.NoopPublish[events.LinkCreatedEvent](),
		zap.NewNop(),
	)

	resp, err := handler.Index(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, "stubby", resp.Body.Name)
	assert.Equal(t, 42, resp.Body.MaxSlugLength)
	assert.False(t, resp.Body.StrictSlugs)
}
