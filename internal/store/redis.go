package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/stubby/internal/shortener"
)

// RedisStore is a Redis implementation of shortener.Repository. Each link is a
// JSON document under "link:<slug>", written with SETNX so Redis decides which
// of two racing creates wins.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed link store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "link:",
	}
}

type redisLink struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *RedisStore) Exists(ctx context.Context, slug shortener.Slug) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+string(slug)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *RedisStore) Create(ctx context.Context, link *shortener.ShortLink) error {
	payload, err := json.Marshal(redisLink{
		ID:        link.ID.String(),
		Slug:      string(link.Slug),
		URL:       link.URL,
		CreatedAt: link.CreatedAt,
	})
	if err != nil {
		return err
	}

	ok, err := r.client.SetNX(ctx, r.prefix+string(link.Slug), payload, 0).Result()
	if err != nil {
		return err
	}

	if !ok {
		return shortener.ErrDuplicateSlug
	}

	return nil
}

func (r *RedisStore) GetBySlug(ctx context.Context, slug shortener.Slug) (*shortener.ShortLink, error) {
	payload, err := r.client.Get(ctx, r.prefix+string(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	var stored redisLink
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("decode link %q: %w", slug, err)
	}

	id, err := uuid.Parse(stored.ID)
	if err != nil {
		return nil, fmt.Errorf("decode link %q: %w", slug, err)
	}

	return &shortener.ShortLink{
		ID:        id,
		Slug:      shortener.Slug(stored.Slug),
		URL:       stored.URL,
		CreatedAt: stored.CreatedAt,
	}, nil
}

// Compile-time check.
var _ shortener.Repository = (*RedisStore)(nil)
