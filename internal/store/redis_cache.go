package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/stubby/internal/shortener"
	"go.uber.org/zap"
)

// Cache holds copies of links that are known to exist.
type Cache interface {
	Get(ctx context.Context, slug shortener.Slug) (*shortener.ShortLink, error)
	Put(ctx context.Context, link *shortener.ShortLink) error
}

// RedisLinkCache stores links as Redis hashes under "cache:link:<slug>".
type RedisLinkCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisLinkCache creates a link cache; a ttl of zero keeps entries forever.
func NewRedisLinkCache(client *redis.Client, ttl time.Duration) *RedisLinkCache {
	return &RedisLinkCache{
		client: client,
		prefix: "cache:link:",
		ttl:    ttl,
	}
}

// Get returns the cached link or shortener.ErrNotFound on a miss.
func (c *RedisLinkCache) Get(ctx context.Context, slug shortener.Slug) (*shortener.ShortLink, error) {
	result, err := c.client.HGetAll(ctx, c.prefix+string(slug)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	var createdAt time.Time

	if ts, ok := result["created_at"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			createdAt = time.Unix(0, nanos).UTC()
		}
	}

	id, _ := uuid.Parse(result["id"])

	return &shortener.ShortLink{
		ID:        id,
		Slug:      shortener.Slug(result["slug"]),
		URL:       result["url"],
		CreatedAt: createdAt,
	}, nil
}

// Put caches link. Links never change, so overwriting is harmless.
func (c *RedisLinkCache) Put(ctx context.Context, link *shortener.ShortLink) error {
	pipe := c.client.Pipeline()
	key := c.prefix + string(link.Slug)

	pipe.HSet(ctx, key, map[string]interface{}{
		"id":         link.ID.String(),
		"slug":       string(link.Slug),
		"url":        link.URL,
		"created_at": link.CreatedAt.UnixNano(),
	})

	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}

	_, err := pipe.Exec(ctx)

	return err
}

// RedisCacheRepository wraps a Repository with a read-through cache.
// Only positive results are cached, so a slug created through another
// process becomes visible as soon as the backing store has it. Cache failures
// are logged and never fail a call; the backing store answers instead.
type RedisCacheRepository struct {
	store  shortener.Repository
	cache  Cache
	logger *zap.Logger
}

// NewRedisCacheRepository creates a new cached repository decorator.
func NewRedisCacheRepository(store shortener.Repository, cache Cache, logger *zap.Logger) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

func (r *RedisCacheRepository) Exists(ctx context.Context, slug shortener.Slug) (bool, error) {
	if _, ok := r.cached(ctx, slug); ok {
		return true, nil
	}

	return r.store.Exists(ctx, slug)
}

// Create writes to the backing store, which stays the authority on
// uniqueness, and caches the link on success.
func (r *RedisCacheRepository) Create(ctx context.Context, link *shortener.ShortLink) error {
	if err := r.store.Create(ctx, link); err != nil {
		return err
	}

	r.put(ctx, link)

	return nil
}

func (r *RedisCacheRepository) GetBySlug(ctx context.Context, slug shortener.Slug) (*shortener.ShortLink, error) {
	if link, ok := r.cached(ctx, slug); ok {
		return link, nil
	}

	link, err := r.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	r.put(ctx, link)

	return link, nil
}

func (r *RedisCacheRepository) cached(ctx context.Context, slug shortener.Slug) (*shortener.ShortLink, bool) {
	link, err := r.cache.Get(ctx, slug)
	if err == nil {
		return link, true
	}

	if !errors.Is(err, shortener.ErrNotFound) {
		r.logger.Warn("link cache read failed",
			zap.String("slug", string(slug)),
			zap.Error(err),
		)
	}

	return nil, false
}

func (r *RedisCacheRepository) put(ctx context.Context, link *shortener.ShortLink) {
	if err := r.cache.Put(ctx, link); err != nil {
		r.logger.Warn("link cache write failed",
			zap.String("slug", string(link.Slug)),
			zap.Error(err),
		)
	}
}

// Compile-time checks.
var (
	_ shortener.Repository = (*RedisCacheRepository)(nil)
	_ Cache                = (*RedisLinkCache)(nil)
)
