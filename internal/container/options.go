// Package container wires the service together with samber/do.
package container

import (
	"fmt"
	"time"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Options are read from flags and SERVICE_* environment variables.
type Options struct {
	Port          int    `default:"8888"           help:"Port to listen on"                                short:"p"`
	MaxSlugLength int    `default:"191"            help:"Slugs must be shorter than this many characters"`
	StrictSlugs   bool   `default:"true"           help:"Only allow letters, digits and hyphens in slugs"`
	SuggestLength int    `default:"8"              help:"Length of suggested slugs"`
	Store         string `default:"memory"         help:"Link store: memory, redis or postgres"            short:"s"`
	RedisAddr     string `default:"localhost:6379" help:"Redis server address"                             short:"r"`
	DatabaseURL   string `default:""               help:"PostgreSQL connection string"                     short:"d"`
	Cache         bool   `default:"true"           help:"Cache postgres lookups in Redis"`
	CacheTTL      int    `default:"3600"           help:"Seconds a cached link is kept, 0 keeps it forever"`
	Events        bool   `default:"false"          help:"Publish link events to Redis Streams"`
	LogFormat     string `default:"console"        help:"Log format: console or json"`
}

// Validate rejects option combinations the container cannot wire.
func (o *Options) Validate() error {
	switch o.Store {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if o.DatabaseURL == "" {
			return fmt.Errorf("store %q needs a database url", o.Store)
		}
	default:
		return fmt.Errorf("unknown store %q", o.Store)
	}

	if o.MaxSlugLength < 2 {
		return fmt.Errorf("max slug length must be at least 2, got %d", o.MaxSlugLength)
	}

	if o.SuggestLength < 1 {
		return fmt.Errorf("suggest length must be positive, got %d", o.SuggestLength)
	}

	// Slugs must be strictly shorter than MaxSlugLength, so longer
	// suggestions could never be accepted.
	if o.SuggestLength >= o.MaxSlugLength {
		return fmt.Errorf("suggest length %d must be below max slug length %d", o.SuggestLength, o.MaxSlugLength)
	}

	if o.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %d", o.CacheTTL)
	}

	return nil
}

// UsesCache reports whether lookups go through the Redis link cache.
func (o *Options) UsesCache() bool {
	return o.Store == StorePostgres && o.Cache
}

// UsesRedis reports whether any component needs a Redis connection.
func (o *Options) UsesRedis() bool {
	return o.Store == StoreRedis || o.UsesCache() || o.Events
}

// CacheDuration is CacheTTL as a duration.
func (o *Options) CacheDuration() time.Duration {
	return time.Duration(o.CacheTTL) * time.Second
}
