package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/stubby/internal/store/migrations"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// RedisClient closes the Redis connection when the injector shuts down.
type RedisClient struct {
	*redis.Client
}

func (c *RedisClient) Shutdown() error {
	return c.Close()
}

// PostgresPool closes the connection pool when the injector shuts down.
type PostgresPool struct {
	*pgxpool.Pool
}

func (p *PostgresPool) Shutdown() error {
	p.Close()

	return nil
}

// RedisPackage provides the Redis client.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		client := redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
		})

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()

			return nil, fmt.Errorf("connect to redis at %s: %w", opts.RedisAddr, err)
		}

		logger.Info("connected to redis", zap.String("addr", opts.RedisAddr))

		return &RedisClient{Client: client}, nil
	})
}

// PostgresPackage provides the PostgreSQL pool with the schema migrated.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*PostgresPool, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres pool: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		db := stdlib.OpenDBFromPool(pool)
		err = migrations.NewMigrator(db, logger).Up(ctx)

		// Closing db returns its connections to the pool without closing it.
		_ = db.Close()

		if err != nil {
			pool.Close()

			return nil, err
		}

		return &PostgresPool{Pool: pool}, nil
	})
}
