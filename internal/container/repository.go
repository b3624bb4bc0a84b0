package container

import (
	"github.com/samber/do"
	"github.com/serroba/stubby/internal/shortener"
	"github.com/serroba/stubby/internal/store"
	"go.uber.org/zap"
)

// RepositoryPackage provides the link store selected by Options.Store.
func RepositoryPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		switch opts.Store {
		case StoreRedis:
			client, err := do.Invoke[*RedisClient](i)
			if err != nil {
				return nil, err
			}

			logger.Info("using redis link store")

			return store.NewRedisStore(client.Client), nil
		case StorePostgres:
			pool, err := do.Invoke[*PostgresPool](i)
			if err != nil {
				return nil, err
			}

			var repo shortener.Repository = store.NewPostgresStore(pool.Pool)

			if opts.UsesCache() {
				client, err := do.Invoke[*RedisClient](i)
				if err != nil {
					return nil, err
				}

				repo = store.NewRedisCacheRepository(
					repo,
					store.NewRedisLinkCache(client.Client, opts.CacheDuration()),
					logger.Named("link-cache"),
				)
			}

			logger.Info("using postgres link store", zap.Bool("cache", opts.UsesCache()))

			return repo, nil
		default:
			logger.Warn("using in-memory link store, links are lost on restart")

			return store.NewMemoryStore(), nil
		}
	})
}
