package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/samber/do"
	"github.com/serroba/stubby/internal/events"
	"github.com/serroba/stubby/internal/gateway"
	"github.com/serroba/stubby/internal/handlers"
	"github.com/serroba/stubby/internal/health"
	"github.com/serroba/stubby/internal/messaging"
	"github.com/serroba/stubby/internal/middleware"
	"github.com/serroba/stubby/internal/shortener"
	"github.com/serroba/stubby/internal/store"
	"go.uber.org/zap"
)

// NewAPIConfig keeps every huma path under /api/ so the redirect gateway
// never treats them as slugs.
func NewAPIConfig() huma.Config {
	config := huma.DefaultConfig("Stubby", "1.0.0")
	config.OpenAPIPath = "/api/openapi"
	config.DocsPath = "/api/docs"
	config.SchemasPath = "/api/schemas"

	return config
}

// HTTPPackage provides the router and the huma API with every route
// registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*chi.Mux, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		service, err := do.Invoke[*shortener.Service](i)
		if err != nil {
			return nil, err
		}

		// Middlewares must be in place before humachi registers any route.
		router := chi.NewMux()
		router.Use(chimw.Recoverer)
		router.Use(middleware.AccessLog(logger))
		router.Use(gateway.Middleware(service, logger))

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		service := do.MustInvoke[*shortener.Service](i)

		publish, err := do.Invoke[messaging.Publish[events.LinkCreatedEvent]](i)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, NewAPIConfig())
		api.UseMiddleware(middleware.RequestMeta(api))

		linkHandler := handlers.NewLinkHandler(service, publish, logger)
		handlers.MountGetURL(router, linkHandler)
		handlers.RegisterRoutes(api, linkHandler)
		health.RegisterRoutes(api, health.NewHandler(healthCheckers(i)))

		return api, nil
	})
}

func healthCheckers(i *do.Injector) map[string]health.Checker {
	opts := do.MustInvoke[*Options](i)
	checkers := map[string]health.Checker{}

	if opts.UsesRedis() {
		checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*RedisClient](i).Client)
	}

	if opts.Store == StorePostgres {
		checkers["postgres"] = store.NewPostgresStore(do.MustInvoke[*PostgresPool](i).Pool)
	}

	return checkers
}
