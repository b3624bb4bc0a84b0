// Package gateway redirects short link paths before they reach the router.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/serroba/stubby/internal/shortener"
	"go.uber.org/zap"
)

const apiPrefix = "/api/"

// Resolver turns a slug into its destination URL.
type Resolver interface {
	Resolve(ctx context.Context, slug shortener.Slug) (string, error)
}

// SlugFromPath returns the text after the final "/" of path.
func SlugFromPath(path string) shortener.Slug {
	return shortener.Slug(path[strings.LastIndex(path, "/")+1:])
}

// Intercepts reports whether the gateway handles path instead of the router.
func Intercepts(path string) bool {
	return path != "/" && path != "" && !strings.HasPrefix(path, apiPrefix)
}

// Middleware redirects every non-API, non-root request to the stored URL of
// its slug, or to "/" when the slug is unknown.
func Middleware(resolver Resolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Intercepts(r.URL.Path) {
				next.ServeHTTP(w, r)

				return
			}

			slug := SlugFromPath(r.URL.Path)

			url, err := resolver.Resolve(r.Context(), slug)
			switch {
			case err == nil:
				http.Redirect(w, r, url, http.StatusMovedPermanently)
			case errors.Is(err, shortener.ErrNotFound):
				http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
			default:
				logger.Error("failed to resolve slug",
					zap.String("slug", string(slug)),
					zap.Error(err),
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		})
	}
}
