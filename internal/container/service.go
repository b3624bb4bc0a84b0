package container

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
	"github.com/samber/do"
	"github.com/serroba/stubby/internal/shortener"
)

// Suggested slugs avoid "_" so they pass the strict charset.
const slugAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

// ServicePackage provides the slug service.
func ServicePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		repo, err := do.Invoke[shortener.Repository](i)
		if err != nil {
			return nil, err
		}

		generator, err := nanoid.CustomASCII(slugAlphabet, opts.SuggestLength)
		if err != nil {
			return nil, fmt.Errorf("create slug generator: %w", err)
		}

		validator := shortener.NewValidator(opts.MaxSlugLength, opts.StrictSlugs)

		return shortener.NewService(repo, validator, generator), nil
	})
}
