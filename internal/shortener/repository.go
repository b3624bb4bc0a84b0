package shortener

import "context"

// Repository is the persistence contract for short links.
//
// Create is the only place uniqueness is enforced: implementations must reject
// a second link with the same slug with ErrDuplicateSlug even when both
// callers raced past an Exists check.
type Repository interface {
	Exists(ctx context.Context, slug Slug) (bool, error)
	Create(ctx context.Context, link *ShortLink) error
	GetBySlug(ctx context.Context, slug Slug) (*ShortLink, error)
}
