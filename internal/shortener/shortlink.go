package shortener

import (
	"time"

	"github.com/google/uuid"
)

// Slug is the user-chosen identifier of a short link.
type Slug string

// ShortLink maps a slug to its destination URL. Links are immutable once created.
type ShortLink struct {
	ID        uuid.UUID
	Slug      Slug
	URL       string
	CreatedAt time.Time
}
