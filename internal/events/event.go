package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/serroba/stubby/internal/shortener"
)

// TopicLinkCreated is the stream link creations are published to.
const TopicLinkCreated = "link.created"

// LinkCreatedEvent is emitted after a short link has been persisted.
type LinkCreatedEvent struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	ClientIP  string    `json:"clientIp,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// NewLinkCreatedEvent builds the event for a freshly created link.
func NewLinkCreatedEvent(link *shortener.ShortLink, clientIP, userAgent string) *LinkCreatedEvent {
	return &LinkCreatedEvent{
		ID:        link.ID,
		Slug:      string(link.Slug),
		URL:       link.URL,
		CreatedAt: link.CreatedAt,
		ClientIP:  clientIP,
		UserAgent: userAgent,
	}
}

// Link returns the short link the event describes.
func (e *LinkCreatedEvent) Link() *shortener.ShortLink {
	return &shortener.ShortLink{
		ID:        e.ID,
		Slug:      shortener.Slug(e.Slug),
		URL:       e.URL,
		CreatedAt: e.CreatedAt,
	}
}
