package handlers

import (
	"time"

	"github.com/serroba/stubby/internal/shortener"
)

// LinkBody is the wire form of a short link.
type LinkBody struct {
	ID        string    `doc:"Link identifier"          format:"uuid"                 json:"id"`
	Slug      string    `doc:"The short slug"           example:"my-link"             json:"slug"`
	URL       string    `doc:"The destination URL"      example:"https://example.com" json:"url"`
	CreatedAt time.Time `doc:"When the link was created" json:"createdAt"`
}

func newLinkBody(link *shortener.ShortLink) LinkBody {
	return LinkBody{
		ID:        link.ID.String(),
		Slug:      string(link.Slug),
		URL:       link.URL,
		CreatedAt: link.CreatedAt,
	}
}

// CheckSlugRequest asks whether a slug is taken.
type CheckSlugRequest struct {
	Slug string `doc:"The slug to check, may be empty" example:"my-link" query:"slug"`
}

// CheckSlugResponse reports slug availability.
type CheckSlugResponse struct {
	Body struct {
		Used bool `doc:"Whether the slug is already taken" json:"used"`
	}
}

// CreateSlugRequest is the request body for creating a short link.
type CreateSlugRequest struct {
	Body struct {
		Slug string `doc:"The desired slug" example:"my-link"             json:"slug"`
		URL  string `doc:"The URL to shorten" example:"https://example.com" json:"url"`
	}
}

// CreateSlugResponse is the response for a successfully created short link.
type CreateSlugResponse struct {
	Location string `doc:"Path that redirects to the URL" header:"Location"`
	Body     LinkBody
}

// SuggestSlugResponse carries a random unused slug.
type SuggestSlugResponse struct {
	Body struct {
		Slug string `doc:"A slug that was unused when generated" example:"x7Kq2mPa" json:"slug"`
	}
}

// IndexResponse describes the service to clients.
type IndexResponse struct {
	Body struct {
		Name          string `doc:"Service name"                          json:"name"`
		MaxSlugLength int    `doc:"Slugs must be shorter than this"       json:"maxSlugLength"`
		StrictSlugs   bool   `doc:"Slugs are limited to letters, digits and hyphens" json:"strictSlugs"`
	}
}

// ErrorBody is the JSON body of the raw read endpoint's failures.
type ErrorBody struct {
	Message string `json:"message"`
}
