package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the slug RPC operations and the service descriptor.
func RegisterRoutes(api huma.API, h *LinkHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "check-slug",
		Method:      http.MethodGet,
		Path:        "/api/trpc/checkSlug",
		Summary:     "Check slug availability",
		Description: "Reports whether a slug is taken. The answer is advisory and reserves nothing.",
		Tags:        []string{"Slugs"},
	}, h.CheckSlug)

	huma.Register(api, huma.Operation{
		OperationID:   "create-slug",
		Method:        http.MethodPost,
		Path:          "/api/trpc/createSlug",
		Summary:       "Create short link",
		Description:   "Validates the slug and URL and stores the mapping. A taken slug yields 409.",
		Tags:          []string{"Slugs"},
		DefaultStatus: http.StatusCreated,
	}, h.CreateSlug)

	huma.Register(api, huma.Operation{
		OperationID: "suggest-slug",
		Method:      http.MethodGet,
		Path:        "/api/trpc/suggestSlug",
		Summary:     "Suggest an unused slug",
		Tags:        []string{"Slugs"},
	}, h.SuggestSlug)

	huma.Register(api, huma.Operation{
		OperationID: "index",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Describe the service",
		Tags:        []string{"Service"},
	}, h.Index)
}

// MountGetURL mounts the raw read endpoint. It bypasses huma so that the
// wildcard can carry malformed multi-segment slugs to the handler.
func MountGetURL(router chi.Router, h *LinkHandler) {
	router.Get("/api/get-url", h.GetURL)
	router.Get("/api/get-url/*", h.GetURL)
}
