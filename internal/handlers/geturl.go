package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/serroba/stubby/internal/shortener"
	"go.uber.org/zap"
)

const (
	msgNoSlug      = "No slug provided"
	msgInvalidSlug = "Invalid slug, must be valid string"
	msgNoSuchSlug  = "No such slug exists"
	msgLookupError = "Failed to look up slug"

	linkCacheControl = "s-maxage=1000000000, stale-while-revalidate"
)

// GetURL returns the stored link for the slug in the wildcard path segment.
// Links are immutable, so successful responses may be cached by shared caches
// indefinitely.
func (h *LinkHandler) GetURL(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "*")

	switch {
	case slug == "":
		writeJSON(w, http.StatusNotFound, ErrorBody{Message: msgNoSlug})

		return
	case strings.Contains(slug, "/"):
		writeJSON(w, http.StatusBadRequest, ErrorBody{Message: msgInvalidSlug})

		return
	}

	link, err := h.service.Lookup(r.Context(), shortener.Slug(slug))
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorBody{Message: msgNoSuchSlug})

			return
		}

		h.logger.Error("failed to look up slug", zap.String("slug", slug), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorBody{Message: msgLookupError})

		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", linkCacheControl)
	writeJSON(w, http.StatusOK, newLinkBody(link))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
