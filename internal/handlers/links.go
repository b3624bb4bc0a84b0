package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/stubby/internal/events"
	"github.com/serroba/stubby/internal/messaging"
	"github.com/serroba/stubby/internal/shortener"
	"go.uber.org/zap"
)

const (
	msgSlugUsed        = "Slug is already used"
	msgValidation      = "Invalid slug or link"
	msgNoSuggestion    = "Could not find an unused slug"
	msgCreateFailed    = "Failed to create slug"
	msgCheckFailed     = "Failed to check slug"
	msgSuggestFailed   = "Failed to suggest slug"
	serviceDisplayName = "stubby"
)

// LinkHandler serves the slug RPC operations.
type LinkHandler struct {
	service            *shortener.Service
	publishLinkCreated messaging.Publish[events.LinkCreatedEvent]
	logger             *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	service *shortener.Service,
	publishLinkCreated messaging.Publish[events.LinkCreatedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		service:            service,
		publishLinkCreated: publishLinkCreated,
		logger:             logger,
	}
}

func (h *LinkHandler) CheckSlug(ctx context.Context, req *CheckSlugRequest) (*CheckSlugResponse, error) {
	availability, err := h.service.CheckAvailability(ctx, shortener.Slug(req.Slug))
	if err != nil {
		h.logger.Error("failed to check slug", zap.String("slug", req.Slug), zap.Error(err))

		return nil, huma.Error500InternalServerError(msgCheckFailed)
	}

	resp := &CheckSlugResponse{}
	resp.Body.Used = availability.Used

	return resp, nil
}

func (h *LinkHandler) CreateSlug(ctx context.Context, req *CreateSlugRequest) (*CreateSlugResponse, error) {
	link, err := h.service.CreateLink(ctx, shortener.Slug(req.Body.Slug), req.Body.URL)
	if err != nil {
		return nil, h.createError(req, err)
	}

	meta := RequestMetaFromContext(ctx)
	if err := h.publishLinkCreated(ctx, events.NewLinkCreatedEvent(link, meta.ClientIP, meta.UserAgent)); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("slug", string(link.Slug)),
			zap.Error(err),
		)
	}

	resp := &CreateSlugResponse{Body: newLinkBody(link)}
	resp.Location = "/" + string(link.Slug)

	return resp, nil
}

func (h *LinkHandler) createError(req *CreateSlugRequest, err error) error {
	var verr *shortener.ValidationError
	if errors.As(err, &verr) {
		details := make([]error, 0, len(verr.Violations))

		for _, v := range verr.Violations {
			value := req.Body.Slug
			if v.Field == shortener.FieldURL {
				value = req.Body.URL
			}

			details = append(details, &huma.ErrorDetail{
				Message:  v.Message,
				Location: "body." + string(v.Field),
				Value:    value,
			})
		}

		return huma.Error422UnprocessableEntity(msgValidation, details...)
	}

	if errors.Is(err, shortener.ErrDuplicateSlug) {
		return huma.Error409Conflict(msgSlugUsed, &huma.ErrorDetail{
			Message:  msgSlugUsed,
			Location: "body." + string(shortener.FieldSlug),
			Value:    req.Body.Slug,
		})
	}

	h.logger.Error("failed to create slug", zap.String("slug", req.Body.Slug), zap.Error(err))

	return huma.Error500InternalServerError(msgCreateFailed)
}

func (h *LinkHandler) SuggestSlug(ctx context.Context, _ *struct{}) (*SuggestSlugResponse, error) {
	slug, err := h.service.SuggestSlug(ctx)
	if err != nil {
		if errors.Is(err, shortener.ErrNoSuggestion) {
			return nil, huma.Error503ServiceUnavailable(msgNoSuggestion)
		}

		h.logger.Error("failed to suggest slug", zap.Error(err))

		return nil, huma.Error500InternalServerError(msgSuggestFailed)
	}

	resp := &SuggestSlugResponse{}
	resp.Body.Slug = string(slug)

	return resp, nil
}

// Index describes the service and the slug rules clients should mirror.
func (h *LinkHandler) Index(_ context.Context, _ *struct{}) (*IndexResponse, error) {
	validator := h.service.Validator()

	resp := &IndexResponse{}
	resp.Body.Name = serviceDisplayName
	resp.Body.MaxSlugLength = validator.MaxSlugLength
	resp.Body.StrictSlugs = validator.Strict

	return resp, nil
}
