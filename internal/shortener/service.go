package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const suggestAttempts = 5

// ErrNoSuggestion is returned when every generated slug was already taken.
var ErrNoSuggestion = errors.New("could not find an unused slug")

// CodeGenerator generates candidate slugs.
type CodeGenerator func() string

// Availability reports whether a slug is taken.
type Availability struct {
	Used bool
}

// Service validates, creates and resolves short links.
type Service struct {
	store        Repository
	validator    Validator
	generateSlug CodeGenerator
}

// NewService creates a new slug service.
func NewService(store Repository, validator Validator, generator CodeGenerator) *Service {
	return &Service{
		store:        store,
		validator:    validator,
		generateSlug: generator,
	}
}

// Validator returns the rules the service enforces on create.
func (s *Service) Validator() Validator {
	return s.validator
}

// CheckAvailability reports whether slug is currently taken. The answer is
// advisory: nothing is reserved, and CreateLink may still fail with
// ErrDuplicateSlug.
func (s *Service) CheckAvailability(ctx context.Context, slug Slug) (Availability, error) {
	used, err := s.store.Exists(ctx, slug)
	if err != nil {
		return Availability{}, fmt.Errorf("check slug %q: %w", slug, err)
	}

	return Availability{Used: used}, nil
}

// CreateLink validates the input and persists a new short link.
func (s *Service) CreateLink(ctx context.Context, slug Slug, url string) (*ShortLink, error) {
	if err := s.validator.Validate(string(slug), url); err != nil {
		return nil, err
	}

	link := &ShortLink{
		ID:        uuid.New(),
		Slug:      slug,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("create slug %q: %w", slug, err)
	}

	return link, nil
}

// Lookup returns the stored link for slug.
func (s *Service) Lookup(ctx context.Context, slug Slug) (*ShortLink, error) {
	link, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("lookup slug %q: %w", slug, err)
	}

	return link, nil
}

// Resolve returns the destination URL for slug. Stored links resolve even if
// they would no longer pass validation.
func (s *Service) Resolve(ctx context.Context, slug Slug) (string, error) {
	link, err := s.Lookup(ctx, slug)
	if err != nil {
		return "", err
	}

	return link.URL, nil
}

// SuggestSlug returns a random slug that was unused at the time of the call.
func (s *Service) SuggestSlug(ctx context.Context) (Slug, error) {
	for range suggestAttempts {
		candidate := Slug(s.generateSlug())
		if len(s.validator.ValidateSlug(string(candidate))) > 0 {
			continue
		}

		used, err := s.store.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("suggest slug: %w", err)
		}

		if !used {
			return candidate, nil
		}
	}

	return "", ErrNoSuggestion
}
