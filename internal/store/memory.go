package store

import (
	"context"
	"sync"

	"github.com/serroba/stubby/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[shortener.Slug]shortener.ShortLink
}

// NewMemoryStore creates a new in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[shortener.Slug]shortener.ShortLink),
	}
}

func (m *MemoryStore) Exists(_ context.Context, slug shortener.Slug) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.links[slug]

	return ok, nil
}

// Create inserts link unless its slug is taken. The check and the insert
// happen under one write lock.
func (m *MemoryStore) Create(_ context.Context, link *shortener.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[link.Slug]; ok {
		return shortener.ErrDuplicateSlug
	}

	m.links[link.Slug] = *link

	return nil
}

func (m *MemoryStore) GetBySlug(_ context.Context, slug shortener.Slug) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[slug]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &link, nil
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
