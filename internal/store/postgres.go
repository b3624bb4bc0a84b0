package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/stubby/internal/shortener"
)

const (
	uniqueViolation      = "23505"
	slugUniqueConstraint = "short_links_slug_key"
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
// Uniqueness is enforced by the short_links_slug_key constraint.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Exists(ctx context.Context, slug shortener.Slug) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM short_links WHERE slug = $1)`

	var exists bool
	if err := p.pool.QueryRow(ctx, query, string(slug)).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (p *PostgresStore) Create(ctx context.Context, link *shortener.ShortLink) error {
	query := `
		INSERT INTO short_links (id, slug, url, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.pool.Exec(ctx, query,
		link.ID,
		string(link.Slug),
		link.URL,
		link.CreatedAt,
	)
	if err != nil {
		if isSlugUniqueViolation(err) {
			return fmt.Errorf("%w: %s", shortener.ErrDuplicateSlug, link.Slug)
		}

		return err
	}

	return nil
}

func (p *PostgresStore) GetBySlug(ctx context.Context, slug shortener.Slug) (*shortener.ShortLink, error) {
	query := `
		SELECT id, slug, url, created_at
		FROM short_links
		WHERE slug = $1
	`

	var link shortener.ShortLink

	err := p.pool.QueryRow(ctx, query, string(slug)).Scan(
		&link.ID,
		&link.Slug,
		&link.URL,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	link.CreatedAt = link.CreatedAt.UTC()

	return &link, nil
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func isSlugUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == slugUniqueConstraint
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
