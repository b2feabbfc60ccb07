package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Store interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	GetByID(ctx context.Context, id string) (*Admin, error)
	Create(ctx context.Context, a *Admin) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{db: q}
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	a := &Admin{}
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password, created_at FROM admins WHERE email = $1`,
		normalizeEmail(email),
	).Scan(&a.ID, &a.Email, &a.Password.hash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by email: %w", err)
	}
	return a, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	a := &Admin{}
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password, created_at FROM admins WHERE id = $1`, id,
	).Scan(&a.ID, &a.Email, &a.Password.hash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by id: %w", err)
	}
	return a, nil
}

// Create inserts the admin; Password must already be Set.
func (r *Repository) Create(ctx context.Context, a *Admin) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	a.Email = normalizeEmail(a.Email)
	err := r.db.QueryRow(ctx,
		`INSERT INTO admins (email, password) VALUES ($1, $2) RETURNING id, created_at`,
		a.Email, a.Password.hash,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
