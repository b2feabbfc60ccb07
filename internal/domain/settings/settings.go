package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound          = errors.New("settings not found")
	QueryTimeoutDuration = time.Second * 5
)

// Settings is the single row of site-wide configuration.
type Settings struct {
	ID           string    `json:"id"`
	ContactPhone *string   `json:"contact_phone"`
	CreatedAt    time.Time `json:"created_at"`
}

// Update carries the editable settings fields. A nil ContactPhone clears it.
type Update struct {
	ContactPhone *string `json:"contact_phone" validate:"omitempty,phone"`
}

// Normalize trims the phone and turns a blank one into nil.
func (u *Update) Normalize() {
	if u.ContactPhone == nil {
		return
	}
	phone := strings.TrimSpace(*u.ContactPhone)
	if phone == "" {
		u.ContactPhone = nil
		return
	}
	u.ContactPhone = &phone
}

type Store interface {
	// Get returns the settings row or ErrNotFound when none exists yet.
	Get(ctx context.Context) (*Settings, error)
	Create(ctx context.Context, upd *Update) (*Settings, error)
	Update(ctx context.Context, id string, upd *Update) (*Settings, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{db: q}
}

func (r *Repository) Get(ctx context.Context) (*Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	s := &Settings{}
	err := r.db.QueryRow(ctx, `
		SELECT id, contact_phone, created_at
		FROM settings
		ORDER BY created_at ASC
		LIMIT 1`).Scan(&s.ID, &s.ContactPhone, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

func (r *Repository) Create(ctx context.Context, upd *Update) (*Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	s := &Settings{}
	err := r.db.QueryRow(ctx, `
		INSERT INTO settings (contact_phone)
		VALUES ($1)
		RETURNING id, contact_phone, created_at`, upd.ContactPhone).Scan(&s.ID, &s.ContactPhone, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create settings: %w", err)
	}
	return s, nil
}

func (r *Repository) Update(ctx context.Context, id string, upd *Update) (*Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	s := &Settings{}
	err := r.db.QueryRow(ctx, `
		UPDATE settings
		SET contact_phone = $2
		WHERE id = $1
		RETURNING id, contact_phone, created_at`, id, upd.ContactPhone).Scan(&s.ID, &s.ContactPhone, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return s, nil
}
