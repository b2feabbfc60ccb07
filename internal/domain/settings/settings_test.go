package settings

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "contact_phone", "created_at"}

func TestRepository_Get_NoRowIsNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("FROM settings").WillReturnError(pgx.ErrNoRows)

	s, err := NewRepository(mock).Get(context.Background())
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateThenUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	phone := "050-1234567"
	repo := NewRepository(mock)

	mock.ExpectQuery("INSERT INTO settings").
		WithArgs(&phone).
		WillReturnRows(pgxmock.NewRows(columns).AddRow("s-1", &phone, now))

	created, err := repo.Create(context.Background(), &Update{ContactPhone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "s-1", created.ID)

	mock.ExpectQuery("UPDATE settings").
		WithArgs("s-1", (*string)(nil)).
		WillReturnRows(pgxmock.NewRows(columns).AddRow("s-1", (*string)(nil), now))

	updated, err := repo.Update(context.Background(), "s-1", &Update{})
	require.NoError(t, err)
	assert.Nil(t, updated.ContactPhone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_Normalize(t *testing.T) {
	blank := "   "
	u := Update{ContactPhone: &blank}
	u.Normalize()
	assert.Nil(t, u.ContactPhone)

	padded := " +1 212 555 0100 "
	u = Update{ContactPhone: &padded}
	u.Normalize()
	require.NotNil(t, u.ContactPhone)
	assert.Equal(t, "+1 212 555 0100", *u.ContactPhone)

	u = Update{}
	u.Normalize()
	assert.Nil(t, u.ContactPhone)
}
