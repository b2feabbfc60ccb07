package db

import (
	"io"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_EmbeddedSourceIsVersioned(t *testing.T) {
	src, err := iofs.New(migrations, "migrations")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, ident, err := src.ReadUp(first)
	require.NoError(t, err)
	body, err := io.ReadAll(up)
	up.Close()
	require.NoError(t, err)
	assert.Equal(t, "init", ident)
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS products")

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	down.Close()

	_, err = src.Next(first)
	assert.ErrorIs(t, err, os.ErrNotExist, "versions after the last file")
}
