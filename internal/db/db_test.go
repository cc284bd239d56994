package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenAndMigrate_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	logger := zap.NewNop()

	db, err := OpenAndMigrate(context.Background(), path, logger)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, RunMigrations(db, logger))

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'session'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "session", name)
}

func TestSessionTable_HoldsOneRow(t *testing.T) {
	db, err := OpenAndMigrate(context.Background(), filepath.Join(t.TempDir(), "s.db"), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO session (id, token, user_json, saved_at) VALUES (2, 't', '{}', 'now')`)
	assert.Error(t, err)
}
