package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
	database "github.com/FACorreiaa/go-checkpoint/internal/db"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/session"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func sampleSession() models.Session {
	return models.Session{
		User:  &models.User{ID: 1, Name: "A", Email: "a@b.com", Role: models.RoleUser},
		Token: "t1",
	}
}

func stores(t *testing.T) map[string]session.Store {
	t.Helper()
	dir := t.TempDir()

	plain, err := session.NewFileStore(filepath.Join(dir, "plain", "session.json"), nil)
	require.NoError(t, err)
	sealed, err := session.NewFileStore(filepath.Join(dir, "sealed", "session.json"), testKey)
	require.NoError(t, err)

	db, err := database.OpenAndMigrate(context.Background(), filepath.Join(dir, "session.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]session.Store{
		"memory": session.NewMemoryStore(),
		"file":   plain,
		"sealed": sealed,
		"sqlite": session.NewSQLiteStore(db),
	}
}

func TestStores_RoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Load(ctx)
			assert.ErrorIs(t, err, session.ErrNoSession)

			require.NoError(t, store.Save(ctx, sampleSession()))
			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "t1", got.Token)
			assert.Equal(t, *sampleSession().User, *got.User)

			next := sampleSession()
			next.Token = "t2"
			next.User.Name = "B"
			require.NoError(t, store.Save(ctx, next))
			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "t2", got.Token)
			assert.Equal(t, "B", got.User.Name)

			require.NoError(t, store.Clear(ctx))
			require.NoError(t, store.Clear(ctx))
			_, err = store.Load(ctx)
			assert.ErrorIs(t, err, session.ErrNoSession)
		})
	}
}

func TestStores_RejectHalfSessions(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			err := store.Save(ctx, models.Session{Token: "t1"})
			assert.ErrorIs(t, err, models.ErrValidation)
			err = store.Save(ctx, models.Session{User: &models.User{ID: 1}})
			assert.ErrorIs(t, err, models.ErrValidation)

			_, err = store.Load(ctx)
			assert.ErrorIs(t, err, session.ErrNoSession)
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()
	s := sampleSession()
	require.NoError(t, store.Save(ctx, s))
	s.User.Name = "mutated"

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", got.User.Name)
}

func TestFileStore_SealedFileIsOpaque(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := session.NewFileStore(path, testKey)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), sampleSession()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "a@b.com")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	unkeyed, err := session.NewFileStore(path, nil)
	require.NoError(t, err)
	_, err = unkeyed.Load(context.Background())
	assert.ErrorIs(t, err, models.ErrSessionCorrupt)

	wrong, err := session.NewFileStore(path, []byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)
	_, err = wrong.Load(context.Background())
	assert.ErrorIs(t, err, models.ErrSessionCorrupt)
}

func TestFileStore_CorruptData(t *testing.T) {
	tests := map[string]string{
		"not json":        "{user: nope",
		"missing token":   `{"v":1,"user":{"id_usuario":1}}`,
		"missing user":    `{"v":1,"token":"t1"}`,
		"truncated seal":  "sealed:v1:AAAA",
		"bad base64 seal": "sealed:v1:!!!",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
			store, err := session.NewFileStore(path, testKey)
			require.NoError(t, err)

			_, err = store.Load(context.Background())
			assert.ErrorIs(t, err, models.ErrSessionCorrupt)
		})
	}
}

func TestFileStore_EmptyFileIsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	store, err := session.NewFileStore(path, nil)
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestNewFileStore_KeyLength(t *testing.T) {
	_, err := session.NewFileStore("x", []byte("short"))
	assert.Error(t, err)
}

func TestSQLiteStore_CorruptUserRow(t *testing.T) {
	db, err := database.OpenAndMigrate(context.Background(), filepath.Join(t.TempDir(), "s.db"), zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO session (id, token, user_json, saved_at) VALUES (1, 't1', 'not-json', '')`)
	require.NoError(t, err)

	_, err = session.NewSQLiteStore(db).Load(context.Background())
	assert.ErrorIs(t, err, models.ErrSessionCorrupt)
}

func TestManager_CorruptSessionReadsAsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not-json"), 0o600))
	store, err := session.NewFileStore(path, nil)
	require.NoError(t, err)
	m := session.NewManager(store, zap.NewNop())

	user, ok := m.Current(context.Background())
	assert.False(t, ok)
	assert.Nil(t, user)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "corrupt session file should be removed")
}

func TestManager_SaveCurrentTokenClear(t *testing.T) {
	m := session.NewManager(session.NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	_, ok := m.Token(ctx)
	assert.False(t, ok)

	require.NoError(t, m.Save(ctx, models.User{ID: 1, Name: "A", Role: models.RoleUser}, "t1"))
	user, ok := m.Current(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(1), user.ID)
	token, ok := m.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "t1", token)

	s, ok := m.Session(ctx)
	require.True(t, ok)
	assert.False(t, s.SavedAt.IsZero())

	require.NoError(t, m.Clear(ctx))
	_, ok = m.Current(ctx)
	assert.False(t, ok)
	_, ok = m.Token(ctx)
	assert.False(t, ok)
}

func TestManager_SaveRejectsEmptyToken(t *testing.T) {
	m := session.NewManager(session.NewMemoryStore(), zap.NewNop())
	err := m.Save(context.Background(), models.User{ID: 1}, "")
	assert.ErrorIs(t, err, models.ErrValidation)
}
