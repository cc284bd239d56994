package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
)

const (
	sessionTable = "session"
	sessionRowID = 1
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore keeps the session as the only row of a local SQLite table.
// The schema comes from internal/db migrations.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Save(ctx context.Context, sess models.Session) error {
	if err := validate(sess); err != nil {
		return err
	}
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	_, err = sq.Insert(sessionTable).
		Columns("id", "token", "user_json", "saved_at").
		Values(sessionRowID, sess.Token, string(userJSON), sess.SavedAt.UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT(id) DO UPDATE SET token = excluded.token, user_json = excluded.user_json, saved_at = excluded.saved_at").
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (models.Session, error) {
	var token, userJSON, savedAt string
	err := sq.Select("token", "user_json", "saved_at").
		From(sessionTable).
		Where(sq.Eq{"id": sessionRowID}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&token, &userJSON, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrNoSession
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("select session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return models.Session{}, fmt.Errorf("decode session user: %v: %w", err, models.ErrSessionCorrupt)
	}
	sess := models.Session{User: &user, Token: token}
	if t, err := time.Parse(time.RFC3339Nano, savedAt); err == nil {
		sess.SavedAt = t
	}
	if !sess.Valid() {
		return models.Session{}, fmt.Errorf("session row is incomplete: %w", models.ErrSessionCorrupt)
	}
	return sess, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := sq.Delete(sessionTable).
		Where(sq.Eq{"id": sessionRowID}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
