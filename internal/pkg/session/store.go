// Package session persists the signed-in user and bearer token of this process.
//
// Token and user live in one serialized record written by one storage
// operation, so a reader never observes a token without its user or the
// reverse.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
)

// ErrNoSession is returned by Load when nothing is persisted.
var ErrNoSession = errors.New("no session")

// Store is durable storage for a single session record.
type Store interface {
	// Save replaces the persisted session in one write.
	Save(ctx context.Context, s models.Session) error
	// Load returns ErrNoSession when empty and models.ErrSessionCorrupt when
	// the persisted bytes cannot be decoded into a valid session.
	Load(ctx context.Context) (models.Session, error)
	// Clear removes the session. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

func validate(s models.Session) error {
	if !s.Valid() {
		return fmt.Errorf("session needs both token and user: %w", models.ErrValidation)
	}
	return nil
}
