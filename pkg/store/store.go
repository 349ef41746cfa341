// Package store provides persistence for WallFrame accounts. The
// authentication core resolves verified token subjects against a
// [UserStore]; the packaged implementation runs on PostgreSQL via the
// pkg/clients/postgres client.
package store

import (
	"context"

	"github.com/wallframe/wallframe-core/pkg/models"
)

// UserStore looks up account records. Implementations return a
// [*wferr.Error] with code NF_002 when no account matches, and server
// fault codes (INT_002, TIMEOUT_002) for infrastructure failures so
// callers can tell "no such user" apart from "the database is down".
type UserStore interface {
	// FindByID returns the account with the given ID.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail returns the account with the given email address.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
