package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/wallframe/wallframe-core/pkg/clients/postgres"
	wferr "github.com/wallframe/wallframe-core/pkg/errors"
	"github.com/wallframe/wallframe-core/pkg/models"
)

// userColumns is the select list shared by all user queries. The scan
// order in scanUser must match.
const userColumns = "id, username, email, role, wishlist, verified, created_at, updated_at"

// PostgresUserStore implements [UserStore] on PostgreSQL. Query tracing
// comes from the underlying postgres client; this layer adds the error
// mapping the authentication core relies on.
type PostgresUserStore struct {
	client *postgres.Client
}

// NewPostgresUserStore creates a user store backed by the given client.
func NewPostgresUserStore(client *postgres.Client) *PostgresUserStore {
	return &PostgresUserStore{client: client}
}

var _ UserStore = (*PostgresUserStore)(nil)

// FindByID returns the account with the given ID, or NF_002 if none
// exists.
func (s *PostgresUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	row := s.client.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapLookupError(err, "store: user with id not found")
	}
	return user, nil
}

// FindByEmail returns the account with the given email address, or
// NF_002 if none exists.
func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.client.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapLookupError(err, "store: user with email not found")
	}
	return user, nil
}

// scanUser reads one user row in userColumns order.
func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Role,
		&u.Wishlist,
		&u.Verified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// mapLookupError converts a scan error to the platform taxonomy:
// no rows is NF_002, cancellation is TIMEOUT_002, anything else is
// INT_002.
func mapLookupError(err error, notFoundMessage string) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return wferr.Wrap(err, wferr.CodeNotFoundUser, notFoundMessage)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return wferr.Wrap(err, wferr.CodeTimeoutDatabase, "store: user lookup timed out")
	default:
		return wferr.Wrap(err, wferr.CodeInternalDatabase, "store: user lookup failed")
	}
}
