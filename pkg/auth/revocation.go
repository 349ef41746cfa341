package auth

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/wallframe/wallframe-core/pkg/clients/redis"
	wferr "github.com/wallframe/wallframe-core/pkg/errors"
)

// revocationKeyPrefix namespaces denylist entries in Redis.
const revocationKeyPrefix = "revoked:"

// RevocationList is a denylist of tokens invalidated before their expiry
// (logout, credential rotation, incident response). A revoked token
// fails authentication with AUTH_005 even though its signature and
// expiry are still valid.
type RevocationList interface {
	// Revoke adds the token to the denylist until expiresAt. Revoking an
	// already-expired token is a no-op.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error

	// IsRevoked reports whether the token is on the denylist.
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// RedisRevocationList implements [RevocationList] on Redis. Entries are
// keyed by the SHA-256 hash of the token, never the raw token, and carry
// a TTL equal to the token's remaining lifetime so the denylist cleans
// itself up: once a token has expired on its own, its entry serves no
// purpose and Redis drops it.
type RedisRevocationList struct {
	client *redis.Client
	clock  Clock
}

// NewRedisRevocationList creates a revocation list backed by the given
// Redis client. A nil clock defaults to [SystemClock].
func NewRedisRevocationList(client *redis.Client, clock Clock) *RedisRevocationList {
	if clock == nil {
		clock = SystemClock
	}
	return &RedisRevocationList{client: client, clock: clock}
}

var _ RevocationList = (*RedisRevocationList)(nil)

// Revoke adds the token to the denylist with a TTL equal to its
// remaining lifetime. Tokens at or past expiry are ignored.
func (r *RedisRevocationList) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	hash := TokenHash(token)
	ctx, span := startSpan(ctx, "RevocationList.Revoke",
		attribute.String("auth.token_hash", hash))

	ttl := expiresAt.Sub(r.clock.Now())
	if ttl <= 0 {
		finishSpan(span, nil)
		return nil
	}

	err := r.client.Set(ctx, revocationKeyPrefix+hash, "1", ttl)
	if err != nil {
		err = wferr.Wrap(err, wferr.CodeUnavailableDependency,
			"auth: failed to write revocation entry")
	}
	finishSpan(span, err)
	return err
}

// IsRevoked reports whether the token appears on the denylist. A Redis
// failure surfaces as a dependency fault, never as an authentication
// decision.
func (r *RedisRevocationList) IsRevoked(ctx context.Context, token string) (bool, error) {
	hash := TokenHash(token)
	ctx, span := startSpan(ctx, "RevocationList.IsRevoked",
		attribute.String("auth.token_hash", hash))

	n, err := r.client.Exists(ctx, revocationKeyPrefix+hash)
	if err != nil {
		err = wferr.Wrap(err, wferr.CodeUnavailableDependency,
			"auth: failed to check revocation list")
		finishSpan(span, err)
		return false, err
	}
	finishSpan(span, nil)
	return n > 0, nil
}
