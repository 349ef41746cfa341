package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	wferr "github.com/wallframe/wallframe-core/pkg/errors"
)

// maxTokenSize is the maximum accepted token length in bytes. Tokens
// larger than this are rejected before any parsing to bound the work an
// attacker can force with oversized credentials.
const maxTokenSize = 8192

// Claims is the verified content of a platform token. Only the
// registered claims the platform issues are surfaced; anything else in
// the token is ignored.
type Claims struct {
	// Subject is the account ID the token was issued for.
	Subject string

	// ExpiresAt is the instant after which the token is no longer valid.
	ExpiresAt time.Time

	// IssuedAt is the instant the token was signed.
	IssuedAt time.Time

	// ID is the unique token identifier (jti claim).
	ID string
}

// TokenHash returns the hex-encoded SHA-256 digest of a token. Raw tokens
// never appear in logs, span attributes, or revocation keys; the hash is
// used instead.
func TokenHash(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// Verifier validates platform-issued HS256 tokens. Verification is
// stateless: every decision derives from the token bytes, the signing
// key, and the injected clock.
//
// Only HS256 is accepted. Tokens signed with any other algorithm,
// including "none", fail verification regardless of their payload.
type Verifier struct {
	signingKey Secret
	clock      Clock
}

// NewVerifier creates a Verifier for the given signing key. The key must
// be at least [MinSigningKeySize] bytes. A nil clock defaults to
// [SystemClock].
func NewVerifier(signingKey Secret, clock Clock) (*Verifier, error) {
	if len(signingKey.Value()) < MinSigningKeySize {
		return nil, wferr.Newf(wferr.CodeValidation,
			"auth: signing key must be at least %d bytes, got %d",
			MinSigningKeySize, len(signingKey.Value()))
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Verifier{signingKey: signingKey, clock: clock}, nil
}

// Verify parses and validates a token, returning its claims on success.
//
// Failure modes:
//   - empty token: AUTH_004 (missing credential)
//   - oversized, malformed, wrong algorithm, bad signature, or missing
//     sub/exp claims: AUTH_003 (invalid credential)
//   - expired: AUTH_002
//
// Expiry is re-checked against the injected clock after library
// validation, so a fake clock in tests controls the outcome without
// waiting for real time to pass.
func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	_, span := startSpan(ctx, "Verifier.Verify")
	claims, err := v.verify(token)
	if err == nil {
		span.SetAttributes(attribute.String("auth.token_hash", TokenHash(token)))
	}
	finishSpan(span, err)
	return claims, err
}

func (v *Verifier) verify(token string) (*Claims, error) {
	if token == "" {
		return nil, wferr.New(wferr.CodeAuthenticationMissing,
			"auth: no credential presented")
	}
	if len(token) > maxTokenSize {
		return nil, wferr.Newf(wferr.CodeAuthenticationInvalid,
			"auth: token exceeds maximum size of %d bytes", maxTokenSize)
	}

	var registered jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &registered,
		func(t *jwt.Token) (any, error) {
			return []byte(v.signingKey.Value()), nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock.Now),
	)
	if err != nil {
		return nil, classifyError(err)
	}

	if registered.Subject == "" {
		return nil, wferr.New(wferr.CodeAuthenticationInvalid,
			"auth: token has no subject claim")
	}
	if registered.ExpiresAt == nil {
		return nil, wferr.New(wferr.CodeAuthenticationInvalid,
			"auth: token has no expiry claim")
	}

	// Library validation already enforced expiry, but the check is
	// repeated here against the injected clock so the decision does not
	// depend on library internals.
	expiresAt := registered.ExpiresAt.Time
	if !expiresAt.After(v.clock.Now()) {
		return nil, wferr.New(wferr.CodeAuthenticationExpired,
			"auth: token has expired")
	}

	claims := &Claims{
		Subject:   registered.Subject,
		ExpiresAt: expiresAt,
		ID:        registered.ID,
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	return claims, nil
}

// classifyError maps jwt/v5 parse errors onto the platform error
// taxonomy. Expiry is the only failure distinguished for callers (it
// drives the attempt tracker differently from malformed input); every
// other parse failure is an invalid credential.
func classifyError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return wferr.Wrap(err, wferr.CodeAuthenticationExpired,
			"auth: token has expired")
	case errors.Is(err, jwt.ErrTokenMalformed):
		return wferr.Wrap(err, wferr.CodeAuthenticationInvalid,
			"auth: token is malformed")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return wferr.Wrap(err, wferr.CodeAuthenticationInvalid,
			"auth: token signature verification failed")
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return wferr.Wrap(err, wferr.CodeAuthenticationInvalid,
			"auth: token cannot be verified")
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return wferr.Wrap(err, wferr.CodeAuthenticationInvalid,
			"auth: token is not valid yet")
	default:
		return wferr.Wrap(err, wferr.CodeAuthenticationInvalid,
			"auth: token validation failed")
	}
}

// Issuer signs platform tokens for login and registration flows. Each
// token carries sub, iat, exp, and a unique jti.
type Issuer struct {
	signingKey Secret
	lifetime   time.Duration
	clock      Clock
}

// NewIssuer creates an Issuer. The key must be at least
// [MinSigningKeySize] bytes and lifetime must be positive. A nil clock
// defaults to [SystemClock].
func NewIssuer(signingKey Secret, lifetime time.Duration, clock Clock) (*Issuer, error) {
	if len(signingKey.Value()) < MinSigningKeySize {
		return nil, wferr.Newf(wferr.CodeValidation,
			"auth: signing key must be at least %d bytes, got %d",
			MinSigningKeySize, len(signingKey.Value()))
	}
	if lifetime <= 0 {
		return nil, wferr.New(wferr.CodeValidation,
			"auth: token lifetime must be positive")
	}
	if clock == nil {
		clock = SystemClock
	}
	return &Issuer{signingKey: signingKey, lifetime: lifetime, clock: clock}, nil
}

// Issue signs a new HS256 token for the given subject. The subject is
// the account ID the token authenticates.
func (i *Issuer) Issue(subject string) (string, error) {
	if subject == "" {
		return "", wferr.New(wferr.CodeValidation,
			"auth: token subject must not be empty")
	}

	now := i.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(i.signingKey.Value()))
	if err != nil {
		return "", wferr.Wrap(err, wferr.CodeInternal,
			"auth: failed to sign token")
	}
	return signed, nil
}
