// Package auth implements the WallFrame authentication and authorization
// core: stateless token verification, in-process abuse mitigation, role
// gating, identity resolution, and request-context propagation.
//
// The entry point is [Authenticator.Authenticate], which takes a client
// identifier and a raw credential and either yields a fully populated
// [RequestContext] or a coded error describing exactly why the request
// was refused. HTTP middleware and gRPC interceptors in this package
// wrap that call for the two transport surfaces.
//
// All mitigation state (rate windows, failed-attempt counts) lives in
// process memory. The only secret the core holds is the HS256 signing
// key; there are no sessions and nothing to persist.
package auth

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	wferr "github.com/wallframe/wallframe-core/pkg/errors"
	"github.com/wallframe/wallframe-core/pkg/store"
)

// Authenticator composes the authentication pipeline: rate limiting,
// attempt blocking, token verification, revocation checking, and
// identity resolution.
type Authenticator struct {
	verifier    *Verifier
	limiter     *RateLimiter
	tracker     *AttemptTracker
	revocations RevocationList
	users       store.UserStore
	logger      *slog.Logger
}

// AuthenticatorOption customizes an Authenticator.
type AuthenticatorOption func(*authenticatorOptions)

type authenticatorOptions struct {
	clock       Clock
	revocations RevocationList
	logger      *slog.Logger
}

// WithClock injects the clock used by the verifier, rate limiter, and
// attempt machinery. Tests use this to control time directly.
func WithClock(clock Clock) AuthenticatorOption {
	return func(o *authenticatorOptions) { o.clock = clock }
}

// WithRevocationList enables denylist checking. Without this option
// revocation is skipped entirely.
func WithRevocationList(list RevocationList) AuthenticatorOption {
	return func(o *authenticatorOptions) { o.revocations = list }
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) AuthenticatorOption {
	return func(o *authenticatorOptions) { o.logger = logger }
}

// NewAuthenticator creates an Authenticator from the given configuration
// and user store. The configuration is validated; a weak signing key or
// non-positive threshold fails construction.
func NewAuthenticator(cfg Config, users store.UserStore, opts ...AuthenticatorOption) (*Authenticator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if users == nil {
		return nil, wferr.New(wferr.CodeValidation,
			"auth: user store must not be nil")
	}

	options := authenticatorOptions{clock: SystemClock}
	for _, opt := range opts {
		opt(&options)
	}
	if options.clock == nil {
		options.clock = SystemClock
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	verifier, err := NewVerifier(cfg.SigningKey, options.clock)
	if err != nil {
		return nil, err
	}

	return &Authenticator{
		verifier:    verifier,
		limiter:     NewRateLimiter(cfg.RateWindow, cfg.RateLimit, options.clock),
		tracker:     NewAttemptTracker(cfg.AttemptThreshold),
		revocations: options.revocations,
		users:       users,
		logger:      options.logger,
	}, nil
}

// Tracker exposes the attempt tracker so its reset hook can be wired to
// a lifecycle worker.
func (a *Authenticator) Tracker() *AttemptTracker {
	return a.tracker
}

// Limiter exposes the rate limiter so its sweep can be wired to a
// lifecycle worker.
func (a *Authenticator) Limiter() *RateLimiter {
	return a.limiter
}

// Authenticate decides whether a request carrying the given credential
// is authenticated. Stages run in a fixed order:
//
//  1. Rate limiter: every call counts; at the cap, RATE_001.
//  2. Attempt block: clients at the failure threshold get RATE_002
//     without any verification work.
//  3. Verification: missing (AUTH_004), invalid (AUTH_003), or expired
//     (AUTH_002) credentials are rejected.
//  4. Revocation: denylisted tokens are rejected with AUTH_005.
//  5. Resolution: the token subject is loaded from the user store. An
//     unknown subject is a generic authentication failure (AUTH_001);
//     store faults pass through as server errors.
//
// Only verification-class failures (AUTH_002, AUTH_003, AUTH_005) count
// against the attempt threshold. A missing credential, an unknown
// subject, and infrastructure faults do not. A successful
// authentication does not reset the client's count; only the periodic
// tracker reset does.
func (a *Authenticator) Authenticate(ctx context.Context, clientID, credential string) (*RequestContext, error) {
	ctx, span := startSpan(ctx, "Authenticator.Authenticate",
		attribute.String("auth.client_id", clientID))
	rc, err := a.authenticate(ctx, clientID, credential)
	finishSpan(span, err)
	return rc, err
}

func (a *Authenticator) authenticate(ctx context.Context, clientID, credential string) (*RequestContext, error) {
	if err := a.limiter.Allow(clientID); err != nil {
		a.logger.WarnContext(ctx, "auth: rate limit exceeded",
			"client_id", clientID)
		return nil, err
	}

	if a.tracker.ShouldBlock(clientID) {
		a.logger.WarnContext(ctx, "auth: client blocked by attempt threshold",
			"client_id", clientID)
		return nil, wferr.New(wferr.CodeTooManyAttempts,
			"auth: too many invalid authentication attempts")
	}

	claims, err := a.verifier.Verify(ctx, credential)
	if err != nil {
		a.recordVerificationFailure(ctx, clientID, err)
		return nil, err
	}

	if a.revocations != nil {
		revoked, err := a.revocations.IsRevoked(ctx, credential)
		if err != nil {
			// A denylist outage is an infrastructure fault. Failing open
			// here would let revoked tokens through.
			return nil, err
		}
		if revoked {
			err := wferr.New(wferr.CodeAuthenticationRevoked,
				"auth: token has been revoked")
			a.recordVerificationFailure(ctx, clientID, err)
			return nil, err
		}
	}

	user, err := a.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if wferr.IsNotFound(err) {
			// The token verified but its subject no longer exists. This
			// is not an attack on the verification surface, so it does
			// not count against the attempt threshold.
			return nil, wferr.New(wferr.CodeAuthentication,
				"auth: credential does not resolve to a known identity")
		}
		return nil, err
	}

	return &RequestContext{
		User:      user,
		Token:     credential,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// recordVerificationFailure increments the attempt tracker for failures
// that indicate a bad credential was actually presented and checked.
func (a *Authenticator) recordVerificationFailure(ctx context.Context, clientID string, err error) {
	switch wferr.GetCode(err) {
	case wferr.CodeAuthenticationExpired,
		wferr.CodeAuthenticationInvalid,
		wferr.CodeAuthenticationRevoked:
		count := a.tracker.RecordFailure(clientID)
		a.logger.InfoContext(ctx, "auth: verification failure recorded",
			"client_id", clientID,
			"failure_count", count,
			"code", wferr.GetCode(err).String())
	}
}
