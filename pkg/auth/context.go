package auth

import (
	"context"
	"time"

	"github.com/wallframe/wallframe-core/pkg/models"
)

// contextKey is an unexported type for context keys defined by this
// package, preventing collisions with keys from other packages.
type contextKey int

const (
	// requestContextKey stores the *RequestContext of an authenticated
	// request.
	requestContextKey contextKey = iota

	// callerServiceKey stores the name of the upstream service that
	// forwarded the request, when identity propagation headers are present.
	callerServiceKey
)

// RequestContext carries the identity attached to a request after
// successful authentication. A RequestContext exists in a request's
// context.Context only when both token verification and identity
// resolution succeeded; handlers never observe a partially built value.
//
// The value lives for the duration of one request and is discarded with
// the request's context.
type RequestContext struct {
	// User is the resolved account the token subject refers to.
	User *models.User

	// Token is the raw credential the request presented. Retained so
	// outbound calls can propagate it and so revocation can hash it.
	Token string

	// ExpiresAt is the token's expiry instant.
	ExpiresAt time.Time
}

// ContextWithRequestContext returns a copy of ctx carrying rc.
func ContextWithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// RequestContextFromContext retrieves the RequestContext from ctx.
// The second return value reports whether one was present.
func RequestContextFromContext(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey).(*RequestContext)
	return rc, ok
}

// MustRequestContext retrieves the RequestContext from ctx and panics if
// none is present. Use only in handlers that are guaranteed to run behind
// the authentication middleware.
func MustRequestContext(ctx context.Context) *RequestContext {
	rc, ok := RequestContextFromContext(ctx)
	if !ok {
		panic("auth: no RequestContext in context; handler is not behind the authentication middleware")
	}
	return rc
}

// ContextWithCallerService returns a copy of ctx recording the name of
// the upstream service that forwarded this request.
func ContextWithCallerService(ctx context.Context, service string) context.Context {
	return context.WithValue(ctx, callerServiceKey, service)
}

// CallerServiceFromContext retrieves the propagated caller service name
// from ctx. The second return value reports whether one was present.
func CallerServiceFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(callerServiceKey).(string)
	return s, ok
}
