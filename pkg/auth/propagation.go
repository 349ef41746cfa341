package auth

import (
	"net/http"
	"strings"

	wferr "github.com/wallframe/wallframe-core/pkg/errors"
)

// Header names used for identity propagation between services. Lowercase
// so the same constants work for both HTTP headers (canonicalized by
// net/http) and gRPC metadata keys (which must be lowercase).
const (
	// HeaderAuthorization carries the bearer token.
	HeaderAuthorization = "authorization"

	// HeaderIdentityID carries the authenticated account ID.
	HeaderIdentityID = "x-identity-id"

	// HeaderIdentityRole carries the authenticated account's role.
	HeaderIdentityRole = "x-identity-role"

	// HeaderCallerService names the service that forwarded the request.
	HeaderCallerService = "x-caller-service"
)

// MaxHeaderValueSize is the maximum accepted size in bytes for any
// propagated header value.
const MaxHeaderValueSize = 8192

// ExtractBearerToken extracts the token from an Authorization header
// value. The "Bearer " prefix is matched case-insensitively. Returns ""
// when the value is empty or not a bearer credential.
func ExtractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// identityToHeaders serializes a RequestContext into propagation
// headers for an outbound call. The caller service name is included so
// the downstream service can attribute the request.
func identityToHeaders(rc *RequestContext, serviceName string) (map[string]string, error) {
	if rc == nil || rc.User == nil {
		return nil, wferr.New(wferr.CodeValidation,
			"auth: cannot propagate an empty request context")
	}
	if len(rc.Token) > MaxHeaderValueSize {
		return nil, wferr.Newf(wferr.CodeValidation,
			"auth: token exceeds maximum header size of %d bytes", MaxHeaderValueSize)
	}

	headers := map[string]string{
		HeaderAuthorization: "Bearer " + rc.Token,
		HeaderIdentityID:    rc.User.ID,
		HeaderIdentityRole:  rc.User.Role.String(),
	}
	if serviceName != "" {
		headers[HeaderCallerService] = serviceName
	}
	return headers, nil
}

// headerGetter abstracts header lookup across http.Header and gRPC
// metadata.
type headerGetter func(key string) string

// callerServiceFromHeaders returns the propagated caller service name,
// if any. Identity headers are informational; the credential itself is
// always re-verified by the receiving service.
func callerServiceFromHeaders(get headerGetter) string {
	caller := get(HeaderCallerService)
	if len(caller) > MaxHeaderValueSize {
		return ""
	}
	return caller
}

// PropagatingRoundTripper is an http.RoundTripper that attaches the
// current request's identity headers to outbound requests. Wrap an HTTP
// client's transport with it to forward the caller's credential and
// identity to downstream WallFrame services:
//
//	client := &http.Client{
//	    Transport: auth.NewPropagatingRoundTripper(nil, "gallery-api"),
//	}
//
// Requests whose context carries no RequestContext pass through
// unmodified.
type PropagatingRoundTripper struct {
	base        http.RoundTripper
	serviceName string
}

// NewPropagatingRoundTripper wraps base (http.DefaultTransport when nil)
// with identity propagation. serviceName identifies this service to the
// downstream callee.
func NewPropagatingRoundTripper(base http.RoundTripper, serviceName string) *PropagatingRoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &PropagatingRoundTripper{base: base, serviceName: serviceName}
}

// RoundTrip implements http.RoundTripper. The request is cloned before
// headers are added; the original is never modified.
func (rt *PropagatingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rc, ok := RequestContextFromContext(req.Context())
	if !ok {
		return rt.base.RoundTrip(req)
	}

	headers, err := identityToHeaders(rc, rt.serviceName)
	if err != nil {
		// Propagation failure must not break the outbound call; the
		// downstream service will require its own authentication.
		return rt.base.RoundTrip(req)
	}

	cloned := req.Clone(req.Context())
	for k, v := range headers {
		cloned.Header.Set(k, v)
	}
	return rt.base.RoundTrip(cloned)
}
