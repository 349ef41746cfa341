package auth

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	wferr "github.com/wallframe/wallframe-core/pkg/errors"
	"github.com/wallframe/wallframe-core/pkg/models"
)

// TokenCookieName is the cookie checked for a credential when the
// Authorization header carries none.
const TokenCookieName = "token"

// ExtractTokenFromRequest returns the credential presented by an HTTP
// request, checking the Authorization header first and the "token"
// cookie second. Returns "" when neither location holds a credential.
func ExtractTokenFromRequest(r *http.Request) string {
	if token := ExtractBearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// ClientIDFromRequest derives the rate-limiting client identifier from
// the request's network peer. The port is stripped so one client is one
// identity regardless of ephemeral ports.
func ClientIDFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware returns HTTP middleware that authenticates every request
// through the given Authenticator. On success the request context
// carries a [RequestContext] for downstream handlers; on failure the
// request is answered with the error's HTTP status and a JSON error
// body, and the handler never runs.
func Middleware(a *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			rc, err := a.Authenticate(ctx, ClientIDFromRequest(r), ExtractTokenFromRequest(r))
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx = ContextWithRequestContext(ctx, rc)
			if caller := callerServiceFromHeaders(r.Header.Get); caller != "" {
				ctx = ContextWithCallerService(ctx, caller)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns HTTP middleware that rejects requests whose
// authenticated identity does not satisfy the required role. Place it
// after [Middleware]; a request with no identity is answered 401, a
// role mismatch 403.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := Authorize(r.Context(), role); err != nil {
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// errorResponse is the JSON shape of an error reply.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError answers the request with the platform error's HTTP status
// and code. Unrecognized errors become INT_001.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	wfErr := wferr.FromError(err)

	if wferr.IsServerError(wfErr) {
		slog.ErrorContext(r.Context(), "auth: request failed with server error",
			"code", wfErr.Code.String(),
			"error", err,
			"path", r.URL.Path)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(wfErr.HTTPStatus())

	resp := errorResponse{Error: errorBody{
		Code:    wfErr.Code.String(),
		Message: wfErr.Message,
	}}
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		slog.ErrorContext(r.Context(), "auth: failed to encode error response",
			"error", encodeErr)
	}
}
