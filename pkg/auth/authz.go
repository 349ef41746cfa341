package auth

import (
	"context"

	wferr "github.com/wallframe/wallframe-core/pkg/errors"
	"github.com/wallframe/wallframe-core/pkg/models"
)

// Authorize checks that the request carries an authenticated identity
// with the required role. It is a pure predicate over the context: no
// I/O, no attempt-tracking side effects.
//
// An absent RequestContext yields AUTH_001 (unauthenticated), never a
// forbidden error; a caller that has not proven who they are cannot be
// told what they may not do. An authenticated identity whose role does
// not satisfy requiredRole yields AUTHZ_002.
//
// Admin accounts satisfy every role requirement.
func Authorize(ctx context.Context, requiredRole models.Role) error {
	rc, ok := RequestContextFromContext(ctx)
	if !ok {
		return wferr.New(wferr.CodeAuthentication,
			"auth: request is not authenticated")
	}

	if rc.User.Role == requiredRole || rc.User.IsAdmin() {
		return nil
	}

	return wferr.Newf(wferr.CodeAuthorizationDenied,
		"auth: role %q does not satisfy required role %q",
		rc.User.Role, requiredRole)
}
