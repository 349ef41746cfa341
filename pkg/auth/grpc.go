package auth

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	wferr "github.com/wallframe/wallframe-core/pkg/errors"
	"github.com/wallframe/wallframe-core/pkg/models"
)

// UnaryServerInterceptor returns a gRPC unary interceptor that
// authenticates every request through the given Authenticator. The
// credential is read from the "authorization" metadata key; the client
// identifier is the peer address. On success the handler's context
// carries a [RequestContext].
func UnaryServerInterceptor(a *Authenticator) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		ctx, err := authenticateGRPC(ctx, a)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor returns a gRPC stream interceptor performing
// the same authentication as [UnaryServerInterceptor]. The stream is
// wrapped so handlers observe the enriched context.
func StreamServerInterceptor(a *Authenticator) grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		ctx, err := authenticateGRPC(ss.Context(), a)
		if err != nil {
			return err
		}
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: ctx})
	}
}

// RequireRoleUnaryInterceptor returns a gRPC unary interceptor that
// enforces the required role after authentication. Chain it after
// [UnaryServerInterceptor].
func RequireRoleUnaryInterceptor(role models.Role) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if err := Authorize(ctx, role); err != nil {
			return nil, statusFromError(err)
		}
		return handler(ctx, req)
	}
}

// authenticateGRPC runs the authentication pipeline for one gRPC
// request and returns the enriched context.
func authenticateGRPC(ctx context.Context, a *Authenticator) (context.Context, error) {
	md, _ := metadata.FromIncomingContext(ctx)

	var credential string
	if values := md.Get(HeaderAuthorization); len(values) > 0 {
		credential = ExtractBearerToken(values[0])
	}

	rc, err := a.Authenticate(ctx, clientIDFromPeer(ctx), credential)
	if err != nil {
		return ctx, statusFromError(err)
	}

	ctx = ContextWithRequestContext(ctx, rc)
	if callers := md.Get(HeaderCallerService); len(callers) > 0 && callers[0] != "" {
		ctx = ContextWithCallerService(ctx, callers[0])
	}
	return ctx, nil
}

// clientIDFromPeer derives the rate-limiting client identifier from the
// gRPC peer address, stripping the port. An absent peer yields "unknown"
// so all such requests share one bucket.
func clientIDFromPeer(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return p.Addr.String()
	}
	return host
}

// statusFromError maps a platform error onto a gRPC status. The wferr
// code string is carried in the status message so clients can still
// distinguish failure classes that share a gRPC code.
func statusFromError(err error) error {
	wfErr := wferr.FromError(err)

	var code codes.Code
	switch wfErr.Code.Category() {
	case "AUTH":
		code = codes.Unauthenticated
	case "AUTHZ":
		code = codes.PermissionDenied
	case "RATE":
		code = codes.ResourceExhausted
	case "VAL":
		code = codes.InvalidArgument
	case "NF":
		code = codes.NotFound
	case "TIMEOUT":
		code = codes.DeadlineExceeded
	case "UNAVAIL":
		code = codes.Unavailable
	default:
		code = codes.Internal
	}
	return status.Error(code, wfErr.Code.String()+": "+wfErr.Message)
}

// wrappedServerStream overrides Context so stream handlers see the
// identity added by the interceptor.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
