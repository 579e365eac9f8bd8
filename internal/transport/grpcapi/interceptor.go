package grpcapi

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/models"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

const requestIDHeader = "x-request-id"

type ctxKey string

const userKey ctxKey = "user"

// protectedMethods need a valid access_token.
var protectedMethods = map[string]bool{
	fullMethod(MethodWhoAmI):     true,
	fullMethod(MethodDeleteSelf): true,
	fullMethod(MethodSearch):     true,
}

// limitedMethods are throttled per peer.
var limitedMethods = map[string]bool{
	fullMethod(MethodRegister):   true,
	fullMethod(MethodLogin):      true,
	fullMethod(MethodTokenLogin): true,
}

// peerBinding is the token binding for the calling connection: the peer's
// IP address, or the full address when it has no host:port form.
func peerBinding(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	addr := p.Addr.String()
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func userFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

// requestInterceptor tags each call with a request id (taken from the
// x-request-id header or generated) and logs its outcome.
func (s *GRPCServer) requestInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	var id string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(requestIDHeader); len(v) > 0 && v[0] != "" {
			id = v[0]
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDHeader, id))

	log := s.logger.With("request_id", id, "method", info.FullMethod)
	ctx = logging.WithLogger(ctx, log)

	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)

	args := []any{"code", code.String(), "duration", time.Since(start).String()}
	switch code {
	case codes.OK:
		log.Debug(ctx, "request served", args...)
	case codes.Internal, codes.Unavailable:
		log.Error(ctx, "request failed", args...)
	default:
		log.Info(ctx, "request rejected", args...)
	}
	return resp, err
}

func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if s.limiter != nil && limitedMethods[info.FullMethod] && !s.limiter.allow(peerBinding(ctx)) {
		return nil, status.Error(codes.ResourceExhausted, "too many attempts")
	}
	return handler(ctx, req)
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	u, err := s.auth.LoginWithToken(ctx, accessToken, peerBinding(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	return handler(context.WithValue(ctx, userKey, u), req)
}
