// Package grpcapi exposes the auth service over gRPC as credkeeper.Auth.
//
// The service has no generated stubs: messages are plain Go structs carried
// by a JSON codec registered under the "json" content-subtype, and the
// service descriptor is declared by hand in ServiceDesc. Tokens are bound
// to the caller's IP address as seen by the server.
package grpcapi

import (
	"context"
	"net"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/models"
	"google.golang.org/grpc"
)

// authService is the part of auth.Service the server needs.
type authService interface {
	Register(ctx context.Context, username, secret, email string) (models.User, error)
	LoginWithPassword(ctx context.Context, login, secret, binding string) (string, models.User, error)
	LoginWithToken(ctx context.Context, token, binding string) (models.User, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, params models.SearchParams) ([]models.User, error)
}

type GRPCServer struct {
	address string
	auth    authService
	logger  logging.Logger
	limiter *peerLimiter
}

// NewGRPCServer builds a server for address. A non-positive rateLimit
// disables per-peer throttling.
func NewGRPCServer(address string, l logging.Logger, svc authService, rateLimit float64, rateBurst int) *GRPCServer {
	s := &GRPCServer{
		address: address,
		auth:    svc,
		logger:  l.With("module", "grpc_server"),
	}
	if rateLimit > 0 {
		s.limiter = newPeerLimiter(rateLimit, rateBurst)
	}
	return s
}

// NewServer returns a grpc.Server with the interceptor chain and the
// service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		s.requestInterceptor,
		s.rateLimitInterceptor,
		s.accessTokenInterceptor,
	))
	srv := grpc.NewServer(opts...)
	srv.RegisterService(&ServiceDesc, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())
	return srv.Serve(lis)
}

func (s *GRPCServer) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	u, err := s.auth.Register(ctx, req.UserName, req.Password, req.Email)
	if err != nil {
		return nil, toStatus(err)
	}
	return &UserResponse{User: userToWire(u)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	token, u, err := s.auth.LoginWithPassword(ctx, req.Login, req.Password, peerBinding(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	return &LoginResponse{Token: token, User: userToWire(u)}, nil
}

func (s *GRPCServer) TokenLogin(ctx context.Context, req *TokenLoginRequest) (*UserResponse, error) {
	u, err := s.auth.LoginWithToken(ctx, req.Token, peerBinding(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	return &UserResponse{User: userToWire(u)}, nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *Empty) (*UserResponse, error) {
	u, ok := userFromContext(ctx)
	if !ok {
		return nil, toStatus(common.ErrorUnauthorized)
	}
	return &UserResponse{User: userToWire(u)}, nil
}

func (s *GRPCServer) DeleteSelf(ctx context.Context, _ *Empty) (*Empty, error) {
	u, ok := userFromContext(ctx)
	if !ok {
		return nil, toStatus(common.ErrorUnauthorized)
	}
	if err := s.auth.Delete(ctx, u.ID); err != nil {
		return nil, toStatus(err)
	}
	logging.FromContext(ctx, s.logger).Info(ctx, "user deleted itself", "user_id", u.ID)
	return &Empty{}, nil
}

func (s *GRPCServer) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if _, ok := userFromContext(ctx); !ok {
		return nil, toStatus(common.ErrorUnauthorized)
	}
	found, err := s.auth.Search(ctx, req.params())
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]User, 0, len(found))
	for _, u := range found {
		out = append(out, userToWire(u))
	}
	return &SearchResponse{Users: out}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *Empty) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}
