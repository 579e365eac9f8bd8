package grpcapi

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "credkeeper.Auth"

// Method names as they appear in full method paths.
const (
	MethodRegister   = "Register"
	MethodLogin      = "Login"
	MethodTokenLogin = "TokenLogin"
	MethodWhoAmI     = "WhoAmI"
	MethodDeleteSelf = "DeleteSelf"
	MethodSearch     = "Search"
	MethodPing       = "Ping"
)

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// AuthServer is the server side of credkeeper.Auth.
type AuthServer interface {
	Register(context.Context, *RegisterRequest) (*UserResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	TokenLogin(context.Context, *TokenLoginRequest) (*UserResponse, error)
	WhoAmI(context.Context, *Empty) (*UserResponse, error)
	DeleteSelf(context.Context, *Empty) (*Empty, error)
	Search(context.Context, *SearchRequest) (*SearchResponse, error)
	Ping(context.Context, *Empty) (*PingResponse, error)
}

// ServiceDesc describes credkeeper.Auth for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodRegister, AuthServer.Register),
		unary(MethodLogin, AuthServer.Login),
		unary(MethodTokenLogin, AuthServer.TokenLogin),
		unary(MethodWhoAmI, AuthServer.WhoAmI),
		unary(MethodDeleteSelf, AuthServer.DeleteSelf),
		unary(MethodSearch, AuthServer.Search),
		unary(MethodPing, AuthServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "credkeeper/auth",
}

func unary[Req, Resp any](name string, call func(AuthServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AuthServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AuthServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
