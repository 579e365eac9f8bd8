package grpcapi

import (
	"context"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Client calls credkeeper.Auth. Errors come back as the common sentinel
// errors the server mapped them from.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to addr without transport security; extra options are
// appended after the defaults.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}
	conn, err := grpc.NewClient(addr, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	return fromStatus(c.conn.Invoke(ctx, fullMethod(method), req, resp))
}

func withToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
}

func (c *Client) Register(ctx context.Context, username, password, email string) (models.User, error) {
	var resp UserResponse
	err := c.invoke(ctx, MethodRegister, &RegisterRequest{UserName: username, Password: password, Email: email}, &resp)
	if err != nil {
		return models.User{}, err
	}
	return userFromWire(resp.User), nil
}

func (c *Client) Login(ctx context.Context, login, password string) (string, models.User, error) {
	var resp LoginResponse
	if err := c.invoke(ctx, MethodLogin, &LoginRequest{Login: login, Password: password}, &resp); err != nil {
		return "", models.User{}, err
	}
	return resp.Token, userFromWire(resp.User), nil
}

func (c *Client) TokenLogin(ctx context.Context, token string) (models.User, error) {
	var resp UserResponse
	if err := c.invoke(ctx, MethodTokenLogin, &TokenLoginRequest{Token: token}, &resp); err != nil {
		return models.User{}, err
	}
	return userFromWire(resp.User), nil
}

func (c *Client) WhoAmI(ctx context.Context, token string) (models.User, error) {
	var resp UserResponse
	if err := c.invoke(withToken(ctx, token), MethodWhoAmI, &Empty{}, &resp); err != nil {
		return models.User{}, err
	}
	return userFromWire(resp.User), nil
}

func (c *Client) Delete(ctx context.Context, token string) error {
	return c.invoke(withToken(ctx, token), MethodDeleteSelf, &Empty{}, &Empty{})
}

func (c *Client) Search(ctx context.Context, token string, p models.SearchParams) ([]models.User, error) {
	req := &SearchRequest{
		Query:      p.Query,
		Limit:      p.Limit,
		Offset:     p.Offset,
		SortField:  p.SortField,
		Descending: !p.Ascending,
	}
	var resp SearchResponse
	if err := c.invoke(withToken(ctx, token), MethodSearch, req, &resp); err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(resp.Users))
	for _, u := range resp.Users {
		out = append(out, userFromWire(u))
	}
	return out, nil
}

func (c *Client) Ping(ctx context.Context) error {
	var resp PingResponse
	return c.invoke(ctx, MethodPing, &Empty{}, &resp)
}
