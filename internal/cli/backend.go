package cli

import (
	"context"

	"github.com/dmitrijs2005/credkeeper/internal/auth"
	"github.com/dmitrijs2005/credkeeper/internal/models"
)

// Backend is what the REPL talks to: the auth service in-process, or a
// remote server through grpcapi.Client.
type Backend interface {
	Register(ctx context.Context, username, password, email string) (models.User, error)
	Login(ctx context.Context, login, password string) (string, models.User, error)
	TokenLogin(ctx context.Context, token string) (models.User, error)
	WhoAmI(ctx context.Context, token string) (models.User, error)
	Delete(ctx context.Context, token string) error
	Search(ctx context.Context, token string, p models.SearchParams) ([]models.User, error)
}

// LocalBackend runs the auth service in-process. Every token it issues or
// accepts is bound to binding.
type LocalBackend struct {
	svc     *auth.Service
	binding string
}

func NewLocalBackend(svc *auth.Service, binding string) *LocalBackend {
	return &LocalBackend{svc: svc, binding: binding}
}

func (b *LocalBackend) Register(ctx context.Context, username, password, email string) (models.User, error) {
	return b.svc.Register(ctx, username, password, email)
}

func (b *LocalBackend) Login(ctx context.Context, login, password string) (string, models.User, error) {
	return b.svc.LoginWithPassword(ctx, login, password, b.binding)
}

func (b *LocalBackend) TokenLogin(ctx context.Context, token string) (models.User, error) {
	return b.svc.LoginWithToken(ctx, token, b.binding)
}

func (b *LocalBackend) WhoAmI(ctx context.Context, token string) (models.User, error) {
	return b.svc.LoginWithToken(ctx, token, b.binding)
}

func (b *LocalBackend) Delete(ctx context.Context, token string) error {
	u, err := b.svc.LoginWithToken(ctx, token, b.binding)
	if err != nil {
		return err
	}
	return b.svc.Delete(ctx, u.ID)
}

func (b *LocalBackend) Search(ctx context.Context, token string, p models.SearchParams) ([]models.User, error) {
	if _, err := b.svc.LoginWithToken(ctx, token, b.binding); err != nil {
		return nil, err
	}
	return b.svc.Search(ctx, p)
}
