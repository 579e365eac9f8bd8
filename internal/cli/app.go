// Package cli is the interactive credkeeper shell. It keeps the last issued
// token in the local metadata table so a later session can sign in with
// "token" instead of the password.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/models"
	"github.com/dmitrijs2005/credkeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/credkeeper/internal/transport/grpcapi"
)

type App struct {
	backend Backend
	session *metadata.Session
	reader  *bufio.Reader
	out     io.Writer

	token string
	user  models.User
}

func NewApp(backend Backend, session *metadata.Session, in io.Reader, out io.Writer) *App {
	return &App{
		backend: backend,
		session: session,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// describe turns a backend error into a message for the user.
func describe(err error) string {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return "authentication failed"
	case errors.Is(err, common.ErrorAlreadyExists):
		return "username or email is already taken"
	case errors.Is(err, common.ErrInvalidArgument):
		return "invalid input"
	case errors.Is(err, common.ErrorNotFound):
		return "no such user"
	case errors.Is(err, common.ErrStoreUnavailable):
		return "storage unavailable, try again later"
	case errors.Is(err, grpcapi.ErrRateLimited):
		return "too many attempts, slow down"
	default:
		return "error: " + err.Error()
	}
}

func (a *App) readPassword() (string, error) {
	pw, err := GetPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) remember(ctx context.Context, token string, u models.User) {
	a.token = token
	a.user = u
	if err := a.session.Save(ctx, token, u.UserName); err != nil {
		a.println("warning: could not remember session:", err)
	}
}

func (a *App) forget(ctx context.Context) {
	a.token = ""
	a.user = models.User{}
	_ = a.session.Clear(ctx)
}

func (a *App) printUser(u models.User) {
	line := fmt.Sprintf("%s  %s", u.ID, u.UserName)
	if u.Email != "" {
		line += "  <" + u.Email + ">"
	}
	if !u.CreatedAt.IsZero() {
		line += "  " + u.CreatedAt.UTC().Format("2006-01-02 15:04")
	}
	a.println(line)
}
