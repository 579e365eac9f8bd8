package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/models"
)

var errNotLoggedIn = errors.New("not logged in")

func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}

	u, err := a.backend.Register(ctx, username, password, email)
	if err != nil {
		a.println("Registration failed:", describe(err))
		return err
	}
	a.println("Registered:")
	a.printUser(u)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	login, err := GetSimpleText(a.reader, "Username or email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}

	token, u, err := a.backend.Login(ctx, login, password)
	if err != nil {
		a.println("Login failed:", describe(err))
		return err
	}
	a.remember(ctx, token, u)
	a.println("Logged in as", u.UserName)
	a.println("Token:", token)
	return nil
}

// TokenLogin signs in with the remembered token.
func (a *App) TokenLogin(ctx context.Context) error {
	token := a.token
	if token == "" {
		remembered, err := a.session.Token(ctx)
		if err != nil {
			a.println("Could not read session:", err)
			return err
		}
		token = remembered
	}
	if token == "" {
		a.println("No remembered token, use login")
		return errNotLoggedIn
	}

	u, err := a.backend.TokenLogin(ctx, token)
	if err != nil {
		a.println("Token login failed:", describe(err))
		if errors.Is(err, common.ErrorUnauthorized) {
			a.forget(ctx)
		}
		return err
	}
	a.token = token
	a.user = u
	a.println("Logged in as", u.UserName)
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("Not logged in")
		return errNotLoggedIn
	}
	u, err := a.backend.WhoAmI(ctx, a.token)
	if err != nil {
		a.println("Session is no longer valid:", describe(err))
		return err
	}
	a.printUser(u)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.forget(ctx)
	a.println("Logged out")
	return nil
}

// Delete removes the logged-in account after the username is typed back.
func (a *App) Delete(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("Not logged in")
		return errNotLoggedIn
	}
	confirm, err := GetSimpleText(a.reader, "Type your username to delete the account", a.out)
	if err != nil {
		return err
	}
	if confirm != a.user.UserName {
		a.println("Cancelled")
		return nil
	}
	if err := a.backend.Delete(ctx, a.token); err != nil {
		a.println("Delete failed:", describe(err))
		return err
	}
	a.forget(ctx)
	a.println("Account deleted")
	return nil
}

// parseSearchArgs reads [query] [limit] [offset] [sort] [asc|desc].
// A query of "*" matches everything.
func parseSearchArgs(args []string) (models.SearchParams, error) {
	p := models.DefaultSearchParams()
	if len(args) > 0 && args[0] != "*" {
		p.Query = args[0]
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return p, common.ErrInvalidArgument
		}
		p.Limit = n
	}
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return p, common.ErrInvalidArgument
		}
		p.Offset = n
	}
	if len(args) > 3 {
		p.SortField = args[3]
	}
	if len(args) > 4 {
		switch strings.ToLower(args[4]) {
		case "asc":
			p.Ascending = true
		case "desc":
			p.Ascending = false
		default:
			return p, common.ErrInvalidArgument
		}
	}
	return p.Normalize(), nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		a.println("Not logged in")
		return errNotLoggedIn
	}
	p, err := parseSearchArgs(args)
	if err != nil {
		a.println("Usage: search [query|*] [limit] [offset] [id|username|email|created_at] [asc|desc]")
		return err
	}
	found, err := a.backend.Search(ctx, a.token, p)
	if err != nil {
		a.println("Search failed:", describe(err))
		return err
	}
	if len(found) == 0 {
		a.println("No users found")
		return nil
	}
	for _, u := range found {
		a.printUser(u)
	}
	return nil
}
