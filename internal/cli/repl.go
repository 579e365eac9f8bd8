package cli

import (
	"context"
	"errors"
	"io"
	"strings"
)

const helpText = `Commands:
  register                 create an account
  login                    sign in with a password
  token                    sign in with the remembered token
  whoami                   show the current user
  search [q] [limit] [offset] [sort] [asc|desc]
  delete                   delete the current account
  logout                   forget the session
  help                     show this text
  exit | quit              leave`

func (a *App) prompt() string {
	if a.user.UserName != "" {
		return "credkeeper (" + a.user.UserName + ")> "
	}
	return "credkeeper> "
}

// Run reads commands until EOF, "exit" or ctx is done. Command errors are
// reported to the user by the commands themselves and do not stop the loop.
func (a *App) Run(ctx context.Context) error {
	a.println("Welcome to credkeeper (type 'help' for commands)")
	for {
		if ctx.Err() != nil {
			return nil
		}
		if _, err := io.WriteString(a.out, a.prompt()); err != nil {
			return err
		}
		line, err := a.reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				a.println()
				return nil
			}
			return err
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		if a.dispatch(ctx, parts[0], parts[1:]) {
			a.println("Bye!")
			return nil
		}
	}
}

// dispatch runs one command and reports whether the shell should exit.
func (a *App) dispatch(ctx context.Context, cmd string, args []string) bool {
	switch cmd {
	case "help":
		a.println(helpText)
	case "register":
		_ = a.Register(ctx)
	case "login":
		_ = a.Login(ctx)
	case "token":
		_ = a.TokenLogin(ctx)
	case "whoami":
		_ = a.WhoAmI(ctx)
	case "search":
		_ = a.Search(ctx, args)
	case "delete":
		_ = a.Delete(ctx)
	case "logout":
		_ = a.Logout(ctx)
	case "exit", "quit":
		return true
	default:
		a.println("Unknown command:", cmd)
	}
	return false
}
