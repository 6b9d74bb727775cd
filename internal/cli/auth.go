// AngelaMos | 2026
// auth.go

package cli

import (
	"context"
	"time"

	"github.com/carterperez-dev/epic-events/internal/core"
)

func (a *App) authCommand() *Command {
	return &Command{
		Name:    "auth",
		Summary: "Log in, log out and show the current session",
		Subcommands: []*Command{
			{
				Name:    "login",
				Summary: "Authenticate and save a session token",
				Usage:   "epic auth login <username>",
				Run:     a.open(a.login),
			},
			{
				Name:    "logout",
				Summary: "Remove the saved session token",
				Usage:   "epic auth logout",
				Run:     a.open(a.logout),
			},
			{
				Name:    "whoami",
				Summary: "Show the logged in user",
				Usage:   "epic auth whoami",
				Run:     a.gate(a.whoami),
			},
		},
	}
}

func (a *App) login(ctx context.Context, args []string) error {
	if err := requireOperands(args, 1, "epic auth login <username>"); err != nil {
		return err
	}

	password, err := a.readSecret("Password")
	if err != nil {
		return err
	}

	session, err := a.services.Auth.Login(ctx, args[0], password)
	if err != nil {
		return err
	}

	a.success("Logged in as %s (%s), session valid until %s",
		session.Username,
		session.Department,
		session.ExpiresAt.Local().Format(core.DateTimeLayout),
	)
	return nil
}

func (a *App) logout(ctx context.Context, args []string) error {
	if err := requireOperands(args, 0, "epic auth logout"); err != nil {
		return err
	}

	existed, err := a.services.Auth.Logout(ctx)
	if err != nil {
		return err
	}

	if !existed {
		a.success("No active session")
		return nil
	}
	a.success("Logged out")
	return nil
}

func (a *App) whoami(ctx context.Context, args []string) error {
	if err := requireOperands(args, 0, "epic auth whoami"); err != nil {
		return err
	}

	session := a.caller(ctx)
	a.success("%s (%s), session expires in %s",
		session.Username,
		session.Department,
		time.Until(session.ExpiresAt).Round(time.Minute),
	)
	return nil
}
