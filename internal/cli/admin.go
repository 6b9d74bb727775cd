// AngelaMos | 2026
// admin.go

package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/pflag"

	"github.com/carterperez-dev/epic-events/internal/core"
	"github.com/carterperez-dev/epic-events/internal/health"
	"github.com/carterperez-dev/epic-events/internal/user"
)

func (a *App) adminCommand() *Command {
	var (
		force     bool
		bootstrap userFlags
	)

	return &Command{
		Name:    "admin",
		Summary: "Installation tasks: schema, signing keys, first account",
		Subcommands: []*Command{
			{
				Name:    "migrate",
				Summary: "Apply pending database migrations",
				Usage:   "epic admin migrate",
				Run:     a.migrate,
			},
			{
				Name:    "status",
				Summary: "Check the database, Redis and signing keys",
				Usage:   "epic admin status",
				Run:     a.status,
			},
			{
				Name:    "keygen",
				Summary: "Generate the session signing key pair",
				Usage:   "epic admin keygen [--force]",
				Flags: func() *pflag.FlagSet {
					force = false
					fs := newFlagSet("admin keygen")
					fs.BoolVar(&force, "force", false, "replace an existing key pair")
					return fs
				},
				Run: func(ctx context.Context, args []string) error {
					return a.keygen(ctx, args, force)
				},
			},
			{
				Name:    "departments",
				Summary: "Create the Gestion, Commercial and Support departments",
				Usage:   "epic admin departments",
				Run:     a.open(a.seedDepartments),
			},
			{
				Name:    "bootstrap",
				Summary: "Create the first Gestion account",
				Usage:   "epic admin bootstrap --username <name> --employee-number <n> --email <email> --first-name <name> --last-name <name>",
				Flags: func() *pflag.FlagSet {
					bootstrap = userFlags{}
					fs := newFlagSet("admin bootstrap")
					fs.StringVar(&bootstrap.username, "username", "", "login name")
					fs.StringVar(&bootstrap.employeeNumber, "employee-number", "", "employee number")
					fs.StringVar(&bootstrap.email, "email", "", "email address")
					fs.StringVar(&bootstrap.firstName, "first-name", "", "first name")
					fs.StringVar(&bootstrap.lastName, "last-name", "", "last name")
					return fs
				},
				Run: a.open(func(ctx context.Context, args []string) error {
					return a.bootstrap(ctx, args, bootstrap)
				}),
			},
		},
	}
}

func (a *App) migrate(ctx context.Context, args []string) error {
	if err := requireOperands(args, 0, "epic admin migrate"); err != nil {
		return err
	}

	version, err := a.admin.Migrate(ctx)
	if err != nil {
		return &BootstrapError{Err: err}
	}

	a.success("Database schema at version %d", version)
	return nil
}

func (a *App) status(ctx context.Context, args []string) error {
	if err := requireOperands(args, 0, "epic admin status"); err != nil {
		return err
	}

	checks := a.admin.Status(ctx)

	rows := make([][]string, 0, len(checks))
	for _, c := range checks {
		state := "ok"
		switch {
		case !c.Healthy && c.Optional:
			state = "skipped"
		case !c.Healthy:
			state = "failed"
		}
		latency := "-"
		if c.Latency > 0 {
			latency = c.Latency.Round(time.Millisecond).String()
		}
		rows = append(rows, []string{c.Name, state, latency, orDash(c.Message)})
	}

	a.renderTable("checks", []string{"Check", "State", "Latency", "Detail"}, rows)

	if !health.Healthy(checks) {
		return &BootstrapError{Err: errors.New("required dependency unavailable")}
	}
	return nil
}

func (a *App) keygen(_ context.Context, args []string, force bool) error {
	if err := requireOperands(args, 0, "epic admin keygen [--force]"); err != nil {
		return err
	}

	if err := a.admin.Keygen(force); err != nil {
		return err
	}

	a.success("Signing keys written, existing sessions are now invalid")
	return nil
}

func (a *App) seedDepartments(ctx context.Context, args []string) error {
	if err := requireOperands(args, 0, "epic admin departments"); err != nil {
		return err
	}

	added, err := a.services.Departments.EnsureDefaults(ctx)
	if err != nil {
		return err
	}

	a.success("Departments added: %s", joinNames(added))
	return nil
}

func (a *App) bootstrap(ctx context.Context, args []string, f userFlags) error {
	if err := requireOperands(args, 0, "epic admin bootstrap [flags]"); err != nil {
		return err
	}

	employeeNumber, err := core.ValidatePositiveInt(f.employeeNumber)
	if err != nil {
		return err
	}

	password, err := a.newPassword()
	if err != nil {
		return err
	}

	created, err := a.services.Users.Bootstrap(ctx, user.BootstrapRequest{
		Username:       f.username,
		EmployeeNumber: employeeNumber,
		Email:          f.email,
		FirstName:      f.firstName,
		LastName:       f.lastName,
		Password:       password,
	})
	if err != nil {
		return err
	}

	a.success("Gestion account %s created, log in with 'epic auth login %s'", created.Username, created.Username)
	return nil
}
