// AngelaMos | 2026
// user.go

package cli

import (
	"context"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/carterperez-dev/epic-events/internal/core"
	"github.com/carterperez-dev/epic-events/internal/department"
	"github.com/carterperez-dev/epic-events/internal/user"
)

type userFlags struct {
	username       string
	employeeNumber string
	email          string
	firstName      string
	lastName       string
	department     string
	password       bool
}

func (f *userFlags) bind(fs *pflag.FlagSet, update bool) {
	fs.StringVar(&f.username, "username", "", "login name")
	fs.StringVar(&f.employeeNumber, "employee-number", "", "employee number")
	fs.StringVar(&f.email, "email", "", "email address")
	fs.StringVar(&f.firstName, "first-name", "", "first name")
	fs.StringVar(&f.lastName, "last-name", "", "last name")
	fs.StringVar(&f.department, "department", "", "Gestion, Commercial or Support")
	if update {
		fs.BoolVar(&f.password, "password", false, "prompt for a new password")
	}
}

func (a *App) userCommand() *Command {
	var create, update userFlags

	return &Command{
		Name:    "user",
		Summary: "Manage collaborators (Gestion only)",
		Subcommands: []*Command{
			{
				Name:    "create",
				Summary: "Create a collaborator",
				Usage:   "epic user create --username <name> --employee-number <n> --email <email> --first-name <name> --last-name <name> --department <dept>",
				Flags: func() *pflag.FlagSet {
					create = userFlags{}
					fs := newFlagSet("user create")
					create.bind(fs, false)
					return fs
				},
				Run: a.gate(func(ctx context.Context, args []string) error {
					return a.createUser(ctx, args, create)
				}, department.Gestion),
			},
			{
				Name:    "update",
				Summary: "Update a collaborator",
				Usage:   "epic user update <id> [flags]",
				Flags: func() *pflag.FlagSet {
					update = userFlags{}
					fs := newFlagSet("user update")
					update.bind(fs, true)
					return fs
				},
				Run: a.gate(func(ctx context.Context, args []string) error {
					return a.updateUser(ctx, args, update)
				}, department.Gestion),
			},
			{
				Name:    "list",
				Summary: "List collaborators",
				Usage:   "epic user list",
				Run:     a.gate(a.listUsers, department.Gestion),
			},
		},
	}
}

func (a *App) createUser(ctx context.Context, args []string, f userFlags) error {
	if err := requireOperands(args, 0, "epic user create [flags]"); err != nil {
		return err
	}

	employeeNumber, err := core.ValidatePositiveInt(f.employeeNumber)
	if err != nil {
		return err
	}

	departmentID, err := a.resolveDepartment(ctx, f.department)
	if err != nil {
		return err
	}

	password, err := a.newPassword()
	if err != nil {
		return err
	}

	created, err := a.services.Users.Create(ctx, a.caller(ctx), user.CreateUserRequest{
		Username:       f.username,
		EmployeeNumber: employeeNumber,
		Email:          f.email,
		FirstName:      f.firstName,
		LastName:       f.lastName,
		Password:       password,
		DepartmentID:   departmentID,
	})
	if err != nil {
		return err
	}

	a.success("User %s created with id %d in %s", created.Username, created.ID, created.DepartmentName)
	return nil
}

func (a *App) updateUser(ctx context.Context, args []string, f userFlags) error {
	if err := requireOperands(args, 1, "epic user update <id> [flags]"); err != nil {
		return err
	}

	id, err := operandID(args[0])
	if err != nil {
		return err
	}

	req := user.UpdateUserRequest{
		Username:  &f.username,
		Email:     &f.email,
		FirstName: &f.firstName,
		LastName:  &f.lastName,
	}

	if f.employeeNumber != "" {
		n, err := core.ValidatePositiveInt(f.employeeNumber)
		if err != nil {
			return err
		}
		req.EmployeeNumber = &n
	}

	if f.department != "" {
		departmentID, err := a.resolveDepartment(ctx, f.department)
		if err != nil {
			return err
		}
		req.DepartmentID = &departmentID
	}

	if f.password {
		password, err := a.newPassword()
		if err != nil {
			return err
		}
		req.Password = &password
	}

	updated, err := a.services.Users.Update(ctx, a.caller(ctx), id, req)
	if err != nil {
		return err
	}

	a.success("User %s updated", updated.Username)
	return nil
}

func (a *App) listUsers(ctx context.Context, args []string) error {
	if err := requireOperands(args, 0, "epic user list"); err != nil {
		return err
	}

	users, err := a.services.Users.List(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(users))
	for _, u := range user.ToUserResponseList(users) {
		rows = append(rows, []string{
			formatID(u.ID),
			u.Username,
			strconv.Itoa(u.EmployeeNumber),
			u.FullName,
			u.Email,
			u.Department,
		})
	}

	a.renderTable("users", []string{"ID", "Username", "Employee #", "Name", "Email", "Department"}, rows)
	return nil
}

// resolveDepartment maps a department name onto its stored id. Names are
// matched case-insensitively.
func (a *App) resolveDepartment(ctx context.Context, name string) (int64, error) {
	d := department.Parse(name)
	if !d.Valid() {
		names, err := a.services.Departments.Names(ctx)
		if err != nil {
			return 0, err
		}
		return 0, core.ValidationError(
			"unknown_department",
			"unknown department, expected one of: "+joinNames(names),
		)
	}
	return a.services.Departments.ResolveID(ctx, d)
}
