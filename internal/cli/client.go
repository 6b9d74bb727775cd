// AngelaMos | 2026
// client.go

package cli

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/carterperez-dev/epic-events/internal/client"
	"github.com/carterperez-dev/epic-events/internal/department"
)

type clientFlags struct {
	fullName     string
	contact      string
	email        string
	phone        string
	commercialID string
}

func (f *clientFlags) bind(fs *pflag.FlagSet, update bool) {
	fs.StringVar(&f.fullName, "fullname", "", "client full name")
	fs.StringVar(&f.contact, "contact", "", "contact person or company")
	fs.StringVar(&f.email, "email", "", "email address")
	fs.StringVar(&f.phone, "phone", "", "phone number")
	if update {
		fs.StringVar(&f.commercialID, "commercial-id", "", "id of the Commercial user in charge")
	}
}

func (a *App) clientCommand() *Command {
	var create, update clientFlags

	return &Command{
		Name:    "client",
		Summary: "Manage clients",
		Subcommands: []*Command{
			{
				Name:    "create",
				Summary: "Create a client managed by you (Commercial)",
				Usage:   "epic client create --fullname <name> --email <email> [--contact <c>] [--phone <p>]",
				Flags: func() *pflag.FlagSet {
					create = clientFlags{}
					fs := newFlagSet("client create")
					create.bind(fs, false)
					return fs
				},
				Run: a.gate(func(ctx context.Context, args []string) error {
					return a.createClient(ctx, args, create)
				}, department.Commercial),
			},
			{
				Name:    "update",
				Summary: "Update a client (Gestion, or its Commercial)",
				Usage:   "epic client update <id> [flags]",
				Flags: func() *pflag.FlagSet {
					update = clientFlags{}
					fs := newFlagSet("client update")
					update.bind(fs, true)
					return fs
				},
				Run: a.gate(func(ctx context.Context, args []string) error {
					return a.updateClient(ctx, args, update)
				}, department.Gestion, department.Commercial),
			},
			{
				Name:    "list",
				Summary: "List clients",
				Usage:   "epic client list",
				Run:     a.gate(a.listClients),
			},
		},
	}
}

func (a *App) createClient(ctx context.Context, args []string, f clientFlags) error {
	if err := requireOperands(args, 0, "epic client create [flags]"); err != nil {
		return err
	}

	caller := a.caller(ctx)
	created, err := a.services.Clients.Create(ctx, caller, client.CreateClientRequest{
		FullName:     f.fullName,
		Contact:      f.contact,
		Email:        f.email,
		PhoneNumber:  f.phone,
		CommercialID: caller.UserID,
	})
	if err != nil {
		return err
	}

	a.success("Client %s created with id %d", created.FullName, created.ID)
	return nil
}

func (a *App) updateClient(ctx context.Context, args []string, f clientFlags) error {
	if err := requireOperands(args, 1, "epic client update <id> [flags]"); err != nil {
		return err
	}

	id, err := operandID(args[0])
	if err != nil {
		return err
	}

	req := client.UpdateClientRequest{
		FullName:    &f.fullName,
		Contact:     &f.contact,
		Email:       &f.email,
		PhoneNumber: &f.phone,
	}

	if f.commercialID != "" {
		commercialID, err := operandID(f.commercialID)
		if err != nil {
			return err
		}
		req.CommercialID = &commercialID
	}

	updated, err := a.services.Clients.Update(ctx, a.caller(ctx), id, req)
	if err != nil {
		return err
	}

	a.success("Client %s updated", updated.FullName)
	return nil
}

func (a *App) listClients(ctx context.Context, args []string) error {
	if err := requireOperands(args, 0, "epic client list"); err != nil {
		return err
	}

	clients, err := a.services.Clients.List(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []string{
			formatID(c.ID),
			c.FullName,
			orDash(c.Contact),
			c.Email,
			orDash(c.PhoneNumber),
			formatOptionalID(c.CommercialID, c.CommercialName),
		})
	}

	a.renderTable("clients", []string{"ID", "Name", "Contact", "Email", "Phone", "Commercial"}, rows)
	return nil
}
