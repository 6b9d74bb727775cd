// AngelaMos | 2026
// contract.go

package cli

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/carterperez-dev/epic-events/internal/contract"
	"github.com/carterperez-dev/epic-events/internal/core"
	"github.com/carterperez-dev/epic-events/internal/department"
)

var errNotANumber = core.ValidationError("not_a_number", "amount must be a finite number")

type contractFlags struct {
	title    string
	clientID string
	amount   string
	sign     bool
	paid     string
}

func (a *App) contractCommand() *Command {
	var create, update contractFlags

	return &Command{
		Name:    "contract",
		Summary: "Manage contracts",
		Subcommands: []*Command{
			{
				Name:    "create",
				Summary: "Create an unsigned contract (Gestion)",
				Usage:   "epic contract create --client-id <id> --amount <amount> [--title <title>]",
				Flags: func() *pflag.FlagSet {
					create = contractFlags{}
					fs := newFlagSet("contract create")
					fs.StringVar(&create.title, "title", "", "contract title")
					fs.StringVar(&create.clientID, "client-id", "", "client id")
					fs.StringVar(&create.amount, "amount", "", "total amount")
					return fs
				},
				Run: a.gate(func(ctx context.Context, args []string) error {
					return a.createContract(ctx, args, create)
				}, department.Gestion),
			},
			{
				Name:    "update",
				Summary: "Sign a contract and/or record a payment",
				Usage:   "epic contract update <id> [--sign] [--paid <amount>]",
				Flags: func() *pflag.FlagSet {
					update = contractFlags{}
					fs := newFlagSet("contract update")
					fs.BoolVar(&update.sign, "sign", false, "mark the contract as signed")
					fs.StringVar(&update.paid, "paid", "", "total amount paid so far")
					return fs
				},
				Run: a.gate(func(ctx context.Context, args []string) error {
					return a.updateContract(ctx, args, update)
				}, department.Gestion, department.Commercial),
			},
			{
				Name:    "list",
				Summary: "List all contracts",
				Usage:   "epic contract list",
				Run: a.gate(func(ctx context.Context, args []string) error {
					return a.listContracts(ctx, args, contract.FilterAll)
				}),
			},
			{
				Name:    "unsigned",
				Summary: "List unsigned contracts (Commercial)",
				Usage:   "epic contract unsigned",
				Run: a.gate(func(ctx context.Context, args []string) error {
					return a.listContracts(ctx, args, contract.FilterUnsigned)
				}, department.Commercial),
			},
			{
				Name:    "unpaid",
				Summary: "List contracts with an amount due",
				Usage:   "epic contract unpaid",
				Run: a.gate(func(ctx context.Context, args []string) error {
					return a.listContracts(ctx, args, contract.FilterUnpaid)
				}, department.Commercial, department.Gestion),
			},
		},
	}
}

func (a *App) createContract(ctx context.Context, args []string, f contractFlags) error {
	if err := requireOperands(args, 0, "epic contract create [flags]"); err != nil {
		return err
	}

	clientID, err := operandID(f.clientID)
	if err != nil {
		return err
	}

	amount, err := parseAmount(f.amount)
	if err != nil {
		return err
	}

	created, err := a.services.Contracts.Create(ctx, contract.CreateContractRequest{
		Title:    f.title,
		ClientID: clientID,
		Amount:   amount,
	})
	if err != nil {
		return err
	}

	a.success("Contract %d created for %s (%s, unsigned)",
		created.ID, created.ClientName, formatAmount(created.Amount))
	return nil
}

func (a *App) updateContract(ctx context.Context, args []string, f contractFlags) error {
	if err := requireOperands(args, 1, "epic contract update <id> [--sign] [--paid <amount>]"); err != nil {
		return err
	}

	id, err := operandID(args[0])
	if err != nil {
		return err
	}

	req := contract.UpdateContractRequest{Sign: f.sign}
	if f.paid != "" {
		paid, err := parseAmount(f.paid)
		if err != nil {
			return err
		}
		req.PaidAmount = &paid
	}

	updated, err := a.services.Contracts.Update(ctx, a.caller(ctx), id, req)
	if err != nil {
		return err
	}

	a.success("Contract %d updated: %s, paid %s of %s",
		updated.ID,
		updated.State(),
		formatAmount(updated.PaidAmount),
		formatAmount(updated.Amount),
	)
	return nil
}

func (a *App) listContracts(ctx context.Context, args []string, filter contract.Filter) error {
	if err := requireOperands(args, 0, "epic contract list"); err != nil {
		return err
	}

	var (
		contracts []contract.Contract
		err       error
		title     = "contracts"
	)

	switch filter {
	case contract.FilterUnsigned:
		contracts, err = a.services.Contracts.ListUnsigned(ctx)
		title = "unsigned contracts"
	case contract.FilterUnpaid:
		contracts, err = a.services.Contracts.ListUnpaid(ctx)
		title = "unpaid contracts"
	default:
		contracts, err = a.services.Contracts.ListAll(ctx)
	}
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(contracts))
	for _, c := range contracts {
		rows = append(rows, []string{
			formatID(c.ID),
			orDash(c.Title),
			c.ClientName,
			c.State(),
			formatAmount(c.Amount),
			formatAmount(c.PaidAmount),
			formatAmount(c.AmountDue()),
		})
	}

	a.renderTable(title, []string{"ID", "Title", "Client", "Status", "Amount", "Paid", "Due"}, rows)
	return nil
}

func parseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotANumber
	}
	return v, nil
}
