// AngelaMos | 2026
// event.go

package cli

import (
	"context"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/carterperez-dev/epic-events/internal/core"
	"github.com/carterperez-dev/epic-events/internal/department"
	"github.com/carterperez-dev/epic-events/internal/event"
)

type eventFlags struct {
	contractID string
	start      string
	end        string
	location   string
	attendees  string
	notes      string
	supportID  string
}

func (f *eventFlags) bind(fs *pflag.FlagSet, update bool) {
	if !update {
		fs.StringVar(&f.contractID, "contract-id", "", "signed contract id")
	}
	fs.StringVar(&f.start, "start", "", "start, YYYY-MM-DD or YYYY-MM-DD HH:MM:SS")
	if update {
		fs.StringVar(&f.end, "end", "", "end, YYYY-MM-DD or YYYY-MM-DD HH:MM:SS")
	}
	fs.StringVar(&f.location, "location", "", "venue address")
	fs.StringVar(&f.attendees, "attendees", "", "expected attendees")
	fs.StringVar(&f.notes, "notes", "", "free text notes")
	fs.StringVar(&f.supportID, "support-id", "", "id of the Support user in charge")
}

func (a *App) eventCommand() *Command {
	var create, update eventFlags

	return &Command{
		Name:    "event",
		Summary: "Manage events",
		Subcommands: []*Command{
			{
				Name:    "create",
				Summary: "Schedule an event on a signed contract (Gestion)",
				Usage:   "epic event create --contract-id <id> --start <date> --attendees <n> [flags]",
				Flags: func() *pflag.FlagSet {
					create = eventFlags{}
					fs := newFlagSet("event create")
					create.bind(fs, false)
					return fs
				},
				Run: a.gate(func(ctx context.Context, args []string) error {
					return a.createEvent(ctx, args, create)
				}, department.Gestion),
			},
			{
				Name:    "update",
				Summary: "Update an event (Gestion, or its Support contact)",
				Usage:   "epic event update <id> [flags]",
				Flags: func() *pflag.FlagSet {
					update = eventFlags{}
					fs := newFlagSet("event update")
					update.bind(fs, true)
					return fs
				},
				Run: a.gate(func(ctx context.Context, args []string) error {
					return a.updateEvent(ctx, args, update)
				}, department.Gestion, department.Support),
			},
			{
				Name:    "list",
				Summary: "List all events",
				Usage:   "epic event list",
				Run:     a.gate(a.listEvents),
			},
			{
				Name:    "assigned",
				Summary: "List the events assigned to you (Support)",
				Usage:   "epic event assigned",
				Run:     a.gate(a.listAssignedEvents, department.Gestion, department.Support),
			},
		},
	}
}

func (a *App) createEvent(ctx context.Context, args []string, f eventFlags) error {
	if err := requireOperands(args, 0, "epic event create [flags]"); err != nil {
		return err
	}

	contractID, err := operandID(f.contractID)
	if err != nil {
		return err
	}

	start, err := core.ParseDate(f.start)
	if err != nil {
		return err
	}

	attendees, err := core.ValidatePositiveInt(f.attendees)
	if err != nil {
		return err
	}

	req := event.CreateEventRequest{
		ContractID: contractID,
		StartDate:  start,
		Attendees:  attendees,
		Location:   f.location,
		Notes:      f.notes,
	}

	if f.supportID != "" {
		supportID, err := operandID(f.supportID)
		if err != nil {
			return err
		}
		req.SupportID = &supportID
	}

	created, err := a.services.Events.Create(ctx, a.caller(ctx), req)
	if err != nil {
		return err
	}

	a.success("Event %d scheduled for %s on %s", created.ID, created.ClientName, created.Period())
	return nil
}

func (a *App) updateEvent(ctx context.Context, args []string, f eventFlags) error {
	if err := requireOperands(args, 1, "epic event update <id> [flags]"); err != nil {
		return err
	}

	id, err := operandID(args[0])
	if err != nil {
		return err
	}

	req := event.UpdateEventRequest{
		Location: &f.location,
		Notes:    &f.notes,
	}

	if f.start != "" {
		start, err := core.ParseDate(f.start)
		if err != nil {
			return err
		}
		req.StartDate = &start
	}

	if f.end != "" {
		end, err := core.ParseDate(f.end)
		if err != nil {
			return err
		}
		req.EndDate = &end
	}

	if f.attendees != "" {
		attendees, err := core.ValidatePositiveInt(f.attendees)
		if err != nil {
			return err
		}
		req.Attendees = &attendees
	}

	if f.supportID != "" {
		supportID, err := operandID(f.supportID)
		if err != nil {
			return err
		}
		req.SupportContactID = &supportID
	}

	updated, err := a.services.Events.Update(ctx, a.caller(ctx), id, req)
	if err != nil {
		return err
	}

	a.success("Event %d updated", updated.ID)
	return nil
}

func (a *App) listEvents(ctx context.Context, args []string) error {
	if err := requireOperands(args, 0, "epic event list"); err != nil {
		return err
	}

	events, err := a.services.Events.List(ctx)
	if err != nil {
		return err
	}

	a.renderEvents("events", events)
	return nil
}

func (a *App) listAssignedEvents(ctx context.Context, args []string) error {
	if err := requireOperands(args, 0, "epic event assigned"); err != nil {
		return err
	}

	events, err := a.services.Events.ListAssignedTo(ctx, a.caller(ctx))
	if err != nil {
		return err
	}

	a.renderEvents("assigned events", events)
	return nil
}

func (a *App) renderEvents(title string, events []event.Event) {
	rows := make([][]string, 0, len(events))
	for i := range events {
		e := &events[i]
		rows = append(rows, []string{
			formatID(e.ID),
			formatID(e.ContractID),
			e.ClientName,
			e.Period(),
			orDash(e.Location),
			strconv.Itoa(e.Attendees),
			formatOptionalID(e.SupportContactID, e.SupportName),
		})
	}

	a.renderTable(title,
		[]string{"ID", "Contract", "Client", "When", "Location", "Attendees", "Support"},
		rows,
	)
}
