// AngelaMos | 2026
// command.go

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/carterperez-dev/epic-events/internal/middleware"
)

// Command is one node of the epic command tree. Exactly one of Run or
// Subcommands is set.
type Command struct {
	Name        string
	Summary     string
	Usage       string
	Flags       func() *pflag.FlagSet
	Subcommands []*Command
	Run         middleware.Handler

	parent *Command
	help   io.Writer
}

// Execute dispatches args down the tree, parses flags and runs the leaf.
// Every malformed invocation comes back as a *UsageError.
func (c *Command) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.helpWriter())
		return nil
	}

	if len(c.Subcommands) > 0 {
		if len(args) == 0 || strings.HasPrefix(args[0], "-") {
			c.PrintHelp(c.helpWriter())
			return Usage("%s: subcommand required", c.fullName())
		}

		for _, sub := range c.Subcommands {
			if sub.Name == args[0] {
				sub.parent = c
				return sub.Execute(ctx, args[1:])
			}
		}

		return Usage("unknown command %q\n\nRun '%s --help' for usage.", args[0], c.fullName())
	}

	if c.Flags != nil {
		flagSet := c.Flags()
		flagSet.SetOutput(io.Discard)

		if err := flagSet.Parse(args); err != nil {
			return Usage("%s\n\nRun '%s --help' for usage.", err.Error(), c.fullName())
		}
		args = flagSet.Args()
	}

	if c.Run == nil {
		return Usage("no action defined for %q", c.fullName())
	}

	return c.Run(ctx, args)
}

// Path is the command path selected by args, without flags or operands,
// used to name the command span.
func (c *Command) Path(args []string) string {
	path := []string{c.Name}
	node := c
	for _, arg := range args {
		var next *Command
		for _, sub := range node.Subcommands {
			if sub.Name == arg {
				next = sub
				break
			}
		}
		if next == nil {
			break
		}
		path = append(path, next.Name)
		node = next
	}
	return strings.Join(path, " ")
}

func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()

	if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	switch {
	case c.Usage != "":
		fmt.Fprintf(w, "Usage:\n  %s\n", c.Usage)
	case len(c.Subcommands) > 0:
		fmt.Fprintf(w, "Usage:\n  %s <command> [flags]\n", name)
	default:
		fmt.Fprintf(w, "Usage:\n  %s [flags]\n", name)
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(tw, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		_ = tw.Flush() //nolint:errcheck // help output is best effort
	}

	if c.Flags != nil {
		var flagHelp strings.Builder
		flagSet := c.Flags()
		flagSet.SetOutput(&flagHelp)
		flagSet.PrintDefaults()
		if flagHelp.Len() > 0 {
			fmt.Fprintf(w, "\nFlags:\n%s", flagHelp.String())
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", name)
	}
}

func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func (c *Command) helpWriter() io.Writer {
	for node := c; node != nil; node = node.parent {
		if node.help != nil {
			return node.help
		}
	}
	return io.Discard
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}

func newFlagSet(name string) *pflag.FlagSet {
	return pflag.NewFlagSet(name, pflag.ContinueOnError)
}
