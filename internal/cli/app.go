// AngelaMos | 2026
// app.go

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/carterperez-dev/epic-events/internal/auth"
	"github.com/carterperez-dev/epic-events/internal/client"
	"github.com/carterperez-dev/epic-events/internal/contract"
	"github.com/carterperez-dev/epic-events/internal/core"
	"github.com/carterperez-dev/epic-events/internal/department"
	"github.com/carterperez-dev/epic-events/internal/event"
	"github.com/carterperez-dev/epic-events/internal/health"
	"github.com/carterperez-dev/epic-events/internal/middleware"
	"github.com/carterperez-dev/epic-events/internal/user"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*auth.Session, error)
	Current(ctx context.Context) (*auth.Session, bool)
	Logout(ctx context.Context) (bool, error)
}

type UserService interface {
	Create(ctx context.Context, caller *auth.Session, req user.CreateUserRequest) (*user.User, error)
	Update(ctx context.Context, caller *auth.Session, id int64, req user.UpdateUserRequest) (*user.User, error)
	Bootstrap(ctx context.Context, req user.BootstrapRequest) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

type ClientService interface {
	Create(ctx context.Context, caller *auth.Session, req client.CreateClientRequest) (*client.Client, error)
	Update(ctx context.Context, caller *auth.Session, id int64, req client.UpdateClientRequest) (*client.Client, error)
	List(ctx context.Context) ([]client.Client, error)
}

type ContractService interface {
	Create(ctx context.Context, req contract.CreateContractRequest) (*contract.Contract, error)
	Update(
		ctx context.Context,
		caller *auth.Session,
		id int64,
		req contract.UpdateContractRequest,
	) (*contract.Contract, error)
	ListAll(ctx context.Context) ([]contract.Contract, error)
	ListUnsigned(ctx context.Context) ([]contract.Contract, error)
	ListUnpaid(ctx context.Context) ([]contract.Contract, error)
}

type EventService interface {
	Create(ctx context.Context, caller *auth.Session, req event.CreateEventRequest) (*event.Event, error)
	Update(ctx context.Context, caller *auth.Session, id int64, req event.UpdateEventRequest) (*event.Event, error)
	ListAssignedTo(ctx context.Context, caller *auth.Session) ([]event.Event, error)
	List(ctx context.Context) ([]event.Event, error)
}

type DepartmentService interface {
	Names(ctx context.Context) ([]string, error)
	ResolveID(ctx context.Context, d department.Department) (int64, error)
	EnsureDefaults(ctx context.Context) ([]string, error)
}

// Services is the backend a command runs against.
type Services struct {
	Auth        AuthService
	Users       UserService
	Clients     ClientService
	Contracts   ContractService
	Events      EventService
	Departments DepartmentService
}

// Connect opens the backend once per invocation. The returned close func
// may be nil.
type Connect func(ctx context.Context) (*Services, func(), error)

// Admin holds the setup operations that do not need a session.
type Admin struct {
	Migrate func(ctx context.Context) (uint, error)
	Keygen  func(force bool) error
	Status  func(ctx context.Context) []health.Check
}

// Options configures an App. Zero values fall back to stdio defaults.
type Options struct {
	Out        io.Writer
	Err        io.Writer
	Logger     *slog.Logger
	Tracer     trace.Tracer
	ReadSecret func(prompt string) (string, error)
}

type App struct {
	connect    Connect
	admin      Admin
	services   *Services
	closer     func()
	out        io.Writer
	errOut     io.Writer
	logger     *slog.Logger
	tracer     trace.Tracer
	readSecret func(prompt string) (string, error)
	root       *Command
}

func NewApp(connect Connect, admin Admin, opts Options) *App {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Err == nil {
		opts.Err = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("epic")
	}
	if opts.ReadSecret == nil {
		opts.ReadSecret = terminalSecret(opts.Err)
	}

	a := &App{
		connect:    connect,
		admin:      admin,
		out:        opts.Out,
		errOut:     opts.Err,
		logger:     opts.Logger,
		tracer:     opts.Tracer,
		readSecret: opts.ReadSecret,
	}
	a.root = a.buildRoot()
	return a
}

// Run executes one invocation and returns the process exit status. Exactly
// one outcome line is printed for a failed command.
func (a *App) Run(ctx context.Context, args []string) int {
	defer a.close()

	path := a.root.Path(args)
	ctx, span := a.tracer.Start(ctx, path,
		trace.WithAttributes(attribute.String("command", path)),
	)
	defer span.End()

	err := a.root.Execute(ctx, args)
	if err == nil {
		return ExitOK
	}

	code := ExitCode(err)
	switch code {
	case ExitUsage:
		fmt.Fprintln(a.errOut, err.Error())
	case ExitBootstrap:
		core.SetSpanError(ctx, err)
		fmt.Fprintln(a.errOut, err.Error())
	default:
		core.SetSpanError(ctx, err)
		a.logger.DebugContext(ctx, "command failed",
			"command", path,
			"kind", string(core.KindOf(err)),
			"trace_id", core.TraceIDFromContext(ctx),
			"error", err,
		)
		a.failure(core.Message(err))
	}

	return code
}

func (a *App) buildRoot() *Command {
	root := &Command{
		Name:    "epic",
		Summary: "Epic Events CRM",
		Subcommands: []*Command{
			a.authCommand(),
			a.userCommand(),
			a.clientCommand(),
			a.contractCommand(),
			a.eventCommand(),
			a.adminCommand(),
		},
		help: a.errOut,
	}
	return root
}

// backend connects on first use so that commands like 'admin keygen' run
// without a database.
func (a *App) backend(ctx context.Context) (*Services, error) {
	if a.services != nil {
		return a.services, nil
	}

	services, closer, err := a.connect(ctx)
	if err != nil {
		return nil, &BootstrapError{Err: err}
	}

	a.services = services
	a.closer = closer
	return services, nil
}

func (a *App) close() {
	if a.closer != nil {
		a.closer()
		a.closer = nil
	}
}

// gate connects the backend and runs h behind the capability gate. An
// empty department set admits any authenticated user.
func (a *App) gate(h middleware.Handler, departments ...department.Department) middleware.Handler {
	return func(ctx context.Context, args []string) error {
		services, err := a.backend(ctx)
		if err != nil {
			return err
		}
		return middleware.Require(services.Auth, departments...)(h)(ctx, args)
	}
}

// open connects the backend for commands that need no session.
func (a *App) open(h middleware.Handler) middleware.Handler {
	return func(ctx context.Context, args []string) error {
		if _, err := a.backend(ctx); err != nil {
			return err
		}
		return h(ctx, args)
	}
}

func (a *App) caller(ctx context.Context) *auth.Session {
	return middleware.SessionFromContext(ctx)
}

func (a *App) success(format string, args ...any) {
	fmt.Fprintln(a.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

func (a *App) failure(message string) {
	fmt.Fprintln(a.out, failureStyle.Render(message))
}

func requireOperands(args []string, n int, usage string) error {
	if len(args) != n {
		return Usage("usage: %s", usage)
	}
	return nil
}

func operandID(raw string) (int64, error) {
	n, err := core.ValidatePositiveInt(raw)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
