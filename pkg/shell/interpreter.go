// Package shell runs the read-eval-print loop: each line is split into a
// command and its redirections, the command's options are resolved and the
// command runs with its output routed to the console or the redirection targets.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"

	outputproviders "github.com/praetorian-inc/conch/internal/output_providers"
	"github.com/praetorian-inc/conch/internal/registry"
	"github.com/praetorian-inc/conch/pkg/cmdline"
	"github.com/praetorian-inc/conch/pkg/console"
	"github.com/praetorian-inc/conch/pkg/option"
)

// Interpreter executes command lines against a command registry.
type Interpreter struct {
	console         *console.Console
	registry        *registry.CommandRegistry
	parser          *option.Parser
	partialMatching bool
	defaults        map[string]map[string]string
	encoding        encoding.Encoding
	greetings       string
	formatter       *option.HelpFormatter
	logger          *slog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithPartialMatching lets unique prefixes resolve command names and long option names.
func WithPartialMatching(enabled bool) Option {
	return func(i *Interpreter) {
		i.partialMatching = enabled
	}
}

// WithDefaults supplies option defaults per command name.
func WithDefaults(defaults map[string]map[string]string) Option {
	return func(i *Interpreter) {
		i.defaults = defaults
	}
}

func WithGreetings(greetings string) Option {
	return func(i *Interpreter) {
		i.greetings = greetings
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

func WithHelpFormatter(f *option.HelpFormatter) Option {
	return func(i *Interpreter) {
		i.formatter = f
	}
}

// New creates an interpreter. The console's encoding must be known.
func New(c *console.Console, r *registry.CommandRegistry, opts ...Option) (*Interpreter, error) {
	i := &Interpreter{
		console:   c,
		registry:  r,
		formatter: option.NewHelpFormatter(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	enc, err := outputproviders.LookupEncoding(c.Encoding())
	if err != nil {
		return nil, err
	}
	i.encoding = enc
	i.parser = option.NewParser(i.partialMatching)
	return i, nil
}

func (i *Interpreter) Console() *console.Console {
	return i.console
}

// Run reads and executes lines until the input ends, a command terminates the
// console or ctx is done. Command failures and oversized lines are reported and
// the loop goes on. The console is closed when Run returns.
func (i *Interpreter) Run(ctx context.Context) error {
	defer i.console.Close()
	if i.greetings != "" {
		i.console.Println(i.greetings)
	}
	for {
		line, err := i.console.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, console.ErrLineTooLong) {
			i.Report(err)
			continue
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := i.console.History().Add(line); err != nil {
			i.logger.Warn("Failed to record history", "error", err)
		}

		err = i.Execute(ctx, line)
		if errors.Is(err, console.ErrTerminated) {
			return nil
		}
		if err != nil {
			i.Report(err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Execute runs a single command line. Redirection targets are opened only after
// the options resolved and are closed on every exit path.
func (i *Interpreter) Execute(ctx context.Context, line string) (err error) {
	logger := i.logger.With("run_id", uuid.NewString())
	cl := cmdline.Parse(line)
	if !cl.HasCommandName() {
		if cl.HasRedirections() {
			return ErrNoCommand
		}
		return nil
	}
	logger = logger.With("command", cl.CommandName())
	if cl.RequestMethod() != "" {
		logger = logger.With("method", string(cl.RequestMethod()))
	}

	cmd, err := i.registry.Resolve(cl.CommandName(), i.partialMatching)
	if err != nil {
		return err
	}
	name := cmd.Descriptor().Name

	parsed, err := i.parser.Parse(cmd.Options(), cl.Args(), option.WithDefaults(i.defaults[name]))
	if err != nil {
		logger.Debug("Option resolution failed", "error", err)
		return &UsageError{Command: cmd, Err: err}
	}

	if cl.HasRedirections() {
		w, openErr := outputproviders.OpenRedirectionWriter(cl.Redirections(), i.console.WorkingDir(), i.encoding)
		if openErr != nil {
			return openErr
		}
		logger.Debug("Output redirected", "targets", cmdline.SerializeRedirections(cl.Redirections()))
		i.console.SetWriter(w)
		defer func() {
			i.console.SetWriter(nil)
			if closeErr := w.Close(); closeErr != nil {
				err = errors.Join(err, closeErr)
			}
		}()
	}

	logger.Debug("Executing command", "args", cl.Args())
	if err := cmd.Execute(ctx, i.console, parsed); err != nil {
		if !errors.Is(err, console.ErrTerminated) {
			logger.Debug("Command failed", "error", err)
		}
		return err
	}
	return nil
}

// Report writes an error to the console. A usage error is followed by the
// usage of the command that failed to parse.
func (i *Interpreter) Report(err error) {
	i.console.Errorf("%s", err)
	var usage *UsageError
	if errors.As(err, &usage) {
		d := usage.Command.Descriptor()
		_ = i.formatter.PrintHelp(i.console.ErrWriter(), d.Name, "", usage.Command.Options(), "")
	}
}

// ErrNoCommand is returned for a line that only holds redirections.
var ErrNoCommand = errors.New("no command specified")

// UsageError wraps an option resolution failure with the command it occurred for.
type UsageError struct {
	Command registry.Command
	Err     error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command.Descriptor().Name, e.Err)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}
