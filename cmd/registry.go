package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/conch/internal/logs"
	"github.com/praetorian-inc/conch/internal/message"
	"github.com/praetorian-inc/conch/internal/registry"
	"github.com/praetorian-inc/conch/pkg/console"
	"github.com/praetorian-inc/conch/pkg/shell"
	"github.com/praetorian-inc/conch/pkg/shell/builtins"
)

func init() {
	cobra.CheckErr(builtins.Register(registry.Registry))
}

// newInterpreter builds an interpreter over the process registry from the
// loaded configuration.
func newInterpreter(in io.Reader, out, errOut io.Writer, opts ...console.Option) (*shell.Interpreter, error) {
	c := console.New(in, out, errOut, append(cfg.ConsoleOptions(), opts...)...)
	if err := c.History().Load(); err != nil {
		message.Warning("Failed to load history: %s", err)
	}
	return shell.New(c, registry.Registry,
		shell.WithPartialMatching(cfg.PartialMatching),
		shell.WithDefaults(cfg.Defaults),
		shell.WithLogger(logs.ConsoleLogger()),
	)
}
