package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/conch/internal/message"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell",
	Long: `Start the interactive shell. Type 'help' for the list of commands and
'quit' or Ctrl-D to leave.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	interpreter, err := newInterpreter(os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	message.Banner(cfg.Greetings)
	if err := interpreter.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
