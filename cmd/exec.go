package cmd

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/conch/pkg/console"
	"github.com/praetorian-inc/conch/pkg/shell"
)

var execCmd = &cobra.Command{
	Use:   "exec <command line>",
	Short: "Run a single command line and exit",
	Long: `Run a single command line as the shell would and exit. Quote the line to
keep redirections away from the calling shell:

  conch exec 'jq -q .name -f package.json > name.txt'

The exit code is 2 when the options of the command cannot be resolved and 1
for any other failure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return execLine(cmd, strings.Join(args, " "), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func execLine(cmd *cobra.Command, line string, out, errOut io.Writer) error {
	interpreter, err := newInterpreter(strings.NewReader(""), out, errOut, console.WithPrompt(""))
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	err = interpreter.Execute(cmd.Context(), line)
	if err == nil || errors.Is(err, console.ErrTerminated) {
		return nil
	}

	interpreter.Report(err)
	var usage *shell.UsageError
	if errors.As(err, &usage) {
		return &ExitError{Code: 2}
	}
	return &ExitError{Code: 1}
}

func init() {
	execCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(execCmd)
}
