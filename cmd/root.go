package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/praetorian-inc/conch/internal/config"
	"github.com/praetorian-inc/conch/internal/logs"
	"github.com/praetorian-inc/conch/internal/message"
)

var (
	cfgFile     string
	noColorFlag bool
	quietFlag   bool
	silentFlag  bool

	v   = config.NewViper()
	cfg = config.Default()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "conch",
	Short: "Conch is an interactive command shell.",
	Long: `Conch reads command lines, resolves their options and runs them,
redirecting output to files with > and >>. Without a subcommand it starts
the interactive shell.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
	RunE:              runShell,
}

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	_ = logs.Close()
	if err == nil {
		return
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			message.Error("%s", exitErr.Message)
		}
		os.Exit(exitErr.Code)
	}
	message.Critical("%s", err)
	os.Exit(1)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.conch.yaml)")
	flags.String(config.KeyLogLevel, "", "log level: debug, info, warn or error")
	flags.String(config.KeyLogFile, "", "append JSON logs to this file")
	flags.String(config.KeyWorkingDir, "", "directory relative redirection targets resolve against")
	flags.String(config.KeyEncoding, "", "character encoding of redirected output")
	flags.Bool(config.KeyPartialMatching, false, "resolve unique prefixes of command and option names")
	flags.BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "suppress informational messages")
	flags.BoolVar(&silentFlag, "silent", false, "suppress all messages except critical errors")
	bindFlags(flags)
}

func bindFlags(flags *pflag.FlagSet) {
	for _, key := range []string{
		config.KeyLogLevel,
		config.KeyLogFile,
		config.KeyWorkingDir,
		config.KeyEncoding,
		config.KeyPartialMatching,
	} {
		cobra.CheckErr(v.BindPFlag(key, flags.Lookup(key)))
	}
}

// initConfig reads the config file, overlays flags and CONCH_* environment
// variables and sets up logging.
func initConfig(cmd *cobra.Command, args []string) error {
	path, required := cfgFile, true
	if path == "" {
		home, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path, required = home, false
	}

	loaded, err := config.Load(path, required)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	loaded.Overlay(v)
	if err := loaded.Validate(); err != nil {
		return &ExitError{Code: 2, Message: fmt.Sprintf("invalid configuration: %s", err)}
	}
	cfg = loaded

	message.SetNoColor(noColorFlag)
	message.SetQuiet(quietFlag)
	message.SetSilent(silentFlag)

	level, _ := logs.ParseLevel(cfg.LogLevel)
	logger, err := logs.Setup(logs.Options{
		Level:   level,
		NoColor: noColorFlag,
		File:    cfg.LogFile,
	})
	if err != nil {
		return err
	}
	logger.Debug("Configuration loaded", "path", path, "partial_matching", cfg.PartialMatching)
	return nil
}
