package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/praetorian-inc/conch/internal/registry"
	"github.com/praetorian-inc/conch/pkg/cmdline"
	"github.com/praetorian-inc/conch/pkg/console"
	"github.com/praetorian-inc/conch/pkg/option"
	"github.com/praetorian-inc/conch/version"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Launch Conch's MCP server",
	Long: `Launch Conch's MCP server on stdio. Every shell command is exposed as a
tool taking its argument string, so a client can run "jq" with
args "-q .name -f package.json". Output redirection is not available to
tools, and interactive commands such as quit are not exposed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.ServeStdio(newMCPServer(registry.Registry))
	},
}

const argsParam = "args"

var (
	errToolRedirection = errors.New("output redirection is not available to tools")
	errToolInteractive = errors.New("interactive commands are not available as tools")
)

func newMCPServer(r *registry.CommandRegistry) *server.MCPServer {
	s := server.NewMCPServer(
		"Conch Server",
		version.FullVersion(),
		server.WithLogging(),
	)
	for _, entry := range toolEntries(r) {
		s.AddTool(commandToTool(entry), commandHandler)
	}
	return s
}

// toolEntries returns the commands exposed as tools, leaving out interactive ones.
func toolEntries(r *registry.CommandRegistry) []registry.RegistryEntry {
	var entries []registry.RegistryEntry
	for _, name := range r.Names() {
		entry, ok := r.GetRegistryEntry(name)
		if !ok || entry.Descriptor.Interactive {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func commandToTool(entry registry.RegistryEntry) mcp.Tool {
	d := entry.Descriptor
	var usage strings.Builder
	_ = option.NewHelpFormatter().PrintHelp(&usage, d.Name, "", entry.Command.Options(), "")
	description := fmt.Sprintf("%s\n\nNamespace: %s\n\n%s", d.Description, d.Namespace, usage.String())

	return mcp.NewTool(d.Name,
		mcp.WithDescription(description),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			Title:         d.Name,
			OpenWorldHint: mcp.ToBoolPtr(false),
		}),
		mcp.WithString(argsParam,
			mcp.Description("Options and arguments, written as on the shell command line"),
		),
	)
}

func commandHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if entry, ok := registry.Registry.GetRegistryEntry(request.Params.Name); ok && entry.Descriptor.Interactive {
		return mcp.NewToolResultError(errToolInteractive.Error()), nil
	}

	line := request.Params.Name
	if args := request.GetString(argsParam, ""); strings.TrimSpace(args) != "" {
		line += " " + args
	}
	if _, redirections := cmdline.ExtractRedirections(line); len(redirections) > 0 {
		slog.Warn("Rejected tool call", "command", request.Params.Name, "error", errToolRedirection)
		return mcp.NewToolResultError(errToolRedirection.Error()), nil
	}

	var out, errOut bytes.Buffer
	interpreter, err := newInterpreter(strings.NewReader(""), &out, &errOut, console.WithPrompt(""), console.WithStyles(false))
	if err != nil {
		return nil, err
	}

	if err := interpreter.Execute(ctx, line); err != nil {
		interpreter.Report(err)
		slog.Error("Command run failed", "command", request.Params.Name, "error", err)
		return mcp.NewToolResultError(strings.TrimSpace(errOut.String())), nil
	}
	slog.Info("Command ran", "command", request.Params.Name)
	return mcp.NewToolResultText(out.String()), nil
}
