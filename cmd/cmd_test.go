package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/conch/internal/message"
	"github.com/praetorian-inc/conch/internal/registry"
)

func testCommand() *cobra.Command {
	c := &cobra.Command{}
	c.SetContext(context.Background())
	return c
}

func TestExecLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		code     int
		expected string
		errText  string
	}{
		{name: "success", line: "echo -u hello", expected: "HELLO\n"},
		{name: "quit", line: "quit"},
		{name: "unknown command", line: "nope", code: 1, errText: "No command mapped to 'nope'"},
		{name: "bad option", line: "echo --nope", code: 2, errText: "usage: echo"},
		{name: "missing required", line: "jq '{}'", code: 2, errText: "Missing required option"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			err := execLine(testCommand(), tt.line, &out, &errOut)
			if tt.code == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, out.String())
				return
			}
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, tt.code, exitErr.Code)
			assert.Contains(t, errOut.String(), tt.errText)
		})
	}
}

func TestDisplayCommandTree(t *testing.T) {
	message.SetNoColor(true)
	var out bytes.Buffer
	displayCommandTree(&out, registry.Registry)

	text := out.String()
	assert.Contains(t, text, "\nbuiltins\n")
	assert.Contains(t, text, "├─ quit (exit) - Exit the shell.\n")
	assert.Contains(t, text, "│  ├─ -q, --query <expr> (required) - The jq expression to run.\n")
	assert.Contains(t, text, "│  └─ --go - Show Go runtime information.\n")
}

func TestCommandToTool(t *testing.T) {
	entry, ok := registry.Registry.GetRegistryEntry("echo")
	require.True(t, ok)

	tool := commandToTool(entry)
	assert.Equal(t, "echo", tool.Name)
	assert.Contains(t, tool.Description, "usage: echo [-n] [-s <sep>] [-u]")
	assert.Contains(t, tool.InputSchema.Properties, argsParam)
	require.NotNil(t, tool.Annotations.OpenWorldHint)
	assert.False(t, *tool.Annotations.OpenWorldHint)
}

func TestCommandHandler(t *testing.T) {
	target := filepath.Join(t.TempDir(), "deep", "written.txt")

	tests := []struct {
		name     string
		command  string
		args     string
		isError  bool
		expected string
	}{
		{name: "runs the command", command: "echo", args: "-s , a b", expected: "a,b\n"},
		{name: "quoted operator is an argument", command: "echo", args: `"a > b"`, expected: "a > b\n"},
		{name: "usage error", command: "echo", args: "--bogus", isError: true, expected: "usage: echo"},
		{name: "overwrite redirection", command: "echo", args: "hi > " + target, isError: true, expected: errToolRedirection.Error()},
		{name: "append redirection", command: "echo", args: "hi >> " + target, isError: true, expected: errToolRedirection.Error()},
		{name: "interactive command", command: "quit", isError: true, expected: errToolInteractive.Error()},
		{name: "interactive alias", command: "exit", isError: true, expected: errToolInteractive.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := mcp.CallToolRequest{}
			request.Params.Name = tt.command
			request.Params.Arguments = map[string]any{argsParam: tt.args}

			result, err := commandHandler(context.Background(), request)
			require.NoError(t, err)
			assert.Equal(t, tt.isError, result.IsError)
			require.Len(t, result.Content, 1)
			text, ok := result.Content[0].(mcp.TextContent)
			require.True(t, ok)
			if tt.isError {
				assert.Contains(t, text.Text, tt.expected)
			} else {
				assert.Equal(t, tt.expected, text.Text)
			}
		})
	}
	assert.NoFileExists(t, target)
	assert.NoDirExists(t, filepath.Dir(target))
}

func TestToolEntriesSkipInteractiveCommands(t *testing.T) {
	var names []string
	for _, entry := range toolEntries(registry.Registry) {
		names = append(names, entry.Descriptor.Name)
	}
	assert.Contains(t, names, "echo")
	assert.Contains(t, names, "jq")
	assert.NotContains(t, names, "quit")
	assert.NotContains(t, names, "clear")
	assert.NotContains(t, names, "history")
}

func TestRootCommandTree(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	joined := strings.Join(names, " ")
	for _, name := range []string{"shell", "exec", "list-commands", "mcp-server", "version", "gendoc"} {
		assert.Contains(t, joined, name)
	}
}
