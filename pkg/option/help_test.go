package option

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpFormatterUsage(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		opts     *Options
		expected string
	}{
		{
			name:    "optional options sorted by key",
			command: "echo",
			opts: NewOptions().MustAdd(
				New("u", "Upper case.").WithLongName("upper"),
				New("s", "Separator.").WithLongName("separator").WithValue().WithValueName("sep"),
				New("n", "No newline.").WithLongName("no-newline"),
			),
			expected: "usage: echo [-n] [-s <sep>] [-u]",
		},
		{
			name:     "required option",
			command:  "jq",
			opts:     NewOptions().MustAdd(New("q", "Query.").WithValue().WithValueName("expr").AsRequired()),
			expected: "usage: jq -q <expr>",
		},
		{
			name:    "optional group",
			command: "sysinfo",
			opts: NewOptions().MustAddGroup(NewGroup(
				Long("props", ""),
				Long("mem", ""),
			)),
			expected: "usage: sysinfo [--mem | --props]",
		},
		{
			name:     "required group with default arg name",
			command:  "get",
			opts:     NewOptions().MustAddGroup(NewGroup(New("a", "").WithValue(), New("b", "")).AsRequired()),
			expected: "usage: get -a <arg> | -b",
		},
		{
			name:     "no options",
			command:  "clear",
			opts:     NewOptions(),
			expected: "usage: clear",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewHelpFormatter().Usage(tt.command, tt.opts))
		})
	}
}

func TestHelpFormatterOptionsTableAlignment(t *testing.T) {
	opts := NewOptions().MustAdd(
		New("n", "Do not print the trailing newline.").WithLongName("no-newline"),
		New("s", "Separator between arguments.").WithLongName("separator").WithValue().WithValueName("sep"),
		Long("yaml", "Read YAML input."),
	)

	lines := strings.Split(NewHelpFormatter().OptionsTable(opts), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "   -n,--no-newline"))
	assert.True(t, strings.HasPrefix(lines[1], "   -s,--separator <sep>"))
	assert.True(t, strings.HasPrefix(lines[2], "      --yaml"))

	column := strings.Index(lines[0], "Do not")
	assert.Equal(t, column, strings.Index(lines[1], "Separator"))
	assert.Equal(t, column, strings.Index(lines[2], "Read YAML"))
}

func TestHelpFormatterWrapsLongDescriptions(t *testing.T) {
	opts := NewOptions().MustAdd(
		New("g", strings.Repeat("pattern ", 20)).WithLongName("grep").WithValue(),
	)
	f := NewHelpFormatter()

	lines := strings.Split(f.OptionsTable(opts), "\n")
	require.Greater(t, len(lines), 1)
	indent := strings.Index(lines[0], "pattern")
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), f.Width)
	}
	for _, line := range lines[1:] {
		assert.Equal(t, strings.Repeat(" ", indent), line[:indent])
	}
}

func TestHelpFormatterPrintHelp(t *testing.T) {
	var buf bytes.Buffer
	opts := NewOptions().MustAdd(New("r", "Raw output.").WithLongName("raw"))

	err := NewHelpFormatter().PrintHelp(&buf, "jq", "Runs a jq query.", opts, "")
	require.NoError(t, err)
	assert.Equal(t, "usage: jq [-r]\nRuns a jq query.\n   -r,--raw   Raw output.\n", buf.String())
}
