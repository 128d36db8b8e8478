package cmdline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		line         string
		method       RequestMethod
		command      string
		args         []string
		redirections int
	}{
		{name: "command with args", line: `echo -n "hello world"`, command: "echo", args: []string{"-n", "hello world"}},
		{name: "request method prefix", line: "get /users --id 1 > out.txt", method: GET, command: "/users", args: []string{"--id", "1"}, redirections: 1},
		{name: "method alone is the command", line: "get", command: "get"},
		{name: "blank line", line: "   "},
		{name: "only redirection", line: "> out.txt", redirections: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Parse(tt.line)
			assert.Equal(t, tt.line, c.Line())
			assert.Equal(t, tt.method, c.RequestMethod())
			assert.Equal(t, tt.command, c.CommandName())
			assert.Equal(t, tt.command != "", c.HasCommandName())
			assert.Equal(t, tt.args, c.Args())
			assert.Len(t, c.Redirections(), tt.redirections)
		})
	}
}

func TestCommandLineShift(t *testing.T) {
	c := Parse("a b c")

	assert.Equal(t, "a", c.Shift())
	assert.Equal(t, "b", c.CommandName())
	assert.Equal(t, []string{"c"}, c.Args())

	assert.Equal(t, "b", c.Shift())
	assert.Equal(t, "", c.Shift())
	assert.Equal(t, "c", c.CommandName())
}

func TestCommandLineParameters(t *testing.T) {
	c := Parse("POST /orders stray --item book --item pen --express")

	assert.True(t, c.HasParameters())
	assert.Equal(t, map[string][]string{
		"item":    {"book", "pen"},
		"express": {},
	}, c.Parameters())

	assert.False(t, Parse("echo a b").HasParameters())
}

func TestCommandLineString(t *testing.T) {
	tests := []struct {
		line     string
		expected string
	}{
		{line: "echo hi >> log.txt", expected: "echo hi >> log.txt"},
		{line: `echo "hello world"`, expected: "echo 'hello world'"},
		{line: "GET /users", expected: "GET /users"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.line).String())
		})
	}
}

func TestResolveRequestMethod(t *testing.T) {
	method, ok := ResolveRequestMethod("delete")
	assert.True(t, ok)
	assert.Equal(t, DELETE, method)

	_, ok = ResolveRequestMethod("fetch")
	assert.False(t, ok)
}
