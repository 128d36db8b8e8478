package cmdline

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

const parameterPrefix = "--"

// CommandLine is one parsed input line.
type CommandLine struct {
	line          string
	requestMethod RequestMethod
	commandName   string
	args          []string
	redirections  []OutputRedirection
}

// Parse extracts the redirections of the line, splits the remaining text into
// tokens and shifts off the command name. A leading request method followed by
// more tokens is recorded and the line is shifted again.
func Parse(line string) *CommandLine {
	c := &CommandLine{line: line}
	command, redirections := ExtractRedirections(line)
	c.redirections = redirections

	name, args, ok := Shift(Split(command))
	if !ok {
		return c
	}
	c.commandName = name
	c.args = args
	if method, isMethod := ResolveRequestMethod(name); isMethod && len(args) > 0 {
		c.Shift()
		c.requestMethod = method
	}
	return c
}

// Shift makes the first argument the command name and returns the previous
// command name. It returns "" and leaves the line untouched when there is no
// argument to shift to.
func (c *CommandLine) Shift() string {
	name, rest, ok := Shift(c.args)
	if !ok {
		return ""
	}
	previous := c.commandName
	c.commandName = name
	c.args = rest
	return previous
}

func (c *CommandLine) Line() string {
	return c.line
}

func (c *CommandLine) RequestMethod() RequestMethod {
	return c.requestMethod
}

func (c *CommandLine) CommandName() string {
	return c.commandName
}

func (c *CommandLine) HasCommandName() bool {
	return c.commandName != ""
}

// Args returns the argument tokens following the command name.
func (c *CommandLine) Args() []string {
	return append([]string(nil), c.args...)
}

func (c *CommandLine) Redirections() []OutputRedirection {
	return append([]OutputRedirection(nil), c.redirections...)
}

func (c *CommandLine) HasRedirections() bool {
	return len(c.redirections) > 0
}

// HasParameters reports whether any argument starts with "--".
func (c *CommandLine) HasParameters() bool {
	for _, arg := range c.args {
		if strings.HasPrefix(arg, parameterPrefix) {
			return true
		}
	}
	return false
}

// Parameters reads the arguments as "--name value" pairs. A name without a
// following value maps to an empty slice; arguments before the first name are
// ignored.
func (c *CommandLine) Parameters() map[string][]string {
	params := make(map[string][]string)
	name := ""
	for _, arg := range c.args {
		switch {
		case strings.HasPrefix(arg, parameterPrefix):
			name = strings.TrimPrefix(arg, parameterPrefix)
			if _, ok := params[name]; !ok {
				params[name] = []string{}
			}
		case name != "":
			params[name] = append(params[name], arg)
			name = ""
		}
	}
	return params
}

// String renders the line with its tokens re-quoted for a shell.
func (c *CommandLine) String() string {
	var parts []string
	if c.requestMethod != "" {
		parts = append(parts, string(c.requestMethod))
	}
	if c.commandName != "" {
		parts = append(parts, shellquote.Join(append([]string{c.commandName}, c.args...)...))
	}
	if len(c.redirections) > 0 {
		parts = append(parts, SerializeRedirections(c.redirections))
	}
	return strings.Join(parts, " ")
}
