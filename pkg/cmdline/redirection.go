package cmdline

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// Operator is a redirection operator.
type Operator int

const (
	// Overwrite truncates the target (>).
	Overwrite Operator = iota
	// Append appends to the target (>>).
	Append
)

func (o Operator) String() string {
	if o == Append {
		return ">>"
	}
	return ">"
}

// OutputRedirection diverts command output to the file named by Operand.
type OutputRedirection struct {
	Operator Operator
	Operand  string
}

func (r OutputRedirection) String() string {
	return r.Operator.String() + " " + shellquote.Join(r.Operand)
}

// ExtractRedirections peels the unquoted > and >> operators off a raw line. The
// text before the first operator is returned as the command; the text between
// operators becomes the operand of the preceding one. command is "" when the
// line holds only redirections; redirections is nil when there are none.
// Operands are not validated here.
func ExtractRedirections(line string) (command string, redirections []OutputRedirection) {
	var inDouble, inSingle bool
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			if !escaped(line, i) && !inSingle {
				inDouble = !inDouble
			}
		case '\'':
			if !escaped(line, i) && !inDouble {
				inSingle = !inSingle
			}
		case '>':
			if inDouble || inSingle {
				continue
			}
			op := Overwrite
			end := i + 1
			if end < len(line) && line[end] == '>' {
				op = Append
				end++
			}
			text := strings.TrimSpace(line[start:i])
			if len(redirections) == 0 {
				command = text
			} else {
				redirections[len(redirections)-1].Operand = unquote(text)
			}
			redirections = append(redirections, OutputRedirection{Operator: op})
			start = end
			i = end - 1
		}
	}
	if len(redirections) == 0 {
		return strings.TrimSpace(line), nil
	}
	redirections[len(redirections)-1].Operand = unquote(strings.TrimSpace(line[start:]))
	return command, redirections
}

func escaped(line string, i int) bool {
	return i > 0 && line[i-1] == '\\'
}

// unquote strips one pair of matching surrounding quotes.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') && !strings.ContainsRune(s[1:len(s)-1], rune(first)) {
		return s[1 : len(s)-1]
	}
	return s
}

// SerializeRedirections renders redirections back to text, e.g. "> a.txt >> b.log".
func SerializeRedirections(redirections []OutputRedirection) string {
	parts := make([]string, 0, len(redirections))
	for _, r := range redirections {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, " ")
}
