// Package cmdline turns a raw input line into a command name, its argument
// tokens and the output redirections that follow it.
package cmdline

import (
	"strings"
	"unicode"
)

// Split breaks a line into tokens. Single and double quotes group text into one
// token and are removed; a quoted run directly adjacent to other text joins the
// same token, so "foo"bar yields foobar. An escaped quote (\" or \') is taken
// literally. An unterminated quote runs to the end of the line.
func Split(line string) []string {
	var (
		tokens  []string
		current strings.Builder
		inToken bool
		quote   rune
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == '\\' && i+1 < len(runes) && runes[i+1] == quote {
				current.WriteRune(quote)
				i++
			} else if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == '\\' && i+1 < len(runes) && isQuote(runes[i+1]):
			current.WriteRune(runes[i+1])
			inToken = true
			i++
		case unicode.IsSpace(r):
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens
}

func isQuote(r rune) bool {
	return r == '"' || r == '\''
}

// Shift discards leading empty tokens and returns the first remaining token as
// the command name along with the rest. ok is false when no such token exists.
func Shift(tokens []string) (name string, rest []string, ok bool) {
	for i, token := range tokens {
		if token == "" {
			continue
		}
		if i+1 < len(tokens) {
			rest = tokens[i+1:]
		}
		return token, rest, true
	}
	return "", nil, false
}
