package builtins

import (
	"context"
	"fmt"
	"strings"

	"github.com/praetorian-inc/conch/internal/registry"
	"github.com/praetorian-inc/conch/pkg/console"
	"github.com/praetorian-inc/conch/pkg/option"
)

// History prints or clears the command history of the console.
type History struct {
	base
}

func NewHistory() *History {
	opts := option.NewOptions().MustAdd(
		option.New("n", "Show only the last <count> entries.").
			WithLongName("last").
			WithValue().
			WithValueName("count").
			WithValueType(option.IntType),
		option.New("g", "Show only entries containing <pattern>.").
			WithLongName("grep").
			WithValue().
			WithValueName("pattern"),
	).MustAddGroup(option.NewGroup(
		option.New("c", "Clear the history.").WithLongName("clear"),
		option.New("l", "List the history (default).").WithLongName("list"),
	))
	return &History{base{
		descriptor: registry.Descriptor{
			Namespace:   Namespace,
			Name:        "history",
			Description: "Display or clear the command history.",
			Interactive: true,
		},
		options: opts,
	}}
}

func (h *History) Execute(_ context.Context, c *console.Console, parsed *option.ParsedOptions) error {
	history := c.History()
	if parsed.HasOption("clear") {
		return history.Clear()
	}

	entries := history.Entries()
	offset := 0
	if parsed.HasOption("last") {
		n, err := parsed.Int("last")
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("history: count must not be negative")
		}
		entries = history.Last(n)
		offset = history.Len() - len(entries)
	}

	pattern := parsed.Value("grep")
	for i, entry := range entries {
		if pattern != "" && !strings.Contains(entry, pattern) {
			continue
		}
		c.Printf("%5d  %s\n", offset+i+1, entry)
	}
	return nil
}
