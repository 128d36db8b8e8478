package builtins

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/praetorian-inc/conch/internal/registry"
	"github.com/praetorian-inc/conch/pkg/console"
	"github.com/praetorian-inc/conch/pkg/option"
)

// Help lists the registered commands or prints the usage of the named ones.
type Help struct {
	base
	registry  *registry.CommandRegistry
	formatter *option.HelpFormatter
}

func NewHelp(r *registry.CommandRegistry, f *option.HelpFormatter) *Help {
	return &Help{
		base: base{
			descriptor: registry.Descriptor{
				Namespace:   Namespace,
				Name:        "help",
				Description: "Display help information about available commands.",
			},
			options: option.NewOptions(),
		},
		registry:  r,
		formatter: f,
	}
}

func (h *Help) Execute(ctx context.Context, c *console.Console, parsed *option.ParsedOptions) error {
	if !parsed.HasArgs() {
		h.list(c)
		return nil
	}
	for _, name := range parsed.Args() {
		cmd, err := h.registry.Resolve(name, false)
		if err != nil {
			return err
		}
		d := cmd.Descriptor()
		if err := h.formatter.PrintHelp(c, d.Name, d.Description, cmd.Options(), ""); err != nil {
			return err
		}
	}
	return nil
}

func (h *Help) list(c *console.Console) {
	heading := fmt.Sprint
	if c.IsStyled() && !c.IsRedirected() {
		heading = color.New(color.FgHiCyan, color.Bold).Sprint
	}

	hierarchy := h.registry.GetHierarchy()
	width := 0
	for _, names := range hierarchy {
		for _, name := range names {
			width = max(width, len(name))
		}
	}

	for _, namespace := range h.registry.Namespaces() {
		c.Println(heading(namespace + ":"))
		for _, name := range hierarchy[namespace] {
			entry, ok := h.registry.GetRegistryEntry(name)
			if !ok {
				continue
			}
			c.Printf("  %-*s  %s\n", width, name, entry.Descriptor.Description)
		}
	}
}
