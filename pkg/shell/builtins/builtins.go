// Package builtins holds the commands every conch shell starts with.
package builtins

import (
	"github.com/praetorian-inc/conch/internal/registry"
	"github.com/praetorian-inc/conch/pkg/option"
)

const Namespace = "builtins"

type base struct {
	descriptor registry.Descriptor
	options    *option.Options
}

func (b *base) Descriptor() registry.Descriptor {
	return b.descriptor
}

func (b *base) Options() *option.Options {
	return b.options
}

// Commands returns a fresh set of the built-in commands. help lists the
// commands of r.
func Commands(r *registry.CommandRegistry) []registry.Command {
	return []registry.Command{
		NewHelp(r, option.NewHelpFormatter()),
		NewQuit(),
		NewEcho(),
		NewClear(),
		NewHistory(),
		NewSysInfo(),
		NewJq(),
	}
}

// Register adds the built-in commands to r.
func Register(r *registry.CommandRegistry) error {
	for _, cmd := range Commands(r) {
		if err := r.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}
