package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	u "github.com/mpvl/unique"

	"github.com/praetorian-inc/conch/pkg/console"
	"github.com/praetorian-inc/conch/pkg/option"
)

// Descriptor names a command and places it in the help hierarchy.
type Descriptor struct {
	Namespace   string
	Name        string
	Aliases     []string
	Description string
	// Interactive commands act on the console session itself and are not
	// exposed outside the shell.
	Interactive bool
}

// Command is a shell command. Options returns the declarations the command line
// is resolved against; it must return the same registry on every call.
type Command interface {
	Descriptor() Descriptor
	Options() *option.Options
	Execute(ctx context.Context, c *console.Console, parsed *option.ParsedOptions) error
}

type RegistryEntry struct {
	Command    Command
	Descriptor Descriptor
}

type CommandRegistry struct {
	mu        sync.RWMutex
	commands  map[string]RegistryEntry // name -> command mapping
	aliases   map[string]string        // alias -> name
	hierarchy map[string][]string      // namespace -> []name
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands:  make(map[string]RegistryEntry),
		aliases:   make(map[string]string),
		hierarchy: make(map[string][]string),
	}
}

// Registry is the process wide command registry.
var Registry = NewCommandRegistry()

// Register adds commands to the process wide registry.
func Register(commands ...Command) error {
	for _, cmd := range commands {
		if err := Registry.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Register adds a command. Names and aliases must be unique across the registry.
func (r *CommandRegistry) Register(cmd Command) error {
	d := cmd.Descriptor()
	if d.Name == "" {
		return fmt.Errorf("command has no name")
	}
	if d.Namespace == "" {
		d.Namespace = "builtins"
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range append([]string{d.Name}, d.Aliases...) {
		if _, exists := r.commands[name]; exists {
			return fmt.Errorf("command %q is already registered", name)
		}
		if _, exists := r.aliases[name]; exists {
			return fmt.Errorf("command %q is already registered as an alias", name)
		}
	}

	r.commands[d.Name] = RegistryEntry{Command: cmd, Descriptor: d}
	for _, alias := range d.Aliases {
		r.aliases[alias] = d.Name
	}
	r.hierarchy[d.Namespace] = append(r.hierarchy[d.Namespace], d.Name)
	return nil
}

// GetCommand finds a command by name or alias.
func (r *CommandRegistry) GetCommand(name string) (Command, bool) {
	entry, ok := r.GetRegistryEntry(name)
	return entry.Command, ok
}

// GetRegistryEntry gets the full entry for a command name or alias
func (r *CommandRegistry) GetRegistryEntry(name string) (RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, ok := r.aliases[name]; ok {
		name = target
	}
	entry, exists := r.commands[name]
	return entry, exists
}

// Resolve finds a command by name or alias. With partial set, a unique prefix of
// a command name or alias also resolves.
func (r *CommandRegistry) Resolve(name string, partial bool) (Command, error) {
	if cmd, ok := r.GetCommand(name); ok {
		return cmd, nil
	}
	if partial {
		candidates := r.Match(name)
		switch len(candidates) {
		case 0:
		case 1:
			if cmd, ok := r.GetCommand(candidates[0]); ok {
				return cmd, nil
			}
		default:
			return nil, &AmbiguousCommandError{Name: name, Candidates: candidates}
		}
	}
	return nil, &CommandNotFoundError{Name: name}
}

// Match returns the sorted command names whose name or alias starts with prefix.
func (r *CommandRegistry) Match(prefix string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name := range r.commands {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	for alias, name := range r.aliases {
		if strings.HasPrefix(alias, prefix) {
			names = append(names, name)
		}
	}
	u.Strings(&names)
	return names
}

// Names returns every command name in sorted order.
func (r *CommandRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Namespaces returns the namespaces in sorted order.
func (r *CommandRegistry) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	namespaces := make([]string, 0, len(r.hierarchy))
	for ns := range r.hierarchy {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)
	return namespaces
}

// GetHierarchy exposes the namespace tree for help and CLI listings
func (r *CommandRegistry) GetHierarchy() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Return a copy to prevent modification of the original
	result := make(map[string][]string, len(r.hierarchy))
	for namespace, names := range r.hierarchy {
		result[namespace] = append([]string{}, names...)
	}
	return result
}

// CommandNotFoundError is returned when no command is mapped to a name.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("No command mapped to '%s'", e.Name)
}

// AmbiguousCommandError is returned when a partial command name matches several commands.
type AmbiguousCommandError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousCommandError) Error() string {
	return fmt.Sprintf("Ambiguous command '%s' (could be: %s)", e.Name, strings.Join(e.Candidates, ", "))
}
