package option

import (
	"strings"
)

// OptionGroup is a set of mutually exclusive options. At most one of them may
// be selected in a single parse.
type OptionGroup struct {
	options  []*Option
	required bool
	selected string
}

// NewGroup creates a group from the given options.
func NewGroup(options ...*Option) *OptionGroup {
	g := &OptionGroup{}
	for _, opt := range options {
		g.Add(opt)
	}
	return g
}

// Add appends an option to the group. Adding an option twice is a no-op.
func (g *OptionGroup) Add(opt *Option) *OptionGroup {
	for _, existing := range g.options {
		if existing.Key() == opt.Key() {
			return g
		}
	}
	g.options = append(g.options, opt)
	return g
}

// AsRequired makes one option of the group mandatory.
func (g *OptionGroup) AsRequired() *OptionGroup {
	g.required = true
	return g
}

func (g *OptionGroup) IsRequired() bool {
	return g.required
}

// Options returns the options of the group in declaration order.
func (g *OptionGroup) Options() []*Option {
	return append([]*Option(nil), g.options...)
}

// Keys returns the keys of the options of the group.
func (g *OptionGroup) Keys() []string {
	keys := make([]string, 0, len(g.options))
	for _, opt := range g.options {
		keys = append(keys, opt.Key())
	}
	return keys
}

// Selected returns the key of the selected option, or "".
func (g *OptionGroup) Selected() string {
	return g.selected
}

// SetSelected selects the given option. Passing nil clears the selection.
// Selecting a different option while one is already selected fails with an
// AlreadySelectedError; selecting the same option again is allowed.
func (g *OptionGroup) SetSelected(opt *Option) error {
	if opt == nil {
		g.selected = ""
		return nil
	}
	if g.selected == "" || g.selected == opt.Key() {
		g.selected = opt.Key()
		return nil
	}
	return &AlreadySelectedError{Group: g, Option: opt}
}

func (g *OptionGroup) has(key string) bool {
	for _, opt := range g.options {
		if opt.Key() == key {
			return true
		}
	}
	return false
}

// clone returns a copy with its own selection state and the same options.
func (g *OptionGroup) clone() *OptionGroup {
	return &OptionGroup{
		options:  g.options,
		required: g.required,
		selected: g.selected,
	}
}

func (g *OptionGroup) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, opt := range g.options {
		if i > 0 {
			sb.WriteString(", ")
		}
		if opt.Name() != "" {
			sb.WriteString("-")
			sb.WriteString(opt.Name())
		} else {
			sb.WriteString("--")
			sb.WriteString(opt.LongName())
		}
		if opt.Description() != "" {
			sb.WriteString(" ")
			sb.WriteString(opt.Description())
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Requirement is an entry of the required set: either an individual option key
// or a required group.
type Requirement struct {
	Key   string
	Group *OptionGroup
}

func (r Requirement) String() string {
	if r.Group != nil {
		return "[" + strings.Join(r.Group.Keys(), ", ") + "]"
	}
	return r.Key
}
