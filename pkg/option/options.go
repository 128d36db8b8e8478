package option

import (
	"fmt"
	"strings"
)

// Options is the registry of options a command accepts. It is built once and
// then only read, so a single Options may back any number of parses, including
// concurrent ones.
type Options struct {
	shortOpts map[string]*Option
	longOpts  map[string]*Option
	order     []*Option
	longOrder []string
	required  []Requirement
	groups    map[string]*OptionGroup
	groupList []*OptionGroup
}

func NewOptions() *Options {
	return &Options{
		shortOpts: make(map[string]*Option),
		longOpts:  make(map[string]*Option),
		groups:    make(map[string]*OptionGroup),
	}
}

// Add registers a copy of the option. Later changes to opt do not reach the registry.
// Adding an option with the same short and long name again replaces it; an
// option whose key or long name is taken by a different option is rejected.
func (o *Options) Add(opt *Option) error {
	if opt == nil {
		return fmt.Errorf("%w: nil option", ErrInvalidOption)
	}
	if err := opt.validate(); err != nil {
		return err
	}
	if g, ok := o.groups[opt.Key()]; ok {
		return fmt.Errorf("%w: option %s belongs to group %s and cannot be replaced",
			ErrInvalidOption, opt.Key(), g)
	}
	if err := o.checkCollision(opt); err != nil {
		return err
	}
	o.add(opt.clone())
	return nil
}

// checkCollision fails when a different option already holds the key or the
// long name of opt.
func (o *Options) checkCollision(opt *Option) error {
	if existing, ok := o.shortOpts[opt.Key()]; ok && !existing.sameAs(opt) {
		return fmt.Errorf("%w: option %s collides with a different option of the same key",
			ErrInvalidOption, opt.Key())
	}
	if opt.HasLongName() {
		if existing, ok := o.longOpts[opt.LongName()]; ok && !existing.sameAs(opt) {
			return fmt.Errorf("%w: long name %s of option %s is taken by option %s",
				ErrInvalidOption, opt.LongName(), opt.Key(), existing.Key())
		}
	}
	return nil
}

func (o *Options) add(registered *Option) {
	registered.sealed = true
	key := registered.Key()

	if registered.HasLongName() {
		if _, exists := o.longOpts[registered.LongName()]; !exists {
			o.longOrder = append(o.longOrder, registered.LongName())
		}
		o.longOpts[registered.LongName()] = registered
	}

	o.removeRequiredKey(key)
	if registered.IsRequired() {
		o.required = append(o.required, Requirement{Key: key})
	}

	if _, exists := o.shortOpts[key]; exists {
		for i, existing := range o.order {
			if existing.Key() == key {
				o.order[i] = registered
			}
		}
	} else {
		o.order = append(o.order, registered)
	}
	o.shortOpts[key] = registered
}

// MustAdd registers the options and panics on an invalid declaration.
func (o *Options) MustAdd(opts ...*Option) *Options {
	for _, opt := range opts {
		if err := o.Add(opt); err != nil {
			panic(err)
		}
	}
	return o
}

// AddGroup registers the options of a mutually exclusive group. Members lose
// their own requiredness; a required group is tracked as a whole. Members must
// not collide with registered options or with each other.
func (o *Options) AddGroup(group *OptionGroup) error {
	if group == nil || len(group.options) == 0 {
		return fmt.Errorf("%w: empty option group", ErrInvalidOption)
	}
	registered := &OptionGroup{required: group.required}
	pending := NewOptions()
	for _, opt := range group.options {
		if err := opt.validate(); err != nil {
			return err
		}
		if o.HasShortOption(opt.Key()) || (opt.HasLongName() && o.HasLongOption(opt.LongName())) {
			return fmt.Errorf("%w: group member %s is already registered", ErrInvalidOption, opt.Key())
		}
		if err := pending.checkCollision(opt); err != nil {
			return err
		}
		member := opt.clone()
		member.required = false
		pending.add(member)
		registered.options = append(registered.options, member)
	}
	for _, member := range registered.options {
		o.add(member)
		o.groups[member.Key()] = registered
	}
	o.groupList = append(o.groupList, registered)
	if registered.required {
		o.required = append(o.required, Requirement{Group: registered})
	}
	return nil
}

// MustAddGroup is AddGroup that panics on an invalid declaration.
func (o *Options) MustAddGroup(group *OptionGroup) *Options {
	if err := o.AddGroup(group); err != nil {
		panic(err)
	}
	return o
}

func (o *Options) removeRequiredKey(key string) {
	for i, r := range o.required {
		if r.Group == nil && r.Key == key {
			o.required = append(o.required[:i], o.required[i+1:]...)
			return
		}
	}
}

// Option looks an option up by short name first, then by long name. Leading
// hyphens are ignored.
func (o *Options) Option(name string) *Option {
	name = stripLeadingHyphens(name)
	if opt, ok := o.shortOpts[name]; ok {
		return opt
	}
	return o.longOpts[name]
}

func (o *Options) HasOption(name string) bool {
	return o.Option(name) != nil
}

func (o *Options) HasShortOption(name string) bool {
	_, ok := o.shortOpts[stripLeadingHyphens(name)]
	return ok
}

func (o *Options) HasLongOption(name string) bool {
	_, ok := o.longOpts[stripLeadingHyphens(name)]
	return ok
}

// MatchingLongNames returns the long names starting with the given prefix. An
// exact match is returned alone.
func (o *Options) MatchingLongNames(prefix string) []string {
	prefix = stripLeadingHyphens(prefix)
	if _, ok := o.longOpts[prefix]; ok {
		return []string{prefix}
	}
	var matches []string
	for _, longName := range o.longOrder {
		if strings.HasPrefix(longName, prefix) {
			matches = append(matches, longName)
		}
	}
	return matches
}

// Options returns the registered options in declaration order.
func (o *Options) Options() []*Option {
	return append([]*Option(nil), o.order...)
}

// Required returns the required option keys and groups.
func (o *Options) Required() []Requirement {
	return append([]Requirement(nil), o.required...)
}

// Group returns the group the option belongs to, or nil.
func (o *Options) Group(opt *Option) *OptionGroup {
	if opt == nil {
		return nil
	}
	return o.groups[opt.Key()]
}

func (o *Options) Groups() []*OptionGroup {
	return append([]*OptionGroup(nil), o.groupList...)
}

func (o *Options) IsEmpty() bool {
	return len(o.order) == 0
}

func (o *Options) String() string {
	var sb strings.Builder
	sb.WriteString("[ Options: [ short ")
	for i, opt := range o.order {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(opt.String())
	}
	sb.WriteString(" ] [ long ")
	sb.WriteString(strings.Join(o.longOrder, ", "))
	sb.WriteString(" ]")
	return sb.String()
}

func stripLeadingHyphens(s string) string {
	if strings.HasPrefix(s, "--") {
		return s[2:]
	}
	if strings.HasPrefix(s, "-") {
		return s[1:]
	}
	return s
}

func stripLeadingAndTrailingQuotes(s string) string {
	if len(s) > 1 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) &&
		!strings.Contains(s[1:len(s)-1], `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
