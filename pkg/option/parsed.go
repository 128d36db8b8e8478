package option

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// ParsedOptions is the result of a single parse: the bound option instances in
// the order they were matched and the leftover arguments.
type ParsedOptions struct {
	options []*Option
	args    []string
}

func (p *ParsedOptions) addOption(opt *Option) {
	p.options = append(p.options, opt)
}

func (p *ParsedOptions) addArg(arg string) {
	p.args = append(p.args, arg)
}

func (p *ParsedOptions) resolve(name string) *Option {
	name = stripLeadingHyphens(name)
	for _, opt := range p.options {
		if name == opt.Name() || name == opt.LongName() {
			return opt
		}
	}
	return nil
}

// HasOption reports whether the option with the given short or long name was bound.
func (p *ParsedOptions) HasOption(name string) bool {
	return p.resolve(name) != nil
}

func (p *ParsedOptions) HasOptions() bool {
	return len(p.options) > 0
}

// Options returns the bound option instances in match order.
func (p *ParsedOptions) Options() []*Option {
	return append([]*Option(nil), p.options...)
}

// Values returns every value bound to the option, across repeated occurrences.
func (p *ParsedOptions) Values(name string) []string {
	opt := p.resolve(name)
	if opt == nil {
		return nil
	}
	var values []string
	for _, bound := range p.options {
		if bound.sameAs(opt) {
			values = append(values, bound.values...)
		}
	}
	return values
}

// Value returns the first value of the option, or "" when absent.
func (p *ParsedOptions) Value(name string) string {
	values := p.Values(name)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// ValueOr returns the first value of the option, or def when absent.
func (p *ParsedOptions) ValueOr(name string, def string) string {
	values := p.Values(name)
	if len(values) == 0 {
		return def
	}
	return values[0]
}

// Properties interprets the values of the option as key/value pairs: the first
// two values of each occurrence are a pair, a single value is a key set to "true".
func (p *ParsedOptions) Properties(name string) map[string]string {
	props := make(map[string]string)
	opt := p.resolve(name)
	if opt == nil {
		return props
	}
	for _, bound := range p.options {
		if !bound.sameAs(opt) {
			continue
		}
		switch {
		case len(bound.values) >= 2:
			props[bound.values[0]] = bound.values[1]
		case len(bound.values) == 1:
			props[bound.values[0]] = "true"
		}
	}
	return props
}

func (p *ParsedOptions) HasArgs() bool {
	return len(p.args) > 0
}

// Args returns the leftover arguments.
func (p *ParsedOptions) Args() []string {
	return append([]string(nil), p.args...)
}

// ParsedValue converts the first value of the option according to its declared
// ValueType. It returns nil, nil when the option has no value.
func (p *ParsedOptions) ParsedValue(name string) (any, error) {
	opt := p.resolve(name)
	if opt == nil {
		return nil, nil
	}
	value, ok := p.first(name)
	if !ok {
		return nil, nil
	}
	switch opt.ValueType() {
	case IntType:
		return p.Int(name)
	case LongType:
		return p.Int64(name)
	case FloatType:
		return p.Float32(name)
	case DoubleType:
		return p.Float64(name)
	case BooleanType:
		return p.Bool(name)
	case FileType:
		return p.File(name)
	default:
		return value, nil
	}
}

func (p *ParsedOptions) first(name string) (string, bool) {
	values := p.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (p *ParsedOptions) Int(name string) (int, error) {
	value, ok := p.first(name)
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", name, err)
	}
	return n, nil
}

func (p *ParsedOptions) Int64(name string) (int64, error) {
	value, ok := p.first(name)
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", name, err)
	}
	return n, nil
}

func (p *ParsedOptions) Float32(name string) (float32, error) {
	value, ok := p.first(name)
	if !ok {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", name, err)
	}
	return float32(f), nil
}

func (p *ParsedOptions) Float64(name string) (float64, error) {
	value, ok := p.first(name)
	if !ok {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", name, err)
	}
	return f, nil
}

// Bool returns the boolean value of the option. A bound switch without a value is true.
func (p *ParsedOptions) Bool(name string) (bool, error) {
	value, ok := p.first(name)
	if !ok {
		return p.HasOption(name), nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("option %s: %w", name, err)
	}
	return b, nil
}

// File returns the value of the option as a cleaned file path.
func (p *ParsedOptions) File(name string) (string, error) {
	value, ok := p.first(name)
	if !ok {
		return "", nil
	}
	return filepath.Clean(value), nil
}
