package option

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// NoValues marks an option that is a plain switch.
	NoValues = -1

	// UnlimitedValues marks an option that accumulates every following value.
	UnlimitedValues = -2
)

// Option describes a single command option. The identity of an option (its short
// and long names) never changes once built. Declarations are shared by every parse
// of the Options they belong to, so the parser only ever adds values to clones.
type Option struct {
	name           string
	longName       string
	valueName      string
	description    string
	valueType      ValueType
	withEqualSign  bool
	required       bool
	optionalValue  bool
	numberOfValues int
	values         []string

	// sealed is set on the copy stored in an Options registry.
	sealed bool
}

// New creates an option identified by the given short name.
func New(name string, description string) *Option {
	return &Option{
		name:           name,
		description:    description,
		valueType:      StringType,
		numberOfValues: NoValues,
	}
}

// Long creates an option that only has a long name.
func Long(longName string, description string) *Option {
	return &Option{
		longName:       longName,
		description:    description,
		valueType:      StringType,
		numberOfValues: NoValues,
	}
}

func (o *Option) mutate() *Option {
	if o.sealed {
		panic(fmt.Sprintf("option: %s is already registered and cannot be modified", o.Key()))
	}
	return o
}

func (o *Option) WithLongName(longName string) *Option {
	o.mutate().longName = longName
	return o
}

func (o *Option) WithValueName(valueName string) *Option {
	o.mutate().valueName = valueName
	return o
}

func (o *Option) WithDescription(description string) *Option {
	o.mutate().description = description
	return o
}

func (o *Option) WithValueType(valueType ValueType) *Option {
	o.mutate().valueType = valueType
	return o
}

// WithValue declares that the option takes exactly one value.
func (o *Option) WithValue() *Option {
	o.mutate().numberOfValues = 1
	return o
}

// WithValues declares that the option takes an unlimited number of values.
func (o *Option) WithValues() *Option {
	o.mutate().numberOfValues = UnlimitedValues
	return o
}

// WithNumberOfValues declares a fixed arity. Use NoValues or UnlimitedValues for
// the special arities.
func (o *Option) WithNumberOfValues(n int) *Option {
	o.mutate().numberOfValues = n
	return o
}

// WithOptionalValue allows the option to appear without its value.
func (o *Option) WithOptionalValue() *Option {
	o.mutate().optionalValue = true
	return o
}

// WithEqualSign requires the value to be attached with '=' (--name=value).
// An option without an arity is given one value.
func (o *Option) WithEqualSign() *Option {
	o.mutate().withEqualSign = true
	if o.numberOfValues == NoValues {
		o.numberOfValues = 1
	}
	return o
}

// AsRequired marks the option as required. It has no effect once the option
// is added to a group; the group decides.
func (o *Option) AsRequired() *Option {
	o.mutate().required = true
	return o
}

// Key returns the short name, or the long name for long-only options.
func (o *Option) Key() string {
	if o.name == "" {
		return o.longName
	}
	return o.name
}

func (o *Option) Name() string {
	return o.name
}

func (o *Option) LongName() string {
	return o.longName
}

func (o *Option) HasLongName() bool {
	return o.longName != ""
}

func (o *Option) ValueName() string {
	return o.valueName
}

func (o *Option) HasValueName() bool {
	return o.valueName != ""
}

func (o *Option) Description() string {
	return o.description
}

func (o *Option) ValueType() ValueType {
	return o.valueType
}

func (o *Option) IsRequired() bool {
	return o.required
}

func (o *Option) IsWithEqualSign() bool {
	return o.withEqualSign
}

func (o *Option) HasOptionalValue() bool {
	return o.optionalValue
}

func (o *Option) NumberOfValues() int {
	return o.numberOfValues
}

// HasValue reports whether the option takes at least one value.
func (o *Option) HasValue() bool {
	return o.numberOfValues > 0 || o.numberOfValues == UnlimitedValues
}

// HasValues reports whether the option takes more than one value.
func (o *Option) HasValues() bool {
	return o.numberOfValues > 1 || o.numberOfValues == UnlimitedValues
}

// Value returns the first accumulated value, or "" if there is none.
func (o *Option) Value() string {
	if len(o.values) == 0 {
		return ""
	}
	return o.values[0]
}

// Values returns a copy of the accumulated values.
func (o *Option) Values() []string {
	if len(o.values) == 0 {
		return nil
	}
	return append([]string(nil), o.values...)
}

func (o *Option) addValue(value string) error {
	if o.numberOfValues == NoValues {
		return fmt.Errorf("%w: option %s does not take values", ErrInvalidOption, o.Key())
	}
	if !o.acceptsValue() {
		return fmt.Errorf("%w: option %s cannot take more than %d values", ErrInvalidOption, o.Key(), o.numberOfValues)
	}
	o.values = append(o.values, value)
	return nil
}

func (o *Option) acceptsValue() bool {
	return o.HasValue() && (o.numberOfValues <= 0 || len(o.values) < o.numberOfValues)
}

func (o *Option) requiresValue() bool {
	if o.optionalValue {
		return false
	}
	if o.numberOfValues == UnlimitedValues {
		return len(o.values) == 0
	}
	return o.acceptsValue()
}

// clone returns a copy that owns its own value list.
func (o *Option) clone() *Option {
	c := *o
	c.values = append([]string(nil), o.values...)
	return &c
}

// sameAs reports whether both options share an identity.
func (o *Option) sameAs(other *Option) bool {
	return other != nil && o.name == other.name && o.longName == other.longName
}

func (o *Option) validate() error {
	if o.name == "" && o.longName == "" {
		return fmt.Errorf("%w: either a name or a long name must be specified", ErrInvalidOption)
	}
	if o.name != "" {
		if err := validateName(o.name); err != nil {
			return err
		}
	}
	if o.longName != "" {
		if err := validateName(o.longName); err != nil {
			return err
		}
	}
	if o.numberOfValues == 0 || o.numberOfValues < UnlimitedValues {
		return fmt.Errorf("%w: option %s has an invalid number of values %d", ErrInvalidOption, o.Key(), o.numberOfValues)
	}
	return nil
}

func validateName(name string) error {
	if len([]rune(name)) == 1 {
		r := []rune(name)[0]
		if !isNameRune(r) && r != '?' && r != '@' {
			return fmt.Errorf("%w: illegal option name %q", ErrInvalidOption, name)
		}
		return nil
	}
	for i, r := range name {
		if r == '-' && i > 0 {
			continue
		}
		if !isNameRune(r) {
			return fmt.Errorf("%w: option name %q contains an illegal character %q", ErrInvalidOption, name, r)
		}
	}
	return nil
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

func (o *Option) String() string {
	var sb strings.Builder
	sb.WriteString("[ option: ")
	sb.WriteString(o.Key())
	if o.name != "" && o.longName != "" {
		sb.WriteString(" ")
		sb.WriteString(o.longName)
	}
	if o.HasValues() {
		sb.WriteString(" [ARG...]")
	} else if o.HasValue() {
		sb.WriteString(" [ARG]")
	}
	sb.WriteString(" :: ")
	sb.WriteString(o.description)
	sb.WriteString(" :: ")
	sb.WriteString(o.valueType.String())
	sb.WriteString(" ]")
	return sb.String()
}
