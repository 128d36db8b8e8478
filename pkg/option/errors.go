package option

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse is matched by every error returned from Parser.Parse.
	ErrParse = errors.New("option parse error")

	// ErrInvalidOption reports a bad declaration. It is a configuration error,
	// not a parse error.
	ErrInvalidOption = errors.New("invalid option")
)

// UnrecognizedOptionError is returned when a dash-prefixed token matches no
// declared option.
type UnrecognizedOptionError struct {
	Message string
	Token   string
}

func (e *UnrecognizedOptionError) Error() string {
	if e.Message == "" {
		return "Unrecognized option: " + e.Token
	}
	return e.Message + ": " + e.Token
}

func (e *UnrecognizedOptionError) Is(target error) bool {
	return target == ErrParse
}

// AmbiguousOptionError is returned when a partial long name matches several
// options and none of them exactly.
type AmbiguousOptionError struct {
	Token   string
	Matches []string
}

func (e *AmbiguousOptionError) Error() string {
	return fmt.Sprintf("Ambiguous option: '%s'  (could be: '%s')", e.Token, strings.Join(e.Matches, "', '"))
}

func (e *AmbiguousOptionError) Is(target error) bool {
	return target == ErrParse
}

// MissingOptionValueError is returned when an option that needs a value did
// not receive one.
type MissingOptionValueError struct {
	Option *Option
}

func (e *MissingOptionValueError) Error() string {
	if e.Option.HasValues() && e.Option.NumberOfValues() > 0 {
		return fmt.Sprintf("Missing values for option: %s (expected %d)", displayKey(e.Option), e.Option.NumberOfValues())
	}
	return "Missing value for option: " + displayKey(e.Option)
}

func (e *MissingOptionValueError) Is(target error) bool {
	return target == ErrParse
}

// MissingOptionsError lists the required options and groups that were never bound.
type MissingOptionsError struct {
	Missing []Requirement
}

func (e *MissingOptionsError) Error() string {
	var sb strings.Builder
	sb.WriteString("Missing required option")
	if len(e.Missing) > 1 {
		sb.WriteString("s")
	}
	sb.WriteString(": ")
	for i, r := range e.Missing {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.String())
	}
	return sb.String()
}

func (e *MissingOptionsError) Is(target error) bool {
	return target == ErrParse
}

// Keys returns the keys of the missing individual options.
func (e *MissingOptionsError) Keys() []string {
	var keys []string
	for _, r := range e.Missing {
		if r.Group == nil {
			keys = append(keys, r.Key)
		}
	}
	return keys
}

// AlreadySelectedError is returned when a second, different option of a
// mutually exclusive group is bound in the same parse.
type AlreadySelectedError struct {
	Group  *OptionGroup
	Option *Option
}

func (e *AlreadySelectedError) Error() string {
	return fmt.Sprintf("The option '%s' was specified but an option from this group has already been selected: '%s'",
		e.Option.Key(), e.Group.Selected())
}

func (e *AlreadySelectedError) Is(target error) bool {
	return target == ErrParse
}

func displayKey(o *Option) string {
	if o.Name() != "" {
		return "-" + o.Name()
	}
	return "--" + o.LongName()
}
