package option

import (
	"sort"
	"strconv"
	"strings"
)

// Parser resolves argument tokens against an Options registry. A Parser holds
// no per-parse state and may be shared.
type Parser struct {
	partialMatching bool
}

// NewParser creates a parser. With partialMatching enabled, any unique prefix
// of a long name resolves to that option, so -de matches --debug rather than
// the stacked flags -d -e.
func NewParser(partialMatching bool) *Parser {
	return &Parser{partialMatching: partialMatching}
}

func (p *Parser) PartialMatching() bool {
	return p.partialMatching
}

type parseConfig struct {
	defaults        map[string]string
	stopAtNonOption bool
}

// ParseOption tunes a single call to Parse.
type ParseOption func(*parseConfig)

// WithDefaults supplies name/value pairs applied to options the tokens left unset.
// A switch is only bound by the values yes, true or 1.
func WithDefaults(defaults map[string]string) ParseOption {
	return func(c *parseConfig) {
		c.defaults = defaults
	}
}

// StopAtNonOption makes the first unrecognized token end option processing.
// That token and every token after it are kept verbatim as arguments.
func StopAtNonOption() ParseOption {
	return func(c *parseConfig) {
		c.stopAtNonOption = true
	}
}

type parseState struct {
	*parseConfig
	partialMatching bool
	options         *Options
	parsed          *ParsedOptions
	token           string
	current         *Option
	expected        []Requirement
	groups          map[*OptionGroup]*OptionGroup
	skipParsing     bool
}

// Parse binds args to the options declared in opts. Every failure matches ErrParse.
func (p *Parser) Parse(opts *Options, args []string, pos ...ParseOption) (*ParsedOptions, error) {
	if opts == nil {
		opts = NewOptions()
	}
	cfg := &parseConfig{}
	for _, po := range pos {
		po(cfg)
	}
	s := &parseState{
		parseConfig:     cfg,
		partialMatching: p.partialMatching,
		options:         opts,
		parsed:          &ParsedOptions{},
		expected:        opts.Required(),
		groups:          make(map[*OptionGroup]*OptionGroup),
	}

	for _, arg := range args {
		if err := s.handleToken(arg); err != nil {
			return nil, err
		}
	}
	if err := s.checkRequiredOptionValues(); err != nil {
		return nil, err
	}
	s.current = nil
	if err := s.handleDefaults(); err != nil {
		return nil, err
	}
	if len(s.expected) > 0 {
		return nil, &MissingOptionsError{Missing: s.expected}
	}
	return s.parsed, nil
}

func (s *parseState) handleToken(token string) error {
	s.token = token
	var err error
	switch {
	case s.skipParsing:
		s.parsed.addArg(token)
	case token == "--":
	case s.current != nil && s.current.acceptsValue() && !s.current.IsWithEqualSign() && s.isArgument(token):
		err = s.current.addValue(stripLeadingAndTrailingQuotes(token))
	case strings.HasPrefix(token, "--"):
		err = s.handleLongOption(token[2:])
	case strings.HasPrefix(token, "-") && len(token) > 1:
		err = s.handleShortAndLongOption(token[1:])
	default:
		err = s.handleUnknownToken(token)
	}
	if err != nil {
		return err
	}
	if s.current != nil && !s.current.acceptsValue() {
		s.current = nil
	}
	return nil
}

// handleLongOption handles --L, --L=V, --L V and --l.
func (s *parseState) handleLongOption(token string) error {
	if strings.Contains(token, "=") {
		return s.handleLongOptionWithEqual(token)
	}
	return s.handleLongOptionWithoutEqual(token)
}

func (s *parseState) resolveLong(name string) (*Option, error) {
	matches := s.matchingLongNames(name)
	switch {
	case len(matches) == 0:
		return nil, nil
	case len(matches) > 1 && !s.options.HasLongOption(name):
		return nil, &AmbiguousOptionError{Token: name, Matches: matches}
	case s.options.HasLongOption(name):
		return s.options.Option(name), nil
	default:
		return s.options.Option(matches[0]), nil
	}
}

func (s *parseState) handleLongOptionWithoutEqual(token string) error {
	opt, err := s.resolveLong(token)
	if err != nil {
		return err
	}
	if opt == nil {
		return s.handleUnknownToken(s.token)
	}
	return s.handleOption(opt)
}

func (s *parseState) handleLongOptionWithEqual(token string) error {
	name, value, _ := strings.Cut(token, "=")
	opt, err := s.resolveLong(name)
	if err != nil {
		return err
	}
	if opt == nil || !opt.acceptsValue() {
		return s.handleUnknownToken(s.token)
	}
	return s.bindWithValue(opt, value)
}

// handleShortAndLongOption handles the single dash forms: -S, -SV, -S V, -S=V,
// -S1S2, -L, -LV, -L V, -L=V and -l.
func (s *parseState) handleShortAndLongOption(token string) error {
	if len(token) == 1 {
		if s.options.HasShortOption(token) {
			return s.handleOption(s.options.Option(token))
		}
		return s.handleUnknownToken(s.token)
	}

	name, value, hasEqual := strings.Cut(token, "=")
	if hasEqual {
		if opt := s.options.Option(name); opt != nil && opt.acceptsValue() {
			return s.bindWithValue(opt, value)
		}
		return s.handleLongOptionWithEqual(token)
	}

	if s.options.HasShortOption(token) {
		return s.handleOption(s.options.Option(token))
	}
	if len(s.matchingLongNames(token)) > 0 {
		return s.handleLongOptionWithoutEqual(token)
	}
	if prefix := s.longPrefix(token); prefix != "" {
		opt := s.options.Option(prefix)
		if !opt.IsWithEqualSign() && opt.acceptsValue() {
			return s.bindWithValue(opt, token[len(prefix):])
		}
	}
	if s.options.HasShortOption(token[:1]) {
		return s.handleConcatenatedOptions(s.token)
	}
	return s.handleUnknownToken(s.token)
}

// handleConcatenatedOptions binds each character of -abc as a short option. The
// first one that takes a value consumes the rest of the token.
func (s *parseState) handleConcatenatedOptions(token string) error {
	for i := 1; i < len(token); i++ {
		ch := token[i : i+1]
		if !s.options.HasShortOption(ch) {
			if s.stopAtNonOption && i > 1 {
				return s.handleUnknownToken(token[i:])
			}
			return s.handleUnknownToken(token)
		}
		if err := s.handleOption(s.options.Option(ch)); err != nil {
			return err
		}
		if s.current != nil && i+1 < len(token) {
			if err := s.current.addValue(token[i+1:]); err != nil {
				return err
			}
			s.current = nil
			break
		}
	}
	return nil
}

func (s *parseState) handleUnknownToken(token string) error {
	if strings.HasPrefix(token, "-") && len(token) > 1 && !s.stopAtNonOption {
		return &UnrecognizedOptionError{Token: token}
	}
	s.parsed.addArg(token)
	if s.stopAtNonOption {
		s.skipParsing = true
	}
	return nil
}

func (s *parseState) bindWithValue(opt *Option, value string) error {
	if err := s.handleOption(opt); err != nil {
		return err
	}
	if err := s.current.addValue(value); err != nil {
		return err
	}
	s.current = nil
	return nil
}

func (s *parseState) handleOption(declared *Option) error {
	if err := s.checkRequiredOptionValues(); err != nil {
		return err
	}
	opt := declared.clone()
	if err := s.updateRequiredOptions(opt); err != nil {
		return err
	}
	s.parsed.addOption(opt)
	if opt.HasValue() {
		s.current = opt
	} else {
		s.current = nil
	}
	return nil
}

// updateRequiredOptions removes the option, or its group, from the expected set
// and records the group selection.
func (s *parseState) updateRequiredOptions(opt *Option) error {
	if opt.IsRequired() {
		s.removeExpected(func(r Requirement) bool { return r.Group == nil && r.Key == opt.Key() })
	}
	declared := s.options.Group(opt)
	if declared == nil {
		return nil
	}
	if declared.IsRequired() {
		s.removeExpected(func(r Requirement) bool { return r.Group == declared })
	}
	return s.group(declared).SetSelected(opt)
}

func (s *parseState) removeExpected(match func(Requirement) bool) {
	for i, r := range s.expected {
		if match(r) {
			s.expected = append(s.expected[:i], s.expected[i+1:]...)
			return
		}
	}
}

// group returns the selection state of a declared group for this parse.
func (s *parseState) group(declared *OptionGroup) *OptionGroup {
	g, ok := s.groups[declared]
	if !ok {
		g = declared.clone()
		g.selected = ""
		s.groups[declared] = g
	}
	return g
}

func (s *parseState) checkRequiredOptionValues() error {
	if s.current != nil && s.current.requiresValue() {
		return &MissingOptionValueError{Option: s.current}
	}
	return nil
}

// handleDefaults binds the options the tokens left unset from the supplied defaults.
func (s *parseState) handleDefaults() error {
	if len(s.defaults) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.defaults))
	for name := range s.defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		declared := s.options.Option(name)
		if declared == nil {
			return &UnrecognizedOptionError{Message: "Default option wasn't defined", Token: name}
		}
		if s.parsed.HasOption(name) {
			continue
		}
		if g := s.options.Group(declared); g != nil && s.group(g).Selected() != "" {
			continue
		}
		value := s.defaults[name]
		if !declared.HasValue() && !isTruthy(value) {
			continue
		}
		if err := s.handleOption(declared); err != nil {
			return err
		}
		if s.current != nil {
			if err := s.current.addValue(value); err != nil {
				return err
			}
		}
		s.current = nil
	}
	return nil
}

func isTruthy(value string) bool {
	return strings.EqualFold(value, "yes") || strings.EqualFold(value, "true") || value == "1"
}

func (s *parseState) matchingLongNames(token string) []string {
	if token == "" {
		return nil
	}
	if s.partialMatching {
		return s.options.MatchingLongNames(token)
	}
	if s.options.HasLongOption(token) {
		return []string{s.options.Option(token).LongName()}
	}
	return nil
}

// longPrefix finds the longest leading part of the token that is a long name,
// leaving at least two characters for the value (-Xmx512m).
func (s *parseState) longPrefix(token string) string {
	for i := len(token) - 2; i > 1; i-- {
		if s.options.HasLongOption(token[:i]) {
			return token[:i]
		}
	}
	return ""
}

func (s *parseState) isArgument(token string) bool {
	return !s.isOption(token) || isNegativeNumber(token)
}

func isNegativeNumber(token string) bool {
	_, err := strconv.ParseFloat(token, 64)
	return err == nil
}

func (s *parseState) isOption(token string) bool {
	return s.isLongOption(token) || s.isShortOption(token)
}

// isShortOption matches -S, -SV, -S=V, -SV1=V2 and -S1S2.
func (s *parseState) isShortOption(token string) bool {
	if !strings.HasPrefix(token, "-") || len(token) == 1 {
		return false
	}
	name, _, _ := strings.Cut(token[1:], "=")
	if s.options.HasShortOption(name) {
		return true
	}
	return name != "" && s.options.HasShortOption(name[:1])
}

// isLongOption matches --L, -L, --L=V, -L=V, --l, --l=V and -LV.
func (s *parseState) isLongOption(token string) bool {
	if !strings.HasPrefix(token, "-") || len(token) == 1 {
		return false
	}
	name, _, _ := strings.Cut(token, "=")
	if len(s.matchingLongNames(stripLeadingHyphens(name))) > 0 {
		return true
	}
	return !strings.HasPrefix(token, "--") && s.longPrefix(token[1:]) != ""
}
