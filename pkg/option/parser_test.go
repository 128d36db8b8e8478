package option

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugExtractOptions() *Options {
	return NewOptions().MustAdd(
		New("d", "Turn on debug.").WithLongName("debug"),
		New("e", "Turn on extract.").WithLongName("extract"),
		New("o", "Turn on option with argument.").WithLongName("option").WithValue(),
	)
}

func TestParseLongOptionMatching(t *testing.T) {
	tests := []struct {
		name     string
		partial  bool
		extra    []*Option
		args     []string
		expected []string
		absent   []string
	}{
		{
			name:     "exact long name",
			args:     []string{"--debug"},
			expected: []string{"d"},
			absent:   []string{"e"},
		},
		{
			name:     "unique prefix resolves to debug",
			partial:  true,
			args:     []string{"--de"},
			expected: []string{"debug"},
		},
		{
			name:     "unique prefix resolves to extract",
			partial:  true,
			args:     []string{"--e"},
			expected: []string{"extract"},
		},
		{
			name:     "exact match wins over longer candidates",
			partial:  true,
			extra:    []*Option{Long("debugger", "Attach a debugger.")},
			args:     []string{"--debug"},
			expected: []string{"debug"},
			absent:   []string{"debugger"},
		},
		{
			name:     "single dash long name",
			args:     []string{"-extract"},
			expected: []string{"e"},
		},
		{
			name:     "single dash prefix with partial matching",
			partial:  true,
			args:     []string{"-de"},
			expected: []string{"d"},
			absent:   []string{"e"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := debugExtractOptions().MustAdd(tt.extra...)
			parsed, err := NewParser(tt.partial).Parse(opts, tt.args)
			require.NoError(t, err)
			for _, name := range tt.expected {
				assert.True(t, parsed.HasOption(name), "expected %s to be bound", name)
			}
			for _, name := range tt.absent {
				assert.False(t, parsed.HasOption(name), "expected %s to be unbound", name)
			}
		})
	}
}

func TestParseAmbiguousOption(t *testing.T) {
	opts := debugExtractOptions().MustAdd(New("t", "Show detail.").WithLongName("detail"))

	_, err := NewParser(true).Parse(opts, []string{"--de"})
	require.Error(t, err)

	var ambiguous *AmbiguousOptionError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, "de", ambiguous.Token)
	assert.Equal(t, []string{"debug", "detail"}, ambiguous.Matches)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParsePartialMatchingDisabled(t *testing.T) {
	_, err := NewParser(false).Parse(debugExtractOptions(), []string{"--de"})

	var unrecognized *UnrecognizedOptionError
	require.True(t, errors.As(err, &unrecognized))
	assert.Equal(t, "--de", unrecognized.Token)
	assert.Equal(t, "Unrecognized option: --de", err.Error())
}

func TestParseStackedShortOptions(t *testing.T) {
	parsed, err := NewParser(false).Parse(debugExtractOptions(), []string{"-de"})
	require.NoError(t, err)

	assert.True(t, parsed.HasOption("d"))
	assert.True(t, parsed.HasOption("e"))
	assert.Len(t, parsed.Options(), 2)
}

func TestParseStackedShortOptionWithAttachedValue(t *testing.T) {
	parsed, err := NewParser(false).Parse(debugExtractOptions(), []string{"-doout.txt"})
	require.NoError(t, err)

	assert.True(t, parsed.HasOption("d"))
	assert.Equal(t, "out.txt", parsed.Value("o"))
}

func TestParseValueSyntaxes(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		expected     string
		expectedArgs []string
	}{
		{name: "separate value", args: []string{"-o", "x"}, expected: "x"},
		{name: "short with equals", args: []string{"-o=x"}, expected: "x"},
		{name: "attached value", args: []string{"-ox"}, expected: "x"},
		{name: "long separate value", args: []string{"--option", "x"}, expected: "x"},
		{name: "long with equals", args: []string{"--option=x"}, expected: "x"},
		{name: "quoted value", args: []string{"-o", `"x"`}, expected: "x"},
		{name: "negative number", args: []string{"-o", "-5"}, expected: "-5"},
		{name: "trailing args", args: []string{"-o", "x", "y", "z"}, expected: "x", expectedArgs: []string{"y", "z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := NewParser(false).Parse(debugExtractOptions(), tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parsed.Value("o"))
			assert.Equal(t, tt.expected, parsed.Value("--option"))
			assert.Equal(t, tt.expectedArgs, parsed.Args())
		})
	}
}

func TestParseNegativeNumberForShortOptionName(t *testing.T) {
	opts := NewOptions().MustAdd(
		New("n", "Number.").WithValue(),
		New("1", "One."),
	)

	parsed, err := NewParser(false).Parse(opts, []string{"-n", "-1"})
	require.NoError(t, err)
	assert.Equal(t, "-1", parsed.Value("n"))
	assert.False(t, parsed.HasOption("1"))
}

func TestParseLongPrefixWithAttachedValue(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		key      string
		expected string
	}{
		{name: "heap size", token: "-Xmx512m", key: "Xmx", expected: "512m"},
		{name: "two character value", token: "-detailXY", key: "detail", expected: "XY"},
		{name: "one character value is not split", token: "-detailX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewOptions().MustAdd(
				Long("Xmx", "Maximum heap.").WithValue(),
				Long("detail", "Detail level.").WithValue(),
			)
			parsed, err := NewParser(false).Parse(opts, []string{tt.token})
			if tt.key == "" {
				var unrecognized *UnrecognizedOptionError
				require.ErrorAs(t, err, &unrecognized)
				assert.Equal(t, tt.token, unrecognized.Token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parsed.Value(tt.key))
		})
	}
}

func TestParseUnlimitedValues(t *testing.T) {
	opts := NewOptions().MustAdd(
		New("f", "Files.").WithLongName("file").WithValues(),
		New("v", "Verbose."),
	)

	parsed, err := NewParser(false).Parse(opts, []string{"-f", "a", "b", "c", "-v"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, parsed.Values("f"))
	assert.True(t, parsed.HasOption("v"))
	assert.False(t, parsed.HasArgs())
}

func TestParseRepeatedOptionAccumulates(t *testing.T) {
	parsed, err := NewParser(false).Parse(debugExtractOptions(), []string{"-o", "a", "--option=b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, parsed.Values("option"))
	assert.Len(t, parsed.Options(), 2)
}

func TestParseFixedArity(t *testing.T) {
	opts := NewOptions().MustAdd(New("p", "Property.").WithNumberOfValues(2))

	parsed, err := NewParser(false).Parse(opts, []string{"-p", "key", "value", "rest"})
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "value"}, parsed.Values("p"))
	assert.Equal(t, map[string]string{"key": "value"}, parsed.Properties("p"))
	assert.Equal(t, []string{"rest"}, parsed.Args())

	_, err = NewParser(false).Parse(opts, []string{"-p", "key"})
	var missing *MissingOptionValueError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "p", missing.Option.Key())
}

func TestParseMissingOptionValue(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "end of input", args: []string{"-o"}},
		{name: "followed by an option", args: []string{"-o", "-d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(false).Parse(debugExtractOptions(), tt.args)
			var missing *MissingOptionValueError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, "o", missing.Option.Key())
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestParseOptionalValue(t *testing.T) {
	opts := NewOptions().MustAdd(New("c", "Color.").WithValue().WithOptionalValue())

	parsed, err := NewParser(false).Parse(opts, []string{"-c"})
	require.NoError(t, err)
	assert.True(t, parsed.HasOption("c"))
	assert.Equal(t, "", parsed.Value("c"))
}

func TestParseEqualSignOnly(t *testing.T) {
	opts := NewOptions().MustAdd(Long("name", "Name.").WithEqualSign())

	parsed, err := NewParser(false).Parse(opts, []string{"--name=conch"})
	require.NoError(t, err)
	assert.Equal(t, "conch", parsed.Value("name"))

	_, err = NewParser(false).Parse(opts, []string{"--name", "conch"})
	var missing *MissingOptionValueError
	assert.True(t, errors.As(err, &missing))
}

func TestParseGroupExclusivity(t *testing.T) {
	newOptions := func() *Options {
		return NewOptions().MustAddGroup(NewGroup(
			Long("props", "System properties."),
			Long("mem", "Memory usage."),
		))
	}

	_, err := NewParser(false).Parse(newOptions(), []string{"--props", "--mem"})
	var selected *AlreadySelectedError
	require.True(t, errors.As(err, &selected))
	assert.Equal(t, "props", selected.Group.Selected())
	assert.Equal(t, "mem", selected.Option.Key())
	assert.ErrorIs(t, err, ErrParse)

	parsed, err := NewParser(false).Parse(newOptions(), []string{"--props", "--props"})
	require.NoError(t, err)
	assert.True(t, parsed.HasOption("props"))
}

func TestParseGroupSelectionIsPerParse(t *testing.T) {
	opts := NewOptions().MustAddGroup(NewGroup(Long("props", ""), Long("mem", "")))
	parser := NewParser(false)

	_, err := parser.Parse(opts, []string{"--props"})
	require.NoError(t, err)

	parsed, err := parser.Parse(opts, []string{"--mem"})
	require.NoError(t, err)
	assert.True(t, parsed.HasOption("mem"))
	assert.Empty(t, opts.Groups()[0].Selected())
}

func TestParseRequiredOptions(t *testing.T) {
	opts := NewOptions().MustAdd(
		New("q", "Query.").WithValue().AsRequired(),
		New("r", "Raw output."),
	)

	_, err := NewParser(false).Parse(opts, []string{"-r"})
	var missing *MissingOptionsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"q"}, missing.Keys())
	assert.Equal(t, "Missing required option: q", err.Error())

	parsed, err := NewParser(false).Parse(opts, []string{"input", "-r", "-q", "."})
	require.NoError(t, err)
	assert.Equal(t, ".", parsed.Value("q"))
	assert.Equal(t, []string{"input"}, parsed.Args())
}

func TestParseRequiredGroup(t *testing.T) {
	opts := NewOptions().MustAddGroup(NewGroup(Long("props", ""), Long("mem", "")).AsRequired())

	_, err := NewParser(false).Parse(opts, nil)
	var missing *MissingOptionsError
	require.True(t, errors.As(err, &missing))
	require.Len(t, missing.Missing, 1)
	assert.NotNil(t, missing.Missing[0].Group)
	assert.Empty(t, missing.Keys())

	_, err = NewParser(false).Parse(opts, []string{"--mem"})
	assert.NoError(t, err)
}

func TestParseCloneIsolation(t *testing.T) {
	opts := debugExtractOptions()
	parser := NewParser(false)

	first, err := parser.Parse(opts, []string{"-o", "first"})
	require.NoError(t, err)
	second, err := parser.Parse(opts, []string{"-o", "second"})
	require.NoError(t, err)
	third, err := parser.Parse(opts, []string{"-d"})
	require.NoError(t, err)

	assert.Equal(t, []string{"first"}, first.Values("o"))
	assert.Equal(t, []string{"second"}, second.Values("o"))
	assert.False(t, third.HasOption("o"))
	assert.Nil(t, opts.Option("o").Values())
}

func TestParseConcurrentSharedOptions(t *testing.T) {
	opts := NewOptions().
		MustAdd(New("o", "Output.").WithLongName("output").WithValue().AsRequired()).
		MustAddGroup(NewGroup(Long("props", ""), Long("mem", "")).AsRequired())
	parser := NewParser(true)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	results := make([]*ParsedOptions, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			member := "--props"
			if i%2 == 1 {
				member = "--mem"
			}
			args := []string{"--out", strconv.Itoa(i), member}
			if i%4 == 3 {
				args = []string{member}
			}
			results[i], errs[i] = parser.Parse(opts, args)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if i%4 == 3 {
			var missing *MissingOptionsError
			require.ErrorAs(t, errs[i], &missing)
			assert.Equal(t, []string{"o"}, missing.Keys())
			continue
		}
		require.NoError(t, errs[i])
		assert.Equal(t, []string{strconv.Itoa(i)}, results[i].Values("o"))
		assert.Equal(t, i%2 == 0, results[i].HasOption("props"))
		assert.Equal(t, i%2 == 1, results[i].HasOption("mem"))
	}
	assert.Nil(t, opts.Option("o").Values())
	assert.Empty(t, opts.Groups()[0].Selected())
}

func TestParseUnrecognizedOption(t *testing.T) {
	_, err := NewParser(false).Parse(debugExtractOptions(), []string{"-d", "-z"})

	var unrecognized *UnrecognizedOptionError
	require.True(t, errors.As(err, &unrecognized))
	assert.Equal(t, "-z", unrecognized.Token)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseStopAtNonOption(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		expectedArgs []string
		bound        []string
	}{
		{
			name:         "plain argument stops parsing",
			args:         []string{"-d", "foo", "-z", "-e"},
			expectedArgs: []string{"foo", "-z", "-e"},
			bound:        []string{"d"},
		},
		{
			name:         "unknown option stops parsing",
			args:         []string{"-z", "-d"},
			expectedArgs: []string{"-z", "-d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := NewParser(false).Parse(debugExtractOptions(), tt.args, StopAtNonOption())
			require.NoError(t, err)
			assert.Equal(t, tt.expectedArgs, parsed.Args())
			assert.Len(t, parsed.Options(), len(tt.bound))
			for _, name := range tt.bound {
				assert.True(t, parsed.HasOption(name))
			}
		})
	}
}

func TestParseDoubleDashIsIgnored(t *testing.T) {
	parsed, err := NewParser(false).Parse(debugExtractOptions(), []string{"-d", "--", "x"})
	require.NoError(t, err)
	assert.True(t, parsed.HasOption("d"))
	assert.Equal(t, []string{"x"}, parsed.Args())
}

func TestParseWithDefaults(t *testing.T) {
	defaults := map[string]string{"o": "fallback", "d": "yes", "e": "no"}

	parsed, err := NewParser(false).Parse(debugExtractOptions(), nil, WithDefaults(defaults))
	require.NoError(t, err)
	assert.Equal(t, "fallback", parsed.Value("o"))
	assert.True(t, parsed.HasOption("d"))
	assert.False(t, parsed.HasOption("e"))

	parsed, err = NewParser(false).Parse(debugExtractOptions(), []string{"-o", "given"}, WithDefaults(defaults))
	require.NoError(t, err)
	assert.Equal(t, []string{"given"}, parsed.Values("o"))
}

func TestParseDefaultsSatisfyRequired(t *testing.T) {
	opts := NewOptions().MustAdd(New("q", "Query.").WithValue().AsRequired())

	parsed, err := NewParser(false).Parse(opts, nil, WithDefaults(map[string]string{"q": "."}))
	require.NoError(t, err)
	assert.Equal(t, ".", parsed.Value("q"))
}

func TestParseDefaultsRespectGroupSelection(t *testing.T) {
	opts := NewOptions().MustAddGroup(NewGroup(Long("props", ""), Long("mem", "")))

	parsed, err := NewParser(false).Parse(opts, []string{"--mem"}, WithDefaults(map[string]string{"props": "true"}))
	require.NoError(t, err)
	assert.True(t, parsed.HasOption("mem"))
	assert.False(t, parsed.HasOption("props"))
}

func TestParseUndefinedDefault(t *testing.T) {
	_, err := NewParser(false).Parse(debugExtractOptions(), nil, WithDefaults(map[string]string{"missing": "1"}))

	var unrecognized *UnrecognizedOptionError
	require.True(t, errors.As(err, &unrecognized))
	assert.Equal(t, "Default option wasn't defined: missing", err.Error())
}
