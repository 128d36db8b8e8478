package option

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

const (
	DefaultWidth   = 74
	DefaultLeftPad = 3
	DefaultDescPad = 3
)

// HelpFormatter renders usage lines and option tables for a command.
type HelpFormatter struct {
	Width        int
	LeftPad      int
	DescPad      int
	SyntaxPrefix string
	ArgName      string
}

func NewHelpFormatter() *HelpFormatter {
	return &HelpFormatter{
		Width:        DefaultWidth,
		LeftPad:      DefaultLeftPad,
		DescPad:      DefaultDescPad,
		SyntaxPrefix: "usage: ",
		ArgName:      "arg",
	}
}

// sortedOptions orders options by key, ignoring case.
func sortedOptions(opts *Options) []*Option {
	list := opts.Options()
	sort.SliceStable(list, func(i, j int) bool {
		return strings.ToLower(list[i].Key()) < strings.ToLower(list[j].Key())
	})
	return list
}

// Usage renders the synopsis, e.g. "usage: echo [-n] [-s <sep>] [--props | --mem]".
// Groups are shown once, bracketed unless required.
func (f *HelpFormatter) Usage(name string, opts *Options) string {
	var sb strings.Builder
	sb.WriteString(f.SyntaxPrefix)
	sb.WriteString(name)

	seen := make(map[*OptionGroup]bool)
	for _, opt := range sortedOptions(opts) {
		group := opts.Group(opt)
		if group == nil {
			sb.WriteString(" ")
			f.appendOption(&sb, opt, opt.IsRequired())
			continue
		}
		if seen[group] {
			continue
		}
		seen[group] = true
		sb.WriteString(" ")
		f.appendGroup(&sb, group)
	}

	return f.wrap(sb.String(), len(f.SyntaxPrefix)+len(name)+1)
}

func (f *HelpFormatter) appendGroup(sb *strings.Builder, group *OptionGroup) {
	if !group.IsRequired() {
		sb.WriteString("[")
	}
	members := group.Options()
	sort.SliceStable(members, func(i, j int) bool {
		return strings.ToLower(members[i].Key()) < strings.ToLower(members[j].Key())
	})
	for i, opt := range members {
		if i > 0 {
			sb.WriteString(" | ")
		}
		f.appendOption(sb, opt, true)
	}
	if !group.IsRequired() {
		sb.WriteString("]")
	}
}

func (f *HelpFormatter) appendOption(sb *strings.Builder, opt *Option, required bool) {
	if !required {
		sb.WriteString("[")
	}
	if opt.Name() != "" {
		sb.WriteString("-" + opt.Name())
	} else {
		sb.WriteString("--" + opt.LongName())
	}
	if opt.HasValue() {
		sb.WriteString(" <" + f.argName(opt) + ">")
	}
	if !required {
		sb.WriteString("]")
	}
}

func (f *HelpFormatter) argName(opt *Option) string {
	if opt.HasValueName() {
		return opt.ValueName()
	}
	return f.ArgName
}

// OptionsTable renders one aligned row per option with its wrapped description.
func (f *HelpFormatter) OptionsTable(opts *Options) string {
	list := sortedOptions(opts)
	lpad := strings.Repeat(" ", f.LeftPad)
	prefixes := make([]string, len(list))
	width := 0
	for i, opt := range list {
		var sb strings.Builder
		sb.WriteString(lpad)
		if opt.Name() == "" {
			sb.WriteString("   --" + opt.LongName())
		} else {
			sb.WriteString("-" + opt.Name())
			if opt.HasLongName() {
				sb.WriteString(",--" + opt.LongName())
			}
		}
		if opt.HasValue() {
			sb.WriteString(" <" + f.argName(opt) + ">")
		}
		prefixes[i] = sb.String()
		if len(prefixes[i]) > width {
			width = len(prefixes[i])
		}
	}

	rows := make([]string, len(list))
	for i, opt := range list {
		row := prefixes[i] + strings.Repeat(" ", width-len(prefixes[i])+f.DescPad) + opt.Description()
		rows[i] = f.wrap(strings.TrimRight(row, " "), width+f.DescPad)
	}
	return strings.Join(rows, "\n")
}

// PrintHelp writes the usage line, an optional header, the option table and an
// optional footer.
func (f *HelpFormatter) PrintHelp(w io.Writer, name string, header string, opts *Options, footer string) error {
	var sb strings.Builder
	sb.WriteString(f.Usage(name, opts))
	sb.WriteString("\n")
	if header != "" {
		sb.WriteString(f.wrap(header, 0))
		sb.WriteString("\n")
	}
	if !opts.IsEmpty() {
		sb.WriteString(f.OptionsTable(opts))
		sb.WriteString("\n")
	}
	if footer != "" {
		sb.WriteString(f.wrap(footer, 0))
		sb.WriteString("\n")
	}
	_, err := fmt.Fprint(w, sb.String())
	return err
}

// wrap breaks text at f.Width, indenting continuation lines by indent columns.
func (f *HelpFormatter) wrap(text string, indent int) string {
	if f.Width <= 0 || len(text) <= f.Width {
		return text
	}
	if indent <= 0 || indent >= f.Width || indent >= len(text) {
		return wordwrap.WrapString(text, uint(f.Width))
	}
	head, rest := text[:indent], text[indent:]
	lines := strings.Split(wordwrap.WrapString(rest, uint(f.Width-indent)), "\n")
	return head + strings.Join(lines, "\n"+strings.Repeat(" ", indent))
}
