package builtins

import (
	"context"
	"strings"

	"github.com/praetorian-inc/conch/internal/registry"
	"github.com/praetorian-inc/conch/pkg/console"
	"github.com/praetorian-inc/conch/pkg/option"
)

type Quit struct {
	base
}

func NewQuit() *Quit {
	return &Quit{base{
		descriptor: registry.Descriptor{
			Namespace:   Namespace,
			Name:        "quit",
			Aliases:     []string{"exit"},
			Description: "Exit the shell.",
			Interactive: true,
		},
		options: option.NewOptions(),
	}}
}

func (q *Quit) Execute(context.Context, *console.Console, *option.ParsedOptions) error {
	return console.ErrTerminated
}

type Clear struct {
	base
}

func NewClear() *Clear {
	return &Clear{base{
		descriptor: registry.Descriptor{
			Namespace:   Namespace,
			Name:        "clear",
			Description: "Clear the terminal screen.",
			Interactive: true,
		},
		options: option.NewOptions(),
	}}
}

func (cl *Clear) Execute(_ context.Context, c *console.Console, _ *option.ParsedOptions) error {
	c.Clear()
	return nil
}

// Echo writes its arguments to the output.
type Echo struct {
	base
}

func NewEcho() *Echo {
	opts := option.NewOptions().MustAdd(
		option.New("u", "Convert the text to upper case.").WithLongName("upper"),
		option.New("n", "Do not print the trailing newline.").WithLongName("no-newline"),
		option.New("s", "Separator written between arguments (default: a space).").
			WithLongName("separator").
			WithValue().
			WithValueName("sep"),
	)
	return &Echo{base{
		descriptor: registry.Descriptor{
			Namespace:   Namespace,
			Name:        "echo",
			Description: "Print the given arguments.",
		},
		options: opts,
	}}
}

func (e *Echo) Execute(_ context.Context, c *console.Console, parsed *option.ParsedOptions) error {
	text := strings.Join(parsed.Args(), parsed.ValueOr("separator", " "))
	if parsed.HasOption("upper") {
		text = strings.ToUpper(text)
	}
	if parsed.HasOption("no-newline") {
		c.Printf("%s", text)
		return nil
	}
	c.Println(text)
	return nil
}
