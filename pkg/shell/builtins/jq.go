package builtins

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	outputproviders "github.com/praetorian-inc/conch/internal/output_providers"
	"github.com/praetorian-inc/conch/internal/jq"
	"github.com/praetorian-inc/conch/internal/registry"
	"github.com/praetorian-inc/conch/pkg/console"
	"github.com/praetorian-inc/conch/pkg/option"
)

var errNoInput = errors.New("jq: no input; pass a document or --file")

// Jq runs a jq query against a JSON or YAML document given inline or read from a file.
type Jq struct {
	base
}

func NewJq() *Jq {
	opts := option.NewOptions().MustAdd(
		option.New("q", "The jq expression to run.").
			WithLongName("query").
			WithValue().
			WithValueName("expr").
			AsRequired(),
		option.New("f", "Read the document from <file>.").
			WithLongName("file").
			WithValue().
			WithValueName("file").
			WithValueType(option.FileType),
		option.New("s", "Narrow the document to <path> before running the query.").
			WithLongName("select").
			WithValue().
			WithValueName("path"),
		option.New("r", "Write string results without quotes.").WithLongName("raw"),
		option.Long("yaml", "Parse the document as YAML."),
	)
	return &Jq{base{
		descriptor: registry.Descriptor{
			Namespace:   Namespace,
			Name:        "jq",
			Description: "Query a JSON or YAML document with a jq expression.",
		},
		options: opts,
	}}
}

func (j *Jq) Execute(ctx context.Context, c *console.Console, parsed *option.ParsedOptions) error {
	document, err := j.document(c, parsed)
	if err != nil {
		return err
	}
	fromYAML := parsed.HasOption("yaml")

	if path := parsed.Value("select"); path != "" {
		if fromYAML {
			// the selector only understands JSON
			v, err := jq.Decode(document, true)
			if err != nil {
				return err
			}
			if document, err = toJSON(v); err != nil {
				return err
			}
			fromYAML = false
		}
		if document, err = jq.Select(document, path); err != nil {
			return err
		}
	}

	input, err := jq.Decode(document, fromYAML)
	if err != nil {
		return err
	}
	results, err := jq.Query(ctx, parsed.Value("query"), input)
	if err != nil {
		return fmt.Errorf("jq: %w", err)
	}
	raw := parsed.HasOption("raw")
	for _, result := range results {
		out, err := jq.Format(result, raw)
		if err != nil {
			return err
		}
		c.Println(out)
	}
	return nil
}

func (j *Jq) document(c *console.Console, parsed *option.ParsedOptions) ([]byte, error) {
	if parsed.HasOption("file") {
		file, err := parsed.File("file")
		if err != nil {
			return nil, err
		}
		path, err := outputproviders.ResolvePath(file, c.WorkingDir())
		if err != nil {
			return nil, err
		}
		return os.ReadFile(path)
	}
	if !parsed.HasArgs() {
		return nil, errNoInput
	}
	return []byte(strings.Join(parsed.Args(), " ")), nil
}

func toJSON(v any) ([]byte, error) {
	s, err := jq.Format(v, false)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
