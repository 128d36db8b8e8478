package jq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/savaki/jq"
	"gopkg.in/yaml.v3"
)

var ErrEmptyQuery = errors.New("jq query is empty")

// Select narrows a JSON document with a simple path such as .items.[0].name
// before a full query runs against it. An empty path returns the document.
func Select(document []byte, path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "." {
		return document, nil
	}
	op, err := jq.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", path, err)
	}
	selected, err := op.Apply(document)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", path, err)
	}
	return selected, nil
}

// Decode reads a JSON document, or a YAML document when fromYAML is set, into
// values gojq accepts.
func Decode(document []byte, fromYAML bool) (any, error) {
	var v any
	if fromYAML {
		if err := yaml.Unmarshal(document, &v); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		// yaml.v3 produces int and time values; round trip them through JSON.
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		document = data
	}

	dec := json.NewDecoder(bytes.NewReader(document))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return normalizeNumbers(v), nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
	}
	return v
}

// Query runs a jq expression against input and collects every emitted value.
func Query(ctx context.Context, expr string, input any) ([]any, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmptyQuery
	}
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, err
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, err
	}

	var results []any
	iter := code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			return results, nil
		}
		if err, ok := v.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				return results, nil
			}
			return results, err
		}
		results = append(results, v)
	}
}

// Format renders a query result. With raw set, strings are written without quotes.
func Format(v any, raw bool) (string, error) {
	if s, ok := v.(string); ok && raw {
		return s, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
