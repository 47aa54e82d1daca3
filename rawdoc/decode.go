// Package rawdoc decodes API description text into raw ordered documents.
//
// A raw document is built from three kinds of values: Object (an
// ordered.Map[any]) for mappings, []any for sequences, and scalars (string,
// int, float64, bool, nil). Key order from the source text is preserved, so
// loaders and parsers can keep the author's ordering of paths, parameters and
// responses.
package rawdoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/erraggy/apiflow/ordered"
	"github.com/tidwall/jsonc"
	"go.yaml.in/yaml/v4"
)

// Object is a raw mapping with preserved key order.
type Object = ordered.Map[any]

// Syntax identifies the text syntax a document was decoded from.
type Syntax string

const (
	// SyntaxJSON is strict JSON.
	SyntaxJSON Syntax = "json"
	// SyntaxJSONC is JSON with comments or trailing commas.
	SyntaxJSONC Syntax = "jsonc"
	// SyntaxYAML is YAML.
	SyntaxYAML Syntax = "yaml"
)

// ErrEmpty is returned when the content holds no document.
var ErrEmpty = errors.New("rawdoc: empty content")

// ErrAlias is returned for YAML aliases that refer to themselves or expand
// past the alias budget.
var ErrAlias = errors.New("rawdoc: excessive YAML aliasing")

// Alias budget: a document may expand at most aliasBudgetPerByte nodes per
// byte of input through aliases, and never less than minAliasBudget.
const (
	minAliasBudget     = 10_000
	aliasBudgetPerByte = 100
)

// Decode parses content as JSON, then as JSON with comments, then as YAML.
func Decode(content []byte) (any, error) {
	v, _, err := DecodeSyntax(content)
	return v, err
}

// DecodeSyntax is Decode but also reports which syntax matched.
func DecodeSyntax(content []byte) (any, Syntax, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, "", ErrEmpty
	}

	if json.Valid(content) {
		v, err := decodeJSON(content)
		return v, SyntaxJSON, err
	}

	if stripped := jsonc.ToJSON(content); json.Valid(stripped) {
		v, err := decodeJSON(stripped)
		return v, SyntaxJSONC, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(content, &node); err != nil {
		return nil, "", fmt.Errorf("rawdoc: content is neither JSON nor YAML: %w", err)
	}
	nd := &nodeDecoder{
		expanding: map[*yaml.Node]bool{},
		budget:    max(minAliasBudget, aliasBudgetPerByte*len(content)),
	}
	v, err := nd.fromNode(&node, false)
	if err != nil {
		return nil, "", err
	}
	return v, SyntaxYAML, nil
}

// DecodeObject decodes content and requires the root to be a mapping.
func DecodeObject(content []byte) (Object, error) {
	v, err := Decode(content)
	if err != nil {
		return Object{}, err
	}
	obj, ok := AsObject(v)
	if !ok {
		return Object{}, fmt.Errorf("rawdoc: document root is %T, not an object", v)
	}
	return obj, nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("rawdoc: decoding JSON: %w", err)
	}
	return v, nil
}

// readJSONValue consumes one JSON value from the token stream. Objects are
// read token by token so their key order survives.
func readJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var b ordered.Builder[any]
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				b.Set(key, val)
			}
			if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return b.Build(), nil
		case '[':
			items := []any{}
			for dec.More() {
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return items, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case json.Number:
		return normalizeNumber(t), nil
	default:
		// string, bool or nil
		return t, nil
	}
}

func normalizeNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		if i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// nodeDecoder converts a yaml.Node tree into raw values. Aliases are
// expanded in place; expanding tracks the alias targets currently being
// expanded so a self-referencing anchor fails instead of recursing forever,
// and budget bounds the number of nodes produced through aliases.
type nodeDecoder struct {
	expanding map[*yaml.Node]bool
	budget    int
}

func (d *nodeDecoder) fromNode(node *yaml.Node, viaAlias bool) (any, error) {
	if viaAlias {
		d.budget--
		if d.budget < 0 {
			return nil, fmt.Errorf("%w: alias expansion at line %d exceeds the document budget", ErrAlias, node.Line)
		}
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, ErrEmpty
		}
		return d.fromNode(node.Content[0], viaAlias)

	case yaml.MappingNode:
		var b ordered.Builder[any]
		for i := 0; i+1 < len(node.Content); i += 2 {
			val, err := d.fromNode(node.Content[i+1], viaAlias)
			if err != nil {
				return nil, err
			}
			b.Set(node.Content[i].Value, val)
		}
		return b.Build(), nil

	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			val, err := d.fromNode(child, viaAlias)
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		return items, nil

	case yaml.AliasNode:
		target := node.Alias
		if target == nil {
			return nil, nil
		}
		if d.expanding[target] {
			return nil, fmt.Errorf("%w: alias *%s at line %d refers to itself", ErrAlias, node.Value, node.Line)
		}
		d.expanding[target] = true
		v, err := d.fromNode(target, true)
		delete(d.expanding, target)
		return v, err

	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("rawdoc: decoding scalar at line %d: %w", node.Line, err)
		}
		return v, nil
	}
}
