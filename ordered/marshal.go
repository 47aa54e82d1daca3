package ordered

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"
)

// MarshalJSON writes the entries as a JSON object in insertion order.
func (m Map[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("ordered: marshaling %q: %w", k, err)
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML builds a mapping node whose keys follow insertion order.
func (m Map[V]) MarshalYAML() (any, error) {
	node := &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: make([]*yaml.Node, 0, 2*len(m.keys)),
	}
	for _, k := range m.keys {
		valNode := &yaml.Node{}
		if err := valNode.Encode(m.values[k]); err != nil {
			return nil, fmt.Errorf("ordered: marshaling %q: %w", k, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, valNode)
	}
	return node, nil
}

// JSONLookup returns the value stored under token. It lets JSON pointer
// implementations walk into a Map.
func (m Map[V]) JSONLookup(token string) (any, error) {
	v, ok := m.values[token]
	if !ok {
		return nil, fmt.Errorf("ordered: key %q not found", token)
	}
	return v, nil
}
