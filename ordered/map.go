// Package ordered provides an insertion-ordered string-keyed map.
//
// A Map is a value: With and Without return a new Map and never modify the
// receiver, so a Map can be shared freely between goroutines and between
// model values. Use a Builder when constructing a large map in one pass.
package ordered

import (
	"iter"
	"slices"
)

// Map is an immutable mapping of string keys to values that remembers the
// order in which keys were first inserted. The zero value is an empty map.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// Of builds a Map from entries, keeping their order. A repeated key keeps its
// first position and its last value.
func Of[V any](entries ...Entry[V]) Map[V] {
	var b Builder[V]
	for _, e := range entries {
		b.Set(e.Key, e.Value)
	}
	return b.Build()
}

// Entry is a single key/value pair.
type Entry[V any] struct {
	Key   string
	Value V
}

// Len returns the number of entries.
func (m Map[V]) Len() int {
	return len(m.keys)
}

// Get returns the value stored under key.
func (m Map[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m Map[V]) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in insertion order. The slice is a copy.
func (m Map[V]) Keys() []string {
	return slices.Clone(m.keys)
}

// All iterates over the entries in insertion order.
func (m Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Entries returns the entries in insertion order.
func (m Map[V]) Entries() []Entry[V] {
	out := make([]Entry[V], 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, Entry[V]{Key: k, Value: m.values[k]})
	}
	return out
}

// With returns a copy of m where key maps to value. An existing key keeps its
// position; a new key is appended.
func (m Map[V]) With(key string, value V) Map[V] {
	b := m.Builder()
	b.Set(key, value)
	return b.Build()
}

// Without returns a copy of m with key removed.
func (m Map[V]) Without(key string) Map[V] {
	if !m.Has(key) {
		return m
	}
	b := Builder[V]{
		keys:   make([]string, 0, len(m.keys)-1),
		values: make(map[string]V, len(m.keys)-1),
	}
	for _, k := range m.keys {
		if k != key {
			b.Set(k, m.values[k])
		}
	}
	return b.Build()
}

// Builder returns a Builder seeded with a copy of m's entries.
func (m Map[V]) Builder() *Builder[V] {
	b := &Builder[V]{
		keys:   slices.Clone(m.keys),
		values: make(map[string]V, len(m.keys)+1),
	}
	for k, v := range m.values {
		b.values[k] = v
	}
	return b
}

// Builder accumulates entries for a Map. It is not safe for concurrent use.
type Builder[V any] struct {
	keys   []string
	values map[string]V
}

// Set stores value under key, keeping the position of an existing key.
func (b *Builder[V]) Set(key string, value V) {
	if b.values == nil {
		b.values = make(map[string]V)
	}
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
}

// Get returns the value set under key so far.
func (b *Builder[V]) Get(key string) (V, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Has reports whether key has been set.
func (b *Builder[V]) Has(key string) bool {
	_, ok := b.values[key]
	return ok
}

// Len returns the number of entries set so far.
func (b *Builder[V]) Len() int {
	return len(b.keys)
}

// Build returns the accumulated Map and resets the builder, so later calls to
// Set cannot reach the returned value.
func (b *Builder[V]) Build() Map[V] {
	m := Map[V]{keys: b.keys, values: b.values}
	b.keys, b.values = nil, nil
	return m
}
