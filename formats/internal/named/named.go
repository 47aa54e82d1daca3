// Package named assigns stable, unique names to definitions collected while
// serializing, such as security schemes. Identical definitions share one
// name; different definitions wanting the same name get a numeric suffix.
package named

import (
	"encoding/json"
	"strconv"

	"github.com/erraggy/apiflow/ordered"
)

// Set collects named definitions in first-use order. The zero value is
// ready to use.
type Set struct {
	defs  ordered.Builder[any]
	names map[string]string
}

// Define registers def under base, or under base_N when base is taken by a
// different definition, and returns the name used.
func (s *Set) Define(base string, def any) string {
	key := fingerprint(def)
	if name, ok := s.names[key]; ok {
		return name
	}
	if s.names == nil {
		s.names = map[string]string{}
	}
	name := base
	for i := 2; s.defs.Has(name); i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	s.names[key] = name
	s.defs.Set(name, def)
	return name
}

// Len returns the number of definitions.
func (s *Set) Len() int { return s.defs.Len() }

// Build returns the definitions by name and resets the set.
func (s *Set) Build() ordered.Map[any] {
	s.names = nil
	return s.defs.Build()
}

func fingerprint(def any) string {
	data, err := json.Marshal(def)
	if err != nil {
		return ""
	}
	return string(data)
}
