package model

import (
	"strconv"

	"github.com/erraggy/apiflow/ordered"
	"github.com/erraggy/apiflow/pointer"
	"github.com/erraggy/apiflow/rawdoc"
)

// RefKey is the key that turns an object entry into a SchemaReference.
const RefKey = rawdoc.RefKey

// Node is one entry of a schema tree: a Schema or a SchemaReference.
type Node interface {
	// ToJS renders the node as a raw value (see Schema.ToJS).
	ToJS() any
	schemaNode()
}

type schemaKind uint8

const (
	kindLeaf schemaKind = iota
	kindObject
	kindArray
)

// Schema is one node of a JSON-Schema-like tree. A leaf carries Value; a
// branch carries Map. URI is the JSON pointer of the node from the document
// root ("#" for the root itself).
//
// Schema is a value type. MergeSchema and Resolve return new values and leave
// the receiver untouched, so a Schema may be shared between goroutines.
type Schema struct {
	URI   string
	Value any
	Map   ordered.Map[Node]
	kind  schemaKind
}

// NewSchema returns an empty root schema.
func NewSchema() Schema {
	return Schema{URI: pointer.Root}
}

// SchemaFrom returns a root schema holding raw.
func SchemaFrom(raw any) Schema {
	return NewSchema().MergeSchema(raw)
}

func (Schema) schemaNode() {}

// IsLeaf reports whether s holds a scalar Value rather than children.
func (s Schema) IsLeaf() bool {
	return s.kind == kindLeaf && s.Map.Len() == 0
}

// IsArray reports whether s was built from a sequence.
func (s Schema) IsArray() bool {
	return s.kind == kindArray
}

// Child returns the direct child stored under key.
func (s Schema) Child(key string) (Node, bool) {
	return s.Map.Get(key)
}

// Ref returns the reference held directly by s, if s is a "$ref" object.
func (s Schema) Ref() (SchemaReference, bool) {
	n, ok := s.Map.Get(RefKey)
	if !ok {
		return SchemaReference{}, false
	}
	ref, ok := n.(SchemaReference)
	return ref, ok
}

// MergeSchema folds raw into s and returns the result.
//
// Objects merge key by key into Map: an existing key is replaced in place, a
// new key is appended. The key "$ref" with a string value becomes an
// unresolved SchemaReference; any other key becomes a child Schema whose URI
// is s.URI extended by the escaped key. Sequences become branches keyed by
// index. Anything else becomes the leaf Value.
func (s Schema) MergeSchema(raw any) Schema {
	if s.URI == "" {
		s.URI = pointer.Root
	}

	if items, ok := raw.([]any); ok {
		b := s.Map.Builder()
		for i, item := range items {
			key := strconv.Itoa(i)
			b.Set(key, s.child(key, item))
		}
		s.Map = b.Build()
		s.Value = nil
		s.kind = kindArray
		return s
	}

	obj, ok := rawdoc.AsObject(raw)
	if !ok {
		s.Value = raw
		s.Map = ordered.Map[Node]{}
		s.kind = kindLeaf
		return s
	}

	b := s.Map.Builder()
	for key, val := range obj.All() {
		if ref, isRef := val.(string); isRef && key == RefKey {
			b.Set(key, SchemaReference{Reference: ref})
			continue
		}
		b.Set(key, s.child(key, val))
	}
	s.Map = b.Build()
	s.Value = nil
	s.kind = kindObject
	return s
}

func (s Schema) child(key string, raw any) Schema {
	return Schema{URI: pointer.Append(s.URI, key)}.MergeSchema(raw)
}

// Resolve returns a copy of s where every SchemaReference in the tree is
// resolved against base.
//
// A reference is looked up in base by pointer. When depth > 0 the target is
// resolved again with depth-1, so depth bounds how far chained or cyclic
// references are followed; depth 0 resolves exactly one hop. Non-reference
// children are resolved with the same depth and base. A pointer that does not
// match anything yields a resolved reference with a nil Value.
func (s Schema) Resolve(depth int, base Schema) Schema {
	if s.IsLeaf() {
		return s
	}

	var b ordered.Builder[Node]
	for key, n := range s.Map.All() {
		b.Set(key, resolveNode(n, depth, base))
	}
	s.Map = b.Build()
	return s
}

// ResolveSelf resolves s against itself.
func (s Schema) ResolveSelf(depth int) Schema {
	return s.Resolve(depth, s)
}

func resolveNode(n Node, depth int, base Schema) Node {
	switch v := n.(type) {
	case Schema:
		return v.Resolve(depth, base)
	case SchemaReference:
		ref := v.Resolve(base)
		if depth > 0 && ref.Value != nil {
			ref.Value = resolveNode(ref.Value, depth-1, base)
		}
		return ref
	default:
		return n
	}
}

// Lookup follows segments from s through child maps. Resolved references met
// along the way are followed into their targets.
func (s Schema) Lookup(segments ...string) (Node, bool) {
	var cur Node = s
	for _, seg := range segments {
		if ref, ok := cur.(SchemaReference); ok {
			if !ref.Resolved || ref.Value == nil {
				return nil, false
			}
			cur = ref.Value
		}
		sch, ok := cur.(Schema)
		if !ok || sch.IsLeaf() {
			return nil, false
		}
		cur, ok = sch.Map.Get(seg)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// ToJS renders s as a raw value: a leaf renders its Value, an object branch
// renders an ordered object keyed by the original names, an array branch
// renders a slice.
//
// An object holding a resolved "$ref" renders as its target, with any sibling
// keys laid over it. Unresolved references render as the bare reference
// string, so partially resolved output stays legible.
func (s Schema) ToJS() any {
	if s.IsLeaf() {
		return s.Value
	}

	if s.kind == kindArray {
		items := make([]any, 0, s.Map.Len())
		for _, n := range s.Map.All() {
			items = append(items, n.ToJS())
		}
		return items
	}

	if ref, ok := s.Ref(); ok && ref.Resolved {
		return s.renderResolvedRef(ref)
	}

	var b ordered.Builder[any]
	for key, n := range s.Map.All() {
		b.Set(key, n.ToJS())
	}
	return b.Build()
}

func (s Schema) renderResolvedRef(ref SchemaReference) any {
	target := ref.ToJS()
	if s.Map.Len() == 1 {
		return target
	}

	var b *ordered.Builder[any]
	if obj, ok := rawdoc.AsObject(target); ok {
		b = obj.Builder()
	} else {
		b = &ordered.Builder[any]{}
	}
	for key, n := range s.Map.All() {
		if key != RefKey {
			b.Set(key, n.ToJS())
		}
	}
	return b.Build()
}

// SchemaReference is a placeholder for a "$ref" entry. Value is populated by
// Resolve.
type SchemaReference struct {
	Reference string
	Resolved  bool
	Value     Node
}

func (SchemaReference) schemaNode() {}

// IsLocal reports whether the reference points inside the current document.
func (r SchemaReference) IsLocal() bool {
	return pointer.IsLocal(r.Reference)
}

// Resolve looks the reference up in base and returns the resolved copy.
// Resolving an already resolved reference returns it unchanged. References
// to other documents are left unresolved; loaders inline those before
// parsing.
func (r SchemaReference) Resolve(base Schema) SchemaReference {
	if r.Resolved || !r.IsLocal() {
		return r
	}
	r.Resolved = true
	r.Value = nil
	if target, ok := base.Lookup(pointer.Segments(r.Reference)...); ok {
		r.Value = target
	}
	return r
}

// ToJS renders the target of a resolved reference, or the bare reference
// string when unresolved.
func (r SchemaReference) ToJS() any {
	if !r.Resolved {
		return r.Reference
	}
	if r.Value == nil {
		return nil
	}
	return r.Value.ToJS()
}
