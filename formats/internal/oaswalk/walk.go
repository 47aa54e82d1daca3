// Package oaswalk iterates the path items of Swagger 2.0 and OpenAPI 3.x raw
// documents. Both parsers share it; only the field mapping differs.
package oaswalk

import (
	"strconv"

	"github.com/erraggy/apiflow/internal/httputil"
	"github.com/erraggy/apiflow/pointer"
	"github.com/erraggy/apiflow/rawdoc"
)

// Node is an object of the raw document together with its JSON pointer.
type Node struct {
	Raw     rawdoc.Object
	Pointer string
}

// Operation is one method of one path.
type Operation struct {
	Path   string
	Method string
	Node
	// Params holds path-level parameters overridden by operation-level ones
	// with the same name and location, in declaration order.
	Params []Node
}

// Operations returns every operation of doc, in path then method document
// order.
func Operations(doc rawdoc.Object) []Operation {
	var out []Operation
	pathsPtr := pointer.Append(pointer.Root, "paths")
	for path, v := range rawdoc.ObjectAt(doc, "paths").All() {
		item := Deref(doc, v, pointer.Append(pathsPtr, path))
		shared := params(doc, item)
		for method, opRaw := range item.Raw.All() {
			if !httputil.IsMethod(method) {
				continue
			}
			op := Deref(doc, opRaw, pointer.Append(item.Pointer, method))
			out = append(out, Operation{
				Path:   path,
				Method: method,
				Node:   op,
				Params: mergeParams(shared, params(doc, op)),
			})
		}
	}
	return out
}

// Deref follows one local "$ref" hop from v. ptr is the pointer of v itself;
// the returned pointer is the pointer of the object actually used.
func Deref(doc rawdoc.Object, v any, ptr string) Node {
	obj, _ := rawdoc.AsObject(v)
	ref, ok := obj.Get(rawdoc.RefKey)
	if !ok {
		return Node{Raw: obj, Pointer: ptr}
	}
	s, _ := ref.(string)
	if !pointer.IsLocal(s) {
		return Node{Raw: obj, Pointer: ptr}
	}
	_, fragment := pointer.Split(s)
	target, found := pointer.Lookup(doc, fragment)
	if !found {
		return Node{Raw: rawdoc.Object{}, Pointer: s}
	}
	t, _ := rawdoc.AsObject(target)
	return Node{Raw: t, Pointer: s}
}

// Children returns the object entries of obj[key], dereferenced one hop.
func Children(doc rawdoc.Object, parent Node, key string) []Named {
	ptr := pointer.Append(parent.Pointer, key)
	var out []Named
	for name, v := range rawdoc.ObjectAt(parent.Raw, key).All() {
		out = append(out, Named{Name: name, Node: Deref(doc, v, pointer.Append(ptr, name))})
	}
	return out
}

// Named is a Node stored under a key, such as a response or a header.
type Named struct {
	Name string
	Node
}

func params(doc rawdoc.Object, n Node) []Node {
	ptr := pointer.Append(n.Pointer, "parameters")
	items := rawdoc.Slice(n.Raw, "parameters")
	out := make([]Node, 0, len(items))
	for i, item := range items {
		out = append(out, Deref(doc, item, pointer.Append(ptr, strconv.Itoa(i))))
	}
	return out
}

func mergeParams(shared, own []Node) []Node {
	if len(shared) == 0 {
		return own
	}
	out := make([]Node, 0, len(shared)+len(own))
	for _, s := range shared {
		if indexParam(own, s) < 0 {
			out = append(out, s)
		}
	}
	return append(out, own...)
}

func indexParam(list []Node, p Node) int {
	name, in := rawdoc.String(p.Raw, "name"), rawdoc.String(p.Raw, "in")
	for i, q := range list {
		if rawdoc.String(q.Raw, "name") == name && rawdoc.String(q.Raw, "in") == in {
			return i
		}
	}
	return -1
}

// Requirement is one entry of a security requirement object.
type Requirement struct {
	Name   string
	Scopes []string
}

// Security returns the security requirements of op, falling back to the
// document-level ones. An explicit empty list on the operation disables
// security.
func Security(doc rawdoc.Object, op Operation) []Requirement {
	reqs, ok := rawdoc.Get(op.Raw, "security")
	if !ok {
		reqs, _ = rawdoc.Get(doc, "security")
	}
	items, _ := reqs.([]any)
	var out []Requirement
	for _, item := range items {
		obj, _ := rawdoc.AsObject(item)
		for name := range obj.All() {
			out = append(out, Requirement{Name: name, Scopes: rawdoc.Strings(obj, name)})
		}
	}
	return out
}
