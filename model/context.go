package model

import (
	"github.com/erraggy/apiflow/ordered"
)

// Member is a child of a Group: either a Group or a Request.
type Member interface {
	MemberName() string
	groupMember()
}

// Group is a hierarchical namespace of requests, such as a folder, a tag or
// a path.
type Group struct {
	Name     string
	Children ordered.Map[Member]
}

// NewGroup returns an empty group.
func NewGroup(name string) Group {
	return Group{Name: name}
}

// MemberName implements Member.
func (g Group) MemberName() string { return g.Name }

func (Group) groupMember() {}

// WithChild returns a copy of g where key maps to m.
func (g Group) WithChild(key string, m Member) Group {
	g.Children = g.Children.With(key, m)
	return g
}

// WithMember returns a copy of g where m is stored under key inside the
// nested groups named by path. Missing groups are created and named after
// their key; an existing non-group member on the path is replaced by a group.
func (g Group) WithMember(path []string, key string, m Member) Group {
	if len(path) == 0 {
		return g.WithChild(key, m)
	}
	child, ok := g.Children.Get(path[0])
	sub, isGroup := child.(Group)
	if !ok || !isGroup {
		sub = NewGroup(path[0])
	}
	return g.WithChild(path[0], sub.WithMember(path[1:], key, m))
}

// Find follows keys through nested groups.
func (g Group) Find(keys ...string) (Member, bool) {
	var cur Member = g
	for _, k := range keys {
		grp, ok := cur.(Group)
		if !ok {
			return nil, false
		}
		cur, ok = grp.Children.Get(k)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Walk calls fn for every request below g, depth first in child order. path
// holds the keys of the enclosing groups below g.
func (g Group) Walk(fn func(path []string, r Request)) {
	g.walk(nil, fn)
}

func (g Group) walk(path []string, fn func([]string, Request)) {
	for key, m := range g.Children.All() {
		switch v := m.(type) {
		case Request:
			fn(path, v)
		case Group:
			v.walk(append(path[:len(path):len(path)], key), fn)
		}
	}
}

// Requests returns every request below g, depth first.
func (g Group) Requests() []Request {
	var out []Request
	g.Walk(func(_ []string, r Request) {
		out = append(out, r)
	})
	return out
}

// MapRequests returns a copy of g with fn applied to every request below it.
func (g Group) MapRequests(fn func(Request) Request) Group {
	if g.Children.Len() == 0 {
		return g
	}
	var b ordered.Builder[Member]
	for key, m := range g.Children.All() {
		switch v := m.(type) {
		case Request:
			b.Set(key, fn(v))
		case Group:
			b.Set(key, v.MapRequests(fn))
		default:
			b.Set(key, m)
		}
	}
	g.Children = b.Build()
	return g
}

// Info is descriptive metadata of a document.
type Info struct {
	Title       string
	Version     string
	Description string
}

// RequestContext is the root of a canonical document.
type RequestContext struct {
	Info   Info
	Schema Schema
	Group  Group
}

// Resolve returns a copy of c where the document schema and every request
// and response schema are resolved against the document schema, following
// references up to depth hops (see Schema.Resolve).
func (c RequestContext) Resolve(depth int) RequestContext {
	base := c.Schema
	c.Schema = base.Resolve(depth, base)
	c.Group = c.Group.MapRequests(func(r Request) Request {
		if len(r.Body) > 0 {
			body := make([]KeyValue, len(r.Body))
			for i, kv := range r.Body {
				if s, ok := kv.Value.(Schema); ok {
					kv.Value = s.Resolve(depth, base)
				}
				body[i] = kv
			}
			r.Body = body
		}
		if len(r.Responses) > 0 {
			responses := make([]Response, len(r.Responses))
			for i, resp := range r.Responses {
				if resp.Schema != nil {
					resolved := resp.Schema.Resolve(depth, base)
					resp.Schema = &resolved
				}
				responses[i] = resp
			}
			r.Responses = responses
		}
		return r
	})
	return c
}
