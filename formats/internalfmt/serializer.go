package internalfmt

import (
	"sort"

	"github.com/erraggy/apiflow/model"
	"github.com/erraggy/apiflow/ordered"
	"github.com/erraggy/apiflow/rawdoc"
	"github.com/erraggy/apiflow/registry"
)

// Serializer renders the canonical model as an internal JSON document.
type Serializer struct{}

// Describe implements registry.Serializer.
func (Serializer) Describe() registry.Descriptor { return Descriptor }

// Serialize implements registry.Serializer.
func (Serializer) Serialize(ctx model.RequestContext) ([]byte, error) {
	var info ordered.Builder[any]
	info.Set("title", ctx.Info.Title)
	info.Set("version", ctx.Info.Version)
	if ctx.Info.Description != "" {
		info.Set("description", ctx.Info.Description)
	}

	var doc ordered.Builder[any]
	doc.Set("apiflow", Version)
	doc.Set("info", info.Build())
	if !ctx.Schema.IsLeaf() || ctx.Schema.Value != nil {
		doc.Set("schema", ctx.Schema.ToJS())
	}
	doc.Set("group", encodeGroup(ctx.Group))
	return rawdoc.EncodeJSON(doc.Build())
}

func encodeGroup(g model.Group) rawdoc.Object {
	children := make([]any, 0, g.Children.Len())
	for key, m := range g.Children.All() {
		var c ordered.Builder[any]
		c.Set("key", key)
		switch v := m.(type) {
		case model.Group:
			c.Set("group", encodeGroup(v))
		case model.Request:
			c.Set("request", encodeRequest(v))
		}
		children = append(children, c.Build())
	}

	var b ordered.Builder[any]
	b.Set("name", g.Name)
	b.Set("children", children)
	return b.Build()
}

func encodeRequest(r model.Request) rawdoc.Object {
	var b ordered.Builder[any]
	setString(&b, "name", r.Name)
	setString(&b, "description", r.Description)
	b.Set("method", r.Method)
	b.Set("url", r.URL)
	setList(&b, "headers", encodeKeyValues(r.Headers))
	setList(&b, "queries", encodeKeyValues(r.Queries))
	setString(&b, "bodyType", r.BodyType)
	setString(&b, "bodyString", r.BodyString)
	setList(&b, "body", encodeKeyValues(r.Body))
	setList(&b, "auth", auths(r.Auth))
	setList(&b, "responses", responses(r.Responses))
	if r.Timeout > 0 {
		b.Set("timeout", r.Timeout.String())
	}
	return b.Build()
}

func setString(b *ordered.Builder[any], key, v string) {
	if v != "" {
		b.Set(key, v)
	}
}

func setList(b *ordered.Builder[any], key string, v []any) {
	if len(v) > 0 {
		b.Set(key, v)
	}
}

func encodeKeyValues(kvs []model.KeyValue) []any {
	out := make([]any, 0, len(kvs))
	for _, kv := range kvs {
		var b ordered.Builder[any]
		b.Set("key", kv.Key)
		setString(&b, "type", kv.ValueType)
		switch v := kv.Value.(type) {
		case model.FileReference:
			var f ordered.Builder[any]
			f.Set("path", v.FilePath)
			if v.Convert {
				f.Set("convert", true)
			}
			b.Set("file", f.Build())
		case model.Schema:
			b.Set("uri", v.URI)
			b.Set("schema", v.ToJS())
		case *model.Schema:
			b.Set("uri", v.URI)
			b.Set("schema", v.ToJS())
		default:
			if v != nil {
				b.Set("value", v)
			}
		}
		out = append(out, b.Build())
	}
	return out
}

func auths(list []model.Auth) []any {
	out := make([]any, 0, len(list))
	for _, a := range list {
		params := a.Params()
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var p ordered.Builder[any]
		for _, k := range keys {
			p.Set(k, params[k])
		}

		var b ordered.Builder[any]
		b.Set("type", string(a.Type()))
		b.Set("params", p.Build())
		out = append(out, b.Build())
	}
	return out
}

func responses(list []model.Response) []any {
	out := make([]any, 0, len(list))
	for _, r := range list {
		var b ordered.Builder[any]
		b.Set("code", r.Code)
		setString(&b, "description", r.Description)
		if r.Schema != nil {
			b.Set("uri", r.Schema.URI)
			b.Set("schema", r.Schema.ToJS())
		}
		setList(&b, "headers", encodeKeyValues(r.Headers))
		out = append(out, b.Build())
	}
	return out
}

var _ registry.Serializer = Serializer{}
