package postman

import (
	"sort"
	"strconv"
	"strings"

	"github.com/erraggy/apiflow/internal/httputil"
	"github.com/erraggy/apiflow/internal/pathutil"
	"github.com/erraggy/apiflow/model"
	"github.com/erraggy/apiflow/ordered"
	"github.com/erraggy/apiflow/rawdoc"
	"github.com/erraggy/apiflow/registry"
	"github.com/google/uuid"
)

// Serializer renders the canonical model as a Postman v2.1 collection.
type Serializer struct{}

// Describe implements registry.Serializer.
func (Serializer) Describe() registry.Descriptor { return Descriptor }

// Serialize implements registry.Serializer.
func (Serializer) Serialize(ctx model.RequestContext) ([]byte, error) {
	name := ctx.Info.Title
	if name == "" {
		name = ctx.Group.Name
	}
	if name == "" {
		name = "API"
	}

	var info ordered.Builder[any]
	info.Set("_postman_id", CollectionID(name, ctx.Info.Version).String())
	info.Set("name", name)
	if ctx.Info.Description != "" {
		info.Set("description", ctx.Info.Description)
	}
	info.Set("schema", SchemaURL)

	var doc ordered.Builder[any]
	doc.Set("info", info.Build())
	doc.Set("item", items(ctx.Group))
	return rawdoc.EncodeJSON(doc.Build())
}

// CollectionID derives the collection id from its name and version, so that
// serializing the same document twice yields the same collection.
func CollectionID(name, version string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("apiflow:"+name+":"+version))
}

func items(g model.Group) []any {
	out := make([]any, 0, g.Children.Len())
	for key, m := range g.Children.All() {
		switch v := m.(type) {
		case model.Group:
			name := v.Name
			if name == "" {
				name = key
			}
			var folder ordered.Builder[any]
			folder.Set("name", name)
			folder.Set("item", items(v))
			out = append(out, folder.Build())
		case model.Request:
			out = append(out, item(key, v))
		}
	}
	return out
}

func item(key string, r model.Request) rawdoc.Object {
	name := r.Name
	if name == "" {
		name = key
	}

	var req ordered.Builder[any]
	if a, ok := r.ActiveAuth(); ok {
		if obj, supported := auth(a); supported {
			req.Set("auth", obj)
		}
	}
	method := strings.ToUpper(r.Method)
	if method == "" {
		method = "GET"
	}
	req.Set("method", method)
	req.Set("header", headers(r))
	if b, ok := encodeBody(r); ok {
		req.Set("body", b)
	}
	req.Set("url", requestURL(r))
	if r.Description != "" {
		req.Set("description", r.Description)
	}

	var b ordered.Builder[any]
	b.Set("name", name)
	b.Set("request", req.Build())
	b.Set("response", responses(r))
	return b.Build()
}

func keyValue(kv model.KeyValue) rawdoc.Object {
	var b ordered.Builder[any]
	b.Set("key", kv.Key)
	b.Set("value", rawdoc.Scalar(kv.Value))
	return b.Build()
}

func headers(r model.Request) []any {
	out := make([]any, 0, len(r.Headers)+1)
	for _, h := range r.Headers {
		out = append(out, keyValue(h))
	}
	if _, ok := r.Header("Content-Type"); !ok && r.BodyType != "" && !httputil.IsForm(r.BodyType) {
		out = append(out, keyValue(model.KeyValue{Key: "Content-Type", Value: r.BodyType}))
	}
	return out
}

// requestURL renders the URL object. A URL without a host is rooted at the
// {{baseUrl}} variable.
func requestURL(r model.Request) rawdoc.Object {
	scheme, host, path := pathutil.SplitURL(r.URL)
	if host == "" {
		host = "{{baseUrl}}"
	}
	colonPath := pathutil.ToColon(path)

	raw := host + colonPath
	if scheme != "" {
		raw = scheme + "://" + raw
	}
	if len(r.Queries) > 0 {
		pairs := make([]string, 0, len(r.Queries))
		for _, q := range r.Queries {
			pairs = append(pairs, q.Key+"="+rawdoc.Scalar(q.Value))
		}
		raw += "?" + strings.Join(pairs, "&")
	}

	var b ordered.Builder[any]
	b.Set("raw", raw)
	if scheme != "" {
		b.Set("protocol", scheme)
	}
	b.Set("host", toAny(strings.Split(host, ".")))
	b.Set("path", toAny(pathutil.Segments(colonPath)))
	if len(r.Queries) > 0 {
		qs := make([]any, 0, len(r.Queries))
		for _, q := range r.Queries {
			qs = append(qs, keyValue(q))
		}
		b.Set("query", qs)
	}
	if names := pathutil.ParamNames(path); len(names) > 0 {
		vars := make([]any, 0, len(names))
		for _, n := range names {
			vars = append(vars, keyValue(model.KeyValue{Key: n}))
		}
		b.Set("variable", vars)
	}
	return b.Build()
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func encodeBody(r model.Request) (rawdoc.Object, bool) {
	var b ordered.Builder[any]
	switch {
	case httputil.IsForm(r.BodyType) && len(r.Body) > 0:
		mode := "urlencoded"
		if r.BodyType == httputil.MediaMultipart {
			mode = "formdata"
		}
		fields := make([]any, 0, len(r.Body))
		for _, kv := range r.Body {
			var f ordered.Builder[any]
			f.Set("key", kv.Key)
			if ref, isFile := kv.Value.(model.FileReference); isFile {
				f.Set("type", "file")
				f.Set("src", ref.FilePath)
			} else {
				f.Set("value", rawdoc.Scalar(kv.Value))
				f.Set("type", "text")
			}
			fields = append(fields, f.Build())
		}
		b.Set("mode", mode)
		b.Set(mode, fields)
	case len(r.Body) == 1 && isFile(r.Body[0]):
		var f ordered.Builder[any]
		f.Set("src", r.Body[0].Value.(model.FileReference).FilePath)
		b.Set("mode", "file")
		b.Set("file", f.Build())
	case r.BodyString != "":
		b.Set("mode", "raw")
		b.Set("raw", r.BodyString)
		setLanguage(&b, r.BodyType)
	case len(r.Body) > 0:
		raw, ok := schemaBody(r.Body)
		if !ok {
			return rawdoc.Object{}, false
		}
		b.Set("mode", "raw")
		b.Set("raw", raw)
		setLanguage(&b, r.BodyType)
	default:
		return rawdoc.Object{}, false
	}
	return b.Build(), true
}

func isFile(kv model.KeyValue) bool {
	_, ok := kv.Value.(model.FileReference)
	return ok
}

// schemaBody renders the first schema valued body field as JSON text.
func schemaBody(fields []model.KeyValue) (string, bool) {
	for _, kv := range fields {
		if s, ok := kv.Value.(model.Schema); ok {
			data, err := rawdoc.EncodeJSON(s.ToJS())
			if err != nil {
				return "", false
			}
			return strings.TrimSpace(string(data)), true
		}
	}
	return "", false
}

func setLanguage(b *ordered.Builder[any], mediaType string) {
	lang := "text"
	switch {
	case mediaType == "" || httputil.IsJSON(mediaType):
		lang = "json"
	case strings.Contains(mediaType, "xml"):
		lang = "xml"
	case strings.Contains(mediaType, "html"):
		lang = "html"
	case strings.Contains(mediaType, "javascript"):
		lang = "javascript"
	}
	var raw ordered.Builder[any]
	raw.Set("language", lang)
	var opts ordered.Builder[any]
	opts.Set("raw", raw.Build())
	b.Set("options", opts.Build())
}

// auth renders a in the v2.1 key/value list form. Negotiate has no Postman
// equivalent.
func auth(a model.Auth) (rawdoc.Object, bool) {
	var typ string
	attrs := map[string]any{}

	switch v := a.(type) {
	case model.BasicAuth:
		typ = "basic"
		attrs["username"] = v.Username()
		attrs["password"] = v.Password()
	case model.DigestAuth, model.NTLMAuth, model.OAuth1Auth:
		typ = string(a.Type())
		for k, val := range a.Params() {
			attrs[k] = rawdoc.Scalar(val)
		}
	case model.ApiKeyAuth:
		if tok, ok := strings.CutPrefix(v.Key(), "Bearer "); ok && strings.EqualFold(v.Name(), "Authorization") {
			typ = "bearer"
			attrs["token"] = tok
			break
		}
		typ = "apikey"
		attrs["key"] = v.Name()
		attrs["value"] = v.Key()
		attrs["in"] = v.In()
	case model.OAuth2Auth:
		typ = "oauth2"
		cfg := v.ClientConfig()
		attrs["grant_type"] = v.Flow()
		attrs["authUrl"] = cfg.Endpoint.AuthURL
		attrs["accessTokenUrl"] = cfg.Endpoint.TokenURL
		attrs["clientId"] = cfg.ClientID
		attrs["clientSecret"] = cfg.ClientSecret
		attrs["redirect_uri"] = cfg.RedirectURL
		attrs["scope"] = strings.Join(cfg.Scopes, " ")
	default:
		return rawdoc.Object{}, false
	}

	keys := make([]string, 0, len(attrs))
	for k, val := range attrs {
		if rawdoc.Scalar(val) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	list := make([]any, 0, len(keys))
	for _, k := range keys {
		var e ordered.Builder[any]
		e.Set("key", k)
		e.Set("value", attrs[k])
		e.Set("type", "string")
		list = append(list, e.Build())
	}

	var b ordered.Builder[any]
	b.Set("type", typ)
	b.Set(typ, list)
	return b.Build(), true
}

func responses(r model.Request) []any {
	out := make([]any, 0, len(r.Responses))
	for _, resp := range r.Responses {
		var b ordered.Builder[any]
		name := resp.Description
		if name == "" {
			name = resp.Code
		}
		b.Set("name", name)
		if code, err := strconv.Atoi(resp.Code); err == nil {
			b.Set("code", code)
		}
		hs := make([]any, 0, len(resp.Headers))
		for _, h := range resp.Headers {
			hs = append(hs, keyValue(h))
		}
		b.Set("header", hs)
		out = append(out, b.Build())
	}
	return out
}

var _ registry.Serializer = Serializer{}
