package raml

import (
	"strconv"
	"strings"

	"github.com/erraggy/apiflow/formats/internal/named"
	"github.com/erraggy/apiflow/internal/httputil"
	"github.com/erraggy/apiflow/internal/pathutil"
	"github.com/erraggy/apiflow/model"
	"github.com/erraggy/apiflow/ordered"
	"github.com/erraggy/apiflow/rawdoc"
	"github.com/erraggy/apiflow/registry"
)

// Serializer renders the canonical model as RAML 1.0 YAML.
type Serializer struct{}

// Describe implements registry.Serializer.
func (Serializer) Describe() registry.Descriptor { return Descriptor }

// Serialize implements registry.Serializer.
func (Serializer) Serialize(ctx model.RequestContext) ([]byte, error) {
	w := &writer{root: &resource{}}
	types, ramlTypes := collectTypes(ctx.Schema)
	w.ramlTypes = ramlTypes
	ctx.Group.Walk(func(_ []string, r model.Request) { w.add(r) })

	var doc ordered.Builder[any]
	title := ctx.Info.Title
	if title == "" {
		title = ctx.Group.Name
	}
	if title == "" {
		title = "API"
	}
	doc.Set("title", title)
	if ctx.Info.Version != "" {
		doc.Set("version", ctx.Info.Version)
	}
	if ctx.Info.Description != "" {
		doc.Set("description", ctx.Info.Description)
	}
	if w.baseURI != "" {
		doc.Set("baseUri", w.baseURI)
	}
	if w.security.Len() > 0 {
		doc.Set("securitySchemes", w.security.Build())
	}
	if types.Len() > 0 {
		doc.Set("types", types)
	}
	for key, v := range w.root.render().All() {
		doc.Set(key, v)
	}

	body, err := rawdoc.EncodeYAML(doc.Build())
	if err != nil {
		return nil, err
	}
	return append([]byte(Header+"\n"), body...), nil
}

// collectTypes returns the named types of the source document. RAML sources
// keep their type declarations; JSON Schema definitions from Swagger or
// OpenAPI sources are embedded as JSON text.
func collectTypes(s model.Schema) (rawdoc.Object, bool) {
	if n, ok := s.Lookup("types"); ok {
		if obj, isObj := rawdoc.AsObject(n.ToJS()); isObj {
			return obj, true
		}
	}
	for _, path := range [][]string{{"definitions"}, {"components", "schemas"}} {
		n, ok := s.Lookup(path...)
		if !ok {
			continue
		}
		defs, isObj := rawdoc.AsObject(n.ToJS())
		if !isObj {
			continue
		}
		var b ordered.Builder[any]
		for name, def := range defs.All() {
			b.Set(name, jsonText(def))
		}
		return b.Build(), false
	}
	return rawdoc.Object{}, false
}

func jsonText(v any) string {
	data, err := rawdoc.EncodeJSON(v)
	if err != nil {
		return ""
	}
	return string(data)
}

type resource struct {
	methods  ordered.Builder[any]
	children ordered.Builder[*resource]
}

func (r *resource) child(segment string) *resource {
	key := "/" + segment
	c, ok := r.children.Get(key)
	if !ok {
		c = &resource{}
		r.children.Set(key, c)
	}
	return c
}

func (r *resource) render() rawdoc.Object {
	out := r.methods.Build().Builder()
	for key, c := range r.children.Build().All() {
		out.Set(key, c.render())
	}
	return out.Build()
}

type writer struct {
	root      *resource
	baseURI   string
	ramlTypes bool
	security  named.Set
}

func (w *writer) add(r model.Request) {
	scheme, host, path := pathutil.SplitURL(r.URL)
	if w.baseURI == "" && host != "" {
		if scheme == "" {
			scheme = "http"
		}
		w.baseURI = scheme + "://" + host
	}

	res := w.root
	for _, seg := range pathutil.Segments(path) {
		res = res.child(seg)
	}

	method := strings.ToLower(r.Method)
	if !httputil.IsMethod(method) {
		method = httputil.MethodGet
	}
	res.methods.Set(method, w.method(r))
}

func (w *writer) method(r model.Request) rawdoc.Object {
	var m ordered.Builder[any]
	if r.Name != "" {
		m.Set("displayName", r.Name)
	}
	if r.Description != "" {
		m.Set("description", r.Description)
	}
	if headers := properties(r.Headers); headers.Len() > 0 {
		m.Set("headers", headers)
	}
	if queries := properties(r.Queries); queries.Len() > 0 {
		m.Set("queryParameters", queries)
	}
	if body, ok := w.body(r); ok {
		m.Set("body", body)
	}
	if responses := w.responses(r.Responses); responses.Len() > 0 {
		m.Set("responses", responses)
	}
	if secured := w.securedBy(r.Auth); len(secured) > 0 {
		m.Set("securedBy", secured)
	}
	return m.Build()
}

func properties(kvs []model.KeyValue) rawdoc.Object {
	var b ordered.Builder[any]
	for _, kv := range kvs {
		var p ordered.Builder[any]
		p.Set("type", propertyType(kv))
		if kv.Value != nil {
			if _, isFile := kv.Value.(model.FileReference); !isFile {
				p.Set("example", kv.Value)
			}
		}
		b.Set(kv.Key, p.Build())
	}
	return b.Build()
}

func propertyType(kv model.KeyValue) string {
	if _, ok := kv.Value.(model.FileReference); ok {
		return "file"
	}
	switch kv.ValueType {
	case "string", "number", "integer", "boolean", "array", "object", "file", "date-only", "datetime":
		return kv.ValueType
	}
	return "string"
}

func (w *writer) body(r model.Request) (rawdoc.Object, bool) {
	if len(r.Body) == 0 && r.BodyString == "" {
		return rawdoc.Object{}, false
	}
	mediaType := r.BodyType
	if mediaType == "" {
		mediaType = httputil.MediaJSON
	}

	var decl ordered.Builder[any]
	if httputil.IsForm(mediaType) {
		decl.Set("properties", properties(r.Body))
	} else {
		for _, kv := range r.Body {
			if s, ok := kv.Value.(model.Schema); ok {
				decl.Set("type", w.typeOf(s))
				break
			}
		}
		if !decl.Has("type") {
			decl.Set("type", "string")
		}
		if r.BodyString != "" {
			decl.Set("example", r.BodyString)
		}
	}

	var b ordered.Builder[any]
	b.Set(mediaType, decl.Build())
	return b.Build(), true
}

// typeOf renders a schema as a RAML type: the type name for a bare
// reference, an inline declaration for RAML sources, JSON text otherwise.
func (w *writer) typeOf(s model.Schema) any {
	if ref, ok := s.Ref(); ok && s.Map.Len() == 1 && !ref.Resolved {
		return pathutil.RefName(ref.Reference)
	}
	rendered := s.ToJS()
	if w.ramlTypes {
		return rendered
	}
	return jsonText(rendered)
}

func (w *writer) responses(rs []model.Response) rawdoc.Object {
	var b ordered.Builder[any]
	for _, r := range rs {
		code, ok := responseCode(r.Code)
		if !ok || b.Has(code) {
			continue
		}
		var resp ordered.Builder[any]
		if r.Description != "" {
			resp.Set("description", r.Description)
		}
		if headers := properties(r.Headers); headers.Len() > 0 {
			resp.Set("headers", headers)
		}
		if r.Schema != nil {
			var decl ordered.Builder[any]
			decl.Set("type", w.typeOf(*r.Schema))
			var body ordered.Builder[any]
			body.Set(httputil.MediaJSON, decl.Build())
			resp.Set("body", body.Build())
		}
		b.Set(code, resp.Build())
	}
	return b.Build()
}

// responseCode maps a response key to a RAML status code. "default" stands
// for 200; wildcard and extension keys have no RAML equivalent.
func responseCode(code string) (string, bool) {
	if code == "default" || code == "" {
		return "200", true
	}
	if n, err := strconv.Atoi(code); err == nil && n >= 100 && n <= 599 {
		return code, true
	}
	return "", false
}

func (w *writer) securedBy(auths []model.Auth) []any {
	var out []any
	for _, a := range auths {
		def, scopes := securityScheme(a)
		name := w.security.Define(string(a.Type()), def)
		if len(scopes) == 0 {
			out = append(out, name)
			continue
		}
		var params ordered.Builder[any]
		params.Set("scopes", scopes)
		var ref ordered.Builder[any]
		ref.Set(name, params.Build())
		out = append(out, ref.Build())
	}
	return out
}

func securityScheme(a model.Auth) (rawdoc.Object, []any) {
	var b ordered.Builder[any]
	var settings ordered.Builder[any]
	var scopes []any
	setIf := func(key, v string) {
		if v != "" {
			settings.Set(key, v)
		}
	}

	switch v := a.(type) {
	case model.BasicAuth:
		b.Set("type", SchemeBasic)
	case model.DigestAuth:
		b.Set("type", SchemeDigest)
	case model.NTLMAuth:
		b.Set("type", SchemeNTLM)
	case model.NegotiateAuth:
		b.Set("type", SchemeNegotiate)
	case model.ApiKeyAuth:
		b.Set("type", SchemePass)
		name := v.Name()
		if name == "" {
			name = "Authorization"
		}
		var prop ordered.Builder[any]
		prop.Set("type", "string")
		var props ordered.Builder[any]
		props.Set(name, prop.Build())
		var described ordered.Builder[any]
		if v.In() == "query" {
			described.Set("queryParameters", props.Build())
		} else {
			described.Set("headers", props.Build())
		}
		b.Set("describedBy", described.Build())
	case model.OAuth1Auth:
		b.Set("type", SchemeOAuth1)
		setIf("requestTokenUri", v.RequestTokenURL())
		setIf("authorizationUri", v.AuthorizationURL())
		setIf("tokenCredentialsUri", v.TokenURL())
		settings.Set("signatures", []any{v.SignatureMethod()})
	case model.OAuth2Auth:
		b.Set("type", SchemeOAuth2)
		setIf("authorizationUri", v.AuthorizationURL())
		setIf("accessTokenUri", v.TokenURL())
		if flow := v.Flow(); flow != "" {
			settings.Set("authorizationGrants", []any{flow})
		}
		for _, s := range v.Scopes() {
			scopes = append(scopes, s)
		}
		if len(scopes) > 0 {
			settings.Set("scopes", scopes)
		}
	}
	if d, ok := a.Param(model.ParamDescription); ok {
		b.Set("description", rawdoc.Scalar(d))
	}
	if settings.Len() > 0 {
		b.Set("settings", settings.Build())
	}
	return b.Build(), scopes
}

var _ registry.Serializer = Serializer{}
