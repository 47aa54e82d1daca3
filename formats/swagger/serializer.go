package swagger

import (
	"strings"

	"github.com/erraggy/apiflow/formats/internal/named"
	"github.com/erraggy/apiflow/internal/httputil"
	"github.com/erraggy/apiflow/internal/naming"
	"github.com/erraggy/apiflow/internal/pathutil"
	"github.com/erraggy/apiflow/model"
	"github.com/erraggy/apiflow/ordered"
	"github.com/erraggy/apiflow/rawdoc"
	"github.com/erraggy/apiflow/registry"
)

// Serializer renders the canonical model as a Swagger 2.0 JSON document.
type Serializer struct{}

// Describe implements registry.Serializer.
func (Serializer) Describe() registry.Descriptor { return Descriptor }

// Serialize implements registry.Serializer.
func (Serializer) Serialize(ctx model.RequestContext) ([]byte, error) {
	w := &writer{}
	ctx.Group.Walk(func(path []string, r model.Request) {
		w.addRequest(ctx.Group, path, r)
	})

	var doc ordered.Builder[any]
	doc.Set("swagger", Version)
	doc.Set("info", info(ctx))
	if w.host != "" {
		doc.Set("host", w.host)
	}
	if w.scheme != "" {
		doc.Set("schemes", []any{w.scheme})
	}
	doc.Set("paths", w.buildPaths())
	if w.security.Len() > 0 {
		doc.Set("securityDefinitions", w.security.Build())
	}
	if defs, ok := definitions(ctx.Schema); ok {
		doc.Set("definitions", defs)
	}
	return rawdoc.EncodeJSON(doc.Build())
}

func info(ctx model.RequestContext) rawdoc.Object {
	title := ctx.Info.Title
	if title == "" {
		title = ctx.Group.Name
	}
	if title == "" {
		title = "API"
	}
	version := ctx.Info.Version
	if version == "" {
		version = "1.0.0"
	}
	var b ordered.Builder[any]
	b.Set("title", title)
	b.Set("version", version)
	if ctx.Info.Description != "" {
		b.Set("description", ctx.Info.Description)
	}
	return b.Build()
}

// definitions returns the reusable schemas of the source document.
func definitions(s model.Schema) (any, bool) {
	for _, path := range [][]string{{"definitions"}, {"components", "schemas"}} {
		n, ok := s.Lookup(path...)
		if !ok {
			continue
		}
		if sch, isSchema := n.(model.Schema); isSchema && !sch.IsLeaf() {
			return rewriteRefs(sch.ToJS()), true
		}
	}
	return nil, false
}

func rewriteRefs(v any) any {
	return rawdoc.MapRefs(v, pathutil.ToDefinitionRef)
}

type writer struct {
	scheme   string
	host     string
	paths    ordered.Builder[*ordered.Builder[any]]
	security named.Set
}

func (w *writer) buildPaths() rawdoc.Object {
	var b ordered.Builder[any]
	for path, item := range w.paths.Build().All() {
		b.Set(path, item.Build())
	}
	return b.Build()
}

func (w *writer) addRequest(root model.Group, groupPath []string, r model.Request) {
	scheme, host, path := pathutil.SplitURL(r.URL)
	if w.host == "" && host != "" {
		w.scheme, w.host = scheme, host
	}

	method := strings.ToLower(r.Method)
	if !httputil.IsMethod(method) {
		method = httputil.MethodGet
	}

	var op ordered.Builder[any]
	if tag := tagFor(root, groupPath); tag != "" {
		op.Set("tags", []any{tag})
	}
	if r.Name != "" {
		op.Set("summary", r.Name)
	}
	if r.Description != "" {
		op.Set("description", r.Description)
	}
	op.Set("operationId", naming.OperationID(method, path))
	if r.BodyType != "" {
		op.Set("consumes", []any{r.BodyType})
	}
	if params := parameters(path, r); len(params) > 0 {
		op.Set("parameters", params)
	}
	op.Set("responses", responses(r.Responses))
	if sec := w.requirements(r.Auth); len(sec) > 0 {
		op.Set("security", sec)
	}

	item, ok := w.paths.Get(path)
	if !ok {
		item = &ordered.Builder[any]{}
		w.paths.Set(path, item)
	}
	item.Set(method, op.Build())
}

// tagFor returns the name of the innermost enclosing group that is a folder
// rather than a path.
func tagFor(root model.Group, groupPath []string) string {
	for i := len(groupPath); i > 0; i-- {
		if strings.HasPrefix(groupPath[i-1], "/") {
			continue
		}
		if m, ok := root.Find(groupPath[:i]...); ok {
			return m.MemberName()
		}
	}
	return ""
}

func parameters(path string, r model.Request) []any {
	var out []any
	for _, name := range pathutil.ParamNames(path) {
		out = append(out, param(name, "path", "string", true))
	}
	for _, h := range r.Headers {
		if strings.EqualFold(h.Key, "Content-Type") {
			continue
		}
		out = append(out, param(h.Key, "header", valueType(h), false))
	}
	for _, q := range r.Queries {
		out = append(out, param(q.Key, "query", valueType(q), false))
	}

	if httputil.IsForm(r.BodyType) {
		for _, f := range r.Body {
			out = append(out, param(f.Key, "formData", valueType(f), false))
		}
		return out
	}

	if body, ok := bodyParam(r); ok {
		out = append(out, body)
	}
	return out
}

func bodyParam(r model.Request) (rawdoc.Object, bool) {
	for _, kv := range r.Body {
		s, ok := kv.Value.(model.Schema)
		if !ok {
			continue
		}
		name := kv.Key
		if name == "" {
			name = "body"
		}
		var b ordered.Builder[any]
		b.Set("name", name)
		b.Set("in", "body")
		b.Set("required", true)
		b.Set("schema", rewriteRefs(s.ToJS()))
		return b.Build(), true
	}
	if r.BodyString == "" && len(r.Body) == 0 {
		return rawdoc.Object{}, false
	}
	var schema ordered.Builder[any]
	schema.Set("type", "string")
	if r.BodyString != "" {
		schema.Set("example", r.BodyString)
	}
	var b ordered.Builder[any]
	b.Set("name", "body")
	b.Set("in", "body")
	b.Set("schema", schema.Build())
	return b.Build(), true
}

func param(name, in, typ string, required bool) rawdoc.Object {
	var b ordered.Builder[any]
	b.Set("name", name)
	b.Set("in", in)
	if required {
		b.Set("required", true)
	}
	b.Set("type", typ)
	return b.Build()
}

// valueType maps a KeyValue to a Swagger primitive type.
func valueType(kv model.KeyValue) string {
	if _, ok := kv.Value.(model.FileReference); ok {
		return "file"
	}
	switch kv.ValueType {
	case "string", "number", "integer", "boolean", "array", "file":
		return kv.ValueType
	}
	switch kv.Value.(type) {
	case int, int64:
		return "integer"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return "string"
	}
}

func responses(rs []model.Response) rawdoc.Object {
	var b ordered.Builder[any]
	for _, r := range rs {
		code := r.Code
		if code == "" {
			code = "default"
		}
		var resp ordered.Builder[any]
		desc := r.Description
		if desc == "" {
			desc = "Response " + code
		}
		resp.Set("description", desc)
		if r.Schema != nil {
			resp.Set("schema", rewriteRefs(r.Schema.ToJS()))
		}
		if len(r.Headers) > 0 {
			var headers ordered.Builder[any]
			for _, h := range r.Headers {
				var hb ordered.Builder[any]
				hb.Set("type", valueType(h))
				headers.Set(h.Key, hb.Build())
			}
			resp.Set("headers", headers.Build())
		}
		b.Set(code, resp.Build())
	}
	if b.Len() == 0 {
		var resp ordered.Builder[any]
		resp.Set("description", "Default response")
		b.Set("default", resp.Build())
	}
	return b.Build()
}

// requirements registers the security definitions used by auths and returns
// the matching requirement list. Schemes Swagger cannot express are skipped.
func (w *writer) requirements(auths []model.Auth) []any {
	var out []any
	for _, a := range auths {
		def, scopes, ok := securityDefinition(a)
		if !ok {
			continue
		}
		name := w.security.Define(string(a.Type()), def)
		var req ordered.Builder[any]
		req.Set(name, scopes)
		out = append(out, req.Build())
	}
	return out
}

func securityDefinition(a model.Auth) (rawdoc.Object, []any, bool) {
	var b ordered.Builder[any]
	scopes := []any{}
	switch v := a.(type) {
	case model.BasicAuth:
		b.Set("type", "basic")
	case model.ApiKeyAuth:
		b.Set("type", "apiKey")
		name := v.Name()
		if name == "" {
			name = "Authorization"
		}
		b.Set("name", name)
		in := v.In()
		if in != "query" {
			in = "header"
		}
		b.Set("in", in)
	case model.OAuth2Auth:
		b.Set("type", "oauth2")
		flow := swaggerFlow(v.Flow())
		b.Set("flow", flow)
		if flow == "implicit" || flow == "accessCode" {
			b.Set("authorizationUrl", v.AuthorizationURL())
		}
		if flow != "implicit" {
			b.Set("tokenUrl", v.TokenURL())
		}
		var defined ordered.Builder[any]
		for _, s := range v.Scopes() {
			defined.Set(s, "")
			scopes = append(scopes, s)
		}
		b.Set("scopes", defined.Build())
	default:
		return rawdoc.Object{}, nil, false
	}
	if d, ok := a.Param(model.ParamDescription); ok {
		b.Set("description", rawdoc.Scalar(d))
	}
	return b.Build(), scopes, true
}

// swaggerFlow maps OpenAPI 3 and Postman grant names to Swagger flows.
func swaggerFlow(flow string) string {
	switch flow {
	case "implicit":
		return "implicit"
	case "password":
		return "password"
	case "application", "clientCredentials", "client_credentials":
		return "application"
	case "accessCode", "authorizationCode", "authorization_code":
		return "accessCode"
	default:
		return "implicit"
	}
}

var _ registry.Serializer = Serializer{}
