package openapi

import (
	"strings"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/erraggy/apiflow/formats/internal/oaswalk"
	"github.com/erraggy/apiflow/internal/httputil"
	"github.com/erraggy/apiflow/internal/naming"
	"github.com/erraggy/apiflow/model"
	"github.com/erraggy/apiflow/pointer"
	"github.com/erraggy/apiflow/rawdoc"
	"github.com/erraggy/apiflow/registry"
)

// Parser builds the canonical model from a loaded OpenAPI document.
type Parser struct{}

// Describe implements registry.Parser.
func (Parser) Describe() registry.Descriptor { return Descriptor }

// Score implements registry.Parser.
func (Parser) Score(raw any) float64 { return Detector.ScoreRaw(raw) }

// Parse implements registry.Parser.
func (Parser) Parse(raw any) (model.RequestContext, error) {
	doc, ok := rawdoc.AsObject(raw)
	if !ok {
		return model.RequestContext{}, &flowerrors.ParseError{
			Format:  string(registry.FormatOpenAPI),
			Message: "document root is not an object",
		}
	}

	ctx := model.RequestContext{
		Info: model.Info{
			Title:       rawdoc.String(doc, "info", "title"),
			Version:     rawdoc.String(doc, "info", "version"),
			Description: rawdoc.String(doc, "info", "description"),
		},
		Schema: model.SchemaFrom(doc),
		Group:  model.NewGroup(rawdoc.String(doc, "info", "title")),
	}

	base := ServerURL(doc)
	for _, op := range oaswalk.Operations(doc) {
		req, err := parseOperation(doc, base, op)
		if err != nil {
			return model.RequestContext{}, err
		}
		ctx.Group = ctx.Group.WithMember([]string{op.Path}, op.Method, req)
	}
	return ctx, nil
}

// ServerURL returns the URL of the first server with its variables replaced
// by their defaults. Relative and missing URLs fall back to
// http://localhost.
func ServerURL(doc rawdoc.Object) string {
	servers := rawdoc.Slice(doc, "servers")
	if len(servers) == 0 {
		return "http://localhost"
	}
	server, _ := rawdoc.AsObject(servers[0])
	u := rawdoc.String(server, "url")
	for name := range rawdoc.ObjectAt(server, "variables").All() {
		u = strings.ReplaceAll(u, "{"+name+"}", rawdoc.String(server, "variables", name, "default"))
	}
	if !strings.Contains(u, "://") {
		u = "http://localhost" + ensureSlash(u)
	}
	return strings.TrimSuffix(u, "/")
}

func ensureSlash(p string) string {
	if p == "" || strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

func parseOperation(doc rawdoc.Object, base string, op oaswalk.Operation) (model.Request, error) {
	req := model.Request{
		Name:        naming.RequestName(rawdoc.String(op.Raw, "summary"), op.Method, op.Path),
		Description: rawdoc.String(op.Raw, "description"),
		URL:         base + op.Path,
		Method:      strings.ToUpper(op.Method),
	}

	for _, p := range op.Params {
		req = applyParam(req, p)
	}

	if body, ok := rawdoc.Get(op.Raw, "requestBody"); ok {
		req = applyBody(req, oaswalk.Deref(doc, body, pointer.Append(op.Pointer, "requestBody")))
	}

	req, err := applySecurity(req, doc, op)
	if err != nil {
		return model.Request{}, err
	}

	for _, r := range oaswalk.Children(doc, op.Node, "responses") {
		if !httputil.ValidateStatusCode(r.Name) {
			continue
		}
		req = req.WithResponse(parseResponse(doc, r))
	}
	return req, nil
}

func schemaType(p rawdoc.Object) string {
	return rawdoc.String(p, "schema", "type")
}

func applyParam(req model.Request, p oaswalk.Node) model.Request {
	name := rawdoc.String(p.Raw, "name")
	value, ok := rawdoc.Get(p.Raw, "example")
	if !ok {
		value, _ = rawdoc.Get(p.Raw, "schema", "default")
	}
	kv := model.KeyValue{Key: name, Value: value, ValueType: schemaType(p.Raw)}

	switch rawdoc.String(p.Raw, "in") {
	case "header":
		return req.WithHeader(kv)
	case "query":
		return req.WithQuery(kv)
	case "cookie":
		return req.WithHeader(model.KeyValue{Key: "Cookie", Value: name + "=" + rawdoc.Scalar(value), ValueType: "string"})
	default:
		return req
	}
}

// applyBody maps the first media type of a request body. Form media types
// become one body field per schema property; anything else becomes a single
// schema-valued field.
func applyBody(req model.Request, body oaswalk.Node) model.Request {
	content := rawdoc.ObjectAt(body.Raw, "content")
	keys := content.Keys()
	if len(keys) == 0 {
		return req
	}
	mediaType := keys[0]
	req.BodyType = mediaType
	schemaPtr := pointer.Append(pointer.Append(pointer.Append(body.Pointer, "content"), mediaType), "schema")
	schemaRaw, _ := rawdoc.Get(content, mediaType, "schema")

	if httputil.IsForm(mediaType) {
		props := rawdoc.ObjectAt(content, mediaType, "schema", "properties")
		if props.Len() > 0 {
			for name, v := range props.All() {
				prop, _ := rawdoc.AsObject(v)
				typ := rawdoc.String(prop, "type")
				var value any
				if rawdoc.String(prop, "format") == "binary" {
					typ = "file"
					value = model.FileReference{FilePath: name}
				} else {
					value, _ = rawdoc.Get(prop, "default")
				}
				req = req.WithBody(model.KeyValue{Key: name, Value: value, ValueType: typ})
			}
			return req
		}
	}

	schema := model.Schema{URI: schemaPtr}.MergeSchema(schemaRaw)
	return req.WithBody(model.KeyValue{Key: "body", Value: schema, ValueType: "schema"})
}

func parseResponse(doc rawdoc.Object, r oaswalk.Named) model.Response {
	resp := model.Response{
		Code:        r.Name,
		Description: rawdoc.String(r.Raw, "description"),
	}
	content := rawdoc.ObjectAt(r.Raw, "content")
	if mediaType, ok := preferredMediaType(content.Keys()); ok {
		if schemaRaw, found := rawdoc.Get(content, mediaType, "schema"); found {
			ptr := pointer.Append(pointer.Append(pointer.Append(r.Pointer, "content"), mediaType), "schema")
			s := model.Schema{URI: ptr}.MergeSchema(schemaRaw)
			resp.Schema = &s
		}
	}
	for _, h := range oaswalk.Children(doc, r.Node, "headers") {
		value, _ := rawdoc.Get(h.Raw, "example")
		resp = resp.WithHeader(model.KeyValue{Key: h.Name, Value: value, ValueType: schemaType(h.Raw)})
	}
	return resp
}

func preferredMediaType(types []string) (string, bool) {
	for _, t := range types {
		if httputil.IsJSON(t) {
			return t, true
		}
	}
	if len(types) > 0 {
		return types[0], true
	}
	return "", false
}

func applySecurity(req model.Request, doc rawdoc.Object, op oaswalk.Operation) (model.Request, error) {
	for _, sec := range oaswalk.Security(doc, op) {
		def, ok := rawdoc.Get(doc, "components", "securitySchemes", sec.Name)
		if !ok {
			continue
		}
		scheme := oaswalk.Deref(doc, def, "")
		typ, params := authFromScheme(scheme.Raw)
		if typ == "" {
			continue
		}
		var err error
		req, err = req.SetAuthType(typ, params)
		if err != nil {
			return model.Request{}, err
		}
		if len(sec.Scopes) > 0 {
			req = req.SetAuthParams(model.Params{model.ParamScopes: sec.Scopes})
		}
	}
	return req, nil
}

// authFromScheme maps a security scheme to an auth variant. Bearer tokens
// become an API key carried in the Authorization header. OpenID Connect and
// unknown schemes map to nothing.
func authFromScheme(scheme rawdoc.Object) (model.AuthType, model.Params) {
	params := model.Params{}
	if d := rawdoc.String(scheme, "description"); d != "" {
		params[model.ParamDescription] = d
	}
	switch rawdoc.String(scheme, "type") {
	case "http":
		switch strings.ToLower(rawdoc.String(scheme, "scheme")) {
		case "basic":
			return model.AuthBasic, params
		case "digest":
			return model.AuthDigest, params
		case "negotiate":
			return model.AuthNegotiate, params
		case "bearer":
			params[model.ParamName] = "Authorization"
			params[model.ParamIn] = "header"
			return model.AuthAPIKey, params
		default:
			return "", nil
		}
	case "apiKey":
		params[model.ParamName] = rawdoc.String(scheme, "name")
		params[model.ParamIn] = rawdoc.String(scheme, "in")
		return model.AuthAPIKey, params
	case "oauth2":
		flows := rawdoc.ObjectAt(scheme, "flows")
		keys := flows.Keys()
		if len(keys) == 0 {
			return model.AuthOAuth2, params
		}
		flow := keys[0]
		params[model.ParamFlow] = flow
		if u := rawdoc.String(flows, flow, "authorizationUrl"); u != "" {
			params[model.ParamAuthorizationURL] = u
		}
		if u := rawdoc.String(flows, flow, "tokenUrl"); u != "" {
			params[model.ParamTokenURL] = u
		}
		return model.AuthOAuth2, params
	default:
		return "", nil
	}
}

var _ registry.Parser = Parser{}
