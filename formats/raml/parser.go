package raml

import (
	"strings"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/erraggy/apiflow/internal/httputil"
	"github.com/erraggy/apiflow/internal/naming"
	"github.com/erraggy/apiflow/model"
	"github.com/erraggy/apiflow/ordered"
	"github.com/erraggy/apiflow/pointer"
	"github.com/erraggy/apiflow/rawdoc"
	"github.com/erraggy/apiflow/registry"
)

// Security scheme types defined by RAML 1.0, plus the "x-" types used for
// schemes RAML has no name for.
const (
	SchemeBasic     = "Basic Authentication"
	SchemeDigest    = "Digest Authentication"
	SchemeOAuth1    = "OAuth 1.0"
	SchemeOAuth2    = "OAuth 2.0"
	SchemePass      = "Pass Through"
	SchemeNTLM      = "x-ntlm"
	SchemeNegotiate = "x-negotiate"
)

// Parser builds the canonical model from a loaded RAML document.
type Parser struct{}

// Describe implements registry.Parser.
func (Parser) Describe() registry.Descriptor { return Descriptor }

// Score implements registry.Parser.
func (Parser) Score(raw any) float64 { return DocumentDetector.ScoreRaw(raw) }

// Parse implements registry.Parser.
func (Parser) Parse(raw any) (model.RequestContext, error) {
	doc, ok := rawdoc.AsObject(raw)
	if !ok {
		return model.RequestContext{}, &flowerrors.ParseError{
			Format:  string(registry.FormatRAML),
			Message: "document root is not an object",
		}
	}

	p := &parser{doc: doc, schemes: securitySchemes(doc)}
	title := rawdoc.String(doc, "title")
	root, err := p.walk(model.NewGroup(title), doc, pointer.Root, BaseURI(doc), "", securedBy(doc, nil))
	if err != nil {
		return model.RequestContext{}, err
	}
	return model.RequestContext{
		Info: model.Info{
			Title:       title,
			Version:     rawdoc.String(doc, "version"),
			Description: rawdoc.String(doc, "description"),
		},
		Schema: model.SchemaFrom(doc),
		Group:  root,
	}, nil
}

// BaseURI returns the document base URI with {version} substituted and
// without a trailing slash. A missing baseUri yields http://localhost.
func BaseURI(doc rawdoc.Object) string {
	base := rawdoc.String(doc, "baseUri")
	if base == "" {
		return "http://localhost"
	}
	base = strings.ReplaceAll(base, "{version}", rawdoc.String(doc, "version"))
	return strings.TrimSuffix(base, "/")
}

type parser struct {
	doc     rawdoc.Object
	schemes map[string]rawdoc.Object
}

type securityRef struct {
	name   string
	scopes []string
}

// walk adds the methods and child resources of node to g, in document order.
func (p *parser) walk(g model.Group, node rawdoc.Object, ptr, url, path string, secured []securityRef) (model.Group, error) {
	for key, v := range node.All() {
		obj, _ := rawdoc.AsObject(v)
		switch {
		case isResource(key):
			res := obj
			name := rawdoc.String(res, "displayName")
			if name == "" {
				name = key
			}
			child, err := p.walk(model.NewGroup(name), res, pointer.Append(ptr, key), url+key, path+key, securedBy(res, secured))
			if err != nil {
				return model.Group{}, err
			}
			g = g.WithChild(key, child)
		case ptr != pointer.Root && httputil.IsMethod(key):
			req, err := p.method(key, obj, pointer.Append(ptr, key), url, path, securedBy(obj, secured))
			if err != nil {
				return model.Group{}, err
			}
			g = g.WithChild(key, req)
		}
	}
	return g, nil
}

func (p *parser) method(verb string, m rawdoc.Object, ptr, url, path string, secured []securityRef) (model.Request, error) {
	req := model.Request{
		Name:        naming.RequestName(rawdoc.String(m, "displayName"), verb, path),
		Description: rawdoc.String(m, "description"),
		URL:         url,
		Method:      strings.ToUpper(verb),
	}
	for name, v := range rawdoc.ObjectAt(m, "headers").All() {
		req = req.WithHeader(property(name, v))
	}
	for name, v := range rawdoc.ObjectAt(m, "queryParameters").All() {
		req = req.WithQuery(property(name, v))
	}
	req = p.body(req, rawdoc.ObjectAt(m, "body"), pointer.Append(ptr, "body"))

	for _, ref := range secured {
		scheme, ok := p.schemes[ref.name]
		if !ok {
			continue
		}
		typ, params := authFromScheme(scheme)
		if typ == "" {
			continue
		}
		var err error
		req, err = req.SetAuthType(typ, params)
		if err != nil {
			return model.Request{}, err
		}
		if len(ref.scopes) > 0 {
			req = req.SetAuthParams(model.Params{model.ParamScopes: ref.scopes})
		}
	}

	responsesPtr := pointer.Append(ptr, "responses")
	for code, v := range rawdoc.ObjectAt(m, "responses").All() {
		r, _ := rawdoc.AsObject(v)
		req = req.WithResponse(p.response(code, r, pointer.Append(responsesPtr, code)))
	}
	return req, nil
}

// property reads a header, query parameter or form property declaration,
// which is either a type name or an object with type, default and example.
func property(name string, v any) model.KeyValue {
	kv := model.KeyValue{Key: name}
	decl, ok := rawdoc.AsObject(v)
	if !ok {
		kv.ValueType = rawdoc.Scalar(v)
		return kv
	}
	kv.ValueType = rawdoc.String(decl, "type")
	if ex, found := rawdoc.Get(decl, "example"); found {
		kv.Value = ex
	} else if def, found := rawdoc.Get(decl, "default"); found {
		kv.Value = def
	}
	if kv.ValueType == "file" {
		kv.Value = model.FileReference{FilePath: name}
	}
	return kv
}

// mediaTypes returns the media type keyed declarations of a body. A body
// declared without media types uses the document default mediaType.
func (p *parser) mediaTypes(body rawdoc.Object, ptr string) []mediaDecl {
	var out []mediaDecl
	for key, v := range body.All() {
		if strings.Contains(key, "/") {
			out = append(out, mediaDecl{mediaType: key, decl: v, ptr: pointer.Append(ptr, key)})
		}
	}
	if len(out) == 0 && body.Len() > 0 {
		mt := rawdoc.String(p.doc, "mediaType")
		if mt == "" {
			mt = httputil.MediaJSON
		}
		out = append(out, mediaDecl{mediaType: mt, decl: body, ptr: ptr})
	}
	return out
}

type mediaDecl struct {
	mediaType string
	decl      any
	ptr       string
}

func (p *parser) body(req model.Request, body rawdoc.Object, ptr string) model.Request {
	decls := p.mediaTypes(body, ptr)
	if len(decls) == 0 {
		return req
	}
	d := decls[0]
	req.BodyType = d.mediaType

	if httputil.IsForm(d.mediaType) {
		decl, _ := rawdoc.AsObject(d.decl)
		props := rawdoc.ObjectAt(decl, "properties")
		for name, v := range props.All() {
			req = req.WithBody(property(name, v))
		}
		if props.Len() > 0 {
			return req
		}
	}

	if ex, ok := exampleString(d.decl); ok {
		req.BodyString = ex
	}
	return req.WithBody(model.KeyValue{Key: "body", Value: p.schema(d.decl, d.ptr), ValueType: "schema"})
}

func exampleString(decl any) (string, bool) {
	obj, _ := rawdoc.AsObject(decl)
	ex, ok := obj.Get("example")
	if !ok {
		return "", false
	}
	if s, isString := ex.(string); isString {
		return s, true
	}
	data, err := rawdoc.EncodeJSON(ex)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// schema builds the schema of a type declaration. A declaration that only
// names a type from the document's types (and perhaps gives an example)
// becomes a reference to it, so it resolves against the document schema.
func (p *parser) schema(decl any, ptr string) model.Schema {
	if name := p.typeName(decl); name != "" {
		var b ordered.Builder[any]
		b.Set(model.RefKey, name)
		return model.Schema{URI: ptr}.MergeSchema(b.Build())
	}
	return model.Schema{URI: ptr}.MergeSchema(decl)
}

func (p *parser) typeName(decl any) string {
	name, ok := decl.(string)
	if !ok {
		obj, _ := rawdoc.AsObject(decl)
		for _, k := range obj.Keys() {
			if k != "type" && k != "schema" && k != "example" {
				return ""
			}
		}
		name = rawdoc.String(obj, "type")
		if name == "" {
			name = rawdoc.String(obj, "schema")
		}
	}
	for _, section := range []string{"types", "schemas"} {
		if rawdoc.Has(p.doc, section, name) {
			return pointer.Append(pointer.Append(pointer.Root, section), name)
		}
	}
	return ""
}

func (p *parser) response(code string, r rawdoc.Object, ptr string) model.Response {
	resp := model.Response{Code: code, Description: rawdoc.String(r, "description")}
	for name, v := range rawdoc.ObjectAt(r, "headers").All() {
		resp = resp.WithHeader(property(name, v))
	}
	decls := p.mediaTypes(rawdoc.ObjectAt(r, "body"), pointer.Append(ptr, "body"))
	if len(decls) == 0 {
		return resp
	}
	d := decls[0]
	for _, candidate := range decls {
		if httputil.IsJSON(candidate.mediaType) {
			d = candidate
			break
		}
	}
	s := p.schema(d.decl, d.ptr)
	resp.Schema = &s
	return resp
}

// securitySchemes indexes the declared schemes by name. Both the RAML 1.0
// map form and the 0.8 list-of-maps form are accepted.
func securitySchemes(doc rawdoc.Object) map[string]rawdoc.Object {
	out := map[string]rawdoc.Object{}
	add := func(obj rawdoc.Object) {
		for name, v := range obj.All() {
			scheme, _ := rawdoc.AsObject(v)
			out[name] = scheme
		}
	}
	v, _ := rawdoc.Get(doc, "securitySchemes")
	if items, ok := v.([]any); ok {
		for _, item := range items {
			obj, _ := rawdoc.AsObject(item)
			add(obj)
		}
		return out
	}
	obj, _ := rawdoc.AsObject(v)
	add(obj)
	return out
}

// securedBy reads the securedBy list of node, or returns inherited when the
// node has none. A null entry stands for anonymous access and is skipped.
func securedBy(node rawdoc.Object, inherited []securityRef) []securityRef {
	v, ok := node.Get("securedBy")
	if !ok {
		return inherited
	}
	items, _ := v.([]any)
	out := []securityRef{}
	for _, item := range items {
		if name, isName := item.(string); isName {
			out = append(out, securityRef{name: name})
			continue
		}
		obj, _ := rawdoc.AsObject(item)
		for name := range obj.All() {
			out = append(out, securityRef{name: name, scopes: rawdoc.Strings(obj, name, "scopes")})
		}
	}
	return out
}

func authFromScheme(scheme rawdoc.Object) (model.AuthType, model.Params) {
	params := model.Params{}
	if d := rawdoc.String(scheme, "description"); d != "" {
		params[model.ParamDescription] = d
	}
	settings := rawdoc.ObjectAt(scheme, "settings")
	set := func(key, from string) {
		if v := rawdoc.String(settings, from); v != "" {
			params[key] = v
		}
	}

	switch rawdoc.String(scheme, "type") {
	case SchemeBasic:
		return model.AuthBasic, params
	case SchemeDigest:
		return model.AuthDigest, params
	case SchemeNTLM:
		return model.AuthNTLM, params
	case SchemeNegotiate:
		return model.AuthNegotiate, params
	case SchemeOAuth1:
		set(model.ParamRequestTokenURL, "requestTokenUri")
		set(model.ParamAuthorizationURL, "authorizationUri")
		set(model.ParamTokenURL, "tokenCredentialsUri")
		if sigs := rawdoc.Strings(settings, "signatures"); len(sigs) > 0 {
			params[model.ParamSignatureMethod] = sigs[0]
		}
		return model.AuthOAuth1, params
	case SchemeOAuth2:
		set(model.ParamAuthorizationURL, "authorizationUri")
		set(model.ParamTokenURL, "accessTokenUri")
		if grants := rawdoc.Strings(settings, "authorizationGrants"); len(grants) > 0 {
			params[model.ParamFlow] = grants[0]
		}
		return model.AuthOAuth2, params
	case SchemePass:
		described := rawdoc.ObjectAt(scheme, "describedBy")
		if names := rawdoc.ObjectAt(described, "headers").Keys(); len(names) > 0 {
			params[model.ParamName] = names[0]
			params[model.ParamIn] = "header"
		} else if names := rawdoc.ObjectAt(described, "queryParameters").Keys(); len(names) > 0 {
			params[model.ParamName] = names[0]
			params[model.ParamIn] = "query"
		}
		return model.AuthAPIKey, params
	default:
		return "", nil
	}
}

var _ registry.Parser = Parser{}
