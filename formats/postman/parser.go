package postman

import (
	"strconv"
	"strings"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/erraggy/apiflow/internal/httputil"
	"github.com/erraggy/apiflow/internal/pathutil"
	"github.com/erraggy/apiflow/model"
	"github.com/erraggy/apiflow/rawdoc"
	"github.com/erraggy/apiflow/registry"
)

// Parser builds the canonical model from a loaded Postman collection.
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
			Format:  string(registry.FormatPostman),
			Message: "document root is not an object",
		}
	}

	p := &parser{vars: variables(doc)}
	name := rawdoc.String(doc, "info", "name")
	root, err := p.items(model.NewGroup(name), rawdoc.Slice(doc, "item"), authOf(doc, rawdoc.Object{}))
	if err != nil {
		return model.RequestContext{}, err
	}
	return model.RequestContext{
		Info: model.Info{
			Title:       name,
			Version:     rawdoc.String(doc, "info", "version"),
			Description: description(doc, "info", "description"),
		},
		Schema: model.SchemaFrom(doc),
		Group:  root,
	}, nil
}

type parser struct {
	vars map[string]string
}

func variables(doc rawdoc.Object) map[string]string {
	out := map[string]string{}
	for _, v := range rawdoc.Slice(doc, "variable") {
		obj, _ := rawdoc.AsObject(v)
		if key := rawdoc.String(obj, "key"); key != "" {
			out[key] = rawdoc.String(obj, "value")
		}
	}
	return out
}

// description reads a description given either as a string or as an object
// with "content".
func description(obj rawdoc.Object, path ...string) string {
	v, ok := rawdoc.Get(obj, path...)
	if !ok {
		return ""
	}
	if d, isObj := rawdoc.AsObject(v); isObj {
		return rawdoc.String(d, "content")
	}
	return rawdoc.Scalar(v)
}

// authOf returns the auth declared by node, or inherited when node declares
// none. An explicit "noauth" clears inherited auth.
func authOf(node rawdoc.Object, inherited rawdoc.Object) rawdoc.Object {
	a, ok := node.Get("auth")
	if !ok || a == nil {
		return inherited
	}
	obj, _ := rawdoc.AsObject(a)
	return obj
}

func (p *parser) items(g model.Group, items []any, auth rawdoc.Object) (model.Group, error) {
	for _, v := range items {
		item, _ := rawdoc.AsObject(v)
		name := rawdoc.String(item, "name")
		key := uniqueKey(g, name)

		if rawdoc.Has(item, "item") {
			child, err := p.items(model.NewGroup(name), rawdoc.Slice(item, "item"), authOf(item, auth))
			if err != nil {
				return model.Group{}, err
			}
			g = g.WithChild(key, child)
			continue
		}

		req, err := p.request(item, auth)
		if err != nil {
			return model.Group{}, err
		}
		g = g.WithChild(key, req)
	}
	return g, nil
}

// uniqueKey returns name, or name with a numeric suffix when g already holds
// a member under name.
func uniqueKey(g model.Group, name string) string {
	key := name
	for i := 2; g.Children.Has(key); i++ {
		key = name + " (" + strconv.Itoa(i) + ")"
	}
	return key
}

func (p *parser) request(item rawdoc.Object, inherited rawdoc.Object) (model.Request, error) {
	var r rawdoc.Object
	if s, ok := rawdoc.Get(item, "request"); ok {
		if url, isString := s.(string); isString {
			// a bare URL string is a GET request
			var b rawdoc.Object
			r = b.With("url", url)
		} else {
			r, _ = rawdoc.AsObject(s)
		}
	}

	method := strings.ToUpper(rawdoc.String(r, "method"))
	if method == "" {
		method = "GET"
	}
	req := model.Request{
		Name:        rawdoc.String(item, "name"),
		Description: description(r, "description"),
		URL:         p.url(r),
		Method:      method,
	}

	for _, h := range enabled(rawdoc.Slice(r, "header")) {
		req = req.WithHeader(model.KeyValue{
			Key:       rawdoc.String(h, "key"),
			Value:     p.expand(rawdoc.String(h, "value")),
			ValueType: "string",
		})
	}
	for _, q := range enabled(rawdoc.Slice(r, "url", "query")) {
		req = req.WithQuery(model.KeyValue{
			Key:       rawdoc.String(q, "key"),
			Value:     p.expand(rawdoc.String(q, "value")),
			ValueType: "string",
		})
	}

	req = body(req, rawdoc.ObjectAt(r, "body"))

	if a := authOf(r, inherited); a.Len() > 0 {
		typ, params := authParams(a)
		if typ != "" {
			var err error
			req, err = req.SetAuthType(typ, params)
			if err != nil {
				return model.Request{}, err
			}
		}
	}

	for _, v := range rawdoc.Slice(item, "response") {
		resp, _ := rawdoc.AsObject(v)
		req = req.WithResponse(response(resp))
	}
	return req, nil
}

// url returns the request URL with known collection variables substituted
// and ":param" path segments rewritten as {param}.
func (p *parser) url(r rawdoc.Object) string {
	return pathutil.FromColon(p.rawURL(r))
}

func (p *parser) rawURL(r rawdoc.Object) string {
	v, ok := r.Get("url")
	if !ok {
		return ""
	}
	if s, isString := v.(string); isString {
		return p.expand(s)
	}
	u, _ := rawdoc.AsObject(v)
	if raw := rawdoc.String(u, "raw"); raw != "" {
		return p.expand(raw)
	}

	var b strings.Builder
	if proto := rawdoc.String(u, "protocol"); proto != "" {
		b.WriteString(proto + "://")
	}
	b.WriteString(strings.Join(rawdoc.Strings(u, "host"), "."))
	if port := rawdoc.String(u, "port"); port != "" {
		b.WriteString(":" + port)
	}
	for _, seg := range rawdoc.Strings(u, "path") {
		b.WriteString("/" + seg)
	}
	return p.expand(b.String())
}

func (p *parser) expand(s string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	for k, v := range p.vars {
		s = strings.ReplaceAll(s, "{{"+k+"}}", v)
	}
	return s
}

// enabled returns the object entries of list that are not disabled.
func enabled(list []any) []rawdoc.Object {
	out := make([]rawdoc.Object, 0, len(list))
	for _, v := range list {
		obj, _ := rawdoc.AsObject(v)
		if disabled, _ := obj.Get("disabled"); disabled == true {
			continue
		}
		out = append(out, obj)
	}
	return out
}

func body(req model.Request, b rawdoc.Object) model.Request {
	switch rawdoc.String(b, "mode") {
	case "raw":
		req.BodyString = rawdoc.String(b, "raw")
		req.BodyType = rawMediaType(req, rawdoc.String(b, "options", "raw", "language"))
	case "urlencoded":
		req.BodyType = httputil.MediaForm
		for _, f := range enabled(rawdoc.Slice(b, "urlencoded")) {
			req = req.WithBody(model.KeyValue{Key: rawdoc.String(f, "key"), Value: rawdoc.String(f, "value"), ValueType: "string"})
		}
	case "formdata":
		req.BodyType = httputil.MediaMultipart
		for _, f := range enabled(rawdoc.Slice(b, "formdata")) {
			kv := model.KeyValue{Key: rawdoc.String(f, "key"), Value: rawdoc.String(f, "value"), ValueType: "string"}
			if rawdoc.String(f, "type") == "file" {
				kv.Value = model.FileReference{FilePath: firstString(rawdoc.Strings(f, "src"))}
				kv.ValueType = "file"
			}
			req = req.WithBody(kv)
		}
	case "file":
		req.BodyType = "application/octet-stream"
		req = req.WithBody(model.KeyValue{
			Key:       "file",
			Value:     model.FileReference{FilePath: rawdoc.String(b, "file", "src")},
			ValueType: "file",
		})
	case "graphql":
		req.BodyType = httputil.MediaJSON
		var q rawdoc.Object
		q = q.With("query", rawdoc.String(b, "graphql", "query"))
		if vars := rawdoc.String(b, "graphql", "variables"); vars != "" {
			if decoded, err := rawdoc.Decode([]byte(vars)); err == nil {
				q = q.With("variables", decoded)
			}
		}
		if data, err := rawdoc.EncodeJSON(q); err == nil {
			req.BodyString = strings.TrimSpace(string(data))
		}
	}
	return req
}

func rawMediaType(req model.Request, language string) string {
	if h, ok := req.Header("Content-Type"); ok {
		if s := rawdoc.Scalar(h.Value); s != "" {
			return s
		}
	}
	switch language {
	case "json":
		return httputil.MediaJSON
	case "xml":
		return "application/xml"
	case "html":
		return "text/html"
	case "javascript":
		return "application/javascript"
	default:
		return httputil.MediaText
	}
}

func firstString(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func response(r rawdoc.Object) model.Response {
	resp := model.Response{
		Code:        rawdoc.String(r, "code"),
		Description: rawdoc.String(r, "name"),
	}
	for _, h := range enabled(rawdoc.Slice(r, "header")) {
		resp = resp.WithHeader(model.KeyValue{Key: rawdoc.String(h, "key"), Value: rawdoc.String(h, "value"), ValueType: "string"})
	}
	return resp
}

// authParams maps a Postman auth object onto an auth variant. Both the v2.1
// list form ([{key, value}]) and the v2.0 object form are read.
func authParams(a rawdoc.Object) (model.AuthType, model.Params) {
	typ := rawdoc.String(a, "type")
	attrs := map[string]any{}
	switch v, _ := a.Get(typ); list := v.(type) {
	case []any:
		for _, item := range list {
			obj, _ := rawdoc.AsObject(item)
			attrs[rawdoc.String(obj, "key")], _ = obj.Get("value")
		}
	default:
		obj, _ := rawdoc.AsObject(list)
		for k, val := range obj.All() {
			attrs[k] = val
		}
	}

	params := model.Params{}
	copyParam := func(to, from string) {
		if v, ok := attrs[from]; ok && rawdoc.Scalar(v) != "" {
			params[to] = v
		}
	}

	switch typ {
	case "basic":
		copyParam(model.ParamUsername, "username")
		copyParam(model.ParamPassword, "password")
		return model.AuthBasic, params
	case "digest":
		for _, k := range []string{"username", "password", "realm", "nonce", "algorithm", "qop"} {
			copyParam(k, k)
		}
		return model.AuthDigest, params
	case "ntlm":
		for _, k := range []string{"username", "password", "domain", "workstation"} {
			copyParam(k, k)
		}
		return model.AuthNTLM, params
	case "apikey":
		copyParam(model.ParamName, "key")
		copyParam(model.ParamKey, "value")
		copyParam(model.ParamIn, "in")
		return model.AuthAPIKey, params
	case "bearer":
		params[model.ParamName] = "Authorization"
		params[model.ParamIn] = "header"
		if tok := rawdoc.Scalar(attrs["token"]); tok != "" {
			params[model.ParamKey] = "Bearer " + tok
		}
		return model.AuthAPIKey, params
	case "oauth1":
		for _, k := range []string{"consumerKey", "consumerSecret", "token", "tokenSecret", "signatureMethod", "callback"} {
			copyParam(k, k)
		}
		return model.AuthOAuth1, params
	case "oauth2":
		copyParam(model.ParamFlow, "grant_type")
		copyParam(model.ParamAuthorizationURL, "authUrl")
		copyParam(model.ParamTokenURL, "accessTokenUrl")
		copyParam(model.ParamClientID, "clientId")
		copyParam(model.ParamClientSecret, "clientSecret")
		copyParam(model.ParamScope, "scope")
		copyParam(model.ParamRedirectURL, "redirect_uri")
		return model.AuthOAuth2, params
	default:
		return "", nil
	}
}

var _ registry.Parser = Parser{}
