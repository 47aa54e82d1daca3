package swagger

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

// Parser builds the canonical model from a loaded Swagger document.
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
			Format:  string(registry.FormatSwagger),
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

	base := baseURL(doc)
	for _, op := range oaswalk.Operations(doc) {
		req, err := parseOperation(doc, base, op)
		if err != nil {
			return model.RequestContext{}, err
		}
		ctx.Group = ctx.Group.WithMember([]string{op.Path}, op.Method, req)
	}
	return ctx, nil
}

func baseURL(doc rawdoc.Object) string {
	scheme := "http"
	if schemes := rawdoc.Strings(doc, "schemes"); len(schemes) > 0 {
		scheme = schemes[0]
	}
	host := rawdoc.String(doc, "host")
	if host == "" {
		host = "localhost"
	}
	return scheme + "://" + host + strings.TrimSuffix(rawdoc.String(doc, "basePath"), "/")
}

func parseOperation(doc rawdoc.Object, base string, op oaswalk.Operation) (model.Request, error) {
	req := model.Request{
		Name:        naming.RequestName(rawdoc.String(op.Raw, "summary"), op.Method, op.Path),
		Description: rawdoc.String(op.Raw, "description"),
		URL:         base + op.Path,
		Method:      strings.ToUpper(op.Method),
	}

	consumes := rawdoc.Strings(op.Raw, "consumes")
	if len(consumes) == 0 {
		consumes = rawdoc.Strings(doc, "consumes")
	}

	for _, p := range op.Params {
		req = applyParam(req, p, consumes)
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

func applyParam(req model.Request, p oaswalk.Node, consumes []string) model.Request {
	name := rawdoc.String(p.Raw, "name")
	typ := rawdoc.String(p.Raw, "type")
	value, _ := rawdoc.Get(p.Raw, "default")

	switch rawdoc.String(p.Raw, "in") {
	case "header":
		return req.WithHeader(model.KeyValue{Key: name, Value: value, ValueType: typ})
	case "query":
		return req.WithQuery(model.KeyValue{Key: name, Value: value, ValueType: typ})
	case "formData":
		if req.BodyType == "" {
			req.BodyType = formMediaType(consumes, typ)
		}
		if typ == "file" {
			value = model.FileReference{FilePath: name}
		}
		return req.WithBody(model.KeyValue{Key: name, Value: value, ValueType: typ})
	case "body":
		if req.BodyType == "" {
			req.BodyType = httputil.MediaJSON
			if len(consumes) > 0 {
				req.BodyType = consumes[0]
			}
		}
		schemaRaw, _ := rawdoc.Get(p.Raw, "schema")
		schema := model.Schema{URI: pointer.Append(p.Pointer, "schema")}.MergeSchema(schemaRaw)
		return req.WithBody(model.KeyValue{Key: name, Value: schema, ValueType: "schema"})
	default:
		// path parameters are part of the URL template
		return req
	}
}

func formMediaType(consumes []string, typ string) string {
	for _, c := range consumes {
		if httputil.IsForm(c) {
			return c
		}
	}
	if typ == "file" {
		return httputil.MediaMultipart
	}
	return httputil.MediaForm
}

func parseResponse(doc rawdoc.Object, r oaswalk.Named) model.Response {
	resp := model.Response{
		Code:        r.Name,
		Description: rawdoc.String(r.Raw, "description"),
	}
	if schemaRaw, ok := rawdoc.Get(r.Raw, "schema"); ok {
		s := model.Schema{URI: pointer.Append(r.Pointer, "schema")}.MergeSchema(schemaRaw)
		resp.Schema = &s
	}
	for _, h := range oaswalk.Children(doc, r.Node, "headers") {
		value, _ := rawdoc.Get(h.Raw, "default")
		resp = resp.WithHeader(model.KeyValue{Key: h.Name, Value: value, ValueType: rawdoc.String(h.Raw, "type")})
	}
	return resp
}

// applySecurity attaches one auth per security requirement. Scopes listed by
// the requirement are merged into the scheme's parameters.
func applySecurity(req model.Request, doc rawdoc.Object, op oaswalk.Operation) (model.Request, error) {
	for _, sec := range oaswalk.Security(doc, op) {
		def, ok := rawdoc.Get(doc, "securityDefinitions", sec.Name)
		if !ok {
			continue
		}
		scheme, _ := rawdoc.AsObject(def)
		typ, params := authFromScheme(scheme)
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

func authFromScheme(scheme rawdoc.Object) (model.AuthType, model.Params) {
	params := model.Params{}
	if d := rawdoc.String(scheme, "description"); d != "" {
		params[model.ParamDescription] = d
	}
	switch rawdoc.String(scheme, "type") {
	case "basic":
		return model.AuthBasic, params
	case "apiKey":
		params[model.ParamName] = rawdoc.String(scheme, "name")
		params[model.ParamIn] = rawdoc.String(scheme, "in")
		return model.AuthAPIKey, params
	case "oauth2":
		params[model.ParamFlow] = rawdoc.String(scheme, "flow")
		if u := rawdoc.String(scheme, "authorizationUrl"); u != "" {
			params[model.ParamAuthorizationURL] = u
		}
		if u := rawdoc.String(scheme, "tokenUrl"); u != "" {
			params[model.ParamTokenURL] = u
		}
		return model.AuthOAuth2, params
	default:
		return "", nil
	}
}

var _ registry.Parser = Parser{}
