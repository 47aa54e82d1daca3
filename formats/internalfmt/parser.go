package internalfmt

import (
	"fmt"
	"time"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/erraggy/apiflow/model"
	"github.com/erraggy/apiflow/rawdoc"
	"github.com/erraggy/apiflow/registry"
)

// Parser builds the canonical model from an internal document.
type Parser struct{}

// Describe implements registry.Parser.
func (Parser) Describe() registry.Descriptor { return Descriptor }

// Score implements registry.Parser.
func (Parser) Score(raw any) float64 { return Detector.ScoreRaw(raw) }

// Parse implements registry.Parser.
func (Parser) Parse(raw any) (model.RequestContext, error) {
	doc, ok := rawdoc.AsObject(raw)
	if !ok {
		return model.RequestContext{}, parseError("document root is not an object", nil)
	}

	ctx := model.RequestContext{
		Info: model.Info{
			Title:       rawdoc.String(doc, "info", "title"),
			Version:     rawdoc.String(doc, "info", "version"),
			Description: rawdoc.String(doc, "info", "description"),
		},
		Schema: model.NewSchema(),
	}
	if s, ok := doc.Get("schema"); ok {
		ctx.Schema = model.SchemaFrom(s)
	}

	g, err := group(rawdoc.ObjectAt(doc, "group"))
	if err != nil {
		return model.RequestContext{}, err
	}
	ctx.Group = g
	return ctx, nil
}

func parseError(msg string, cause error) error {
	return &flowerrors.ParseError{Format: string(registry.FormatInternal), Message: msg, Cause: cause}
}

func group(obj rawdoc.Object) (model.Group, error) {
	g := model.NewGroup(rawdoc.String(obj, "name"))
	for i, v := range rawdoc.Slice(obj, "children") {
		child, _ := rawdoc.AsObject(v)
		key := rawdoc.String(child, "key")
		switch {
		case rawdoc.Has(child, "group"):
			sub, err := group(rawdoc.ObjectAt(child, "group"))
			if err != nil {
				return model.Group{}, err
			}
			g = g.WithChild(key, sub)
		case rawdoc.Has(child, "request"):
			req, err := request(rawdoc.ObjectAt(child, "request"))
			if err != nil {
				return model.Group{}, fmt.Errorf("child %q: %w", key, err)
			}
			g = g.WithChild(key, req)
		default:
			return model.Group{}, parseError(fmt.Sprintf("child %d of group %q is neither a group nor a request", i, g.Name), nil)
		}
	}
	return g, nil
}

func request(obj rawdoc.Object) (model.Request, error) {
	req := model.Request{
		Name:        rawdoc.String(obj, "name"),
		Description: rawdoc.String(obj, "description"),
		URL:         rawdoc.String(obj, "url"),
		Method:      rawdoc.String(obj, "method"),
		BodyType:    rawdoc.String(obj, "bodyType"),
		BodyString:  rawdoc.String(obj, "bodyString"),
		Headers:     keyValues(rawdoc.Slice(obj, "headers")),
		Queries:     keyValues(rawdoc.Slice(obj, "queries")),
		Body:        keyValues(rawdoc.Slice(obj, "body")),
	}

	if t := rawdoc.String(obj, "timeout"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return model.Request{}, parseError("invalid timeout "+t, err)
		}
		req.Timeout = d
	}

	for _, v := range rawdoc.Slice(obj, "auth") {
		a, _ := rawdoc.AsObject(v)
		params := model.Params{}
		for k, p := range rawdoc.ObjectAt(a, "params").All() {
			params[k] = p
		}
		var err error
		req, err = req.SetAuthType(model.AuthType(rawdoc.String(a, "type")), params)
		if err != nil {
			return model.Request{}, err
		}
	}

	for _, v := range rawdoc.Slice(obj, "responses") {
		r, _ := rawdoc.AsObject(v)
		resp := model.Response{
			Code:        rawdoc.String(r, "code"),
			Description: rawdoc.String(r, "description"),
			Headers:     keyValues(rawdoc.Slice(r, "headers")),
		}
		if s, ok := schemaOf(r); ok {
			resp.Schema = &s
		}
		req = req.WithResponse(resp)
	}
	return req, nil
}

func keyValues(list []any) []model.KeyValue {
	if len(list) == 0 {
		return nil
	}
	out := make([]model.KeyValue, 0, len(list))
	for _, v := range list {
		obj, _ := rawdoc.AsObject(v)
		kv := model.KeyValue{
			Key:       rawdoc.String(obj, "key"),
			ValueType: rawdoc.String(obj, "type"),
		}
		switch {
		case rawdoc.Has(obj, "file"):
			convert, _ := rawdoc.ObjectAt(obj, "file").Get("convert")
			kv.Value = model.FileReference{
				FilePath: rawdoc.String(obj, "file", "path"),
				Convert:  convert == true,
			}
		case rawdoc.Has(obj, "schema"):
			kv.Value, _ = schemaOf(obj)
		default:
			kv.Value, _ = obj.Get("value")
		}
		out = append(out, kv)
	}
	return out
}

// schemaOf reads a {"schema": ..., "uri": ...} pair. The URI keeps the
// schema anchored at its place in the document schema.
func schemaOf(obj rawdoc.Object) (model.Schema, bool) {
	raw, ok := obj.Get("schema")
	if !ok {
		return model.Schema{}, false
	}
	return model.Schema{URI: rawdoc.String(obj, "uri")}.MergeSchema(raw), true
}

var _ registry.Parser = Parser{}
