package apiblueprint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/apiflow/internal/httputil"
	"github.com/erraggy/apiflow/internal/pathutil"
	"github.com/erraggy/apiflow/model"
	"github.com/erraggy/apiflow/ordered"
	"github.com/erraggy/apiflow/rawdoc"
	"github.com/erraggy/apiflow/registry"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Serializer renders API Blueprint documents.
type Serializer struct{}

// Describe implements registry.Serializer.
func (Serializer) Describe() registry.Descriptor { return Descriptor }

// Serialize implements registry.Serializer.
func (Serializer) Serialize(ctx model.RequestContext) ([]byte, error) {
	w := &writer{title: cases.Title(language.English)}

	w.line("FORMAT: " + Version)
	if host := firstHost(ctx.Group); host != "" {
		w.line("HOST: " + host)
	}
	w.blank()

	title := ctx.Info.Title
	if title == "" {
		title = ctx.Group.Name
	}
	if title == "" {
		title = "API"
	}
	w.line("# " + title)
	w.blank()
	if ctx.Info.Description != "" {
		w.line(ctx.Info.Description)
		w.blank()
	}

	var loose []model.Request
	for key, m := range ctx.Group.Children.All() {
		switch v := m.(type) {
		case model.Request:
			loose = append(loose, v)
		case model.Group:
			w.group(key, v)
		}
	}
	if len(loose) > 0 {
		w.resources(loose)
	}
	return []byte(w.b.String()), nil
}

type writer struct {
	b     strings.Builder
	title cases.Caser
}

func (w *writer) line(s string) {
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *writer) blank() { w.b.WriteByte('\n') }

// indented writes every line of text indented by n spaces.
func (w *writer) indented(n int, text string) {
	pad := strings.Repeat(" ", n)
	for l := range strings.SplitSeq(strings.TrimRight(text, "\n"), "\n") {
		w.line(pad + l)
	}
}

func firstHost(g model.Group) string {
	for _, r := range g.Requests() {
		if scheme, host, _ := pathutil.SplitURL(r.URL); host != "" {
			if scheme == "" {
				scheme = "http"
			}
			return scheme + "://" + host
		}
	}
	return ""
}

func (w *writer) group(key string, g model.Group) {
	name := strings.Trim(g.Name, "/ ")
	if name == "" {
		name = strings.Trim(key, "/ ")
	}
	w.line("# Group " + w.title.String(name))
	w.blank()
	w.resources(g.Requests())
}

// resources writes one resource section per path template, in first
// appearance order.
func (w *writer) resources(reqs []model.Request) {
	var byPath ordered.Builder[[]model.Request]
	for _, r := range reqs {
		_, _, path := pathutil.SplitURL(r.URL)
		prev, _ := byPath.Get(path)
		byPath.Set(path, append(prev, r))
	}

	for path, actions := range byPath.Build().All() {
		w.line(fmt.Sprintf("## %s [%s%s]", path, path, queryTemplate(actions)))
		w.blank()
		for _, r := range actions {
			w.action(path, r)
		}
	}
}

// queryTemplate returns the "{?a,b}" suffix listing every query parameter
// used by the actions of a resource.
func queryTemplate(actions []model.Request) string {
	var names []string
	seen := map[string]bool{}
	for _, r := range actions {
		for _, q := range r.Queries {
			if !seen[q.Key] {
				seen[q.Key] = true
				names = append(names, q.Key)
			}
		}
	}
	if len(names) == 0 {
		return ""
	}
	return "{?" + strings.Join(names, ",") + "}"
}

func (w *writer) action(path string, r model.Request) {
	method := strings.ToUpper(r.Method)
	if method == "" {
		method = "GET"
	}
	name := r.Name
	if name == "" {
		name = method + " " + path
	}
	w.line(fmt.Sprintf("### %s [%s]", name, method))
	w.blank()
	if r.Description != "" {
		w.line(r.Description)
		w.blank()
	}

	w.parameters(path, r)
	w.request(r)
	w.responses(r)
}

func (w *writer) parameters(path string, r model.Request) {
	names := pathutil.ParamNames(path)
	if len(names) == 0 && len(r.Queries) == 0 {
		return
	}
	w.line("+ Parameters")
	w.blank()
	for _, n := range names {
		w.line(fmt.Sprintf("    + %s (required, string)", n))
	}
	for _, q := range r.Queries {
		typ := q.ValueType
		if typ == "" {
			typ = "string"
		}
		entry := "    + " + q.Key
		if v := rawdoc.Scalar(q.Value); v != "" {
			entry += ": `" + v + "`"
		}
		w.line(entry + " (optional, " + typ + ")")
	}
	w.blank()
}

// request writes the request section when the request carries headers or a
// body.
func (w *writer) request(r model.Request) {
	body, schema := bodyText(r)
	headers := make([]model.KeyValue, 0, len(r.Headers))
	for _, h := range r.Headers {
		if !strings.EqualFold(h.Key, "Content-Type") {
			headers = append(headers, h)
		}
	}
	if body == "" && schema == "" && len(headers) == 0 {
		return
	}

	heading := "+ Request"
	if r.BodyType != "" {
		heading += " (" + r.BodyType + ")"
	}
	w.line(heading)
	w.blank()
	w.headers(headers)
	if body != "" {
		w.line("    + Body")
		w.blank()
		w.indented(12, body)
		w.blank()
	}
	if schema != "" {
		w.line("    + Schema")
		w.blank()
		w.indented(12, schema)
		w.blank()
	}
}

func (w *writer) headers(headers []model.KeyValue) {
	if len(headers) == 0 {
		return
	}
	w.line("    + Headers")
	w.blank()
	for _, h := range headers {
		w.line(fmt.Sprintf("            %s: %s", h.Key, rawdoc.Scalar(h.Value)))
	}
	w.blank()
}

// bodyText returns the literal body and the JSON schema of the body, when
// the request documents them.
func bodyText(r model.Request) (body, schema string) {
	if r.BodyString != "" {
		body = r.BodyString
	}
	var fields []string
	for _, kv := range r.Body {
		switch v := kv.Value.(type) {
		case model.Schema:
			if schema == "" {
				schema = jsonText(v.ToJS())
			}
		case model.FileReference:
			fields = append(fields, kv.Key+"=@"+v.FilePath)
		default:
			fields = append(fields, kv.Key+"="+rawdoc.Scalar(v))
		}
	}
	if body == "" && len(fields) > 0 {
		sep := "\n"
		if r.BodyType == httputil.MediaForm {
			sep = "&"
		}
		body = strings.Join(fields, sep)
	}
	return body, schema
}

func jsonText(v any) string {
	data, err := rawdoc.EncodeJSON(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (w *writer) responses(r model.Request) {
	written := map[string]bool{}
	for _, resp := range r.Responses {
		code, ok := responseCode(resp.Code)
		if !ok || written[code] {
			continue
		}
		written[code] = true

		heading := "+ Response " + code
		if resp.Schema != nil {
			heading += " (" + httputil.MediaJSON + ")"
		}
		w.line(heading)
		w.blank()
		if resp.Description != "" {
			w.indented(4, resp.Description)
			w.blank()
		}
		w.headers(resp.Headers)
		if resp.Schema != nil {
			w.line("    + Schema")
			w.blank()
			w.indented(12, jsonText(resp.Schema.ToJS()))
			w.blank()
		}
	}
}

// responseCode maps a response key to a status code. "default" stands for
// 200; wildcard and extension keys are dropped.
func responseCode(code string) (string, bool) {
	if code == "default" || code == "" {
		return "200", true
	}
	if n, err := strconv.Atoi(code); err == nil && n >= 100 && n <= 599 {
		return code, true
	}
	return "", false
}

var _ registry.Serializer = Serializer{}
