package pathutil

import (
	"net/url"
	"regexp"
	"strings"
)

// templateVarRegex matches Postman style "{{variable}}" placeholders.
var templateVarRegex = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// SplitURL breaks a request URL into scheme, host and a path template using
// {param} placeholders. A leading "{{baseUrl}}" style variable stands for the
// server and is dropped; other "{{var}}" and ":var" placeholders become
// {var}. The query string is discarded. Missing parts are returned empty,
// except the path, which is at least "/".
func SplitURL(raw string) (scheme, host, path string) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{{") {
		if i := strings.Index(raw, "}}"); i >= 0 {
			raw = raw[i+2:]
		}
	}
	raw = templateVarRegex.ReplaceAllString(raw, "{$1}")

	if u, err := url.Parse(raw); err == nil {
		scheme, host, path = u.Scheme, u.Host, u.Path
	} else {
		path, _, _ = strings.Cut(raw, "?")
	}

	path = FromColon(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return scheme, host, path
}
