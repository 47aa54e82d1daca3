package model

import (
	"errors"
	"testing"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAuthTypeThenParamsUpdatesSameEntry(t *testing.T) {
	req := Request{Method: "GET", URL: "https://api.example.com/pets"}

	req, err := req.SetAuthType(AuthOAuth2, Params{ParamFlow: "implicit", ParamAuthorizationURL: "https://auth.example.com"})
	require.NoError(t, err)
	req = req.SetAuthParams(Params{ParamScope: "read"})

	require.Len(t, req.Auth, 1)
	oauth, ok := req.Auth[0].(OAuth2Auth)
	require.True(t, ok)
	assert.Equal(t, "implicit", oauth.Flow())
	assert.Equal(t, "https://auth.example.com", oauth.AuthorizationURL())
	assert.Equal(t, []string{"read"}, oauth.Scopes())
}

func TestSetAuthParamsDefaultsToBasic(t *testing.T) {
	req := Request{}

	req = req.SetAuthParams(Params{"user": "x"})

	require.Len(t, req.Auth, 1)
	basic, ok := req.Auth[0].(BasicAuth)
	require.True(t, ok)
	assert.Equal(t, AuthBasic, basic.Type())
	v, ok := basic.Param("user")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	assert.Equal(t, "x", basic.Username())
}

func TestSetAuthTypeUnsupported(t *testing.T) {
	req, err := Request{}.SetAuthType(AuthAPIKey, Params{ParamName: "X-Key"})
	require.NoError(t, err)

	got, err := req.SetAuthType("bogus", Params{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, flowerrors.ErrUnsupportedAuth))
	var authErr *flowerrors.UnsupportedAuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "bogus", authErr.Tag)
	assert.Equal(t, req, got)
	assert.Len(t, got.Auth, 1)
}

func TestSetAuthTypeKeepsAlternatives(t *testing.T) {
	req, err := Request{}.SetAuthType(AuthBasic, nil)
	require.NoError(t, err)
	req, err = req.SetAuthType(AuthAPIKey, Params{ParamName: "api_key", ParamIn: "query"})
	require.NoError(t, err)

	req = req.SetAuthParams(Params{ParamDescription: "key auth"})

	require.Len(t, req.Auth, 2)
	assert.Equal(t, AuthBasic, req.Auth[0].Type())
	_, hasDesc := req.Auth[0].Param(ParamDescription)
	assert.False(t, hasDesc)

	active, ok := req.ActiveAuth()
	require.True(t, ok)
	key := active.(ApiKeyAuth)
	assert.Equal(t, "api_key", key.Name())
	assert.Equal(t, "query", key.In())
	desc, _ := key.Param(ParamDescription)
	assert.Equal(t, "key auth", desc)
}

func TestSetAuthParamsDoesNotAliasCopies(t *testing.T) {
	orig, err := Request{}.SetAuthType(AuthDigest, Params{ParamRealm: "r1"})
	require.NoError(t, err)

	changed := orig.SetAuthParams(Params{ParamRealm: "r2"})

	assert.Equal(t, "r1", orig.Auth[0].(DigestAuth).Realm())
	assert.Equal(t, "r2", changed.Auth[0].(DigestAuth).Realm())
}

func TestActiveAuthEmpty(t *testing.T) {
	_, ok := Request{}.ActiveAuth()
	assert.False(t, ok)
}

func TestRequestWithHelpersDoNotAlias(t *testing.T) {
	base := Request{Headers: make([]KeyValue, 0, 4)}
	a := base.WithHeader(KeyValue{Key: "A", Value: "1"})
	b := base.WithHeader(KeyValue{Key: "B", Value: "2"})

	assert.Empty(t, base.Headers)
	require.Len(t, a.Headers, 1)
	require.Len(t, b.Headers, 1)
	assert.Equal(t, "A", a.Headers[0].Key)
	assert.Equal(t, "B", b.Headers[0].Key)

	h, ok := a.Header("A")
	assert.True(t, ok)
	assert.Equal(t, "1", h.Value)
	_, ok = a.Header("B")
	assert.False(t, ok)
}

func TestRequestBuilders(t *testing.T) {
	resp := Response{Code: "200", Description: "ok"}.WithHeader(KeyValue{Key: "X-Rate-Limit", ValueType: "integer"})
	req := Request{Name: "list"}.
		WithQuery(KeyValue{Key: "limit", Value: 10, ValueType: "integer"}).
		WithBody(KeyValue{Key: "upload", Value: FileReference{FilePath: "a.txt"}, ValueType: "file"}).
		WithResponse(resp)

	assert.Equal(t, "list", req.MemberName())
	assert.Equal(t, "limit", req.Queries[0].Key)
	assert.Equal(t, FileReference{FilePath: "a.txt"}, req.Body[0].Value)
	require.Len(t, req.Responses, 1)
	assert.Equal(t, "X-Rate-Limit", req.Responses[0].Headers[0].Key)
}
