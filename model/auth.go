package model

import (
	"maps"
	"slices"
	"strings"

	"github.com/erraggy/apiflow/flowerrors"
	"github.com/erraggy/apiflow/rawdoc"
	"golang.org/x/oauth2"
)

// AuthType is the variant tag of an Auth.
type AuthType string

// Recognized auth variant tags.
const (
	AuthBasic     AuthType = "basic"
	AuthDigest    AuthType = "digest"
	AuthNTLM      AuthType = "ntlm"
	AuthNegotiate AuthType = "negotiate"
	AuthAPIKey    AuthType = "apiKey"
	AuthOAuth1    AuthType = "oauth1"
	AuthOAuth2    AuthType = "oauth2"
)

// AuthTypes returns every recognized tag.
func AuthTypes() []AuthType {
	return []AuthType{AuthBasic, AuthDigest, AuthNTLM, AuthNegotiate, AuthAPIKey, AuthOAuth1, AuthOAuth2}
}

// Valid reports whether t is a recognized tag.
func (t AuthType) Valid() bool {
	return slices.Contains(AuthTypes(), t)
}

// Well-known parameter names. Variants keep unknown names too.
const (
	ParamUsername         = "username"
	ParamPassword         = "password"
	ParamRealm            = "realm"
	ParamNonce            = "nonce"
	ParamAlgorithm        = "algorithm"
	ParamQOP              = "qop"
	ParamDomain           = "domain"
	ParamWorkstation      = "workstation"
	ParamName             = "name"
	ParamIn               = "in"
	ParamKey              = "key"
	ParamDescription      = "description"
	ParamConsumerKey      = "consumerKey"
	ParamConsumerSecret   = "consumerSecret"
	ParamToken            = "token"
	ParamTokenSecret      = "tokenSecret"
	ParamSignatureMethod  = "signatureMethod"
	ParamCallback         = "callback"
	ParamRequestTokenURL  = "requestTokenUrl"
	ParamFlow             = "flow"
	ParamAuthorizationURL = "authorizationUrl"
	ParamTokenURL         = "tokenUrl"
	ParamRedirectURL      = "redirectUrl"
	ParamClientID         = "clientId"
	ParamClientSecret     = "clientSecret"
	ParamScopes           = "scopes"
	ParamScope            = "scope"
)

// Params is a set of auth parameters.
type Params map[string]any

// Auth is one authentication scheme attached to a request. The concrete type
// is one of BasicAuth, DigestAuth, NTLMAuth, NegotiateAuth, ApiKeyAuth,
// OAuth1Auth or OAuth2Auth.
type Auth interface {
	// Type returns the variant tag.
	Type() AuthType
	// Params returns a copy of every parameter.
	Params() Params
	// Param returns a single parameter.
	Param(key string) (any, bool)
	// Merge returns a copy of the auth with params laid over the existing ones.
	Merge(params Params) Auth
}

// NewAuth builds the variant named by t, seeded with params.
func NewAuth(t AuthType, params Params) (Auth, error) {
	base := authBase{}.merged(params)
	switch t {
	case AuthBasic:
		return BasicAuth{base}, nil
	case AuthDigest:
		return DigestAuth{base}, nil
	case AuthNTLM:
		return NTLMAuth{base}, nil
	case AuthNegotiate:
		return NegotiateAuth{base}, nil
	case AuthAPIKey:
		return ApiKeyAuth{base}, nil
	case AuthOAuth1:
		return OAuth1Auth{base}, nil
	case AuthOAuth2:
		return OAuth2Auth{base}, nil
	default:
		return nil, &flowerrors.UnsupportedAuthError{Tag: string(t)}
	}
}

type authBase struct {
	params Params
}

func (a authBase) Params() Params {
	if a.params == nil {
		return Params{}
	}
	return maps.Clone(a.params)
}

func (a authBase) Param(key string) (any, bool) {
	v, ok := a.params[key]
	return v, ok
}

func (a authBase) merged(params Params) authBase {
	out := make(Params, len(a.params)+len(params))
	maps.Copy(out, a.params)
	maps.Copy(out, params)
	return authBase{params: out}
}

// str returns the first of keys present as a string.
func (a authBase) str(keys ...string) string {
	for _, k := range keys {
		if v, ok := a.params[k]; ok {
			return rawdoc.Scalar(v)
		}
	}
	return ""
}

// BasicAuth is HTTP Basic authentication.
type BasicAuth struct{ authBase }

// Type implements Auth.
func (BasicAuth) Type() AuthType { return AuthBasic }

// Merge implements Auth.
func (a BasicAuth) Merge(params Params) Auth { return BasicAuth{a.merged(params)} }

// Username returns the user name ("username", or the legacy "user").
func (a BasicAuth) Username() string { return a.str(ParamUsername, "user") }

// Password returns the password.
func (a BasicAuth) Password() string { return a.str(ParamPassword) }

// DigestAuth is HTTP Digest authentication.
type DigestAuth struct{ authBase }

// Type implements Auth.
func (DigestAuth) Type() AuthType { return AuthDigest }

// Merge implements Auth.
func (a DigestAuth) Merge(params Params) Auth { return DigestAuth{a.merged(params)} }

// Username returns the user name.
func (a DigestAuth) Username() string { return a.str(ParamUsername, "user") }

// Password returns the password.
func (a DigestAuth) Password() string { return a.str(ParamPassword) }

// Realm returns the protection realm.
func (a DigestAuth) Realm() string { return a.str(ParamRealm) }

// Algorithm returns the digest algorithm, e.g. "MD5".
func (a DigestAuth) Algorithm() string { return a.str(ParamAlgorithm) }

// NTLMAuth is Windows NTLM authentication.
type NTLMAuth struct{ authBase }

// Type implements Auth.
func (NTLMAuth) Type() AuthType { return AuthNTLM }

// Merge implements Auth.
func (a NTLMAuth) Merge(params Params) Auth { return NTLMAuth{a.merged(params)} }

// Username returns the user name.
func (a NTLMAuth) Username() string { return a.str(ParamUsername, "user") }

// Domain returns the NT domain.
func (a NTLMAuth) Domain() string { return a.str(ParamDomain) }

// NegotiateAuth is SPNEGO (Kerberos/NTLM negotiation).
type NegotiateAuth struct{ authBase }

// Type implements Auth.
func (NegotiateAuth) Type() AuthType { return AuthNegotiate }

// Merge implements Auth.
func (a NegotiateAuth) Merge(params Params) Auth { return NegotiateAuth{a.merged(params)} }

// Username returns the user name.
func (a NegotiateAuth) Username() string { return a.str(ParamUsername, "user") }

// ApiKeyAuth is an API key sent in a header, query parameter or cookie.
//
//nolint:revive // matches the "apiKey" tag used by every supported format
type ApiKeyAuth struct{ authBase }

// Type implements Auth.
func (ApiKeyAuth) Type() AuthType { return AuthAPIKey }

// Merge implements Auth.
func (a ApiKeyAuth) Merge(params Params) Auth { return ApiKeyAuth{a.merged(params)} }

// Name returns the header or parameter name carrying the key.
func (a ApiKeyAuth) Name() string { return a.str(ParamName) }

// In returns where the key is sent: "header", "query" or "cookie".
// Defaults to "header".
func (a ApiKeyAuth) In() string {
	if in := a.str(ParamIn); in != "" {
		return in
	}
	return "header"
}

// Key returns the key value, if documented.
func (a ApiKeyAuth) Key() string { return a.str(ParamKey) }

// OAuth1Auth is OAuth 1.0a.
type OAuth1Auth struct{ authBase }

// Type implements Auth.
func (OAuth1Auth) Type() AuthType { return AuthOAuth1 }

// Merge implements Auth.
func (a OAuth1Auth) Merge(params Params) Auth { return OAuth1Auth{a.merged(params)} }

// ConsumerKey returns the consumer key.
func (a OAuth1Auth) ConsumerKey() string { return a.str(ParamConsumerKey) }

// SignatureMethod returns the signature method, defaulting to HMAC-SHA1.
func (a OAuth1Auth) SignatureMethod() string {
	if m := a.str(ParamSignatureMethod); m != "" {
		return m
	}
	return "HMAC-SHA1"
}

// AuthorizationURL returns the resource owner authorization endpoint.
func (a OAuth1Auth) AuthorizationURL() string { return a.str(ParamAuthorizationURL) }

// TokenURL returns the token credentials endpoint.
func (a OAuth1Auth) TokenURL() string { return a.str(ParamTokenURL) }

// RequestTokenURL returns the temporary credentials endpoint.
func (a OAuth1Auth) RequestTokenURL() string { return a.str(ParamRequestTokenURL) }

// OAuth2Auth is OAuth 2.0.
type OAuth2Auth struct{ authBase }

// Type implements Auth.
func (OAuth2Auth) Type() AuthType { return AuthOAuth2 }

// Merge implements Auth.
func (a OAuth2Auth) Merge(params Params) Auth { return OAuth2Auth{a.merged(params)} }

// Flow returns the grant flow ("implicit", "password", "application",
// "accessCode", or the OpenAPI 3 names).
func (a OAuth2Auth) Flow() string { return a.str(ParamFlow) }

// AuthorizationURL returns the authorization endpoint.
func (a OAuth2Auth) AuthorizationURL() string { return a.str(ParamAuthorizationURL) }

// TokenURL returns the token endpoint.
func (a OAuth2Auth) TokenURL() string { return a.str(ParamTokenURL) }

// Scopes returns the requested scopes, in order and without duplicates. Both
// the "scopes" list (or scope-to-description object) and the space-separated
// "scope" string contribute.
func (a OAuth2Auth) Scopes() []string {
	var scopes []string
	add := func(s string) {
		if s != "" && !slices.Contains(scopes, s) {
			scopes = append(scopes, s)
		}
	}

	switch v := a.params[ParamScopes].(type) {
	case []string:
		for _, s := range v {
			add(s)
		}
	case []any:
		for _, s := range v {
			add(rawdoc.Scalar(s))
		}
	case string:
		for _, s := range strings.Fields(v) {
			add(s)
		}
	default:
		if obj, ok := rawdoc.AsObject(v); ok {
			for _, k := range obj.Keys() {
				add(k)
			}
		}
	}
	for _, s := range strings.Fields(a.str(ParamScope)) {
		add(s)
	}
	return scopes
}

// ClientConfig renders the scheme as an oauth2 client configuration.
func (a OAuth2Auth) ClientConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.str(ParamClientID),
		ClientSecret: a.str(ParamClientSecret),
		RedirectURL:  a.str(ParamRedirectURL, ParamCallback),
		Scopes:       a.Scopes(),
		Endpoint: oauth2.Endpoint{
			AuthURL:  a.AuthorizationURL(),
			TokenURL: a.TokenURL(),
		},
	}
}

var (
	_ Auth = BasicAuth{}
	_ Auth = DigestAuth{}
	_ Auth = NTLMAuth{}
	_ Auth = NegotiateAuth{}
	_ Auth = ApiKeyAuth{}
	_ Auth = OAuth1Auth{}
	_ Auth = OAuth2Auth{}
)
