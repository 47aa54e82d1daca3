package model

import (
	"slices"
	"time"
)

// KeyValue is a named value such as a header, query parameter or form field.
// ValueType is the declared type of the value ("string", "integer", "file",
// ...), when the source format documents one.
type KeyValue struct {
	Key       string
	Value     any
	ValueType string
}

// FileReference is a file attachment used as a KeyValue value.
type FileReference struct {
	FilePath string
	Convert  bool
}

// Response is one documented response of a request.
type Response struct {
	Code        string
	Description string
	Schema      *Schema
	Headers     []KeyValue
}

// WithHeader returns a copy of r with kv appended to its headers.
func (r Response) WithHeader(kv KeyValue) Response {
	r.Headers = append(slices.Clip(r.Headers), kv)
	return r
}

// Request is one operation of an API.
//
// Request is a value type. The With* and SetAuth* methods return modified
// copies; slices are never appended to in place, so copies do not alias each
// other's backing arrays.
type Request struct {
	Name        string
	Description string
	URL         string
	Method      string
	Headers     []KeyValue
	Queries     []KeyValue
	BodyType    string
	BodyString  string
	Body        []KeyValue
	Auth        []Auth
	Responses   []Response
	Timeout     time.Duration
}

// MemberName implements Member.
func (r Request) MemberName() string { return r.Name }

func (Request) groupMember() {}

// WithHeader returns a copy of r with kv appended to its headers.
func (r Request) WithHeader(kv KeyValue) Request {
	r.Headers = append(slices.Clip(r.Headers), kv)
	return r
}

// WithQuery returns a copy of r with kv appended to its query parameters.
func (r Request) WithQuery(kv KeyValue) Request {
	r.Queries = append(slices.Clip(r.Queries), kv)
	return r
}

// WithBody returns a copy of r with kv appended to its body fields.
func (r Request) WithBody(kv KeyValue) Request {
	r.Body = append(slices.Clip(r.Body), kv)
	return r
}

// WithResponse returns a copy of r with resp appended.
func (r Request) WithResponse(resp Response) Request {
	r.Responses = append(slices.Clip(r.Responses), resp)
	return r
}

// Header returns the first header named key.
func (r Request) Header(key string) (KeyValue, bool) {
	i := slices.IndexFunc(r.Headers, func(kv KeyValue) bool { return kv.Key == key })
	if i < 0 {
		return KeyValue{}, false
	}
	return r.Headers[i], true
}

// SetAuthType appends a new auth of type t seeded with params. An
// unrecognized t returns a *flowerrors.UnsupportedAuthError and r unchanged.
// Several schemes may be attached to document alternatives; the last one is
// the active one.
func (r Request) SetAuthType(t AuthType, params Params) (Request, error) {
	auth, err := NewAuth(t, params)
	if err != nil {
		return r, err
	}
	r.Auth = append(slices.Clip(r.Auth), auth)
	return r, nil
}

// SetAuthParams merges params into the active (last) auth.
//
// When no auth has been set yet, a BasicAuth is created first. Parsers rely
// on this fallback, so it is kept even though it can hide a missing
// SetAuthType call.
func (r Request) SetAuthParams(params Params) Request {
	auths := slices.Clone(r.Auth)
	if len(auths) == 0 {
		auths = append(auths, BasicAuth{})
	}
	last := len(auths) - 1
	auths[last] = auths[last].Merge(params)
	r.Auth = auths
	return r
}

// ActiveAuth returns the auth under configuration, i.e. the last one.
func (r Request) ActiveAuth() (Auth, bool) {
	if len(r.Auth) == 0 {
		return nil, false
	}
	return r.Auth[len(r.Auth)-1], true
}
