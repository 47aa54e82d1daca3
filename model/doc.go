// Package model defines the canonical, format-independent representation of
// an API description.
//
// Every format parser produces a RequestContext and every serializer consumes
// one. The model has two parts:
//
//   - the schema graph (Schema, SchemaReference): a JSON-Schema-like tree built
//     with MergeSchema, whose "$ref" entries are resolved lazily by Resolve to an
//     explicit, bounded depth, so reference cycles always terminate;
//   - the request tree (Group, Request, Response, Auth): the operations of the
//     API grouped by folder, tag or path.
//
// All model values are immutable in practice: operations that look like
// mutations (MergeSchema, Resolve, SetAuthType, WithChild, ...) return new
// values and leave their receivers valid and unchanged.
//
// # Example
//
//	s := model.SchemaFrom(raw)
//	resolved := s.ResolveSelf(0)
//	out := resolved.ToJS()
//
//	req := model.Request{Method: "GET", URL: "https://api.example.com/pets"}
//	req, err := req.SetAuthType(model.AuthOAuth2, model.Params{"flow": "implicit"})
//	req = req.SetAuthParams(model.Params{"scope": "read"})
package model
