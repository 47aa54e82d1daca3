// Package naming derives identifiers and display names for requests.
//
// Format parsers name requests after their summary and fall back to
// "METHOD path"; serializers that need an identifier, such as a Swagger
// operationId, derive one from the method and path with OperationID.
package naming
