// Package schema validates parsed JSON values against JSON Schema documents.
//
// A schema descriptor can be given in several forms:
//   - a decoded schema document (map[string]any, bool)
//   - a JSON type name shorthand ("string", "number", "integer", "boolean",
//     "array", "object", "null")
//   - inline JSON text ("{\"type\": \"object\"}")
//   - a path to a schema file, resolved against the validator's base directory
//   - raw bytes, a gojsonschema.JSONLoader or a compiled *gojsonschema.Schema
//
// Validation never fails because the value is non-conforming; that outcome
// is reported in the Result. An error means the descriptor itself is unusable.
package schema
