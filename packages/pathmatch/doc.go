// Package pathmatch decides whether a parsed JSON document satisfies an
// expectation at a dotted path.
//
// A path is a sequence of '.' separated segments. Each segment indexes an
// object by key (or an array by decimal index). The last segment may be a
// quantifier token:
//   - "*" every element of the array reached so far must match
//   - "?" at least one element of the array reached so far must match
//
// Two comparison modes are supported. MatchLiteral compares with structural
// equality; MatchSchema checks conformance to a JSON Schema. Either can be
// negated with Request.Not, and negation is defined per quantifier:
//
//	quantifier  literal, Not            schema, Not
//	none        value != expected       always passes
//	*           no element == expected  no element conforms
//	?           no element == expected  no element conforms
//
// A path that cannot be resolved fails the match, unless the request is
// negated. A negated assertion over a location that does not exist sends a
// warning to the engine's Diagnostics and passes when the path has no
// quantifier; a quantified path still fails because there is no array.
//
// Failures are returned as *MatchError values. Use errors.Is with
// ErrConfiguration, ErrTraversal, ErrTypeMismatch, ErrCardinality or
// ErrContentMismatch to tell them apart.
package pathmatch
