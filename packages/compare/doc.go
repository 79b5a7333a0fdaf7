// Package compare provides the structural equality used by pathmatch.
//
// Values are parsed JSON trees (nil, bool, numbers, string, []any,
// map[string]any). Arrays compare in order, objects compare by key set and
// value. Numbers compare by value regardless of their Go type, so a float64
// decoded from a JSON body equals an int decoded from a YAML suite.
package compare
