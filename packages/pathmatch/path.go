package pathmatch

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Quantifier selects how the value at the end of a path is matched.
type Quantifier int

const (
	// QuantifierNone matches the value itself.
	QuantifierNone Quantifier = iota
	// QuantifierAll requires every element of an array to match.
	QuantifierAll
	// QuantifierAny requires at least one element of an array to match.
	QuantifierAny
)

// Path tokens for the quantifiers.
const (
	TokenAll = "*"
	TokenAny = "?"
)

func (q Quantifier) String() string {
	switch q {
	case QuantifierAll:
		return "all"
	case QuantifierAny:
		return "any"
	default:
		return "none"
	}
}

// Token returns the path token for q, or "" for QuantifierNone.
func (q Quantifier) Token() string {
	switch q {
	case QuantifierAll:
		return TokenAll
	case QuantifierAny:
		return TokenAny
	default:
		return ""
	}
}

func quantifierOf(segment string) (Quantifier, bool) {
	switch segment {
	case TokenAll:
		return QuantifierAll, true
	case TokenAny:
		return QuantifierAny, true
	default:
		return QuantifierNone, false
	}
}

// Path is a parsed dotted path.
type Path struct {
	Raw string
	// Segments are the keys to walk, quantifier token excluded.
	Segments   []string
	Quantifier Quantifier
}

// ParsePath splits raw on '.' and extracts a trailing quantifier token.
// An empty raw path selects the root. Empty segments and quantifier tokens
// anywhere but the last position are rejected.
func ParsePath(raw string) (Path, error) {
	p := Path{Raw: raw}
	if raw == "" {
		return p, nil
	}

	segments := strings.Split(raw, ".")
	last := len(segments) - 1
	for i, segment := range segments {
		if segment == "" {
			return Path{}, &MatchError{
				Kind:    KindConfiguration,
				Path:    raw,
				Index:   -1,
				Message: fmt.Sprintf("invalid path: empty segment at position %d", i),
			}
		}
		if q, ok := quantifierOf(segment); ok {
			if i != last {
				return Path{}, &MatchError{
					Kind:    KindConfiguration,
					Path:    raw,
					Index:   -1,
					Message: fmt.Sprintf("invalid path: quantifier %q must be the last segment", segment),
				}
			}
			p.Quantifier = q
			continue
		}
		p.Segments = append(p.Segments, segment)
	}
	return p, nil
}

func (p Path) String() string {
	return p.Raw
}

// ResolvedPath is the outcome of walking a document along a Path.
type ResolvedPath struct {
	Quantifier Quantifier
	Value      any
	// Missing is set when the path did not exist and the failure was
	// suppressed because the assertion is negated.
	Missing bool
}

// Resolve parses raw and walks root along it.
func Resolve(raw string, root any, isNot bool, diag Diagnostics) (ResolvedPath, error) {
	p, err := ParsePath(raw)
	if err != nil {
		return ResolvedPath{}, err
	}
	return p.Resolve(root, isNot, diag)
}

// Resolve walks root along the path. A traversal failure is returned as a
// KindTraversal error unless isNot is set, in which case a warning is sent
// to diag and the result is marked Missing.
func (p Path) Resolve(root any, isNot bool, diag Diagnostics) (ResolvedPath, error) {
	resolved := ResolvedPath{Quantifier: p.Quantifier}

	value, err := p.walk(root)
	if err != nil {
		if !isNot {
			return ResolvedPath{}, err
		}
		if diag != nil {
			diag.Warnf("path %q does not exist in the document (%s); the failure was suppressed because the assertion is negated, a schema check is usually a better fit", p.Raw, err.Message)
		}
		resolved.Missing = true
		return resolved, nil
	}

	resolved.Value = value
	return resolved, nil
}

func (p Path) walk(root any) (any, *MatchError) {
	current := root
	for i, segment := range p.Segments {
		next, err := index(current, segment)
		if err != nil {
			return nil, &MatchError{
				Kind:       KindTraversal,
				Path:       p.Raw,
				Quantifier: p.Quantifier,
				Index:      -1,
				Actual:     current,
				Message:    fmt.Sprintf("cannot resolve %q: %v", strings.Join(p.Segments[:i+1], "."), err),
			}
		}
		current = next
	}
	return current, nil
}

// index reads one segment out of a JSON container.
func index(value any, segment string) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("cannot read %q of null", segment)
	case map[string]any:
		child, ok := v[segment]
		if !ok {
			return nil, fmt.Errorf("key %q not found", segment)
		}
		return child, nil
	case []any:
		i, err := arrayIndex(segment, len(v))
		if err != nil {
			return nil, err
		}
		return v[i], nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, fmt.Errorf("cannot read %q of null", segment)
		}
		return index(rv.Elem().Interface(), segment)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		child := rv.MapIndex(reflect.ValueOf(segment).Convert(rv.Type().Key()))
		if !child.IsValid() {
			return nil, fmt.Errorf("key %q not found", segment)
		}
		return child.Interface(), nil
	case reflect.Slice, reflect.Array:
		i, err := arrayIndex(segment, rv.Len())
		if err != nil {
			return nil, err
		}
		return rv.Index(i).Interface(), nil
	}

	return nil, fmt.Errorf("cannot read %q of %s", segment, typeName(value))
}

func arrayIndex(segment string, length int) (int, error) {
	i, err := strconv.Atoi(segment)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%q is not an array index", segment)
	}
	if i >= length {
		return 0, fmt.Errorf("index %d out of range (length %d)", i, length)
	}
	return i, nil
}
