package compare

import (
	"encoding/json"
	"strconv"

	"github.com/google/go-cmp/cmp"
)

// Deep compares parsed JSON values structurally.
type Deep struct {
	opts []cmp.Option
}

// New returns a Deep comparator. Extra go-cmp options are applied after the
// numeric equivalence rule, e.g. cmpopts.EquateEmpty().
func New(opts ...cmp.Option) *Deep {
	d := &Deep{opts: make([]cmp.Option, 0, len(opts)+1)}
	d.opts = append(d.opts, numericEquivalence())
	d.opts = append(d.opts, opts...)
	return d
}

// Equal reports whether actual and expected are the same JSON value.
func (d *Deep) Equal(actual, expected any) bool {
	return cmp.Equal(actual, expected, d.opts...)
}

// Diff returns a human readable report of the differences, in
// (-expected +actual) form. It is empty when the values are equal.
func (d *Deep) Diff(actual, expected any) string {
	return cmp.Diff(expected, actual, d.opts...)
}

// numericEquivalence makes any two numbers compare by value, whatever Go type
// the decoder picked for them.
func numericEquivalence() cmp.Option {
	bothNumeric := func(x, y any) bool {
		_, xok := ToFloat64(x)
		_, yok := ToFloat64(y)
		return xok && yok
	}
	return cmp.FilterValues(bothNumeric, cmp.Comparer(func(x, y any) bool {
		a, _ := ToFloat64(x)
		b, _ := ToFloat64(y)
		return a == b
	}))
}

// ToFloat64 converts a decoded JSON number to float64. Strings are not
// numbers here: "1" and 1 are different JSON values.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint8:
		return float64(n), true
	case json.Number:
		if f, err := strconv.ParseFloat(n.String(), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
