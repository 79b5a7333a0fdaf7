package pathmatch

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a match failure.
type Kind int

const (
	KindConfiguration Kind = iota + 1
	KindTraversal
	KindTypeMismatch
	KindCardinality
	KindContentMismatch
)

var (
	ErrConfiguration   = errors.New("configuration error")
	ErrTraversal       = errors.New("path traversal failed")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrCardinality     = errors.New("nothing to match against")
	ErrContentMismatch = errors.New("content mismatch")
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTraversal:
		return "traversal"
	case KindTypeMismatch:
		return "type_mismatch"
	case KindCardinality:
		return "cardinality"
	case KindContentMismatch:
		return "content_mismatch"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindTraversal:
		return ErrTraversal
	case KindTypeMismatch:
		return ErrTypeMismatch
	case KindCardinality:
		return ErrCardinality
	case KindContentMismatch:
		return ErrContentMismatch
	default:
		return nil
	}
}

// MatchError describes why a document did not satisfy an expectation.
type MatchError struct {
	Kind       Kind
	Path       string
	Quantifier Quantifier
	Not        bool
	// Index is the offending array element, or -1.
	Index    int
	Expected any
	Actual   any
	Message  string
	// Err is the underlying cause, e.g. a schema compilation error.
	Err error
}

func (e *MatchError) Error() string {
	var b strings.Builder
	if e.Index >= 0 {
		fmt.Fprintf(&b, "item[%d]: ", e.Index)
	}
	b.WriteString(e.Message)

	if e.Path != "" {
		fmt.Fprintf(&b, " (path %q", e.Path)
		if e.Quantifier != QuantifierNone {
			fmt.Fprintf(&b, ", quantifier %s", e.Quantifier)
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes the kind sentinel and the underlying cause.
func (e *MatchError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the Kind of a match failure, or 0 if err is not one.
func KindOf(err error) Kind {
	var me *MatchError
	if errors.As(err, &me) {
		return me.Kind
	}
	return 0
}

func configError(format string, args ...any) *MatchError {
	return &MatchError{Kind: KindConfiguration, Index: -1, Message: fmt.Sprintf(format, args...)}
}
