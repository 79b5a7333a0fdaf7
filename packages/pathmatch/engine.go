package pathmatch

import (
	"fmt"

	"github.com/abdul-hamid-achik/pathmatch/packages/compare"
	"github.com/abdul-hamid-achik/pathmatch/packages/schema"
)

// Comparator decides structural equality of two JSON values.
type Comparator interface {
	Equal(actual, expected any) bool
}

// Differ is optionally implemented by a Comparator to explain a mismatch.
type Differ interface {
	Diff(actual, expected any) string
}

// Validator compiles a schema descriptor once per match. Compile fails
// only for descriptors that cannot be used; a non-conforming value is
// reported through the Result of the compiled schema.
type Validator interface {
	Compile(descriptor any) (schema.Schema, error)
}

// Diagnostics receives warnings, e.g. *logrus.Logger or *logrus.Entry.
type Diagnostics interface {
	Warnf(format string, args ...any)
}

type nopDiagnostics struct{}

func (nopDiagnostics) Warnf(string, ...any) {}

// Mode selects the comparison strategy.
type Mode int

const (
	ModeLiteral Mode = iota
	ModeSchema
)

func (m Mode) String() string {
	if m == ModeSchema {
		return "schema"
	}
	return "equals"
}

// Request is a single assertion.
type Request struct {
	// Body is the document under test.
	Body any
	// Expected is the literal value (ModeLiteral) or the schema descriptor
	// (ModeSchema).
	Expected any
	// Path selects the value to match; "" selects Body itself.
	Path string
	// Not negates the assertion.
	Not bool
}

// Engine evaluates requests. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	comparator Comparator
	validator  Validator
	diag       Diagnostics
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

func WithComparator(c Comparator) Option {
	return func(e *Engine) {
		if c != nil {
			e.comparator = c
		}
	}
}

func WithValidator(v Validator) Option {
	return func(e *Engine) {
		if v != nil {
			e.validator = v
		}
	}
}

func WithDiagnostics(d Diagnostics) Option {
	return func(e *Engine) {
		if d != nil {
			e.diag = d
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		comparator: compare.New(),
		validator:  schema.NewValidator(),
		diag:       nopDiagnostics{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// With returns a copy of e with opts applied.
func (e *Engine) With(opts ...Option) *Engine {
	clone := *e
	for _, opt := range opts {
		opt(&clone)
	}
	return &clone
}

// Match dispatches to MatchLiteral or MatchSchema.
func (e *Engine) Match(mode Mode, req Request) error {
	switch mode {
	case ModeLiteral:
		return e.MatchLiteral(req)
	case ModeSchema:
		return e.MatchSchema(req)
	default:
		return configError("unknown match mode %d", mode)
	}
}

// MatchLiteral and MatchSchema on a default engine.
func MatchLiteral(req Request) error { return NewEngine().MatchLiteral(req) }
func MatchSchema(req Request) error  { return NewEngine().MatchSchema(req) }

// evaluation carries one request through a match.
type evaluation struct {
	req      Request
	resolved ResolvedPath
	schema   schema.Schema
}

// vacuous reports whether a negated request passes because its path does
// not exist. Quantified paths still need an array to iterate.
func (ev *evaluation) vacuous() bool {
	return ev.resolved.Missing && ev.resolved.Quantifier == QuantifierNone
}

func (e *Engine) prepare(req Request) (*evaluation, error) {
	if req.Body == nil {
		return nil, configError("body is not defined")
	}
	if req.Expected == nil {
		return nil, configError("expected value is not defined")
	}

	ev := &evaluation{req: req}
	if req.Path == "" {
		ev.resolved = ResolvedPath{Value: req.Body}
		return ev, nil
	}

	resolved, err := Resolve(req.Path, req.Body, req.Not, e.diag)
	if err != nil {
		return nil, err
	}
	ev.resolved = resolved
	return ev, nil
}

func (ev *evaluation) fail(kind Kind, index int, actual any, format string, args ...any) *MatchError {
	return &MatchError{
		Kind:       kind,
		Path:       ev.req.Path,
		Quantifier: ev.resolved.Quantifier,
		Not:        ev.req.Not,
		Index:      index,
		Expected:   ev.req.Expected,
		Actual:     actual,
		Message:    fmt.Sprintf(format, args...),
	}
}

// items returns the resolved value as an array, as required by a quantifier.
func (ev *evaluation) items() ([]any, error) {
	if ev.resolved.Missing {
		return nil, ev.fail(KindTypeMismatch, -1, nil,
			"expected an array but the path does not exist")
	}
	items, ok := asArray(ev.resolved.Value)
	if !ok {
		return nil, ev.fail(KindTypeMismatch, -1, ev.resolved.Value,
			"expected an array but got %s", typeName(ev.resolved.Value))
	}
	return items, nil
}

// requireItems additionally rejects an empty array unless the request is negated.
func (ev *evaluation) requireItems() ([]any, error) {
	items, err := ev.items()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 && !ev.req.Not {
		return nil, ev.fail(KindCardinality, -1, items, "there are no items to match against")
	}
	return items, nil
}
