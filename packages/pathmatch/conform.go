package pathmatch

import "github.com/abdul-hamid-achik/pathmatch/packages/schema"

// MatchSchema checks the value at req.Path for conformance to the schema
// described by req.Expected under the path's quantifier.
func (e *Engine) MatchSchema(req Request) error {
	ev, err := e.prepare(req)
	if err != nil {
		return err
	}
	if err := e.compile(ev); err != nil {
		return err
	}
	if ev.vacuous() {
		return nil
	}

	switch ev.resolved.Quantifier {
	case QuantifierAll:
		return e.schemaAll(ev)
	case QuantifierAny:
		return e.schemaAny(ev)
	default:
		return e.schemaValue(ev)
	}
}

// compile turns the descriptor into a schema before any element is looked
// at, so an unusable schema fails even when there is nothing to validate.
func (e *Engine) compile(ev *evaluation) error {
	compiled, err := e.validator.Compile(ev.req.Expected)
	if err != nil {
		me := ev.fail(KindConfiguration, -1, nil, "unusable schema")
		me.Err = err
		return me
	}
	ev.schema = compiled
	return nil
}

func (e *Engine) validate(ev *evaluation, value any) (*schema.Result, error) {
	result, err := ev.schema.Validate(value)
	if err != nil {
		me := ev.fail(KindConfiguration, -1, nil, "unusable schema")
		me.Err = err
		return nil, me
	}
	return result, nil
}

// schemaValue only enforces conformance for a non-negated request; a negated
// schema check on a single value passes as long as the schema is usable.
func (e *Engine) schemaValue(ev *evaluation) error {
	result, err := e.validate(ev, ev.resolved.Value)
	if err != nil {
		return err
	}
	if !result.Valid && !ev.req.Not {
		return ev.fail(KindContentMismatch, -1, ev.resolved.Value,
			"schema validation failed: %s", result)
	}
	return nil
}

// schemaAll requires every element to conform, or with Not, every element
// to fail conformance.
func (e *Engine) schemaAll(ev *evaluation) error {
	items, err := ev.items()
	if err != nil {
		return err
	}

	invalid := 0
	for i, item := range items {
		result, err := e.validate(ev, item)
		if err != nil {
			return err
		}
		if result.Valid {
			continue
		}
		if !ev.req.Not {
			return ev.fail(KindContentMismatch, i, item, "schema validation failed: %s", result)
		}
		invalid++
	}

	if ev.req.Not {
		if valid := len(items) - invalid; valid != 0 {
			return ev.fail(KindContentMismatch, -1, items,
				"expected all items to be invalid but %d/%d validated successfully", valid, len(items))
		}
	}
	return nil
}

// schemaAny requires one element to conform, or with Not, none to conform.
func (e *Engine) schemaAny(ev *evaluation) error {
	items, err := ev.requireItems()
	if err != nil {
		return err
	}

	invalid := 0
	firstValid := -1
	for i, item := range items {
		result, err := e.validate(ev, item)
		if err != nil {
			return err
		}
		if !result.Valid {
			invalid++
		} else if firstValid < 0 {
			firstValid = i
		}
	}

	if !ev.req.Not && invalid == len(items) {
		return ev.fail(KindContentMismatch, -1, items,
			"expected one out of %s to match the schema", plural(len(items), "item"))
	}
	if ev.req.Not && firstValid >= 0 {
		return ev.fail(KindContentMismatch, -1, items,
			"expected no item to match the schema, but item[%d] does", firstValid)
	}
	return nil
}
