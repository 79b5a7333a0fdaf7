package pathmatch

import "strings"

// MatchLiteral checks the value at req.Path for structural equality with
// req.Expected under the path's quantifier.
func (e *Engine) MatchLiteral(req Request) error {
	ev, err := e.prepare(req)
	if err != nil {
		return err
	}
	if ev.vacuous() {
		return nil
	}

	switch ev.resolved.Quantifier {
	case QuantifierAll:
		return e.literalAll(ev)
	case QuantifierAny:
		return e.literalAny(ev)
	default:
		return e.literalValue(ev)
	}
}

func (e *Engine) literalValue(ev *evaluation) error {
	actual := ev.resolved.Value
	equal := e.comparator.Equal(actual, ev.req.Expected)
	switch {
	case ev.req.Not && equal:
		return ev.fail(KindContentMismatch, -1, actual,
			"expected not to equal %s", formatValue(ev.req.Expected))
	case !ev.req.Not && !equal:
		return ev.fail(KindContentMismatch, -1, actual, "%s", e.mismatch(actual, ev.req.Expected))
	}
	return nil
}

// literalAll fails on the first element that breaks the expectation.
func (e *Engine) literalAll(ev *evaluation) error {
	items, err := ev.items()
	if err != nil {
		return err
	}

	for i, item := range items {
		equal := e.comparator.Equal(item, ev.req.Expected)
		if ev.req.Not && equal {
			return ev.fail(KindContentMismatch, i, item,
				"expected not to equal %s", formatValue(ev.req.Expected))
		}
		if !ev.req.Not && !equal {
			return ev.fail(KindContentMismatch, i, item, "%s", e.mismatch(item, ev.req.Expected))
		}
	}
	return nil
}

func (e *Engine) literalAny(ev *evaluation) error {
	items, err := ev.requireItems()
	if err != nil {
		return err
	}

	i, found := containsMatching(items, func(item any) bool {
		return e.comparator.Equal(item, ev.req.Expected)
	})
	if ev.req.Not && found {
		return ev.fail(KindContentMismatch, -1, items,
			"expected no item to equal %s, but item[%d] does", formatValue(ev.req.Expected), i)
	}
	if !ev.req.Not && !found {
		return ev.fail(KindContentMismatch, -1, items,
			"expected one out of %s to equal %s", plural(len(items), "item"), formatValue(ev.req.Expected))
	}
	return nil
}

func (e *Engine) mismatch(actual, expected any) string {
	msg := "expected " + formatValue(expected) + ", got " + formatValue(actual)
	if d, ok := e.comparator.(Differ); ok {
		if diff := strings.TrimSpace(d.Diff(actual, expected)); diff != "" {
			msg += "\n" + diff
		}
	}
	return msg
}
