package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/pathmatch/packages/core/runner"
	"github.com/abdul-hamid-achik/pathmatch/packages/pathmatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *runner.RunResult {
	return &runner.RunResult{
		File:     "users.match.yaml",
		Suite:    "users",
		Duration: 3 * time.Millisecond,
		Passed:   1,
		Failed:   2,
		Skipped:  1,
		Results: []*runner.CaseResult{
			{
				Name:       "every user has an id",
				Path:       "users.*",
				Mode:       pathmatch.ModeSchema,
				Quantifier: pathmatch.QuantifierAll,
				Expected:   map[string]any{"type": "object"},
				Passed:     true,
			},
			{
				Name:       "no admin",
				Path:       "users.?",
				Mode:       pathmatch.ModeLiteral,
				Quantifier: pathmatch.QuantifierAny,
				Not:        true,
				Expected:   "admin",
				Kind:       pathmatch.KindContentMismatch,
				Message:    "expected no item to equal \"admin\", but item[1] does",
				Warnings:   []string{"something odd"},
			},
			{
				Name:     "broken schema",
				Path:     "users",
				Mode:     pathmatch.ModeSchema,
				Expected: "{not json",
				Kind:     pathmatch.KindConfiguration,
				Message:  "unusable schema",
			},
			{
				Name:       "later",
				Path:       "meta",
				Skipped:    true,
				SkipReason: "not ready",
			},
		},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		want any
	}{
		{"", &ConsoleFormatter{}},
		{"console", &ConsoleFormatter{}},
		{"JSON", &JSONFormatter{}},
		{"junit", &JUnitFormatter{}},
		{"tap", &TAPFormatter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.name, Options{Writer: &bytes.Buffer{}, NoColor: true})
			require.NoError(t, err)
			assert.IsType(t, tt.want, f)
		})
	}

	_, err := New("html", Options{})
	assert.ErrorContains(t, err, "unknown output format")
}

func TestConsoleFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatHeader("v1.0.0")
	f.FormatResult(sampleResult())
	out := buf.String()

	assert.Contains(t, out, "pathmatch v1.0.0")
	assert.Contains(t, out, "Running: users (users.match.yaml)")
	assert.Contains(t, out, "✓ every user has an id")
	assert.Contains(t, out, "✗ no admin")
	assert.Contains(t, out, "users.? not equals")
	assert.Contains(t, out, "Kind:     content_mismatch")
	assert.Contains(t, out, "! something odd")
	assert.Contains(t, out, "- later (not ready)")
	assert.Contains(t, out, "1 passed, 2 failed, 1 skipped, 4 total")
}

func TestConsoleFormatter_LoadError(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatResult(&runner.RunResult{File: "bad.match.yaml", Error: errors.New("no cases defined")})

	assert.Contains(t, buf.String(), "no cases defined")
	assert.NotContains(t, buf.String(), "total")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf), JSONWithRunID("run-1"))

	f.FormatResult(sampleResult())
	f.FormatResult(&runner.RunResult{File: "bad.match.yaml", Error: errors.New("no cases defined")})
	require.NoError(t, f.Flush(10*time.Millisecond))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "run-1", out.RunID)
	assert.Equal(t, JSONSummary{Total: 4, Passed: 1, Failed: 2, Skipped: 1, Errors: 1}, out.Summary)
	require.Len(t, out.Suites, 2)
	assert.Equal(t, "no cases defined", out.Suites[1].Error)

	c := out.Suites[0].Cases[1]
	assert.Equal(t, "not equals", c.Operator)
	assert.Equal(t, "any", c.Quantifier)
	assert.Equal(t, "content_mismatch", c.Kind)
	assert.True(t, c.Not)
	assert.Equal(t, []string{"something odd"}, c.Warnings)
}

func TestJSONFormatter_GeneratesRunID(t *testing.T) {
	a := NewJSONFormatter()
	b := NewJSONFormatter()
	assert.NotEmpty(t, a.runID)
	assert.NotEqual(t, a.runID, b.runID)
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))

	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(time.Second))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "<?xml"))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal([]byte(out[strings.Index(out, "\n")+1:]), &suites))

	assert.Equal(t, "pathmatch", suites.Name)
	assert.Equal(t, 4, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
	assert.Equal(t, 1, suites.Skipped)

	cases := suites.TestSuites[0].TestCases
	require.Len(t, cases, 4)
	assert.Nil(t, cases[0].Failure)
	require.NotNil(t, cases[1].Failure)
	assert.Equal(t, "content_mismatch", cases[1].Failure.Type)
	require.NotNil(t, cases[2].Error)
	assert.Equal(t, "configuration", cases[2].Error.Type)
	require.NotNil(t, cases[3].Skipped)
}

func TestJUnitFormatter_LoadError(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))

	f.FormatResult(&runner.RunResult{File: "bad.match.yaml", Error: errors.New("no cases defined")})
	require.NoError(t, f.Flush(time.Second))

	assert.Contains(t, buf.String(), `type="LoadError"`)
	assert.Contains(t, buf.String(), `errors="1"`)
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))

	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(time.Second))
	out := buf.String()

	assert.Contains(t, out, "TAP version 13\n1..4\n")
	assert.Contains(t, out, "ok 1 - every user has an id\n")
	assert.Contains(t, out, "not ok 2 - no admin\n")
	assert.Contains(t, out, "  kind: content_mismatch\n")
	assert.Contains(t, out, "    - something odd\n")
	assert.Contains(t, out, "not ok 3 - broken schema\n")
	assert.Contains(t, out, "ok 4 - later # SKIP not ready\n")
}

func TestEscapeYAML(t *testing.T) {
	assert.Equal(t, "plain", escapeYAML("plain"))
	assert.Equal(t, `"a: \"b\""`, escapeYAML(`a: "b"`))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, `"admin"`, formatValue("admin", 100))
	assert.Equal(t, "[array with 2 items]", formatValue([]any{1, 2}, 100))
	assert.Equal(t, "{object with 1 keys}", formatValue(map[string]any{"a": 1}, 100))
	assert.Equal(t, "12...", formatValue(12345, 2))

	// "ü" is two bytes; a cut inside it backs off to the previous rune.
	assert.Equal(t, `"...`, formatValue("über", 2))
	for n := 1; n < 8; n++ {
		s := formatValue("naïve café", n)
		assert.True(t, utf8.ValidString(s), "maxLen %d: %q", n, s)
	}
}

func TestTimings(t *testing.T) {
	tm := newTimings()
	assert.Equal(t, TimingSummary{}, tm.summary())

	for i := 1; i <= 100; i++ {
		tm.record(time.Duration(i) * time.Millisecond)
	}
	tm.record(0)
	tm.record(2 * time.Minute)

	s := tm.summary()
	assert.Equal(t, int64(102), s.Count)
	assert.Equal(t, time.Microsecond, s.Min)
	assert.InDelta(t, float64(50*time.Millisecond), float64(s.P50), float64(time.Millisecond))
	assert.InDelta(t, float64(time.Minute), float64(s.Max), float64(100*time.Millisecond))
}

func TestJSONFormatter_Timing(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatResult(&runner.RunResult{
		File: "timing.match.yaml",
		Results: []*runner.CaseResult{
			{Name: "a", Passed: true, Duration: 2 * time.Millisecond},
			{Name: "b", Skipped: true},
		},
	})
	require.NoError(t, f.Flush(time.Second))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, int64(1), out.Timing.Count)
	assert.InDelta(t, 2.0, out.Timing.Max, 0.01)
}
