package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/pathmatch/packages/pathmatch"
	"github.com/abdul-hamid-achik/pathmatch/packages/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fixtures/users.json", `{"data": {"users": [{"id": 1, "active": true}, {"id": 2, "active": true}]}}`)
	path := writeFile(t, dir, "users.match.yaml", `
bodyFile: fixtures/users.json
from: data
tags: [users]
cases:
  - name: every user is active
    path: users.*
    schema:
      type: object
      properties:
        active: {const: true}
  - path: users.0.id
    equals: 1
    tags: [smoke]
  - name: nobody is called bob
    path: users.?
    not: true
    equals: {name: bob}
`)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "users", s.Name)
	assert.Equal(t, path, s.File)
	require.Len(t, s.Cases, 3)

	first := s.Cases[0]
	assert.Equal(t, pathmatch.ModeSchema, first.Mode())
	assert.Greater(t, first.Line, 0)

	second := s.Cases[1]
	assert.Equal(t, "case 2", second.Name)
	assert.Equal(t, pathmatch.ModeLiteral, second.Mode())
	assert.Equal(t, []string{"smoke", "users"}, s.AllTags(second))

	req := s.Request(second)
	assert.Equal(t, "users.0.id", req.Path)
	assert.Equal(t, 1, req.Expected)
	assert.NoError(t, pathmatch.MatchLiteral(req))

	third := s.Request(s.Cases[2])
	assert.True(t, third.Not)
	assert.NoError(t, pathmatch.MatchLiteral(third))
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "inline.match.json", `{
	"name": "inline",
	"body": {"items": [1, 2, 3]},
	"cases": [
		{"name": "has two", "path": "items.?", "equals": 2},
		{"name": "numbers", "path": "items.*", "schema": "number"}
	]
}`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "inline", s.Name)
	require.Len(t, s.Cases, 2)

	assert.NoError(t, pathmatch.MatchLiteral(s.Request(s.Cases[0])))
	assert.Equal(t, pathmatch.ModeSchema, s.Cases[1].Mode())
	assert.NoError(t, pathmatch.MatchSchema(s.Request(s.Cases[1])))
}

func TestLoad_CaseBodyOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "other.json", `{"wrapper": {"value": "x"}}`)
	path := writeFile(t, dir, "override.match.yml", `
body: {value: "suite"}
cases:
  - name: suite body
    path: value
    equals: suite
  - name: inline override
    body: {value: "case"}
    path: value
    equals: case
  - name: file override with selection
    bodyFile: other.json
    from: wrapper
    path: value
    equals: x
  - name: selection from suite body
    from: value
    equals: suite
`)

	s, err := Load(path)
	require.NoError(t, err)

	for _, c := range s.Cases {
		t.Run(c.Name, func(t *testing.T) {
			assert.NoError(t, pathmatch.MatchLiteral(s.Request(c)))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{"a": `)

	tests := []struct {
		name    string
		content string
		message string
	}{
		{
			name:    "no cases",
			content: "body: {}\n",
			message: "no cases defined",
		},
		{
			name:    "equals and schema",
			content: "body: {}\ncases:\n  - equals: 1\n    schema: number\n",
			message: "mutually exclusive",
		},
		{
			name:    "neither equals nor schema",
			content: "body: {}\ncases:\n  - path: a\n",
			message: "one of equals or schema is required",
		},
		{
			name:    "quantifier not last",
			content: "body: {}\ncases:\n  - path: items.*.id\n    equals: 1\n",
			message: "must be the last segment",
		},
		{
			name:    "no body",
			content: "cases:\n  - equals: 1\n",
			message: "no body",
		},
		{
			name:    "body and bodyFile",
			content: "body: {}\nbodyFile: x.json\ncases:\n  - equals: 1\n",
			message: "mutually exclusive",
		},
		{
			name:    "invalid body file",
			content: "bodyFile: broken.json\ncases:\n  - equals: 1\n",
			message: "not valid JSON",
		},
		{
			name:    "missing body file",
			content: "bodyFile: nope.json\ncases:\n  - equals: 1\n",
			message: "reading body file",
		},
		{
			name:    "from selects nothing",
			content: "body: {a: 1}\nfrom: b\ncases:\n  - equals: 1\n",
			message: "selects nothing",
		},
		{
			name:    "not yaml",
			content: "cases: [\n",
			message: "parsing suite",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), FormatYAML, dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	t.Run("invalid JSON suite", func(t *testing.T) {
		_, err := Parse([]byte(`{"cases": [}`), FormatJSON, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing suite")
	})
}

func TestParse_CompilesSchemas(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "schemas/item.json", `{"type": "object"}`)

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unusable descriptor",
			content: "body: {items: []}\ncases:\n  - path: items.*\n    schema: {type: 12}\n",
		},
		{
			name:    "missing schema file",
			content: "body: {items: []}\ncases:\n  - path: items.*\n    schema: nope.json\n",
		},
		{
			name:    "malformed inline schema",
			content: "body: {a: 1}\ncases:\n  - path: a\n    not: true\n    schema: '{not json'\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), FormatYAML, dir)
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrInvalidSchema)
			assert.Contains(t, err.Error(), "schema:")
		})
	}

	t.Run("schema dir", func(t *testing.T) {
		content := []byte("body: {items: [{}]}\ncases:\n  - path: items.*\n    schema: item.json\n")

		_, err := Parse(content, FormatYAML, dir)
		assert.ErrorIs(t, err, schema.ErrInvalidSchema)

		s, err := Parse(content, FormatYAML, dir, WithSchemaDir(filepath.Join(dir, "schemas")))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "schemas"), s.SchemaDir)
		assert.Equal(t, dir, s.BaseDir)
	})

	t.Run("defaults to the suite directory", func(t *testing.T) {
		path := writeFile(t, dir, "items.match.yaml", "body: {items: [{}]}\ncases:\n  - path: items.*\n    schema: schemas/item.json\n")
		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, dir, s.SchemaDir)
	})
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.match.yaml", "")
	b := writeFile(t, dir, "nested/b.match.json", "")
	writeFile(t, dir, "nested/ignored.json", "")

	files, err := Collect([]string{dir})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, files)

	files, err = Collect([]string{a, filepath.Join(dir, "nested/ignored.json")})
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)

	_, err = Collect([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestIsSuiteFile(t *testing.T) {
	assert.True(t, IsSuiteFile("x.match.yaml"))
	assert.True(t, IsSuiteFile("dir/x.match.yml"))
	assert.True(t, IsSuiteFile("x.match.json"))
	assert.False(t, IsSuiteFile("x.yaml"))
	assert.False(t, IsSuiteFile("x.json"))
}
