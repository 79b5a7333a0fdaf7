package runner

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/pathmatch/packages/pathmatch"
	"github.com/abdul-hamid-achik/pathmatch/packages/schema"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersSuite = `
name: users
body:
  users:
    - {id: 1, role: admin}
    - {id: 2, role: member}
tags: [users]
cases:
  - name: someone is admin
    path: users.?
    schema:
      type: object
      properties:
        role: {const: admin}
      required: [role]
  - name: ids are numbers
    path: users.*
    schema: {properties: {id: {type: integer}}}
    tags: [smoke]
  - name: nobody is a guest
    path: users.*
    not: true
    equals: {id: 3, role: guest}
  - name: first user is member
    path: users.0.role
    equals: member
  - name: not written yet
    path: users
    equals: []
    skip: pending
`

func writeSuite(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewRunner(t *testing.T) {
	t.Run("with nil config", func(t *testing.T) {
		r := NewRunner(nil)
		assert.NotNil(t, r)
		assert.NotNil(t, r.config)
		assert.NotNil(t, r.log)
	})

	t.Run("with custom config", func(t *testing.T) {
		cfg := &Config{
			Bail:        true,
			Concurrency: 10,
		}
		r := NewRunner(cfg)
		assert.True(t, r.config.Bail)
		assert.Equal(t, 10, r.config.Concurrency)
	})
}

func TestRunner_RunFile(t *testing.T) {
	path := writeSuite(t, t.TempDir(), "users.match.yaml", usersSuite)

	result, err := NewRunner(nil).RunFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, result.File)
	assert.Equal(t, "users", result.Suite)
	assert.Equal(t, 3, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Results, 5)

	failed := result.Results[3]
	assert.False(t, failed.Passed)
	assert.Equal(t, pathmatch.KindContentMismatch, failed.Kind)
	assert.Contains(t, failed.Message, `expected "member", got "admin"`)
	assert.Equal(t, "equals", failed.Operator())

	negated := result.Results[2]
	assert.True(t, negated.Passed)
	assert.Equal(t, pathmatch.QuantifierAll, negated.Quantifier)
	assert.Equal(t, "not equals", negated.Operator())

	skippedCase := result.Results[4]
	assert.True(t, skippedCase.Skipped)
	assert.Equal(t, "pending", skippedCase.SkipReason)
}

func TestRunner_RunFile_LoadError(t *testing.T) {
	path := writeSuite(t, t.TempDir(), "broken.match.yaml", "cases: []\n")

	_, err := NewRunner(nil).RunFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cases defined")
}

func TestRunner_Filters(t *testing.T) {
	path := writeSuite(t, t.TempDir(), "users.match.yaml", usersSuite)

	t.Run("name filter", func(t *testing.T) {
		r := NewRunner(&Config{NameFilter: "*admin"})
		result, err := r.RunFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Passed)
		assert.Equal(t, 4, result.Skipped)
	})

	t.Run("tags filter", func(t *testing.T) {
		r := NewRunner(&Config{TagsFilter: []string{"smoke"}})
		result, err := r.RunFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Passed)
		assert.Equal(t, "filtered out", result.Results[0].SkipReason)
	})

	t.Run("suite tags apply to every case", func(t *testing.T) {
		r := NewRunner(&Config{TagsFilter: []string{"users"}})
		result, err := r.RunFile(path)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Passed)
	})
}

func TestRunner_Bail(t *testing.T) {
	dir := t.TempDir()
	failing := writeSuite(t, dir, "a.match.yaml", `
body: {a: 1}
cases:
  - {name: wrong, path: a, equals: 2}
  - {name: right, path: a, equals: 1}
`)
	passing := writeSuite(t, dir, "b.match.yaml", `
body: {a: 1}
cases:
  - {name: right, path: a, equals: 1}
`)

	r := NewRunner(&Config{Bail: true})

	result, err := r.RunFile(failing)
	require.NoError(t, err)
	assert.Len(t, result.Results, 1)
	assert.Equal(t, 1, result.Failed)

	results := r.RunFiles([]string{failing, passing})
	assert.Len(t, results, 1)
}

func TestRunner_RunFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.match.yaml", "b.match.yaml", "c.match.yaml"} {
		paths = append(paths, writeSuite(t, dir, name, `
body: [1, 2, 3]
cases:
  - {path: "?", equals: 3}
`))
	}
	paths = append(paths, writeSuite(t, dir, "d.match.yaml", "nonsense: true\n"))

	results := NewRunner(&Config{Concurrency: 2}).RunFiles(paths)
	require.Len(t, results, 4)

	for i, result := range results[:3] {
		assert.Equal(t, paths[i], result.File)
		assert.NoError(t, result.Error)
		assert.Equal(t, 1, result.Passed)
	}
	assert.Error(t, results[3].Error)
	assert.Equal(t, paths[3], results[3].File)
}

func TestRunner_Diagnostics(t *testing.T) {
	path := writeSuite(t, t.TempDir(), "missing.match.yaml", `
body: {a: {}}
cases:
  - name: vacuous
    path: a.b
    not: true
    equals: 1
`)

	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})

	t.Run("warnings are recorded and logged", func(t *testing.T) {
		result, err := NewRunner(&Config{Logger: logger}).RunFile(path)
		require.NoError(t, err)
		require.Len(t, result.Results, 1)

		c := result.Results[0]
		assert.True(t, c.Passed)
		require.Len(t, c.Warnings, 1)
		assert.Contains(t, c.Warnings[0], `"a.b"`)
		assert.Contains(t, logs.String(), "level=warning")
		assert.Contains(t, logs.String(), "case=vacuous")
	})

	t.Run("fail on warning", func(t *testing.T) {
		result, err := NewRunner(&Config{FailOnWarning: true}).RunFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Contains(t, result.Results[0].Message, "warnings treated as failures")
	})
}

func TestRunner_SchemaFiles(t *testing.T) {
	dir := t.TempDir()
	schemas := filepath.Join(dir, "schemas")
	require.NoError(t, os.MkdirAll(schemas, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(schemas, "item.json"), []byte(`{"type": "object", "required": ["sku"]}`), 0644))

	writeSuite(t, dir, "relative.match.yaml", `
body: {items: [{sku: a}]}
cases:
  - {path: items.*, schema: schemas/item.json}
`)
	result, err := NewRunner(nil).RunFile(filepath.Join(dir, "relative.match.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Passed, "%+v", result.Results[0])

	writeSuite(t, dir, "configured.match.yaml", `
body: {items: [{sku: a}]}
cases:
  - {path: items.*, schema: item.json}
`)
	result, err = NewRunner(&Config{SchemaDir: schemas}).RunFile(filepath.Join(dir, "configured.match.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Passed)

	_, err = NewRunner(nil).RunFile(filepath.Join(dir, "configured.match.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrInvalidSchema)
	assert.Contains(t, err.Error(), "loading suite")
}

func TestMatchesPattern(t *testing.T) {
	assert.True(t, matchesPattern("create user", ""))
	assert.True(t, matchesPattern("create user", "*"))
	assert.True(t, matchesPattern("create user", "create*"))
	assert.True(t, matchesPattern("create user", "*user"))
	assert.True(t, matchesPattern("create user", "*ate u*"))
	assert.True(t, matchesPattern("create user", "create user"))
	assert.False(t, matchesPattern("create user", "delete*"))
	assert.False(t, matchesPattern("create user", "create"))
}
