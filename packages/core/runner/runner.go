package runner

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/pathmatch/packages/pathmatch"
	"github.com/abdul-hamid-achik/pathmatch/packages/schema"
	"github.com/abdul-hamid-achik/pathmatch/packages/suite"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultConcurrency is the default number of suite files evaluated at once
	DefaultConcurrency = 5
)

type Runner struct {
	config *Config
	log    *logrus.Logger
}

type Config struct {
	Bail          bool
	NameFilter    string
	TagsFilter    []string
	Concurrency   int
	FailOnWarning bool
	// SchemaDir is where schema files are resolved; defaults to each suite's directory.
	SchemaDir string
	Logger    *logrus.Logger
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	return &Runner{
		config: cfg,
		log:    log,
	}
}

type RunResult struct {
	File     string
	Suite    string
	Results  []*CaseResult
	Duration time.Duration
	Passed   int
	Failed   int
	Skipped  int
	// Error is set when the suite could not be loaded.
	Error error
}

type CaseResult struct {
	Name       string
	Path       string
	Mode       pathmatch.Mode
	Quantifier pathmatch.Quantifier
	Not        bool
	Expected   any
	Passed     bool
	Skipped    bool
	SkipReason string
	Kind       pathmatch.Kind
	Message    string
	Error      error
	Warnings   []string
	Duration   time.Duration
}

// Operator describes the assertion, e.g. "not equals" or "schema".
func (c *CaseResult) Operator() string {
	op := c.Mode.String()
	if c.Not {
		op = "not " + op
	}
	return op
}

func (r *Runner) RunFile(path string) (*RunResult, error) {
	var opts []suite.Option
	if r.config.SchemaDir != "" {
		opts = append(opts, suite.WithSchemaDir(r.config.SchemaDir))
	}
	s, err := suite.Load(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading suite: %w", err)
	}
	return r.RunSuite(s), nil
}

// RunFiles runs the given suite files, up to Concurrency at a time, and
// returns their results in the order given. With Bail set the files run one
// after another and stop at the first failing file.
func (r *Runner) RunFiles(paths []string) []*RunResult {
	if r.config.Bail {
		return r.runSequential(paths)
	}
	return r.runParallel(paths)
}

func (r *Runner) runSequential(paths []string) []*RunResult {
	results := make([]*RunResult, 0, len(paths))
	for _, path := range paths {
		result := r.runFileResult(path)
		results = append(results, result)
		if result.Error != nil || result.Failed > 0 {
			break
		}
	}
	return results
}

func (r *Runner) runParallel(paths []string) []*RunResult {
	concurrency := r.config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*RunResult, len(paths))
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for i, path := range paths {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int, p string) {
			defer wg.Done()
			defer func() { <-sem }()

			results[idx] = r.runFileResult(p)
		}(i, path)
	}

	wg.Wait()
	return results
}

func (r *Runner) runFileResult(path string) *RunResult {
	result, err := r.RunFile(path)
	if err != nil {
		r.log.WithField("file", path).WithError(err).Error("suite could not be loaded")
		return &RunResult{File: path, Error: err}
	}
	return result
}

// RunSuite evaluates every case of a loaded suite.
func (r *Runner) RunSuite(s *suite.Suite) *RunResult {
	start := time.Now()
	result := &RunResult{
		File:  s.File,
		Suite: s.Name,
	}

	schemaDir := r.config.SchemaDir
	if schemaDir == "" {
		schemaDir = s.SchemaDir
	}
	if schemaDir == "" {
		schemaDir = s.BaseDir
	}
	engine := pathmatch.NewEngine(
		pathmatch.WithValidator(schema.NewValidator(schema.WithBaseDir(schemaDir))),
	)

	for _, c := range s.Cases {
		if !r.shouldRun(s, c) {
			result.Results = append(result.Results, skipped(c, "filtered out"))
			result.Skipped++
			continue
		}
		if c.Skip != "" {
			result.Results = append(result.Results, skipped(c, c.Skip))
			result.Skipped++
			continue
		}

		caseResult := r.runCase(engine, s, c)
		result.Results = append(result.Results, caseResult)

		if caseResult.Passed {
			result.Passed++
			continue
		}
		result.Failed++
		if r.config.Bail {
			break
		}
	}

	result.Duration = time.Since(start)
	return result
}

func (r *Runner) runCase(engine *pathmatch.Engine, s *suite.Suite, c *suite.Case) *CaseResult {
	start := time.Now()
	req := s.Request(c)

	result := &CaseResult{
		Name:     c.Name,
		Path:     c.Path,
		Mode:     c.Mode(),
		Not:      c.Not,
		Expected: req.Expected,
	}
	if p, err := pathmatch.ParsePath(c.Path); err == nil {
		result.Quantifier = p.Quantifier
	}

	diag := &caseDiagnostics{
		entry: r.log.WithFields(logrus.Fields{
			"suite": s.Name,
			"case":  c.Name,
			"path":  c.Path,
		}),
	}

	err := engine.With(pathmatch.WithDiagnostics(diag)).Match(result.Mode, req)
	result.Duration = time.Since(start)
	result.Warnings = diag.warnings

	switch {
	case err != nil:
		result.Error = err
		result.Kind = pathmatch.KindOf(err)
		result.Message = err.Error()
	case r.config.FailOnWarning && len(diag.warnings) > 0:
		result.Message = "warnings treated as failures: " + strings.Join(diag.warnings, "; ")
	default:
		result.Passed = true
	}

	diag.entry.WithField("passed", result.Passed).Debugf("case finished in %s", result.Duration)
	return result
}

func skipped(c *suite.Case, reason string) *CaseResult {
	return &CaseResult{
		Name:       c.Name,
		Path:       c.Path,
		Mode:       c.Mode(),
		Not:        c.Not,
		Skipped:    true,
		SkipReason: reason,
	}
}

// caseDiagnostics records warnings for the case result and forwards them to the log.
type caseDiagnostics struct {
	entry    *logrus.Entry
	warnings []string
}

func (d *caseDiagnostics) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.warnings = append(d.warnings, msg)
	d.entry.Warn(msg)
}

func (r *Runner) shouldRun(s *suite.Suite, c *suite.Case) bool {
	if r.config.NameFilter != "" {
		if !matchesPattern(c.Name, r.config.NameFilter) {
			return false
		}
	}

	if len(r.config.TagsFilter) > 0 {
		if !hasAnyTag(s.AllTags(c), r.config.TagsFilter) {
			return false
		}
	}

	return true
}

// matchesPattern matches name against an exact name or a pattern with a
// leading and/or trailing '*'.
func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	switch {
	case len(pattern) > 1 && strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*"):
		return strings.Contains(name, pattern[1:len(pattern)-1])
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(name, pattern[1:])
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}

	return name == pattern
}

func hasAnyTag(tags []string, filters []string) bool {
	for _, filter := range filters {
		for _, tag := range tags {
			if tag == filter {
				return true
			}
		}
	}
	return false
}
