package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/pathmatch/packages/core/runner"
	"github.com/google/uuid"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	RunID    string      `json:"runId"`
	Summary  JSONSummary `json:"summary"`
	Suites   []JSONSuite `json:"suites"`
	Timing   JSONTiming  `json:"timing"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents the case summary across all suites
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// JSONTiming is the case duration distribution in milliseconds
type JSONTiming struct {
	Count int64   `json:"count"`
	Min   float64 `json:"min"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Max   float64 `json:"max"`
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// JSONSuite represents one suite file
type JSONSuite struct {
	Name     string     `json:"name"`
	File     string     `json:"file"`
	Duration float64    `json:"duration"`
	Error    string     `json:"error,omitempty"`
	Cases    []JSONCase `json:"cases"`
}

// JSONCase represents a single case result
type JSONCase struct {
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Operator   string   `json:"operator"`
	Quantifier string   `json:"quantifier"`
	Not        bool     `json:"not,omitempty"`
	Expected   any      `json:"expected,omitempty"`
	Passed     bool     `json:"passed"`
	Skipped    bool     `json:"skipped,omitempty"`
	SkipReason string   `json:"skipReason,omitempty"`
	Kind       string   `json:"kind,omitempty"`
	Message    string   `json:"message,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Duration   float64  `json:"duration"`
}

// JSONFormatter formats match results as JSON
type JSONFormatter struct {
	writer  io.Writer
	runID   string
	suites  []JSONSuite
	timings *timings
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		runID:   uuid.NewString(),
		suites:  make([]JSONSuite, 0),
		timings: newTimings(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

// JSONWithRunID overrides the generated run identifier.
func JSONWithRunID(id string) JSONOption {
	return func(f *JSONFormatter) {
		f.runID = id
	}
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	s := JSONSuite{
		Name:     result.Suite,
		File:     result.File,
		Duration: float64(result.Duration.Milliseconds()),
		Cases:    make([]JSONCase, 0, len(result.Results)),
	}
	if result.Error != nil {
		s.Error = result.Error.Error()
	}

	for _, r := range result.Results {
		c := JSONCase{
			Name:       r.Name,
			Path:       r.Path,
			Operator:   r.Operator(),
			Quantifier: r.Quantifier.String(),
			Not:        r.Not,
			Expected:   r.Expected,
			Passed:     r.Passed,
			Skipped:    r.Skipped,
			Message:    r.Message,
			Warnings:   r.Warnings,
			Duration:   millis(r.Duration),
		}
		if !r.Skipped {
			f.timings.record(r.Duration)
		}
		if r.SkipReason != "" && r.SkipReason != "filtered out" {
			c.SkipReason = r.SkipReason
		}
		if r.Kind != 0 {
			c.Kind = r.Kind.String()
		}
		s.Cases = append(s.Cases, c)
	}

	f.suites = append(f.suites, s)
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual suite results
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var summary JSONSummary
	for _, s := range f.suites {
		if s.Error != "" {
			summary.Errors++
		}
		for _, c := range s.Cases {
			summary.Total++
			switch {
			case c.Skipped:
				summary.Skipped++
			case c.Passed:
				summary.Passed++
			default:
				summary.Failed++
			}
		}
	}

	timing := f.timings.summary()
	output := JSONOutput{
		RunID:   f.runID,
		Summary: summary,
		Suites:  f.suites,
		Timing: JSONTiming{
			Count: timing.Count,
			Min:   millis(timing.Min),
			P50:   millis(timing.P50),
			P95:   millis(timing.P95),
			P99:   millis(timing.P99),
			Max:   millis(timing.Max),
		},
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
