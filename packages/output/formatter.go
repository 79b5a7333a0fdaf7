package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/pathmatch/packages/core/runner"
)

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *runner.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// Names lists the accepted formatter names.
var Names = []string{"console", "json", "junit", "tap"}

// Options are shared by New across formats; formats ignore what they don't use.
type Options struct {
	Writer  io.Writer
	Verbose bool
	NoColor bool
}

// New creates the formatter registered under name.
func New(name string, opts Options) (Formatter, error) {
	switch strings.ToLower(name) {
	case "json":
		var jsonOpts []JSONOption
		if opts.Writer != nil {
			jsonOpts = append(jsonOpts, JSONWithWriter(opts.Writer))
		}
		return NewJSONFormatter(jsonOpts...), nil
	case "junit":
		var junitOpts []JUnitOption
		if opts.Writer != nil {
			junitOpts = append(junitOpts, JUnitWithWriter(opts.Writer))
		}
		return NewJUnitFormatter(junitOpts...), nil
	case "tap":
		var tapOpts []TAPOption
		if opts.Writer != nil {
			tapOpts = append(tapOpts, TAPWithWriter(opts.Writer))
		}
		return NewTAPFormatter(tapOpts...), nil
	case "", "console":
		consoleOpts := []ConsoleOption{
			WithVerbose(opts.Verbose),
			WithNoColor(opts.NoColor),
		}
		if opts.Writer != nil {
			consoleOpts = append(consoleOpts, WithWriter(opts.Writer))
		}
		return NewConsoleFormatter(consoleOpts...), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use one of %s)", name, strings.Join(Names, ", "))
	}
}

// failureText is the one-line description of a failed case used by the
// machine readable formats.
func failureText(r *runner.CaseResult) string {
	subject := r.Path
	if subject == "" {
		subject = "body"
	}
	return fmt.Sprintf("%s %s %s: %s", subject, r.Operator(), formatValue(r.Expected, 100), firstLine(r.Message))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
