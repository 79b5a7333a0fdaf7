package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/pathmatch/packages/core/config"
	"github.com/abdul-hamid-achik/pathmatch/packages/core/runner"
	"github.com/abdul-hamid-achik/pathmatch/packages/output"
	"github.com/abdul-hamid-achik/pathmatch/packages/suite"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file|directory>",
	Short: "Run assertions from pathmatch suite files",
	Long: `Run the cases defined in .match.yaml, .match.yml or .match.json files.

Examples:
  pathmatch run users.match.yaml
  pathmatch run ./suites/ --tags smoke
  pathmatch run ./suites/ --name "*admin*"
  pathmatch run ./suites/ -o junit --output-file report.xml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	nameFlag          string
	tagsFlag          string
	verboseFlag       bool
	bailFlag          bool
	noColorFlag       bool
	outputFlag        string
	outputFileFlag    string
	concurrencyFlag   int
	watchFlag         bool
	configFlag        string
	schemaDirFlag     string
	failOnWarningFlag bool
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

// errFailures is returned when cases failed; the report already explains why.
var errFailures = errors.New("one or more cases failed")

func init() {
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("PATHMATCH_CONFIG", ""), "Path to config file (env: PATHMATCH_CONFIG)")
	runCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Run only cases matching name pattern (* wildcards)")
	runCmd.Flags().StringVarP(&tagsFlag, "tags", "t", getEnvString("PATHMATCH_TAGS", ""), "Run only cases with specified tags (comma-separated) (env: PATHMATCH_TAGS)")

	// Output flags
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("PATHMATCH_VERBOSE", false), "Verbose output and debug logging (env: PATHMATCH_VERBOSE)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("PATHMATCH_NO_COLOR", false), "Disable colored output (env: PATHMATCH_NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("PATHMATCH_OUTPUT", "console"), "Output format: console, json, junit, tap (env: PATHMATCH_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("PATHMATCH_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: PATHMATCH_OUTPUT_FILE)")

	// Execution flags
	runCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("PATHMATCH_BAIL", false), "Stop on first failure (env: PATHMATCH_BAIL)")
	runCmd.Flags().IntVar(&concurrencyFlag, "concurrency", getEnvInt("PATHMATCH_CONCURRENCY", runner.DefaultConcurrency), "Number of suite files evaluated at once (env: PATHMATCH_CONCURRENCY)")
	runCmd.Flags().StringVar(&schemaDirFlag, "schema-dir", getEnvString("PATHMATCH_SCHEMA_DIR", ""), "Directory schema files are resolved against (env: PATHMATCH_SCHEMA_DIR)")
	runCmd.Flags().BoolVar(&failOnWarningFlag, "fail-on-warning", getEnvBool("PATHMATCH_FAIL_ON_WARNING", false), "Treat diagnostic warnings as failures (env: PATHMATCH_FAIL_ON_WARNING)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch files for changes and re-run")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// flagEnv maps run flags to the environment variables that set their defaults.
var flagEnv = map[string]string{
	"output":          "PATHMATCH_OUTPUT",
	"output-file":     "PATHMATCH_OUTPUT_FILE",
	"schema-dir":      "PATHMATCH_SCHEMA_DIR",
	"concurrency":     "PATHMATCH_CONCURRENCY",
	"bail":            "PATHMATCH_BAIL",
	"verbose":         "PATHMATCH_VERBOSE",
	"no-color":        "PATHMATCH_NO_COLOR",
	"fail-on-warning": "PATHMATCH_FAIL_ON_WARNING",
}

// explicit reports whether a flag was set on the command line or through its
// environment variable, so that only those values override the config file.
func explicit(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) {
		return true
	}
	if key, ok := flagEnv[name]; ok {
		return os.Getenv(key) != ""
	}
	return false
}

// flagConfig collects the explicitly set flags as a config overlay.
func flagConfig(cmd *cobra.Command) *config.Config {
	c := &config.Config{}
	if explicit(cmd, "output") {
		c.Reporter = outputFlag
	}
	if explicit(cmd, "output-file") {
		c.OutputFile = outputFileFlag
	}
	if explicit(cmd, "schema-dir") {
		c.SchemaDir = schemaDirFlag
	}
	if explicit(cmd, "concurrency") {
		c.Concurrency = concurrencyFlag
	}
	if explicit(cmd, "bail") {
		c.Bail = config.BoolPtr(bailFlag)
	}
	if explicit(cmd, "verbose") {
		c.Verbose = config.BoolPtr(verboseFlag)
	}
	if explicit(cmd, "no-color") {
		c.NoColor = config.BoolPtr(noColorFlag)
	}
	if explicit(cmd, "fail-on-warning") {
		c.FailOnWarning = config.BoolPtr(failOnWarningFlag)
	}
	return c
}

// newLogger builds the diagnostics logger; it writes to stderr so machine
// readable reports on stdout stay clean.
func newLogger(w io.Writer, verbose, noColor bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:    noColor,
		DisableTimestamp: true,
	})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func runCommand(cmd *cobra.Command, args []string) error {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return exitWith(ExitConfigError, fmt.Errorf("loading config: %w", err))
	}
	cfg := fileConfig.Merge(flagConfig(cmd))

	var outWriter io.Writer = cmd.OutOrStdout()
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return exitWith(ExitConfigError, fmt.Errorf("cannot create output file: %w", err))
		}
		defer f.Close()
		outWriter = f
	}

	newFormatter := func() (output.Formatter, error) {
		return output.New(cfg.Reporter, output.Options{
			Writer:  outWriter,
			Verbose: cfg.GetVerbose(),
			NoColor: cfg.GetNoColor(),
		})
	}

	formatter, err := newFormatter()
	if err != nil {
		return exitWith(ExitUsageError, err)
	}
	formatter.FormatHeader(version)

	files, err := suite.Collect(args)
	if err != nil {
		formatter.FormatError(err)
		return exitWith(ExitUsageError, err)
	}
	if len(files) == 0 {
		err := fmt.Errorf("no %s files found", strings.Join(suite.Extensions, ", "))
		formatter.FormatError(err)
		return exitWith(ExitUsageError, err)
	}

	r := runner.NewRunner(&runner.Config{
		Bail:          cfg.GetBail(),
		NameFilter:    nameFlag,
		TagsFilter:    splitTags(tagsFlag),
		Concurrency:   cfg.Concurrency,
		FailOnWarning: cfg.GetFailOnWarning(),
		SchemaDir:     cfg.SchemaDir,
		Logger:        newLogger(cmd.ErrOrStderr(), cfg.GetVerbose(), cfg.GetNoColor()),
	})

	runAll := func(f output.Formatter) error {
		start := time.Now()
		results := r.RunFiles(files)

		var failed, broken int
		for _, result := range results {
			f.FormatResult(result)
			failed += result.Failed
			if result.Error != nil {
				broken++
			}
		}

		if flushable, ok := f.(output.Flushable); ok {
			if err := flushable.Flush(time.Since(start)); err != nil {
				return fmt.Errorf("error writing output: %w", err)
			}
		}

		switch {
		case broken > 0:
			return exitWith(ExitParseError, fmt.Errorf("%d suite file(s) could not be loaded", broken))
		case failed > 0:
			return exitWith(ExitTestFailure, errFailures)
		}
		return nil
	}

	runErr := runAll(formatter)
	if !watchFlag {
		return runErr
	}

	return watch(cmd, args, files, func() {
		f, err := newFormatter()
		if err != nil {
			return
		}
		if err := runAll(f); err != nil && !errors.Is(err, errFailures) {
			f.FormatError(err)
		}
	})
}

// watch re-runs rerun whenever a suite or JSON fixture next to the given
// files changes. It blocks until the watcher is closed.
func watch(cmd *cobra.Command, args, files []string, rerun func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Dir(file)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to watch %s: %v\n", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	// Also watch the original args if they're directories
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			_ = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() && !watchedDirs[path] {
					_ = watcher.Add(path)
					watchedDirs[path] = true
				}
				return nil
			})
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	var debounceTimer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) || !isWatchedFile(event.Name) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running...\n\n", name)
				rerun()
				fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}

func isWatchedFile(path string) bool {
	return suite.IsSuiteFile(path) || strings.EqualFold(filepath.Ext(path), ".json")
}
