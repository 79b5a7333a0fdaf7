// Package runner evaluates match suites and collects their results.
//
// It provides functionality for:
//   - Running individual suite files or already loaded suites
//   - Running many files concurrently with a bounded number of workers
//   - Filtering cases by name pattern and tags, honouring skip reasons
//   - Stopping at the first failure (bail)
//   - Recording diagnostics emitted while matching, optionally failing on them
package runner
