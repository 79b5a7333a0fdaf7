// Package cmd implements the pathmatch CLI commands using Cobra.
//
// Available commands:
//   - run: Evaluate the cases in suite files
//   - validate: Load suite files and report errors without evaluating
//   - list: Display all cases defined in suite files
//   - check: Evaluate a single assertion against a JSON file
//   - init: Create an example suite and config file
//   - version: Show pathmatch version information
//
// The run command supports filtering by name and tag, several output
// formats, parallel evaluation and a watch mode.
package cmd
