package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/pathmatch/packages/core/config"
	"github.com/abdul-hamid-achik/pathmatch/packages/suite"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>",
	Short: "Validate suite files without evaluating them",
	Long: `Load suite files and report bad paths, missing bodies, unusable schemas
and malformed cases without evaluating any assertion.

Examples:
  pathmatch validate users.match.yaml
  pathmatch validate ./suites/
  pathmatch validate --schema-dir ./schemas ./suites/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

var (
	loadConfigFlag    string
	loadSchemaDirFlag string
)

func init() {
	for _, c := range []*cobra.Command{validateCmd, listCmd} {
		c.Flags().StringVar(&loadConfigFlag, "config", getEnvString("PATHMATCH_CONFIG", ""), "Path to config file (env: PATHMATCH_CONFIG)")
		c.Flags().StringVar(&loadSchemaDirFlag, "schema-dir", getEnvString("PATHMATCH_SCHEMA_DIR", ""), "Directory schema files are resolved against (env: PATHMATCH_SCHEMA_DIR)")
	}
}

// suiteOptions resolves the schema directory from the config file and
// flags the same way run does.
func suiteOptions(cmd *cobra.Command) ([]suite.Option, error) {
	cfg, err := config.LoadConfig(loadConfigFlag)
	if err != nil {
		return nil, exitWith(ExitConfigError, fmt.Errorf("loading config: %w", err))
	}
	schemaDir := cfg.SchemaDir
	if explicit(cmd, "schema-dir") {
		schemaDir = loadSchemaDirFlag
	}
	if schemaDir == "" {
		return nil, nil
	}
	return []suite.Option{suite.WithSchemaDir(schemaDir)}, nil
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := suite.Collect(args)
	if err != nil {
		return exitWith(ExitUsageError, err)
	}

	if len(files) == 0 {
		return exitWith(ExitUsageError, fmt.Errorf("no %s files found", strings.Join(suite.Extensions, ", ")))
	}

	opts, err := suiteOptions(cmd)
	if err != nil {
		return err
	}

	hasErrors := false
	for _, file := range files {
		s, err := suite.Load(file, opts...)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d cases)\n", file, len(s.Cases))
		}
	}

	if hasErrors {
		return exitWith(ExitParseError, fmt.Errorf("validation failed"))
	}

	return nil
}
