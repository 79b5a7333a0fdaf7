package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/pathmatch/packages/pathmatch"
	"github.com/abdul-hamid-achik/pathmatch/packages/schema"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a single assertion against a JSON file",
	Long: `Evaluate one assertion without writing a suite file. The body is read
from --body, or from stdin when --body is "-".

--equals takes a JSON value; text that is not valid JSON is compared as a
string. --schema takes a type name, inline JSON Schema or a schema file.

Examples:
  pathmatch check --body users.json --path users.* --schema '{"required":["id"]}'
  pathmatch check --body users.json --path users.? --equals '{"role":"admin"}' --not
  curl -s localhost:8080/users | pathmatch check --body - --path total --equals 3`,
	Args: cobra.NoArgs,
	RunE: checkCommand,
}

var (
	checkBodyFlag    string
	checkPathFlag    string
	checkEqualsFlag  string
	checkSchemaFlag  string
	checkNotFlag     bool
	checkVerboseFlag bool
	checkNoColorFlag bool
)

func init() {
	checkCmd.Flags().StringVar(&checkBodyFlag, "body", "", "JSON file to check, or - for stdin")
	checkCmd.Flags().StringVar(&checkPathFlag, "path", "", "Dotted path into the body; may end in * or ?")
	checkCmd.Flags().StringVar(&checkEqualsFlag, "equals", "", "Expected JSON value")
	checkCmd.Flags().StringVar(&checkSchemaFlag, "schema", "", "Expected schema: type name, inline JSON Schema or file")
	checkCmd.Flags().BoolVar(&checkNotFlag, "not", false, "Negate the assertion")
	checkCmd.Flags().BoolVarP(&checkVerboseFlag, "verbose", "v", false, "Enable debug logging; warnings are always printed")
	checkCmd.Flags().BoolVar(&checkNoColorFlag, "no-color", getEnvBool("PATHMATCH_NO_COLOR", false), "Disable colored output (env: PATHMATCH_NO_COLOR)")
	_ = checkCmd.MarkFlagRequired("body")
	checkCmd.MarkFlagsMutuallyExclusive("equals", "schema")
	checkCmd.MarkFlagsOneRequired("equals", "schema")
}

func readBody(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

// parseExpected reads a literal from the command line as JSON when it is
// valid JSON and as a plain string otherwise.
func parseExpected(s string) any {
	if gjson.Valid(s) {
		return gjson.Parse(s).Value()
	}
	return s
}

func checkCommand(cmd *cobra.Command, args []string) error {
	data, err := readBody(cmd, checkBodyFlag)
	if err != nil {
		return exitWith(ExitParseError, fmt.Errorf("reading body: %w", err))
	}
	if !gjson.ValidBytes(data) {
		return exitWith(ExitParseError, fmt.Errorf("body is not valid JSON"))
	}

	req := pathmatch.Request{
		Body: gjson.ParseBytes(data).Value(),
		Path: checkPathFlag,
		Not:  checkNotFlag,
	}
	mode := pathmatch.ModeLiteral
	if cmd.Flags().Changed("schema") {
		mode = pathmatch.ModeSchema
		req.Expected = checkSchemaFlag
	} else {
		req.Expected = parseExpected(checkEqualsFlag)
	}

	log := newLogger(cmd.ErrOrStderr(), checkVerboseFlag, checkNoColorFlag)
	engine := pathmatch.NewEngine(
		pathmatch.WithValidator(schema.NewValidator()),
		pathmatch.WithDiagnostics(log),
	)

	if err := engine.Match(mode, req); err != nil {
		if pathmatch.KindOf(err) == pathmatch.KindConfiguration {
			return exitWith(ExitConfigError, err)
		}
		return exitWith(ExitTestFailure, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}
