package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/pathmatch/packages/suite"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>",
	Short: "List all cases in suite files",
	Long: `List all cases defined in .match.yaml, .match.yml or .match.json files.

Examples:
  pathmatch list users.match.yaml
  pathmatch list ./suites/`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
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

	for _, file := range files {
		s, err := suite.Load(file, opts...)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error parsing %s: %v\n", file, err)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s (%s):\n", file, s.Name)
		for _, c := range s.Cases {
			op := c.Mode().String()
			if c.Not {
				op = "not " + op
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s [%s %s]\n", c.Name, c.Path, op)
			if tags := s.AllTags(c); len(tags) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "    tags: %v\n", tags)
			}
		}
	}

	return nil
}
