package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/pathmatch/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new pathmatch project",
	Long: `Initialize a new pathmatch project in the current directory.

This creates:
  - .pathmatch.config.json - Configuration file
  - example.match.yaml     - Example suite

Examples:
  pathmatch init
  pathmatch init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleSuite = `name: example
body:
  users:
    - {id: 1, name: Ada, role: admin, active: true}
    - {id: 2, name: Linus, role: user, active: true}
  total: 2
cases:
  - name: total is two
    path: total
    equals: 2

  - name: every user is an object with an id
    path: users.*
    schema:
      type: object
      required: [id, name]

  - name: someone is an admin
    path: users.?
    equals: {id: 1, name: Ada, role: admin, active: true}
    tags: [smoke]

  - name: no user is inactive
    path: users.*
    not: true
    schema:
      type: object
      properties:
        active: {const: false}
      required: [active]
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigFilenames[0])
	exampleFile := filepath.Join(cwd, "example.match.yaml")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return exitWith(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	if err := config.DefaultConfig().SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(exampleFile, []byte(exampleSuite), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\npathmatch project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'pathmatch run example.match.yaml' to evaluate the example suite.\n")

	return nil
}
