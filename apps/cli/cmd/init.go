package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/restfire/packages/core/config"
	"github.com/spf13/cobra"
)

const exampleDotEnv = `# Variables exported before .restfire.yaml is read.
# Reference them in the config file as ${NAME}.
API_BASE_URL=http://localhost:8080
# RESTFIRE_HEADER_X_API_KEY=changeme
`

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize a restfire configuration",
		Long: `Initialize restfire in the current (or given) directory.

This creates:
  - .restfire.yaml - Configuration file
  - .env           - Variables referenced by the configuration

Examples:
  restfire init
  restfire init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return initCommand(cmd, dir, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")
	return cmd
}

func initCommand(cmd *cobra.Command, dir string, force bool) error {
	configFile := filepath.Join(dir, ".restfire.yaml")
	envFile := filepath.Join(dir, ".env")

	if !force {
		for _, f := range []string{configFile, envFile} {
			if _, err := os.Stat(f); err == nil {
				return &ExitError{Code: ExitUsageError, Err: fmt.Errorf("file already exists: %s (use --force to overwrite)", f)}
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.BaseURL = "${API_BASE_URL}"
	cfg.Headers = map[string]string{
		"User-Agent": "restfire/" + version,
	}
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	if err := os.WriteFile(envFile, []byte(exampleDotEnv), 0644); err != nil {
		return fmt.Errorf("failed to create env file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", envFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nrestfire initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'restfire check /health' to check the configured API.\n")
	return nil
}
