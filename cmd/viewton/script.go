package main

import (
	"github.com/andrewvolostnykh/viewton/output"
	"github.com/andrewvolostnykh/viewton/script"
	"github.com/spf13/cobra"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Render a query built by a Lua script",
	Long: `Render a query built by a Lua script.

The script must define build_query(q). See the script package for the
methods available on q.`,
	Example: `  viewton script -f users.lua -o json`,
	RunE:    runScript,
}

func init() {
	scriptCmd.Flags().StringVarP(&inputFile, "file", "f", "", "Lua script path")
	scriptCmd.MarkFlagRequired("file") //nolint:errcheck
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	r, err := script.NewRunner(logger, script.Config{ScriptPath: inputFile})
	if err != nil {
		return err
	}

	p, err := r.Build()
	if err != nil {
		return err
	}

	return output.Render(cmd.OutOrStdout(), p, cfg.Output)
}
