// Package cli implements the sqlite-cli command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func NewRootCommand(out io.Writer, build BuildInfo) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "sqlite-cli",
		Short:         "Execute SQL statements and apply migrations against a SQLite database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file")

	cmd.AddCommand(newVersionCommand(out, build))
	cmd.AddCommand(newExecCommand(out, &configPath))
	cmd.AddCommand(newMigrateCommand(out, &configPath))
	cmd.InitDefaultCompletionCmd()
	return cmd
}

func newVersionCommand(out io.Writer, build BuildInfo) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the build stamp",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(build)
			}

			_, err := fmt.Fprintf(out, "sqlite-cli %s (commit %s, built %s)\n", build.Version, build.Commit, build.BuildTime)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the build stamp as JSON")
	return cmd
}
