// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowledge-agent/internal/source"
	"github.com/pdiddy/knowledge-agent/pkg/types"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show or export the latest analysis run",
}

var resultsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the results of the latest run",
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := lastRun(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Run %s: %d sources, %s, %s\n\n",
			run.ID, run.SourceCount, run.Length, run.CompletedAt.Local().Format("2006-01-02 15:04"))
		return showAndExport(cmd, *run, cmd.OutOrStdout())
	},
}

var resultsExportCmd = &cobra.Command{
	Use:   "export DIR",
	Short: "Write the latest run as markdown and YAML files",
	Long: `Export writes one markdown file per lens, a combined markdown file when
the run has more than one lens, and a YAML dump of the run to DIR. With
--chart the concept map is also downloaded as a PNG.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := lastRun(cmd)
		if err != nil {
			return err
		}
		return exportRun(cmd, *run, args[0])
	},
}

func lastRun(cmd *cobra.Command) (*types.Run, error) {
	store, err := source.NewStore(sessionConfig())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	run, err := store.LastRun(cmd.Context())
	if errors.Is(err, source.ErrNoRun) {
		return nil, fmt.Errorf("%w: run 'knowledge-agent analyze' first", err)
	}
	return run, err
}

func init() {
	addOutputFlags(resultsShowCmd)
	resultsExportCmd.Flags().Bool("chart", false, "also download concept map images")

	resultsCmd.AddCommand(resultsShowCmd)
	resultsCmd.AddCommand(resultsExportCmd)

	rootCmd.AddCommand(resultsCmd)
}
