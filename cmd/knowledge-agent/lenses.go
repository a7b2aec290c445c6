// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowledge-agent/internal/render"
	"github.com/pdiddy/knowledge-agent/pkg/types"
)

var lensesCmd = &cobra.Command{
	Use:   "lenses",
	Short: "List the analysis lenses",
	Long: `Lenses lists every analysis lens with the slug accepted by
'analyze --lens'. Lenses marked as default run when none is selected.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), render.LensesTable(types.Lenses()))
	},
}

func init() {
	rootCmd.AddCommand(lensesCmd)
}
