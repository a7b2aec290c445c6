package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of knowledge-agent",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "knowledge-agent %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		if viper.GetBool("verbose") {
			fmt.Fprintf(out, "lenses: %d, max sources: %d\n", len(types.Lenses()), viper.GetInt("max_sources"))
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
