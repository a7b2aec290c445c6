// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/knowledge-agent/internal/agent"
	"github.com/pdiddy/knowledge-agent/internal/analysis"
	"github.com/pdiddy/knowledge-agent/internal/render"
	"github.com/pdiddy/knowledge-agent/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the selected lenses over all sources",
	Long: `Analyze combines every source of the session into one document and sends
one request per selected lens to the agent team, all at once. The run
succeeds only when every lens succeeds; a single failed lens fails the run
and no partial results are kept.

Select lenses with --lens (repeatable, slug or name) or --all. Without
either, the default lenses run. The latest run is saved in the session and
can be shown again with 'results show'.`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	lenses, err := selectedLenses(cmd)
	if err != nil {
		return err
	}
	lengthFlag, _ := cmd.Flags().GetString("length")
	length, err := types.ParseOutputLength(lengthFlag)
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	conn, err := connection()
	if err != nil {
		return err
	}

	store, sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	sources := sess.Sources()
	if err := analysis.Validate(conn.APIKey, sources, lenses); err != nil {
		return err
	}

	team, err := agent.NewOpenAITeam(agentConfig(conn, timeout), agent.WithLogger(logger))
	if err != nil {
		return err
	}
	d := analysis.NewDispatcher(team, analysis.Normalizer{ChartURL: viper.GetString("chart_url")}, logger)

	fmt.Fprintln(out, statusMessage(len(sources), len(lenses)))

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	start := time.Now()
	results, err := d.Dispatch(runCtx, sources, lenses, length)
	if err != nil {
		return fmt.Errorf("an error occurred during analysis: %w", err)
	}
	fmt.Fprintf(out, "Insights uncovered! All %d analyses complete.\n\n", len(results))
	logger.Debug("analysis complete", zap.Duration("elapsed", time.Since(start)))

	run := types.Run{
		ID:          uuid.New().String(),
		Length:      length,
		SourceCount: len(sources),
		CompletedAt: time.Now().UTC(),
		Results:     results,
	}
	if err := store.SaveRun(ctx, run); err != nil {
		logger.Warn("saving run", zap.Error(err))
	}

	return showAndExport(cmd, run, out)
}

// showAndExport renders run and writes it to --export when set.
func showAndExport(cmd *cobra.Command, run types.Run, out io.Writer) error {
	noRender, _ := cmd.Flags().GetBool("no-render")
	width, _ := cmd.Flags().GetInt("width")
	r, err := render.New(out, noRender, width)
	if err != nil {
		return err
	}
	if err := r.Results(run.Results); err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("export")
	if dir == "" {
		return nil
	}
	return exportRun(cmd, run, dir)
}

func exportRun(cmd *cobra.Command, run types.Run, dir string) error {
	e := &analysis.Exporter{Dir: dir, Logger: logger}
	if chart, _ := cmd.Flags().GetBool("chart"); chart {
		e.Chart = analysis.NewChartClient(chartConfig())
	}
	paths, err := e.Export(cmd.Context(), run)
	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
	}
	return err
}

func selectedLenses(cmd *cobra.Command) ([]types.Lens, error) {
	if all, _ := cmd.Flags().GetBool("all"); all {
		return types.AllLenses(), nil
	}
	names, _ := cmd.Flags().GetStringSlice("lens")
	if len(names) == 0 {
		return types.DefaultLenses(), nil
	}
	lenses := make([]types.Lens, 0, len(names))
	for _, n := range names {
		l, err := types.ParseLens(n)
		if err != nil {
			return nil, err
		}
		lenses = append(lenses, l)
	}
	return lenses, nil
}

func statusMessage(sources, lenses int) string {
	verb := "analyzing your source"
	if sources != 1 {
		verb = fmt.Sprintf("analyzing %d combined sources", sources)
	}
	return fmt.Sprintf("Your AI team is %s for %d tasks...", verb, lenses)
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-render", false, "print markdown as plain text")
	cmd.Flags().Int("width", render.DefaultWidth, "word-wrap width for rendered markdown")
	cmd.Flags().String("export", "", "directory to write markdown and YAML downloads to")
	cmd.Flags().Bool("chart", false, "with --export, also download concept map images")
}

func init() {
	analyzeCmd.Flags().StringSlice("lens", nil, "lens to run, by slug or name (repeatable; see 'lenses')")
	analyzeCmd.Flags().Bool("all", false, "run every lens")
	analyzeCmd.Flags().String("length", string(types.LengthStandard), "output detail: Brief, Standard or Detailed")
	analyzeCmd.Flags().Duration("timeout", 0, "deadline for the whole run (0 = none)")
	analyzeCmd.Flags().Bool("structured", false, `ask the model for {"result": ...} JSON replies`)
	addOutputFlags(analyzeCmd)
	_ = viper.BindPFlag("structured_output", analyzeCmd.Flags().Lookup("structured"))

	rootCmd.AddCommand(analyzeCmd)
}
