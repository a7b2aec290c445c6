// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/knowledge-agent/internal/container"
	"github.com/pdiddy/knowledge-agent/internal/render"
	"github.com/pdiddy/knowledge-agent/internal/source"
	"github.com/pdiddy/knowledge-agent/pkg/types"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage the sources of the current session",
	Long: `Sources manages the ordered list of text sources that an analysis runs
over. Sources are numbered from 1 in the order they were added, and that
numbering is what the agents see ("Source 1", "Source 2", ...).`,
}

// --- add subcommand ---

var sourcesAddCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Add pasted text, text files, PDFs or web pages",
	Long: `Add appends sources to the session. Positional arguments are joined into
one text source; "-" reads the text from stdin. --file adds text or
markdown files, --pdf extracts text from PDFs through a container image,
and --url fetches a web page and keeps its readable text.`,
	RunE: runSourcesAdd,
}

func runSourcesAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	files, _ := cmd.Flags().GetStringSlice("file")
	pdfs, _ := cmd.Flags().GetStringSlice("pdf")
	urls, _ := cmd.Flags().GetStringSlice("url")
	if len(args) == 0 && len(files) == 0 && len(pdfs) == 0 && len(urls) == 0 {
		return fmt.Errorf("nothing to add: paste some text or use --file, --pdf or --url")
	}

	store, sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	added := func(src types.Source, err error) error {
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Added %s (source %d of %d)\n", src.Title, sess.Len(), sess.Max())
		return nil
	}

	var errs []error
	if len(args) > 0 {
		text := strings.Join(args, " ")
		if text == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			text = string(data)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("please paste some text to add")
		}
		errs = append(errs, added(sess.AddText(text)))
	}

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("reading %s: %w", path, err))
			continue
		}
		errs = append(errs, added(sess.AddText(string(data))))
	}

	if len(pdfs) > 0 {
		ex, err := pdfExtractor(ctx)
		if err != nil {
			errs = append(errs, err)
		} else {
			for _, path := range pdfs {
				text, err := ex.Extract(ctx, path)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				errs = append(errs, added(sess.AddPDF(filepath.Base(path), text)))
			}
		}
	}

	if len(urls) > 0 {
		f := &source.Fetcher{Config: httpConfig()}
		for _, u := range urls {
			page, err := f.Fetch(ctx, u)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			errs = append(errs, added(sess.AddPage(page)))
		}
	}

	if err := store.Save(ctx, sess); err != nil {
		return err
	}
	if err := errors.Join(errs...); err != nil {
		if errors.Is(err, source.ErrSessionFull) {
			fmt.Fprintf(out, "Maximum of %d sources reached.\n", sess.Max())
		}
		return err
	}
	return nil
}

// pdfExtractor returns the container-backed PDF extractor.
func pdfExtractor(ctx context.Context) (source.PDFExtractor, error) {
	rt, err := container.Detect(ctx)
	if err != nil {
		return nil, err
	}
	return source.NewContainerExtractor(ctx, rt, viper.GetString("pdf_image"))
}

// --- list subcommand ---

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the sources of the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		if sess.Len() == 0 {
			fmt.Fprintln(out, "No sources yet. Add content with 'knowledge-agent sources add'.")
			return nil
		}
		fmt.Fprintln(out, render.SourcesTable(sess.Sources()))
		fmt.Fprintf(out, "%d of %d sources, total tokens: %d\n",
			sess.Len(), sess.Max(), source.EstimateTokens(sess.Sources()))
		return nil
	},
}

// --- show subcommand ---

var sourcesShowCmd = &cobra.Command{
	Use:   "show N",
	Short: "Print the content of source N",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := sourceIndex(args[0])
		if err != nil {
			return err
		}
		store, sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		src, err := sess.Get(n)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", src.Title, src.Content)
		return nil
	},
}

// --- remove subcommand ---

var sourcesRemoveCmd = &cobra.Command{
	Use:     "remove N",
	Aliases: []string{"rm"},
	Short:   "Remove source N; later sources are renumbered",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := sourceIndex(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		store, sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		src, err := sess.Remove(n)
		if err != nil {
			return err
		}
		if err := store.Save(ctx, sess); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", src.Title)
		return nil
	},
}

// --- clear subcommand ---

var sourcesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every source",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		n := sess.Len()
		sess.Clear()
		if err := store.Save(ctx, sess); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d sources\n", n)
		return nil
	},
}

// --- watch subcommand ---

var sourcesWatchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Add text, markdown and PDF files as they appear in DIR",
	Long: `Watch adds every .txt and .md file created or written in DIR to the
session until interrupted or the session is full. PDFs are added too when
a container runtime with the PDF image is available.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		store, sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		w := &source.Watcher{Session: sess, Saver: store, Logger: logger, Out: cmd.OutOrStdout()}
		if ex, err := pdfExtractor(ctx); err == nil {
			w.PDF = ex
		} else {
			logger.Info("PDF files will be ignored", zap.Error(err))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for %s (Ctrl-C to stop)\n", args[0], strings.Join(w.Extensions(), ", "))
		return w.Watch(ctx, args[0])
	},
}

func sourceIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid source number %q", arg)
	}
	return n, nil
}

func init() {
	sourcesAddCmd.Flags().StringSlice("file", nil, "text or markdown file to add (repeatable)")
	sourcesAddCmd.Flags().StringSlice("pdf", nil, "PDF file to extract and add (repeatable)")
	sourcesAddCmd.Flags().StringSlice("url", nil, "web page to fetch and add (repeatable)")

	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesShowCmd)
	sourcesCmd.AddCommand(sourcesRemoveCmd)
	sourcesCmd.AddCommand(sourcesClearCmd)
	sourcesCmd.AddCommand(sourcesWatchCmd)

	rootCmd.AddCommand(sourcesCmd)
}
