package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	amerrors "github.com/Aman-CERP/bookindex/internal/errors"
	"github.com/Aman-CERP/bookindex/internal/extract"
	"github.com/Aman-CERP/bookindex/internal/logging"
	"github.com/Aman-CERP/bookindex/internal/output"
	"github.com/Aman-CERP/bookindex/internal/textindex"
	"github.com/Aman-CERP/bookindex/internal/ui"
	"github.com/Aman-CERP/bookindex/internal/words"
)

const buildUsage = `Build a back-of-book index from a PDF or text export of a book.
Usage:
	-i, --input: PDF (or text export) of the book.
	-o, --output: file to save the new index.
	-n, --student-name: full name of the student, used to split pages by delimiter.`

type buildOptions struct {
	input       string
	output      string
	studentName string
	wordsFile   string
	wordsURL    string
	offline     bool
	maxPages    int
	plain       bool
	noColor     bool
}

func newBuildCmd(root *rootOptions) *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build -i FILE [-o OUT]",
		Short: "Build an index from a book",
		Long: `Build a back-of-book index from a PDF or a plain-text export.

Each line of the output is "term: p0, p1, ..." with 0-based page numbers.
Lines are sorted case-insensitively.`,
		Example: `  # Index a PDF, writing book.txt next to it
  bookindex build -i book.pdf

  # Text export whose pages end with "Licensed To: Jane Doe"
  bookindex build -i book.txt -n "Jane Doe" -o book-index.txt

  # Use a local word list and never touch the network
  bookindex build -i book.pdf --words-file words.txt --offline`,
		// Args runs before the config is loaded, so a missing -i is
		// reported even when the config is broken.
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return err
			}
			if opts.input == "" {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Please enter a PDF file.")
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), buildUsage)
				return amerrors.New(amerrors.ErrCodeInputMissing, "no input file given", nil).
					WithSuggestion("Pass the book with -i/--input")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd.Context(), cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "PDF or text export of the book")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output index file (default: input with .txt extension)")
	cmd.Flags().StringVarP(&opts.studentName, "student-name", "n", "", "Student name appended to the page delimiter")
	cmd.Flags().StringVar(&opts.wordsFile, "words-file", "", "Local common-word list (one word per line)")
	cmd.Flags().StringVar(&opts.wordsURL, "words-url", "", "URL of the common-word list")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Never download the word list")
	cmd.Flags().IntVar(&opts.maxPages, "max-pages", 0, "Drop terms found on this many pages or more")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Plain progress output (no TUI)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colors in the progress display")

	return cmd
}

// defaultOutputPath replaces the input extension with ext. A text input
// whose extension already equals ext gets ".index" inserted instead so the
// input is never overwritten.
func defaultOutputPath(input, ext string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	out := base + ext
	if out == input {
		out = base + ".index" + ext
	}
	return out
}

func runBuild(ctx context.Context, cmd *cobra.Command, root *rootOptions, opts buildOptions) error {
	start := time.Now()
	logger := logging.FromContext(ctx)
	cfg := root.cfg

	// Flags take precedence over config and environment.
	flags := cmd.Flags()
	if flags.Changed("max-pages") {
		cfg.Index.MaxPages = opts.maxPages
	}
	if flags.Changed("words-url") {
		cfg.Words.URL = opts.wordsURL
	}
	if flags.Changed("offline") {
		cfg.Words.Offline = opts.offline
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	outPath := opts.output
	if outPath == "" {
		outPath = defaultOutputPath(opts.input, cfg.Output.Extension)
	}

	renderer := ui.NewRenderer(ui.NewConfig(cmd.ErrOrStderr(),
		ui.WithForcePlain(opts.plain),
		ui.WithNoColor(opts.noColor),
		ui.WithTitle(opts.input)))
	if err := renderer.Start(ctx); err != nil {
		return amerrors.InternalError("failed to start progress display", err)
	}
	defer func() { _ = renderer.Stop() }()

	// Word list
	renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageWords, Message: "loading common words"})
	loader := &words.Loader{
		File:     opts.wordsFile,
		URL:      cfg.Words.URL,
		CacheDir: cfg.Words.CacheDir,
		Offline:  cfg.Words.Offline,
		Refresh:  cfg.Words.Refresh,
		Timeout:  cfg.Words.Timeout,
	}
	common, source, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	renderer.UpdateProgress(ui.ProgressEvent{
		Stage:   ui.StageWords,
		Message: fmt.Sprintf("%d words from %s", common.Len(), source),
	})

	// Pages
	renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageExtracting, Message: opts.input})
	doc, err := extract.Open(opts.input, extract.Options{
		Delimiter:        cfg.Extract.Delimiter,
		StudentName:      opts.studentName,
		Workers:          cfg.Extract.Workers,
		NormalizeUnicode: cfg.Extract.NormalizeUnicode,
		OnPage: func(done, total int) {
			renderer.UpdateProgress(ui.ProgressEvent{
				Stage:   ui.StageExtracting,
				Current: done,
				Total:   total,
				Message: filepath.Base(opts.input),
			})
		},
	})
	if err != nil {
		return err
	}
	pages, err := doc.Pages(ctx)
	if err != nil {
		return err
	}
	logger.Debug("pages_extracted", slog.String("input", opts.input), slog.Int("pages", len(pages)))

	// Index
	renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageIndexing, Message: "aggregating terms"})
	builder := textindex.NewBuilder(common, textindex.Options{
		MinTermLength:          cfg.Index.MinTermLength,
		MaxPages:               cfg.Index.MaxPages,
		ExcludeSelfReferential: cfg.Index.ExcludeSelfReferential,
		NormalizeCacheSize:     cfg.Index.NormalizeCacheSize,
	})
	idx, stats := builder.Build(pages)

	// Output
	renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageWriting, Message: outPath})
	if err := textindex.WriteFile(outPath, idx); err != nil {
		return amerrors.New(amerrors.ErrCodeWriteFailed, "failed to write index", err).
			WithDetail("path", outPath)
	}

	took := time.Since(start)
	renderer.Complete(ui.CompletionStats{
		Output:      outPath,
		Pages:       stats.Pages,
		Entries:     stats.Entries,
		WordsSource: string(source),
		Duration:    took,
	})
	_ = renderer.Stop()

	logger.Info("index_build_complete",
		slog.String("input", opts.input),
		slog.String("output", outPath),
		slog.String("words_source", string(source)),
		slog.Int("pages", stats.Pages),
		slog.Int("tokens", stats.Tokens),
		slog.Int("candidates", stats.Candidates),
		slog.Int("entries", stats.Entries),
		slog.Int("dropped_too_common", stats.DroppedTooCommon),
		slog.Int("dropped_self_referential", stats.DroppedSelfReferential),
		slog.Duration("took", took))

	output.New(cmd.OutOrStdout()).Successf("Index generated and saved to %s", outPath)
	return nil
}
