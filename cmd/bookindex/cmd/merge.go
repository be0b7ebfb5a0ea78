package cmd

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/google/renameio"
	"github.com/spf13/cobra"

	amerrors "github.com/Aman-CERP/bookindex/internal/errors"
	"github.com/Aman-CERP/bookindex/internal/logging"
	"github.com/Aman-CERP/bookindex/internal/merge"
)

const mergeUsage = "Usage: 'bookindex merge index1.txt index2.txt index3.txt' etc."

func newMergeCmd(_ *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "merge [FILE...]",
		Short: "Merge several indexes into one",
		Long: `Merge indexes built by "bookindex build" into one index.

Inputs are numbered from 1 in argument order. Each merged line lists the
inputs containing the term with their page lists:

  cat: 1(1, 4) | 2(2)

Lines are sorted by term (byte order) and written to stdout.`,
		Example: `  bookindex merge book1.txt book2.txt book3.txt > all.txt
  bookindex merge -o all.txt book1.txt book2.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args, outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the merged index to a file instead of stdout")

	return cmd
}

func runMerge(cmd *cobra.Command, files []string, outPath string) error {
	logger := logging.FromContext(cmd.Context())

	if len(files) == 0 {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), mergeUsage)
	}

	m := merge.New()
	for _, path := range files {
		if err := m.AddFile(path); err != nil {
			return err
		}
	}

	if outPath == "" {
		if _, err := m.WriteTo(cmd.OutOrStdout()); err != nil {
			return amerrors.IOError("failed to write merged index", err)
		}
	} else {
		var buf bytes.Buffer
		if _, err := m.WriteTo(&buf); err != nil {
			return amerrors.InternalError("failed to render merged index", err)
		}
		if err := renameio.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return amerrors.New(amerrors.ErrCodeWriteFailed, "failed to write merged index", err).
				WithDetail("path", outPath)
		}
	}

	if m.Skipped() > 0 {
		logger.Debug("merge_lines_skipped", slog.Int("count", m.Skipped()))
	}
	logger.Info("merge_complete",
		slog.Int("sources", m.Sources()),
		slog.Int("terms", m.Terms()),
		slog.String("output", outPath))
	return nil
}
