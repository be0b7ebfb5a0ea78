package extract

import (
	"context"
	"os"
	"strings"

	amerrors "github.com/Aman-CERP/bookindex/internal/errors"
)

// Text is a plain-text book export. Pages are the pieces between
// occurrences of the page delimiter.
type Text struct {
	Path    string
	Options Options
}

// Pages implements Document. An empty file has no pages.
func (t *Text) Pages(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(t.Path)
	if err != nil {
		return nil, amerrors.IOError("cannot read input file", err).WithDetail("path", t.Path)
	}

	pages := SplitPages(string(data), t.Options.PageDelimiter())
	for i := range pages {
		pages[i] = finishPage(pages[i], t.Options)
		if t.Options.OnPage != nil {
			t.Options.OnPage(i+1, len(pages))
		}
	}
	return pages, nil
}

// SplitPages splits text on every occurrence of delimiter. Text with no
// delimiter is a single page; empty text has none.
func SplitPages(text, delimiter string) []string {
	if text == "" {
		return nil
	}
	if delimiter == "" {
		return []string{text}
	}
	return strings.Split(text, delimiter)
}
