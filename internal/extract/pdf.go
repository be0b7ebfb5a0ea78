package extract

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	amerrors "github.com/Aman-CERP/bookindex/internal/errors"
)

// PDF reads page text from a PDF file.
type PDF struct {
	Path    string
	Options Options
}

// Pages implements Document. Pages are extracted in parallel; each worker
// opens its own reader since pdf.Reader is not safe for concurrent use.
func (p *PDF) Pages(ctx context.Context) ([]string, error) {
	f, r, err := pdf.Open(p.Path)
	if err != nil {
		return nil, amerrors.New(amerrors.ErrCodeExtractFailed, "cannot open PDF", err).
			WithDetail("path", p.Path)
	}
	total := r.NumPage()
	_ = f.Close()

	pages := make([]string, total)
	if total == 0 {
		return pages, nil
	}

	workers := p.Options.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			f, r, err := pdf.Open(p.Path)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			// Worker w handles pages w, w+workers, ...
			for i := w; i < total; i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				text, err := pageText(r, i+1)
				if err != nil {
					return fmt.Errorf("page %d: %w", i, err)
				}
				pages[i] = finishPage(text, p.Options)
				n := done.Add(1)
				if p.Options.OnPage != nil {
					p.Options.OnPage(int(n), total)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, amerrors.New(amerrors.ErrCodeExtractFailed, "cannot extract PDF text", err).
			WithDetail("path", p.Path)
	}
	return pages, nil
}

// pageText returns the plain text of the 1-based page num. Pages without
// content or without a content stream yield "". The pdf package panics on
// some malformed streams.
func pageText(r *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed page content: %v", rec)
		}
	}()

	page := r.Page(num)
	if page.V.IsNull() || page.V.Key("Contents").IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
