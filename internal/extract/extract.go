// Package extract turns an input document into per-page text.
//
// PDF files are read with github.com/ledongthuc/pdf, one page per PDF page.
// Any other file is treated as a plain-text export whose pages are separated
// by the license watermark line printed on every page of a course book.
package extract

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/text/unicode/norm"

	amerrors "github.com/Aman-CERP/bookindex/internal/errors"
)

// DefaultDelimiter starts the watermark line of each licensed page.
const DefaultDelimiter = "Licensed To: "

// Document yields the raw text of each page, indexed by 0-based ordinal.
type Document interface {
	Pages(ctx context.Context) ([]string, error)
}

// ProgressFunc is called after each page is extracted. It may be called
// from several goroutines.
type ProgressFunc func(done, total int)

// Options configures extraction.
type Options struct {
	// Delimiter separates pages of a text export.
	Delimiter string
	// StudentName is appended to Delimiter.
	StudentName string
	// Workers bounds parallel PDF page extraction (default: NumCPU).
	Workers int
	// NormalizeUnicode applies NFC to every page.
	NormalizeUnicode bool
	// OnPage reports extraction progress. May be nil.
	OnPage ProgressFunc
}

// DefaultOptions returns the default extraction options.
func DefaultOptions() Options {
	return Options{
		Delimiter:        DefaultDelimiter,
		Workers:          runtime.NumCPU(),
		NormalizeUnicode: true,
	}
}

// PageDelimiter returns the delimiter with the student name appended.
func (o Options) PageDelimiter() string {
	d := o.Delimiter
	if d == "" {
		d = DefaultDelimiter
	}
	return d + o.StudentName
}

// Open returns the Document for path, choosing the reader by extension.
func Open(path string, opts Options) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, amerrors.New(amerrors.ErrCodeFileNotFound, "input file not found", err).
				WithDetail("path", path)
		}
		return nil, amerrors.IOError("cannot access input file", err).WithDetail("path", path)
	}
	if info.IsDir() {
		return nil, amerrors.New(amerrors.ErrCodeInvalidInput, "input path is a directory", nil).
			WithDetail("path", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return &PDF{Path: path, Options: opts}, nil
	}
	return &Text{Path: path, Options: opts}, nil
}

func finishPage(text string, opts Options) string {
	if opts.NormalizeUnicode {
		return norm.NFC.String(text)
	}
	return text
}
