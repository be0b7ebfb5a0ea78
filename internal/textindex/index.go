package textindex

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/renameio"
	"golang.org/x/text/cases"
)

// Entry is one index term and the pages it appears on.
type Entry struct {
	Term  string
	Pages []int
}

// Line renders the entry as "term: p0, p1, p2".
func (e Entry) Line() string {
	return e.Term + ": " + joinPages(e.Pages)
}

// Index is a sorted, read-only set of entries.
type Index struct {
	entries []Entry
	lines   []string
}

// newIndex sorts entries by the case-folded form of their lines, breaking
// ties on the raw line so the order is total.
func newIndex(entries []Entry) *Index {
	caser := cases.Fold()
	type keyed struct {
		entry Entry
		line  string
		key   string
	}
	items := make([]keyed, len(entries))
	for i, e := range entries {
		line := e.Line()
		items[i] = keyed{entry: e, line: line, key: caser.String(line)}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].key != items[j].key {
			return items[i].key < items[j].key
		}
		return items[i].line < items[j].line
	})

	idx := &Index{
		entries: make([]Entry, len(items)),
		lines:   make([]string, len(items)),
	}
	for i, it := range items {
		idx.entries[i] = it.entry
		idx.lines[i] = it.line
	}
	return idx
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return len(x.entries)
}

// Lines returns the serialized entries in output order.
func (x *Index) Lines() []string {
	out := make([]string, len(x.lines))
	copy(out, x.lines)
	return out
}

// String joins the lines with newlines, without a trailing newline.
func (x *Index) String() string {
	return strings.Join(x.lines, "\n")
}

// WriteTo implements io.WriterTo.
func (x *Index) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, x.String())
	return int64(n), err
}

// WriteFile atomically writes the index to path: readers see either the
// previous file or the complete new index.
func WriteFile(path string, x *Index) error {
	if err := renameio.WriteFile(path, []byte(x.String()), 0o644); err != nil {
		return fmt.Errorf("write index %s: %w", path, err)
	}
	return nil
}
