// Package merge combines several book indexes into one.
//
// Each input is a sequence of "term: pages" lines. Inputs are numbered from 1
// in the order they are added, and the merged line for a term lists every
// input that has it:
//
//	cat: 1(1, 4) | 2(2)
//
// The page list of an input line is carried through verbatim.
package merge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	amerrors "github.com/Aman-CERP/bookindex/internal/errors"
)

const (
	keySeparator    = ": "
	sourceSeparator = " | "
)

// Merger accumulates index inputs. The zero value is not usable; call New.
// A Merger is not safe for concurrent use.
type Merger struct {
	acc     map[string]*strings.Builder
	sources int
	skipped int
}

// New creates an empty Merger.
func New() *Merger {
	return &Merger{acc: make(map[string]*strings.Builder)}
}

// Add reads one index from r as the next source. Lines without ": " are
// skipped.
func (m *Merger) Add(r io.Reader) error {
	source := strconv.Itoa(m.sources + 1)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		term, pages, ok := strings.Cut(scanner.Text(), keySeparator)
		if !ok {
			m.skipped++
			continue
		}

		b, exists := m.acc[term]
		if !exists {
			b = &strings.Builder{}
			m.acc[term] = b
		}
		b.WriteString(source)
		b.WriteByte('(')
		b.WriteString(pages)
		b.WriteByte(')')
		b.WriteString(sourceSeparator)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read source %s: %w", source, err)
	}

	m.sources++
	return nil
}

// AddFile reads the index file at path as the next source.
func (m *Merger) AddFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return amerrors.New(amerrors.ErrCodeFileNotFound, "index file not found", err).
				WithDetail("path", path)
		}
		return amerrors.IOError("cannot open index file", err).WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	if err := m.Add(f); err != nil {
		return amerrors.IOError("cannot read index file", err).WithDetail("path", path)
	}
	return nil
}

// Lines returns the merged "term: value" lines sorted byte-wise by term.
func (m *Merger) Lines() []string {
	terms := make([]string, 0, len(m.acc))
	for term := range m.acc {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	lines := make([]string, len(terms))
	for i, term := range terms {
		value := strings.TrimSuffix(m.acc[term].String(), sourceSeparator)
		lines[i] = term + keySeparator + value
	}
	return lines
}

// WriteTo writes every merged line followed by a newline.
func (m *Merger) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, line := range m.Lines() {
		written, err := bw.WriteString(line + "\n")
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Sources returns the number of inputs added.
func (m *Merger) Sources() int {
	return m.sources
}

// Terms returns the number of distinct terms seen.
func (m *Merger) Terms() int {
	return len(m.acc)
}

// Skipped returns the number of malformed lines ignored.
func (m *Merger) Skipped() int {
	return m.skipped
}
