// Package words provides the common-word dictionary used to keep ordinary
// English words out of a book index.
//
// The dictionary is resolved once per run by a Loader, from a local file,
// an on-disk cache of a previous download, or the network, and is handed to
// the index builder as a Set.
package words

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Set is a membership test over common words.
type Set interface {
	Contains(word string) bool
}

// MemorySet is an in-memory Set. Membership is exact: entries are not case folded.
type MemorySet struct {
	words map[string]struct{}
}

// NewMemorySet creates a set from the given words.
func NewMemorySet(words []string) *MemorySet {
	s := &MemorySet{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.words[w] = struct{}{}
	}
	return s
}

// Parse reads one word per line. Carriage returns are trimmed and empty
// lines are skipped.
func Parse(r io.Reader) (*MemorySet, error) {
	s := &MemorySet{words: make(map[string]struct{})}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		w := strings.TrimRight(scanner.Text(), "\r")
		if w == "" {
			continue
		}
		s.words[w] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return s, nil
}

// Contains implements Set.
func (s *MemorySet) Contains(word string) bool {
	_, ok := s.words[word]
	return ok
}

// Len returns the number of distinct words.
func (s *MemorySet) Len() int {
	return len(s.words)
}

// WriteTo writes the words one per line in sorted order, the format Parse reads.
func (s *MemorySet) WriteTo(w io.Writer) (int64, error) {
	list := make([]string, 0, len(s.words))
	for word := range s.words {
		list = append(list, word)
	}
	sort.Strings(list)

	bw := bufio.NewWriter(w)
	var n int64
	for _, word := range list {
		m, err := bw.WriteString(word + "\n")
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
