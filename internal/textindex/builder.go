package textindex

import (
	"strconv"
	"strings"
)

// DefaultMaxPages is the page count at which a term is considered too common to index.
const DefaultMaxPages = 15

// Options configures a Builder.
type Options struct {
	// MinTermLength is the shortest indexable term in runes (default: 3).
	MinTermLength int
	// MaxPages excludes terms found on this many distinct pages or more (default: 15).
	MaxPages int
	// ExcludeSelfReferential drops a term whose joined page list equals the term itself.
	ExcludeSelfReferential bool
	// NormalizeCacheSize bounds the token normalization cache (0 disables it).
	NormalizeCacheSize int
}

// DefaultOptions returns the options used for SANS-style course books.
func DefaultOptions() Options {
	return Options{
		MinTermLength:          DefaultMinTermLength,
		MaxPages:               DefaultMaxPages,
		ExcludeSelfReferential: true,
		NormalizeCacheSize:     DefaultNormalizeCacheSize,
	}
}

// PageIndex holds the eligible terms of each page, indexed by page ordinal.
// A term appears once per occurrence on its page.
type PageIndex [][]string

// Stats summarizes one Build.
type Stats struct {
	Pages                  int
	Tokens                 int
	EligibleTerms          int
	Candidates             int
	Entries                int
	DroppedTooCommon       int
	DroppedSelfReferential int
}

// Builder runs the tokenize/normalize/filter/aggregate pipeline.
// A Builder is not safe for concurrent use.
type Builder struct {
	opts       Options
	normalizer *Normalizer
	filter     *Filter
}

// NewBuilder creates a Builder that excludes the given common words.
func NewBuilder(words WordSet, opts Options) *Builder {
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if opts.MinTermLength <= 0 {
		opts.MinTermLength = DefaultMinTermLength
	}
	return &Builder{
		opts:       opts,
		normalizer: NewNormalizer(opts.NormalizeCacheSize),
		filter:     NewFilter(words, opts.MinTermLength),
	}
}

// Build indexes the given page texts.
func (b *Builder) Build(pages []string) (*Index, Stats) {
	pi, stats := b.PageIndex(pages)
	idx := b.Aggregate(pi, &stats)
	return idx, stats
}

func (b *Builder) pageTerms(text string) ([]string, int) {
	tokens := Tokenize(text)
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		term := b.normalizer.Term(tok)
		if b.filter.Eligible(term) {
			terms = append(terms, term)
		}
	}
	return terms, len(tokens)
}

// PageIndex extracts the eligible terms of every page.
func (b *Builder) PageIndex(pages []string) (PageIndex, Stats) {
	stats := Stats{Pages: len(pages)}
	pi := make(PageIndex, len(pages))
	for i, text := range pages {
		terms, tokens := b.pageTerms(text)
		stats.Tokens += tokens
		stats.EligibleTerms += len(terms)
		pi[i] = terms
	}
	return pi, stats
}

// Aggregate inverts a PageIndex into a sorted Index, applying the page-count
// and self-reference policies. stats may be nil.
func (b *Builder) Aggregate(pi PageIndex, stats *Stats) *Index {
	if stats == nil {
		stats = &Stats{}
	}

	// Pages are scanned in ascending order, so each posting list comes out sorted.
	// lastPage guards against recording a page twice for a repeated term.
	postings := make(map[string][]int)
	lastPage := make(map[string]int)
	var order []string
	for page, terms := range pi {
		for _, term := range terms {
			prev, seen := lastPage[term]
			if !seen {
				order = append(order, term)
			} else if prev == page {
				continue
			}
			lastPage[term] = page
			postings[term] = append(postings[term], page)
		}
	}
	stats.Candidates = len(order)

	entries := make([]Entry, 0, len(order))
	for _, term := range order {
		pages := postings[term]
		if len(pages) >= b.opts.MaxPages {
			stats.DroppedTooCommon++
			continue
		}
		if b.opts.ExcludeSelfReferential && joinPages(pages) == term {
			stats.DroppedSelfReferential++
			continue
		}
		entries = append(entries, Entry{Term: term, Pages: pages})
	}
	idx := newIndex(entries)
	stats.Entries = idx.Len()
	return idx
}

// joinPages renders page ordinals as "0, 4, 7".
func joinPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ", ")
}
