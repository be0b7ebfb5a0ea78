// Package textindex builds a back-of-book index from per-page document text.
//
// The pipeline runs in a single pass over the pages:
//   - Tokenize: collapse whitespace and split a page into tokens
//   - Normalizer: strip possessives, footnote markers and punctuation, lowercase
//   - Filter: drop short, numeric, URL and common-word terms
//   - Builder: record the pages each surviving term appears on
//   - Index: sort entries case-insensitively and serialize "term: p0, p1" lines
//
// Usage:
//
//	b := textindex.NewBuilder(commonWords, textindex.DefaultOptions())
//	idx, stats := b.Build(pages)
//	if err := textindex.WriteFile("book.txt", idx); err != nil {
//	    return err
//	}
//
// Page ordinals are 0-based and follow the order of the pages slice.
package textindex
