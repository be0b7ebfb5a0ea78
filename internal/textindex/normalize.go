package textindex

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultNormalizeCacheSize is the number of token -> term results kept by a Normalizer.
const DefaultNormalizeCacheSize = 4096

// strippedSuffixes are removed from the end of a token, in this order, on every pass.
var strippedSuffixes = []string{
	"'s", "'re", "'ve", "'t",
	"[0]", "[1]", "[2]", "[3]", "[4]", "[5]", "[6]",
}

// stripCutset is trimmed from both ends of a token on every pass.
const stripCutset = "()'\":,”“‘?;-•’—…[]!"

// NormalizeTerm cleans a raw token by repeatedly replacing the typographic
// apostrophe, stripping possessive/contraction suffixes and footnote markers,
// and trimming punctuation, until a pass leaves the token unchanged.
// The result keeps its original case.
func NormalizeTerm(token string) string {
	for {
		next := normalizePass(token)
		if next == token {
			return next
		}
		token = next
	}
}

func normalizePass(s string) string {
	s = strings.ReplaceAll(s, "’", "'")
	for _, suffix := range strippedSuffixes {
		s = strings.TrimSuffix(s, suffix)
	}
	s = strings.Trim(s, stripCutset)
	return strings.TrimRight(s, ".")
}

// Normalizer turns raw tokens into lowercase candidate terms.
// Results are memoized in a bounded LRU cache; book text repeats the same
// tokens on almost every page.
type Normalizer struct {
	cache *lru.Cache[string, string]
}

// NewNormalizer creates a Normalizer. A cacheSize <= 0 disables memoization.
func NewNormalizer(cacheSize int) *Normalizer {
	n := &Normalizer{}
	if cacheSize > 0 {
		n.cache, _ = lru.New[string, string](cacheSize)
	}
	return n
}

// Term returns the normalized, lowercased form of token.
func (n *Normalizer) Term(token string) string {
	if n.cache != nil {
		if term, ok := n.cache.Get(token); ok {
			return term
		}
	}

	term := strings.ToLower(NormalizeTerm(token))

	if n.cache != nil {
		n.cache.Add(token, term)
	}
	return term
}
