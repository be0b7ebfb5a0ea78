package textindex

import "strings"

// Tokenize splits raw page text into whitespace-delimited tokens.
// Newlines and tabs become spaces, runs of spaces collapse to one, and the
// result is trimmed before splitting. Empty text yields no tokens.
func Tokenize(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\t", " ")

	// Collapse until stable; a single ReplaceAll only halves a run.
	for {
		collapsed := strings.ReplaceAll(text, "  ", " ")
		if collapsed == text {
			break
		}
		text = collapsed
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return strings.Split(text, " ")
}
