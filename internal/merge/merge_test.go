package merge

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amerrors "github.com/Aman-CERP/bookindex/internal/errors"
)

func mergeStrings(t *testing.T, inputs ...string) string {
	t.Helper()
	m := New()
	for _, in := range inputs {
		require.NoError(t, m.Add(strings.NewReader(in)))
	}
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestMerge_ConcatenatesPerSource(t *testing.T) {
	// Given: two indexes sharing a term
	// When: merged
	out := mergeStrings(t, "cat: 1, 4", "cat: 2")

	// Then: each source's pages are tagged with its position
	assert.Equal(t, "cat: 1(1, 4) | 2(2)\n", out)
}

func TestMerge_AbsentSourcesAreOmitted(t *testing.T) {
	out := mergeStrings(t,
		"arp: 3\nnmap: 1, 2",
		"zeek: 7",
		"nmap: 9",
	)

	assert.Equal(t, "arp: 1(3)\nnmap: 1(1, 2) | 3(9)\nzeek: 2(7)\n", out)
}

func TestMerge_SkipsMalformedLines(t *testing.T) {
	m := New()
	require.NoError(t, m.Add(strings.NewReader("not a valid line\n\ncat: 5\nno-colon-space:here")))

	assert.Equal(t, []string{"cat: 1(5)"}, m.Lines())
	assert.Equal(t, 3, m.Skipped())
	assert.Equal(t, 1, m.Sources())
}

func TestMerge_SplitsOnFirstSeparatorOnly(t *testing.T) {
	out := mergeStrings(t, "ratio: 1: 2, 3")

	assert.Equal(t, "ratio: 1(1: 2, 3)\n", out)
}

func TestMerge_PlainByteOrder(t *testing.T) {
	// Uppercase sorts before lowercase without case folding.
	out := mergeStrings(t, "apple: 1\nZebra: 2\nBanana: 3")

	assert.Equal(t, "Banana: 1(3)\nZebra: 1(2)\napple: 1(1)\n", out)
}

func TestMerge_NoLineEndsWithSeparator(t *testing.T) {
	out := mergeStrings(t, "a1: 1\nb2: 2", "a1: 3", "b2: 4\nc3: 5")

	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		assert.False(t, strings.HasSuffix(line, " | "), line)
	}
}

func TestMerge_ZeroInputs(t *testing.T) {
	m := New()

	var buf bytes.Buffer
	n, err := m.WriteTo(&buf)

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, buf.String())
	assert.Zero(t, m.Terms())
}

func TestMerge_EmptySourceStillCounts(t *testing.T) {
	out := mergeStrings(t, "", "cat: 2")

	assert.Equal(t, "cat: 2(2)\n", out)
}

func TestMerge_CRLFLineEndings(t *testing.T) {
	out := mergeStrings(t, "cat: 1\r\ndog: 2\r\n")

	assert.Equal(t, "cat: 1(1)\ndog: 1(2)\n", out)
}

func TestAddFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "book1.txt")
	second := filepath.Join(dir, "book2.txt")
	require.NoError(t, os.WriteFile(first, []byte("cat: 1, 4\ndog: 2"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("cat: 2\n"), 0o644))

	m := New()
	require.NoError(t, m.AddFile(first))
	require.NoError(t, m.AddFile(second))

	assert.Equal(t, []string{"cat: 1(1, 4) | 2(2)", "dog: 1(2)"}, m.Lines())
	assert.Equal(t, 2, m.Sources())
	assert.Equal(t, 2, m.Terms())
}

func TestAddFile_Missing(t *testing.T) {
	m := New()

	err := m.AddFile(filepath.Join(t.TempDir(), "missing.txt"))

	require.Error(t, err)
	assert.Equal(t, amerrors.ErrCodeFileNotFound, amerrors.GetCode(err))
	assert.Zero(t, m.Sources())
}
