package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTUIRenderer_ReturnsErrorForNonTTY(t *testing.T) {
	// Given: a non-TTY buffer
	cfg := NewConfig(&bytes.Buffer{})

	// When: creating TUI renderer
	r, err := NewTUIRenderer(cfg)

	// Then: it refuses
	assert.Error(t, err)
	assert.Nil(t, r)
}

func TestBuildModel_InitialView(t *testing.T) {
	model := newBuildModel("/books/sec504.pdf")
	model.styles = NoColorStyles()

	view := model.View()

	assert.Contains(t, view, "sec504.pdf")
	assert.Contains(t, view, "Words")
	assert.Contains(t, view, "Extract")
	assert.Contains(t, view, "Index")
	assert.Contains(t, view, "Write")
}

func TestBuildModel_ProgressDisplay(t *testing.T) {
	// Given: a model receiving page progress
	model := newBuildModel("")
	model.styles = NoColorStyles()

	// When: half the pages are extracted
	_, _ = model.Update(progressMsg{Stage: StageExtracting, Current: 50, Total: 100})
	view := model.View()

	// Then: the page count is shown
	assert.Contains(t, view, "50 / 100 pages")
}

func TestBuildModel_StagesBehindCurrentAreDone(t *testing.T) {
	model := newBuildModel("")
	model.styles = NoColorStyles()

	_, _ = model.Update(progressMsg{Stage: StageIndexing})
	view := model.View()

	assert.Contains(t, view, "● Extract")
	assert.Contains(t, view, "● Words")
	assert.Contains(t, view, "○ Write")
	assert.Contains(t, view, "Indexing...")
}

func TestBuildModel_CompletionState(t *testing.T) {
	model := newBuildModel("")
	model.styles = NoColorStyles()

	_, cmd := model.Update(completeMsg{Pages: 3, Entries: 7, Duration: 2 * time.Second})
	view := model.View()

	assert.NotNil(t, cmd, "completion should quit the program")
	assert.Contains(t, view, "Index complete")
	assert.Contains(t, view, "7")
	assert.Contains(t, view, "2s")
}
