package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUIRenderer draws build progress inline using bubbletea.
type TUIRenderer struct {
	mu      sync.Mutex
	cfg     Config
	program *tea.Program
	model   *buildModel
	started bool
	done    chan struct{}
}

// NewTUIRenderer creates a TUI renderer.
// Returns an error if the output is not a terminal.
func NewTUIRenderer(cfg Config) (*TUIRenderer, error) {
	if !IsTTY(cfg.Output) {
		return nil, fmt.Errorf("output is not a TTY")
	}

	model := newBuildModel(cfg.Title)
	if cfg.NoColor || DetectNoColor() {
		model.styles = NoColorStyles()
	}

	return &TUIRenderer{
		cfg:   cfg,
		model: model,
		done:  make(chan struct{}),
	}, nil
}

// Start implements Renderer.
func (r *TUIRenderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithInput(nil)}
	if f, ok := r.cfg.Output.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}

	r.program = tea.NewProgram(r.model, opts...)
	r.started = true

	go func() {
		defer close(r.done)
		_, _ = r.program.Run()
	}()

	return nil
}

// UpdateProgress implements Renderer.
func (r *TUIRenderer) UpdateProgress(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program != nil {
		r.program.Send(progressMsg(event))
	}
}

// Complete implements Renderer.
func (r *TUIRenderer) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program != nil {
		r.program.Send(completeMsg(stats))
	}
}

// Stop implements Renderer.
func (r *TUIRenderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program == nil {
		return nil
	}
	r.program.Quit()

	// Do not hang the CLI on an unresponsive terminal.
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
	}
	return nil
}

type progressMsg ProgressEvent
type completeMsg CompletionStats

// buildModel is the bubbletea model for a single index build.
type buildModel struct {
	title       string
	event       ProgressEvent
	complete    bool
	stats       CompletionStats
	width       int
	spinner     spinner.Model
	progressBar progress.Model
	styles      Styles
}

func newBuildModel(title string) *buildModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))

	p := progress.New(
		progress.WithSolidFill(ColorAccent),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return &buildModel{
		title:       title,
		width:       80,
		spinner:     s,
		progressBar: p,
		styles:      DefaultStyles(),
	}
}

// Init implements tea.Model.
func (m *buildModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = msg.Width - 30
		if m.progressBar.Width < 20 {
			m.progressBar.Width = 20
		}

	case progressMsg:
		m.event = ProgressEvent(msg)
		return m, nil

	case completeMsg:
		m.complete = true
		m.stats = CompletionStats(msg)
		m.event.Stage = StageComplete
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m *buildModel) View() string {
	if m.complete {
		return m.renderComplete()
	}

	var lines []string
	if m.title != "" {
		lines = append(lines, m.styles.Header.Render("bookindex • "+filepath.Base(m.title)))
	}
	lines = append(lines, m.renderStages())
	lines = append(lines, m.renderProgress())
	return strings.Join(lines, "\n") + "\n"
}

// renderStages renders "● Words → ⣾ Extract → ○ Index → ○ Write".
func (m *buildModel) renderStages() string {
	stages := []struct {
		stage Stage
		name  string
	}{
		{StageWords, "Words"},
		{StageExtracting, "Extract"},
		{StageIndexing, "Index"},
		{StageWriting, "Write"},
	}

	current := m.event.Stage
	parts := make([]string, 0, len(stages))
	for _, s := range stages {
		var icon string
		var style lipgloss.Style
		switch {
		case s.stage < current:
			icon, style = "●", m.styles.Success
		case s.stage == current:
			icon, style = m.spinner.View(), m.styles.Active
		default:
			icon, style = "○", m.styles.Dim
		}
		parts = append(parts, style.Render(icon+" "+s.name))
	}
	return strings.Join(parts, m.styles.Dim.Render(" → "))
}

func (m *buildModel) renderProgress() string {
	e := m.event
	if e.Total == 0 {
		return m.styles.Label.Render(e.Stage.String() + "...")
	}

	percent := float64(e.Current) / float64(e.Total)
	bar := m.progressBar.ViewAs(percent)
	count := m.styles.Label.Render(fmt.Sprintf("%d / %d pages", e.Current, e.Total))
	return fmt.Sprintf("%s  %s", bar, count)
}

func (m *buildModel) renderComplete() string {
	lines := []string{
		m.styles.Success.Render("✓ Index complete"),
		fmt.Sprintf("%s %s", m.styles.Label.Render("Entries:"), m.styles.Active.Render(fmt.Sprintf("%d", m.stats.Entries))),
		fmt.Sprintf("%s   %s", m.styles.Label.Render("Pages:"), m.styles.Active.Render(fmt.Sprintf("%d", m.stats.Pages))),
		fmt.Sprintf("%s    %s", m.styles.Label.Render("Took:"), m.styles.Active.Render(m.stats.Duration.Round(time.Millisecond).String())),
	}
	return m.styles.Panel.Render(strings.Join(lines, "\n")) + "\n"
}

var _ Renderer = (*TUIRenderer)(nil)
