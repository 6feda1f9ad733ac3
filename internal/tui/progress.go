// Package tui renders ingestion progress in the terminal.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/barista-ai/menu-ingest/internal/ingest"
)

const maxBarWidth = 60

// ChunkedMsg signals the document has been split.
type ChunkedMsg struct {
	Total int
}

// ResultMsg carries one write attempt.
type ResultMsg struct {
	Result ingest.Result
}

// DoneMsg signals the pipeline has returned.
type DoneMsg struct {
	Report *ingest.Report
	Err    error
}

type keyMap struct {
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "cancel"),
		),
	}
}

// Progress follows a single ingestion run.
type Progress struct {
	path   string
	cancel func()
	styles *Styles
	keys   keyMap
	bar    progress.Model

	total    int
	done     int
	last     *ingest.Result
	failure  *ingest.Result
	report   *ingest.Report
	err      error
	finished bool
	quitting bool
}

// NewProgress creates the view for path. cancel is called when the user
// aborts the run; it may be nil.
func NewProgress(path string, cancel func()) *Progress {
	if cancel == nil {
		cancel = func() {}
	}
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = maxBarWidth

	return &Progress{
		path:   path,
		cancel: cancel,
		styles: DefaultStyles(),
		keys:   defaultKeyMap(),
		bar:    bar,
	}
}

// Init implements tea.Model.
func (m *Progress) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, maxBarWidth)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			if m.finished {
				return m, tea.Quit
			}
			// the pipeline returns on cancellation and DoneMsg ends the program
			m.quitting = true
			m.cancel()
		}
		return m, nil

	case ChunkedMsg:
		m.total = msg.Total
		return m, nil

	case ResultMsg:
		res := msg.Result
		m.last = &res
		if res.OK() {
			m.done++
		} else if m.failure == nil {
			m.failure = &res
		}
		return m, nil

	case DoneMsg:
		m.finished = true
		m.report = msg.Report
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m *Progress) View() string {
	lines := []string{
		m.styles.Title.Render("Menu ingestion"),
		m.styles.Path.Render(m.path),
		"",
		m.bar.ViewAs(m.Percent()),
		fmt.Sprintf("%d/%d records written", m.done, m.total),
	}

	switch {
	case m.finished:
		lines = append(lines, "", RenderSummary(m.report, m.err))
		return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
	case m.failure != nil:
		lines = append(lines, m.styles.Error.Render("write failed: "+m.failure.Err.Error()))
	case m.last != nil:
		lines = append(lines, m.styles.Current.Render(m.last.Text))
	}

	help := m.keys.Quit.Help()
	status := fmt.Sprintf("%s: %s", help.Key, help.Desc)
	if m.quitting {
		status = "cancelling..."
	}
	lines = append(lines, "", m.styles.Muted.Render(status))

	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

// Percent returns the share of chunks written so far.
func (m *Progress) Percent() float64 {
	if m.total == 0 {
		if m.finished {
			return 1
		}
		return 0
	}
	return float64(m.done) / float64(m.total)
}

// Report returns the final report once the run is done.
func (m *Progress) Report() (*ingest.Report, error) {
	return m.report, m.err
}

// Finished reports whether DoneMsg has been received.
func (m *Progress) Finished() bool {
	return m.finished
}
