package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/barista-ai/menu-ingest/internal/ingest"
)

// Observer forwards pipeline progress to a running program.
type Observer struct {
	send func(tea.Msg)
}

// NewObserver returns an ingest.Observer that delivers messages through send,
// usually (*tea.Program).Send.
func NewObserver(send func(tea.Msg)) *Observer {
	return &Observer{send: send}
}

var _ ingest.Observer = (*Observer)(nil)

// Chunked implements ingest.Observer.
func (o *Observer) Chunked(total int) {
	o.send(ChunkedMsg{Total: total})
}

// Recorded implements ingest.Observer.
func (o *Observer) Recorded(res ingest.Result) {
	o.send(ResultMsg{Result: res})
}

// Run ingests path with the progress view attached and returns the
// pipeline's report once the program exits.
func Run(ctx context.Context, pipeline *ingest.Pipeline, path string) (*ingest.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewProgress(path, cancel)
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))

	pipeline.SetObserver(NewObserver(p.Send))
	defer pipeline.SetObserver(nil)

	var (
		report *ingest.Report
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		report, runErr = pipeline.Run(ctx, path)
		p.Send(DoneMsg{Report: report, Err: runErr})
	}()

	_, err := p.Run()
	cancel()
	<-done

	if err != nil {
		return report, fmt.Errorf("TUI error: %w", err)
	}
	return report, runErr
}
