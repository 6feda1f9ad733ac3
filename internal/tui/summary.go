package tui

import (
	"fmt"
	"strings"

	"github.com/barista-ai/menu-ingest/internal/ingest"
)

// RenderSummary describes the outcome of a run. report may be nil when the
// document could not be read.
func RenderSummary(report *ingest.Report, err error) string {
	s := DefaultStyles()

	if report == nil {
		msg := "ingestion failed"
		if err != nil {
			msg = err.Error()
		}
		return s.Box.Render(s.Error.Render("✗ " + msg))
	}

	var b strings.Builder
	switch {
	case report.Complete():
		b.WriteString(s.Success.Render(fmt.Sprintf("✓ %d records written", report.Written())))
	case report.Err != nil:
		b.WriteString(s.Error.Render("✗ embedding failed"))
	default:
		b.WriteString(s.Error.Render("✗ write failed"))
	}

	fmt.Fprintf(&b, "\n%s %s", s.Muted.Render("document:"), report.Path)
	fmt.Fprintf(&b, "\n%s %d", s.Muted.Render("chunks:  "), report.Chunks)
	fmt.Fprintf(&b, "\n%s %d", s.Muted.Render("written: "), report.Written())

	if !report.Complete() {
		fmt.Fprintf(&b, "\n%s %d", s.Muted.Render("skipped: "), report.Skipped())
		if report.Err != nil {
			fmt.Fprintf(&b, "\n%s", s.Error.Render(report.Err.Error()))
		} else if f := report.Failure(); f != nil {
			fmt.Fprintf(&b, "\n%s", s.Error.Render(f.Err.Error()))
		}
	}

	return s.Box.Render(b.String())
}
