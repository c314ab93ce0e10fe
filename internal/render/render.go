// Package render prints check reports on a terminal.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/a-peyrard/modcheck"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	green  = lipgloss.Color("#22A06B")
	red    = lipgloss.Color("#D93025")
	yellow = lipgloss.Color("#F59E0B")
	slate  = lipgloss.Color("#667085")
)

const (
	iconOK      = "✓"
	iconBroken  = "✗"
	iconWarning = "!"
)

// Renderer writes reports with one line per probed definition.
type Renderer struct {
	out io.Writer

	ok      lipgloss.Style
	broken  lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
	bold    lipgloss.Style
}

// New creates a renderer detecting the color support of w. Colors are disabled when noColor is set,
// or when the NO_COLOR env variable is.
func New(w io.Writer, noColor bool) *Renderer {
	if w == nil {
		w = os.Stdout
	}
	r := lipgloss.NewRenderer(w)
	if noColor || os.Getenv("NO_COLOR") != "" {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Renderer{
		out:     w,
		ok:      r.NewStyle().Foreground(green),
		broken:  r.NewStyle().Foreground(red).Bold(true),
		warning: r.NewStyle().Foreground(yellow),
		muted:   r.NewStyle().Foreground(slate),
		bold:    r.NewStyle().Bold(true),
	}
}

// Report prints the outcome of a check. err is the error returned along the report, if any.
func (r *Renderer) Report(report *modcheck.Report, err error) error {
	var sb strings.Builder

	if report != nil {
		for _, s := range report.Shadowed {
			sb.WriteString(r.warning.Render(iconWarning))
			sb.WriteString(fmt.Sprintf(" %s %s\n", s.Shadowed, r.muted.Render("shadowed by "+s.By.String())))
		}
		for _, probe := range report.Probes {
			r.writeProbe(&sb, probe)
		}
	}

	var probeErr *modcheck.ProbeExecutionError
	var brokenErr *modcheck.BrokenDefinitionError
	switch {
	case err == nil && report != nil:
		sb.WriteString(r.ok.Render(iconOK))
		sb.WriteString(" ")
		sb.WriteString(r.bold.Render(fmt.Sprintf("%d definitions checked", report.Definitions)))
		sb.WriteString(r.muted.Render(fmt.Sprintf(" (%d holders, fingerprint %s)", report.Holders, report.Fingerprint)))
		sb.WriteString("\n")
	case errors.As(err, &brokenErr):
		sb.WriteString(r.broken.Render(iconBroken))
		sb.WriteString(" ")
		sb.WriteString(r.bold.Render(fmt.Sprintf("%d broken of %d definitions checked", brokenErr.Definitions(), brokenErr.Checked)))
		sb.WriteString("\n")
	case errors.As(err, &probeErr):
		sb.WriteString(r.broken.Render(iconBroken))
		sb.WriteString(fmt.Sprintf(" check aborted while probing %s\n", probeErr.Record))
		sb.WriteString(r.muted.Render(indent(probeErr.Err.Error())))
		sb.WriteString("\n")
	case err != nil:
		sb.WriteString(r.broken.Render(iconBroken))
		sb.WriteString(" ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	_, writeErr := io.WriteString(r.out, sb.String())
	return writeErr
}

func (r *Renderer) writeProbe(sb *strings.Builder, probe modcheck.ProbeResult) {
	if probe.OK() {
		sb.WriteString(r.ok.Render(iconOK))
		sb.WriteString(fmt.Sprintf(" %s\n", probe.Record))
		return
	}

	sb.WriteString(r.broken.Render(iconBroken))
	sb.WriteString(fmt.Sprintf(" %s\n", probe.Record))
	for _, b := range probe.Broken {
		sb.WriteString(fmt.Sprintf("    missing %s", r.bold.Render(b.Missing.String())))
		if b.Cause != nil {
			sb.WriteString(r.muted.Render(": " + firstLine(b.Cause.Error())))
		}
		sb.WriteString("\n")
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}
