package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/irisform/internal/application/render"
	"github.com/doeshing/irisform/internal/domain"
)

var (
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#6C7A89")
)

// Renderer prints display models. Colors are dropped automatically when out
// is not a terminal.
type Renderer struct {
	out     io.Writer
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	bold    lipgloss.Style
	muted   lipgloss.Style
	okBox   lipgloss.Style
	errBox  lipgloss.Style
}

// NewRenderer builds a renderer bound to out.
func NewRenderer(out io.Writer) *Renderer {
	r := lipgloss.NewRenderer(out)
	return &Renderer{
		out:     out,
		success: r.NewStyle().Bold(true).Foreground(colorSuccess),
		warning: r.NewStyle().Foreground(colorWarning),
		failure: r.NewStyle().Bold(true).Foreground(colorError),
		bold:    r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(colorMuted),
		okBox:   r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSuccess).Padding(0, 1),
		errBox:  r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorError).Padding(0, 1),
	}
}

// Result prints the result region. Nothing is printed before the first submission.
func (r *Renderer) Result(view render.ResultView) {
	switch view.Kind {
	case render.ResultSuccess:
		body := strings.Join([]string{
			r.success.Render(view.Title),
			fmt.Sprintf("Class ID: %d", view.ClassID),
			fmt.Sprintf("Features: %s", view.Features),
		}, "\n")
		fmt.Fprintln(r.out, r.okBox.Render(body))
	case render.ResultError:
		body := r.failure.Render(view.Title) + "\n" + view.Message
		fmt.Fprintln(r.out, r.errBox.Render(body))
	}
}

// History prints the history region newest first.
func (r *Renderer) History(view render.HistoryView) {
	if len(view.Items) == 0 {
		fmt.Fprintln(r.out, r.muted.Render(view.Placeholder))
		return
	}
	for i, item := range view.Items {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintln(r.out, r.bold.Render(item.Species))
		fmt.Fprintf(r.out, "Features: %s\n", item.Features)
		fmt.Fprintln(r.out, r.muted.Render("Time: "+item.Timestamp))
	}
}

// Samples prints the preset table.
func (r *Renderer) Samples(samples []domain.Sample) {
	for _, sample := range samples {
		fmt.Fprintf(r.out, "%-11s %s\n", sample.Name, sample.Features.String())
	}
}

// DoctorReport prints one line per check.
func (r *Renderer) DoctorReport(report domain.HealthReport) {
	for _, check := range report.Checks {
		status := strings.ToUpper(string(check.Status))
		switch check.Status {
		case domain.HealthOK:
			status = r.success.Render(status)
		case domain.HealthWarn:
			status = r.warning.Render(status)
		case domain.HealthError:
			status = r.failure.Render(status)
		}
		fmt.Fprintf(r.out, "[%s] %s - %s\n", status, check.Name, check.Details)
	}
}

// Warning prints a single highlighted line.
func (r *Renderer) Warning(msg string) {
	fmt.Fprintln(r.out, r.warning.Render("⚠ "+msg))
}
