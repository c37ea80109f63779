package cli

import (
	"io"

	"github.com/doeshing/irisform/internal/ports"
)

// Alerter shows validation alerts as highlighted lines on the error stream.
type Alerter struct {
	renderer *Renderer
}

// NewAlerter builds an alerter writing to out.
func NewAlerter(out io.Writer) *Alerter {
	return &Alerter{renderer: NewRenderer(out)}
}

// Alert implements ports.Alerter.
func (a *Alerter) Alert(message string) {
	a.renderer.Warning(message)
}

var _ ports.Alerter = (*Alerter)(nil)
