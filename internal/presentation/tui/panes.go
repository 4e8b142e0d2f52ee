package tui

import (
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/penwyp/go-talkshow/internal/core/scroll"
)

// pane adapts a bubbles viewport to the coordinator. Every offset change,
// programmatic or not, is reported back so the coordinator can mirror it or swallow its echo.
type pane struct {
	id     scroll.Pane
	model  viewport.Model
	report func(scroll.Pane, int) int
}

func newPane(id scroll.Pane, report func(scroll.Pane, int) int) *pane {
	return &pane{id: id, report: report}
}

// SetOffset moves the viewport; the reported offset is the one the viewport settled on
func (p *pane) SetOffset(offset int) {
	p.model.SetYOffset(offset)
	if p.report != nil {
		p.report(p.id, p.model.YOffset)
	}
}

func (p *pane) resize(width, height int) {
	p.model = viewport.New(width, height)
}

func (p *pane) setLines(content string) {
	p.model.SetContent(content)
}

func (p *pane) View() string {
	return p.model.View()
}
