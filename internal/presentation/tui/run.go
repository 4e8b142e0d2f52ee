package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/penwyp/go-talkshow/internal/application/timeline"
)

// Run starts the viewer on the alternate screen and blocks until it quits
func Run(ctx context.Context, view *timeline.View, options Options) error {
	p := tea.NewProgram(
		New(ctx, view, options),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
