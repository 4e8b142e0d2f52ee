package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/penwyp/go-talkshow/internal/application/timeline"
	"github.com/penwyp/go-talkshow/internal/util"
)

type refreshedMsg struct {
	err error
}

type columnMsg struct {
	result timeline.Result
}

type exportedMsg struct {
	path string
	err  error
}

func refreshCmd(ctx context.Context, view *timeline.View) tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: view.Refresh(ctx)}
	}
}

// fetchCmds turns the view's pending requests into one command per column
func fetchCmds(ctx context.Context, view *timeline.View) tea.Cmd {
	requests := view.TakeRequests()
	if len(requests) == 0 {
		return nil
	}

	cmds := make([]tea.Cmd, len(requests))
	for i, req := range requests {
		cmds[i] = func() tea.Msg {
			return columnMsg{result: view.Fetch(ctx, req)}
		}
	}
	return tea.Batch(cmds...)
}

func exportCmd(view *timeline.View, dir, format string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, timeline.ExportFileName(format, now))
		file, err := os.Create(path)
		if err != nil {
			return exportedMsg{path: path, err: fmt.Errorf("failed to create export file: %w", err)}
		}
		defer file.Close()

		if err := view.ExportSnapshot(file, format); err != nil {
			return exportedMsg{path: path, err: err}
		}
		util.LogInfof("Snapshot written to %s", path)
		return exportedMsg{path: path}
	}
}
