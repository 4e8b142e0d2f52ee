package loader

import (
	"github.com/penwyp/go-talkshow/internal/core/model"
)

// LoadState tracks whether a column's content has been asked for
type LoadState int

const (
	NotRequested LoadState = iota
	Requested
)

func (s LoadState) String() string {
	if s == Requested {
		return "requested"
	}
	return "not_requested"
}

// ColumnStatus is the display state of a column's content
type ColumnStatus int

const (
	StatusPending ColumnStatus = iota
	StatusLoaded
	StatusFailed
)

func (s ColumnStatus) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// VisibilityEvent reports a column crossing the visibility threshold
type VisibilityEvent struct {
	ID      string
	Visible bool
}

// ColumnResult is the outcome of one content fetch
type ColumnResult struct {
	ID      string
	Content *model.SessionContent
	Err     error
}

// ShouldFetch reports whether event must trigger a fetch for a column in state
func ShouldFetch(state LoadState, event VisibilityEvent) bool {
	return event.Visible && state == NotRequested
}
