package timeline

import (
	"context"

	"github.com/penwyp/go-talkshow/internal/core/model"
)

// DataSource provides the sessions, their contents and the aggregate data the view shows
type DataSource interface {
	// ListSessions returns every session summary
	ListSessions(ctx context.Context) ([]model.Session, error)
	// GetSession returns the turns of one session
	GetSession(ctx context.Context, id string) (*model.SessionContent, error)
	// GetStats returns the aggregate counters
	GetStats(ctx context.Context) (*model.Stats, error)
	// GetTimeline returns the flat timeline entries
	GetTimeline(ctx context.Context) ([]model.TimelineEntry, error)
}
