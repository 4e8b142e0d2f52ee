package timeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/penwyp/go-talkshow/internal/core/model"
	coretimeline "github.com/penwyp/go-talkshow/internal/core/timeline"
	"github.com/penwyp/go-talkshow/internal/util"
)

const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Snapshot is the exported state of the view
type Snapshot struct {
	ExportID   string                    `json:"export_id" toml:"export_id"`
	ExportedAt time.Time                 `json:"exported_at" toml:"exported_at"`
	Sessions   []model.Session           `json:"sessions" toml:"sessions"`
	Stats      *model.Stats              `json:"stats,omitempty" toml:"stats,omitempty"`
	Timeline   []model.TimelineEntry     `json:"timeline" toml:"timeline"`
	Markers    []coretimeline.TimeMarker `json:"markers" toml:"markers"`
}

// ExportFileName returns the default export file name for format on the day of now
func ExportFileName(format string, now time.Time) string {
	return fmt.Sprintf("talkshow_export_%s.%s", now.Format(util.DateLayout), normalizeFormat(format))
}

func normalizeFormat(format string) string {
	if format == "" {
		return FormatJSON
	}
	return strings.ToLower(format)
}

// Snapshot captures all loaded sessions, stats and timeline plus the current markers
func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	sessions := make([]model.Session, len(v.sessions))
	copy(sessions, v.sessions)
	entries := make([]model.TimelineEntry, len(v.entries))
	copy(entries, v.entries)
	markers := make([]coretimeline.TimeMarker, len(v.gen.Markers))
	copy(markers, v.gen.Markers)

	return Snapshot{
		ExportID:   uuid.NewString(),
		ExportedAt: v.now().In(v.grid.Location()),
		Sessions:   sessions,
		Stats:      v.stats,
		Timeline:   entries,
		Markers:    markers,
	}
}

// ExportSnapshot writes the snapshot to w as indented JSON or as TOML
func (v *View) ExportSnapshot(w io.Writer, format string) error {
	snapshot := v.Snapshot()

	var (
		data []byte
		err  error
	)
	switch normalizeFormat(format) {
	case FormatJSON:
		data, err = sonic.MarshalIndent(snapshot, "", "  ")
	case FormatTOML:
		data, err = toml.Marshal(snapshot)
	default:
		return fmt.Errorf("invalid export format '%s': must be json or toml", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	util.LogInfof("Exported snapshot %s: %d sessions, %d markers", snapshot.ExportID, len(snapshot.Sessions), len(snapshot.Markers))
	return nil
}
