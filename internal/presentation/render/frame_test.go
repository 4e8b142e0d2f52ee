package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-talkshow/internal/core/constants"
	"github.com/penwyp/go-talkshow/internal/core/loader"
	"github.com/penwyp/go-talkshow/internal/core/model"
	"github.com/penwyp/go-talkshow/internal/core/timeline"
)

type fakeColumns struct {
	statuses map[string]loader.ColumnStatus
	contents map[string]*model.SessionContent
	errs     map[string]error
}

func (f fakeColumns) Status(id string) loader.ColumnStatus { return f.statuses[id] }
func (f fakeColumns) Content(id string) *model.SessionContent { return f.contents[id] }
func (f fakeColumns) Err(id string) error { return f.errs[id] }

var base = time.Date(2024, 1, 1, 23, 10, 0, 0, time.UTC)

func at(d time.Duration) *model.Timestamp {
	return model.NewTimestamp(base.Add(d))
}

func sampleInput() Input {
	sessions := []model.Session{
		{ID: "loaded", Theme: "Go channels", CreatedTime: at(0), QACount: 3},
		{ID: "broken", Theme: "Broken", CreatedTime: at(40 * time.Minute), QACount: 1},
		{ID: "waiting", Theme: "", CreatedTime: at(80 * time.Minute), QACount: 2},
	}
	markers := timeline.NewGridBuilderIn(time.UTC).Build(sessions)

	return Input{
		Generation: 7,
		Total:      5,
		Sessions:   sessions,
		Markers:    markers,
		Location:   time.UTC,
		Stats:      &model.Stats{TotalSessions: 5, TotalQAPairs: 12, StorageFileSize: 1536, AverageQAPerSession: 2.4},
		Filter:     "All time",
		Highlight:  func(i int) bool { return i == 1 },
		Columns: fakeColumns{
			statuses: map[string]loader.ColumnStatus{
				"loaded":  loader.StatusLoaded,
				"broken":  loader.StatusFailed,
				"waiting": loader.StatusPending,
			},
			contents: map[string]*model.SessionContent{
				"loaded": {QAPairs: []model.ConversationTurn{
					{Question: "What is a channel?", Answer: "A typed conduit.", Timestamp: at(0)},
					{Question: "Buffered?", Answer: "Yes.", QuestionSummary: "Buffering", Timestamp: at(5 * time.Minute)},
					{Question: strings.Repeat("x", 120), Answer: "Long.", Timestamp: at(70 * time.Minute)},
				}},
			},
			errs: map[string]error{"broken": errors.New("status 500")},
		},
	}
}

func TestBuild_MarkersAndColumns(t *testing.T) {
	f := Build(sampleInput())

	assert.Equal(t, uint64(7), f.Generation)
	// 23:00 .. 00:30 inclusive
	require.Len(t, f.Markers, 4)
	assert.Equal(t, 0, f.Markers[0].Row)
	assert.Equal(t, 6, f.Markers[3].Row)
	assert.True(t, f.Markers[1].Highlighted)
	assert.False(t, f.Markers[0].Highlighted)
	assert.True(t, f.Markers[2].Marker.ShowDate)

	require.Len(t, f.Columns, 3)
	assert.Equal(t, loader.StatusLoaded, f.Columns[0].Status)
	assert.Equal(t, loader.StatusFailed, f.Columns[1].Status)
	assert.Equal(t, "status 500", f.Columns[1].Err)
	assert.Equal(t, loader.StatusPending, f.Columns[2].Status)
	assert.Equal(t, "waiting", f.Columns[2].Theme, "theme falls back to the id")
	assert.Equal(t, "2024-01-01 23:10:00", f.Columns[0].Created)
}

func TestBuild_TurnPlacement(t *testing.T) {
	f := Build(sampleInput())
	turns := f.Columns[0].Turns
	require.Len(t, turns, 3)

	// origin 23:00; 23:10 -> row 0; 23:15 collides and moves below; 00:20 -> row 5
	assert.Equal(t, 0, turns[0].Row)
	assert.Equal(t, 2, turns[1].Row)
	assert.Equal(t, 5, turns[2].Row)
	assert.Equal(t, "23:10", turns[0].Time)

	assert.Equal(t, "Buffering", turns[1].Question)
	assert.True(t, turns[1].Summarized)
	assert.Equal(t, strings.Repeat("x", 100)+"...", turns[2].Question)
	assert.False(t, turns[2].Summarized)

	assert.Equal(t, 8, f.Height)
}

func TestBuild_WithoutMarkersStacksByIndex(t *testing.T) {
	in := sampleInput()
	in.Markers = nil
	in.Sessions = in.Sessions[:1]

	f := Build(in)
	turns := f.Columns[0].Turns
	assert.Equal(t, []int{0, 3, 6}, []int{turns[0].Row, turns[1].Row, turns[2].Row})
	assert.Equal(t, 8, f.Height)
}

func TestBuild_FarFutureTurnStaysNearGrid(t *testing.T) {
	in := sampleInput()
	in.Sessions = in.Sessions[:1]
	in.Markers = in.Markers[:1]
	far := model.NewTimestamp(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC))
	in.Columns = fakeColumns{
		statuses: map[string]loader.ColumnStatus{"loaded": loader.StatusLoaded},
		contents: map[string]*model.SessionContent{
			"loaded": {QAPairs: []model.ConversationTurn{{Question: "typo", Answer: "year", Timestamp: far}}},
		},
	}

	f := Build(in)
	limit := (1 + constants.SpillSlots) * constants.SlotHeight
	require.Len(t, f.Columns[0].Turns, 1)
	assert.Equal(t, limit, f.Columns[0].Turns[0].Row)
	assert.Equal(t, limit+TurnHeight, f.Height)
	assert.Len(t, ContentLines(f, 30, 0, 1), f.Height)
}

func TestBuild_Empty(t *testing.T) {
	f := Build(Input{Location: time.UTC})

	assert.Empty(t, f.Markers)
	assert.Empty(t, f.Columns)
	assert.Equal(t, 0, f.Height)
}

func TestPreviewText(t *testing.T) {
	assert.Equal(t, "summary", PreviewText("summary", "full text", 4))
	assert.Equal(t, "full...", PreviewText("", "full text", 4))
	assert.Equal(t, "short", PreviewText("", "short", 100))
}
