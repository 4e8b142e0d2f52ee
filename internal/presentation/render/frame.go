package render

import (
	"time"

	"github.com/penwyp/go-talkshow/internal/core/constants"
	"github.com/penwyp/go-talkshow/internal/core/loader"
	"github.com/penwyp/go-talkshow/internal/core/model"
	"github.com/penwyp/go-talkshow/internal/core/timeline"
	"github.com/penwyp/go-talkshow/internal/util"
)

// TurnHeight is the number of rows a turn occupies in its column
const TurnHeight = 2

// MarkerRow is a marker placed on the axis
type MarkerRow struct {
	Marker      timeline.TimeMarker
	Row         int
	Highlighted bool
}

// TurnView is a positioned, display-ready conversation turn
type TurnView struct {
	Index      int
	Row        int
	Time       string
	Question   string
	Answer     string
	Summarized bool
}

// ColumnView is one session column
type ColumnView struct {
	ID      string
	Theme   string
	Created string
	QACount int
	Status  loader.ColumnStatus
	Err     string
	Turns   []TurnView
}

// Frame is an immutable description of one rendered timeline
type Frame struct {
	Generation uint64
	Markers    []MarkerRow
	Columns    []ColumnView
	Height     int
	Stats      *model.Stats
	Total      int
	Filter     string
	Search     string
	Error      string
}

// ColumnSource exposes per-column load results
type ColumnSource interface {
	Status(id string) loader.ColumnStatus
	Content(id string) *model.SessionContent
	Err(id string) error
}

// Input is everything a frame is derived from
type Input struct {
	Generation uint64
	Total      int
	Sessions   []model.Session
	Markers    []timeline.TimeMarker
	Columns    ColumnSource
	Highlight  func(index int) bool
	Mapper     timeline.PositionMapper
	Location   *time.Location
	Stats      *model.Stats
	Filter     string
	Search     string
	Err        error
}

// Build derives a frame. Turns are placed by the mapper and pushed down when they would overlap.
func Build(in Input) Frame {
	if in.Location == nil {
		in.Location = util.GetTimeProvider().Location()
	}
	if in.Mapper.SlotHeight == 0 {
		in.Mapper = timeline.NewPositionMapper()
	}
	if in.Mapper.MaxOffset == 0 && len(in.Markers) > 0 {
		in.Mapper = in.Mapper.Bounded(len(in.Markers))
	}

	frame := Frame{
		Generation: in.Generation,
		Stats:      in.Stats,
		Total:      in.Total,
		Filter:     in.Filter,
		Search:     in.Search,
		Markers:    make([]MarkerRow, len(in.Markers)),
		Columns:    make([]ColumnView, 0, len(in.Sessions)),
	}
	if in.Err != nil {
		frame.Error = in.Err.Error()
	}

	for i, m := range in.Markers {
		frame.Markers[i] = MarkerRow{
			Marker:      m,
			Row:         i * in.Mapper.SlotHeight,
			Highlighted: in.Highlight != nil && in.Highlight(i),
		}
	}
	frame.Height = len(in.Markers) * in.Mapper.SlotHeight

	origin := timeline.Origin(in.Markers)
	for _, s := range in.Sessions {
		column := buildColumn(s, in, origin)
		if n := len(column.Turns); n > 0 {
			frame.Height = max(frame.Height, column.Turns[n-1].Row+TurnHeight)
		}
		frame.Columns = append(frame.Columns, column)
	}
	if len(frame.Columns) > 0 {
		frame.Height = max(frame.Height, TurnHeight)
	}

	return frame
}

func buildColumn(s model.Session, in Input, origin *time.Time) ColumnView {
	column := ColumnView{
		ID:      s.ID,
		Theme:   s.Theme,
		QACount: s.QACount,
		Status:  loader.StatusPending,
	}
	if start, ok := s.StartTime(); ok {
		column.Created = start.In(in.Location).Format(util.DateTimeLayout)
	}
	if column.Theme == "" {
		column.Theme = s.ID
	}
	if in.Columns == nil {
		return column
	}

	column.Status = in.Columns.Status(s.ID)
	switch column.Status {
	case loader.StatusFailed:
		if err := in.Columns.Err(s.ID); err != nil {
			column.Err = err.Error()
		}
	case loader.StatusLoaded:
		if content := in.Columns.Content(s.ID); content != nil {
			column.Turns = buildTurns(content.QAPairs, in, origin)
		}
	}
	return column
}

func buildTurns(turns []model.ConversationTurn, in Input, origin *time.Time) []TurnView {
	offsets := in.Mapper.PlaceTurns(turns, origin)
	views := make([]TurnView, len(turns))
	next := 0

	for i, turn := range turns {
		row := max(offsets[i], next)
		next = row + TurnHeight

		view := TurnView{
			Index:    i,
			Row:      row,
			Question: PreviewText(turn.QuestionSummary, turn.Question, constants.QuestionPreviewRunes),
			Answer:   PreviewText(turn.AnswerSummary, turn.Answer, constants.AnswerPreviewRunes),
		}
		view.Summarized = turn.QuestionSummary != "" || turn.AnswerSummary != ""
		if t, ok := turn.Time(); ok {
			view.Time = t.In(in.Location).Format(util.ClockLayout)
		}
		views[i] = view
	}
	return views
}

// PreviewText prefers the summary and otherwise truncates the full text
func PreviewText(summary, full string, limit int) string {
	if summary != "" {
		return summary
	}
	return util.TruncateText(full, limit)
}
