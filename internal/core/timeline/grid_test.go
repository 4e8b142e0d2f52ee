package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/penwyp/go-talkshow/internal/core/constants"
	"github.com/penwyp/go-talkshow/internal/core/model"
)

func sessionAt(id string, t time.Time) model.Session {
	return model.Session{ID: id, Theme: id, CreatedTime: model.NewTimestamp(t)}
}

func TestGridBuilder_Empty(t *testing.T) {
	gb := NewGridBuilderIn(time.UTC)

	assert.Empty(t, gb.Build(nil))
	assert.Empty(t, gb.Build([]model.Session{{ID: "no-time"}}))
	assert.NotNil(t, gb.Build(nil))
}

func TestGridBuilder_SingleSession(t *testing.T) {
	gb := NewGridBuilderIn(time.UTC)

	markers := gb.Build([]model.Session{
		sessionAt("a", time.Date(2024, 1, 1, 10, 12, 0, 0, time.UTC)),
	})

	require.Len(t, markers, 2)
	assert.Equal(t, "10:00", markers[0].TimeDisplay)
	assert.True(t, markers[0].IsHour)
	assert.Equal(t, "10:30", markers[1].TimeDisplay)
	assert.False(t, markers[1].IsHour)
	assert.True(t, markers[0].IsNewDay)
	assert.False(t, markers[1].IsNewDay)
}

func TestGridBuilder_ExactBoundary(t *testing.T) {
	gb := NewGridBuilderIn(time.UTC)

	markers := gb.Build([]model.Session{
		sessionAt("a", time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)),
	})

	require.Len(t, markers, 1)
	assert.Equal(t, "10:30", markers[0].TimeDisplay)
}

func TestGridBuilder_DayBoundary(t *testing.T) {
	gb := NewGridBuilderIn(time.UTC)

	markers := gb.Build([]model.Session{
		sessionAt("late", time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)),
		sessionAt("early", time.Date(2024, 1, 2, 0, 30, 0, 0, time.UTC)),
	})

	require.Len(t, markers, 3)
	displays := []string{markers[0].TimeDisplay, markers[1].TimeDisplay, markers[2].TimeDisplay}
	assert.Equal(t, []string{"23:30", "00:00", "00:30"}, displays)

	assert.True(t, markers[0].IsNewDay)
	assert.False(t, markers[0].ShowDate)

	assert.True(t, markers[1].IsNewDay)
	assert.True(t, markers[1].ShowDate)
	assert.True(t, markers[1].IsHour)
	assert.Equal(t, "2024-01-02", markers[1].Date)

	assert.False(t, markers[2].IsNewDay)
	assert.False(t, markers[2].ShowDate)
}

func TestGridBuilder_UnsortedInput(t *testing.T) {
	gb := NewGridBuilderIn(time.UTC)
	base := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)

	markers := gb.Build([]model.Session{
		sessionAt("c", base.Add(2*time.Hour)),
		{ID: "missing"},
		sessionAt("a", base),
		sessionAt("b", base.Add(45*time.Minute)),
	})

	require.Len(t, markers, 5)
	assert.Equal(t, base, markers[0].Time.UTC())
	assert.Equal(t, base.Add(2*time.Hour), markers[4].Time.UTC())
}

func TestGridBuilder_AlignsInLocation(t *testing.T) {
	// +05:45 offset puts UTC half-hours on :15 and :45 wall-clock minutes
	loc := time.FixedZone("NPT", 5*3600+45*60)
	gb := NewGridBuilderIn(loc)

	markers := gb.Build([]model.Session{
		sessionAt("a", time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC)),
	})

	require.Len(t, markers, 2)
	assert.Equal(t, "09:30", markers[0].TimeDisplay)
	assert.Equal(t, "10:00", markers[1].TimeDisplay)
	assert.True(t, markers[1].IsHour)
}

func TestGridBuilder_CapsMarkerCount(t *testing.T) {
	gb := NewGridBuilderIn(time.UTC)
	gb.maxMarkers = 10
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	markers := gb.Build([]model.Session{
		sessionAt("a", base),
		sessionAt("b", base.Add(30*24*time.Hour)),
	})

	assert.Len(t, markers, 10)
}

func TestFloorCeilSlot(t *testing.T) {
	tests := []struct {
		name  string
		in    time.Time
		floor string
		ceil  string
	}{
		{"on the hour", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), "10:00:00", "10:00:00"},
		{"first half", time.Date(2024, 1, 1, 10, 12, 0, 0, time.UTC), "10:00:00", "10:30:00"},
		{"second half", time.Date(2024, 1, 1, 10, 47, 0, 0, time.UTC), "10:30:00", "11:00:00"},
		{"seconds past boundary", time.Date(2024, 1, 1, 10, 30, 5, 0, time.UTC), "10:30:00", "11:00:00"},
		{"before midnight", time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), "23:30:00", "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.floor, FloorSlot(tt.in, time.UTC).Format("15:04:05"))
			assert.Equal(t, tt.ceil, CeilSlot(tt.in, time.UTC).Format("15:04:05"))
		})
	}
}

func TestGridBuilder_CoversRangeProperty(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	gb := NewGridBuilderIn(time.UTC)

	rapid.Check(t, func(t *rapid.T) {
		offsets := rapid.SliceOfN(rapid.Int64Range(0, int64(14*24*time.Hour/time.Second)), 1, 30).Draw(t, "offsets")
		sessions := make([]model.Session, len(offsets))
		minT, maxT := base.Add(time.Duration(offsets[0])*time.Second), base.Add(time.Duration(offsets[0])*time.Second)
		for i, off := range offsets {
			at := base.Add(time.Duration(off) * time.Second)
			sessions[i] = sessionAt("s", at)
			if at.Before(minT) {
				minT = at
			}
			if at.After(maxT) {
				maxT = at
			}
		}

		markers := gb.Build(sessions)
		if len(markers) == 0 {
			t.Fatalf("no markers for %d sessions", len(sessions))
		}

		first, last := markers[0].Time, markers[len(markers)-1].Time
		if first.After(minT) || !first.After(minT.Add(-constants.SlotDuration)) {
			t.Fatalf("first marker %v does not floor %v", first, minT)
		}
		if last.Before(maxT) || !last.Before(maxT.Add(constants.SlotDuration)) {
			t.Fatalf("last marker %v does not ceil %v", last, maxT)
		}
		for i := 1; i < len(markers); i++ {
			if markers[i].Time.Sub(markers[i-1].Time) != constants.SlotDuration {
				t.Fatalf("markers %d and %d are not one slot apart", i-1, i)
			}
			if markers[i].IsNewDay != (markers[i].Date != markers[i-1].Date) {
				t.Fatalf("marker %d new-day flag mismatch", i)
			}
		}
		for _, m := range markers {
			if m.IsHour != (m.Time.Minute() == 0) {
				t.Fatalf("marker %s hour flag mismatch", m.TimeDisplay)
			}
			if m.Time.Minute()%constants.SlotMinutes != 0 || m.Time.Second() != 0 {
				t.Fatalf("marker %v is not aligned", m.Time)
			}
		}
	})
}
