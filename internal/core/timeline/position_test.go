package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/penwyp/go-talkshow/internal/core/constants"
	"github.com/penwyp/go-talkshow/internal/core/model"
)

func TestPositionMapper_Position(t *testing.T) {
	pm := NewPositionMapper()
	origin := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := origin.Add(d)
		return &v
	}
	years := func(year int) *time.Time {
		v := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		return &v
	}

	tests := []struct {
		name   string
		turn   *time.Time
		origin *time.Time
		index  int
		want   int
	}{
		{"at origin", at(0), &origin, 0, 0},
		{"one slot later", at(30 * time.Minute), &origin, 0, 2},
		{"partial slot floors", at(44 * time.Minute), &origin, 0, 2},
		{"three hours later", at(3 * time.Hour), &origin, 5, 12},
		{"before origin clamps", at(-time.Hour), &origin, 0, 0},
		{"missing turn time stacks by index", nil, &origin, 4, 12},
		{"missing origin stacks by index", at(time.Hour), nil, 2, 6},
		{"first turn without time", nil, nil, 0, 0},
		{"year 2100 clamps", years(2100), &origin, 0, constants.MaxMarkers * constants.SlotHeight},
		{"year 2200 clamps", years(2200), &origin, 0, constants.MaxMarkers * constants.SlotHeight},
		{"year 2300 clamps", years(2300), &origin, 0, constants.MaxMarkers * constants.SlotHeight},
		{"huge index clamps", nil, &origin, 1 << 40, constants.MaxMarkers * constants.SlotHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pm.Position(tt.turn, tt.origin, tt.index))
		})
	}
}

func TestPositionMapper_PlaceTurns(t *testing.T) {
	pm := NewPositionMapper()
	origin := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	turns := []model.ConversationTurn{
		{Question: "q1", Timestamp: model.NewTimestamp(origin.Add(10 * time.Minute))},
		{Question: "q2"},
		{Question: "q3", Timestamp: model.NewTimestamp(origin.Add(90 * time.Minute))},
	}

	assert.Equal(t, []int{0, 3, 6}, pm.PlaceTurns(turns, &origin))
	assert.Equal(t, []int{0, 3, 6}, pm.PlaceTurns(turns, nil))
}

func TestPositionMapper_Bounded(t *testing.T) {
	origin := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	pm := NewPositionMapper().Bounded(1)
	limit := (1 + constants.SpillSlots) * constants.SlotHeight

	assert.Equal(t, limit, pm.MaxOffset)
	inside := origin.Add(2 * time.Hour)
	assert.Equal(t, 8, pm.Position(&inside, &origin, 0))
	far := time.Date(2100, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, limit, pm.Position(&far, &origin, 0))
	assert.Equal(t, []int{limit}, pm.PlaceTurns([]model.ConversationTurn{{Timestamp: model.NewTimestamp(far)}}, &origin))
}

func TestPositionMapper_MonotonicProperty(t *testing.T) {
	pm := NewPositionMapper()
	origin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limit := constants.MaxMarkers * constants.SlotHeight

	// days span several centuries so the clamp and the int64 nanosecond range are both exercised
	draw := func(t *rapid.T, label string, minDays, maxDays int) (time.Time, int) {
		days := rapid.IntRange(minDays, maxDays).Draw(t, label+"_days")
		secs := rapid.IntRange(0, 24*3600-1).Draw(t, label+"_secs")
		return origin.AddDate(0, 0, days).Add(time.Duration(secs) * time.Second), days
	}

	rapid.Check(t, func(t *rapid.T) {
		ta, days := draw(t, "a", -1, 300*366-1)
		tb, _ := draw(t, "b", days+1, 300*366)

		pa := pm.Position(&ta, &origin, 0)
		pb := pm.Position(&tb, &origin, 0)
		if pa < 0 || pb < 0 {
			t.Fatalf("negative offset %d/%d", pa, pb)
		}
		if pa > limit || pb > limit {
			t.Fatalf("offset %d/%d exceeds %d", pa, pb, limit)
		}
		if pa > pb {
			t.Fatalf("offset of %v (%d) exceeds offset of %v (%d)", ta, pa, tb, pb)
		}
	})
}
