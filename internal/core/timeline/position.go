package timeline

import (
	"time"

	"github.com/penwyp/go-talkshow/internal/core/constants"
	"github.com/penwyp/go-talkshow/internal/core/model"
)

// PositionMapper converts turn timestamps into row offsets on the axis
type PositionMapper struct {
	SlotHeight int // rows per 30-minute marker
	RowHeight  int // rows per turn in index-based stacking
	MaxOffset  int // largest offset returned; 0 means MaxMarkers slots
}

// NewPositionMapper returns a mapper using the axis slot height
func NewPositionMapper() PositionMapper {
	return PositionMapper{
		SlotHeight: constants.SlotHeight,
		RowHeight:  constants.FallbackRowHeight,
	}
}

// Bounded limits offsets to a grid of the given marker count plus SpillSlots
func (pm PositionMapper) Bounded(markers int) PositionMapper {
	pm.MaxOffset = (markers + constants.SpillSlots) * pm.SlotHeight
	return pm
}

func (pm PositionMapper) limit() int {
	if pm.MaxOffset > 0 {
		return pm.MaxOffset
	}
	return constants.MaxMarkers * pm.SlotHeight
}

// Position returns the row offset of a turn relative to origin.
// Without both instants it stacks by index instead. Offsets are in [0, MaxOffset].
func (pm PositionMapper) Position(turn, origin *time.Time, index int) int {
	limit := pm.limit()
	if turn == nil || origin == nil {
		if index <= 0 || pm.RowHeight <= 0 {
			return 0
		}
		if index > limit/pm.RowHeight {
			return limit
		}
		return index * pm.RowHeight
	}

	elapsed := turn.Sub(*origin)
	if elapsed <= 0 || pm.SlotHeight <= 0 {
		return 0
	}
	rows := elapsed / (constants.SlotDuration / time.Duration(pm.SlotHeight))
	if rows >= time.Duration(limit) {
		return limit
	}
	return int(rows)
}

// PlaceTurns returns the offset of every turn of a session, in source order
func (pm PositionMapper) PlaceTurns(turns []model.ConversationTurn, origin *time.Time) []int {
	offsets := make([]int, len(turns))
	for i, turn := range turns {
		var at *time.Time
		if t, ok := turn.Time(); ok {
			at = &t
		}
		offsets[i] = pm.Position(at, origin, i)
	}
	return offsets
}
