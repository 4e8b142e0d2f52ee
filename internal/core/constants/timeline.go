package constants

import "time"

const (
	// Axis granularity
	SlotDuration = 30 * time.Minute
	SlotMinutes  = 30

	// Rows occupied by one 30-minute marker on the axis; shared by the grid and the position mapper
	SlotHeight = 2

	// Rows per turn when a column falls back to index-based stacking
	FallbackRowHeight = 3

	// Upper bound on generated markers (~416 days at 30-minute spacing)
	MaxMarkers = 20000

	// Slots a turn may be placed past the last marker before it is clamped
	SpillSlots = 48

	// Columns fetched without waiting for visibility
	DefaultEagerThreshold = 8

	// Fraction of a column that must be inside the viewport to count as visible
	VisibilityThreshold = 0.1

	// Display truncation when a turn has no precomputed summary
	QuestionPreviewRunes = 100
	AnswerPreviewRunes   = 150
)
