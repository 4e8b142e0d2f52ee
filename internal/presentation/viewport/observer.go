package viewport

import (
	"sort"
	"sync"

	"github.com/penwyp/go-talkshow/internal/core/constants"
	"github.com/penwyp/go-talkshow/internal/core/loader"
)

// Extent is the horizontal placement of a column, in terminal cells
type Extent struct {
	Left  int
	Width int
}

// Ratio returns the fraction of the extent inside [left, left+width)
func (e Extent) Ratio(left, width int) float64 {
	if e.Width <= 0 || width <= 0 {
		return 0
	}
	start := max(e.Left, left)
	end := min(e.Left+e.Width, left+width)
	if end <= start {
		return 0
	}
	return float64(end-start) / float64(e.Width)
}

// ColumnObserver reports observed columns whose intersection with the horizontal band
// crosses the threshold. Each transition produces exactly one event.
type ColumnObserver struct {
	mu        sync.Mutex
	threshold float64
	extents   map[string]Extent
	observed  map[string]bool
	visible   map[string]bool
	left      int
	width     int
}

// NewColumnObserver creates an observer; a non-positive threshold uses the default
func NewColumnObserver(threshold float64) *ColumnObserver {
	if threshold <= 0 {
		threshold = constants.VisibilityThreshold
	}
	return &ColumnObserver{
		threshold: threshold,
		extents:   make(map[string]Extent),
		observed:  make(map[string]bool),
		visible:   make(map[string]bool),
	}
}

// Place sets the extent of a column; it is used once the column is observed
func (o *ColumnObserver) Place(id string, extent Extent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.extents[id] = extent
}

func (o *ColumnObserver) Observe(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observed[id] = true
}

func (o *ColumnObserver) Unobserve(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.observed, id)
	delete(o.visible, id)
}

// Observed returns the number of columns currently observed
func (o *ColumnObserver) Observed() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.observed)
}

// SetBand moves the horizontal band and returns the resulting transitions
func (o *ColumnObserver) SetBand(left, width int) []loader.VisibilityEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.left, o.width = left, width
	return o.evaluate()
}

// Evaluate returns transitions against the current band, e.g. after new observations
func (o *ColumnObserver) Evaluate() []loader.VisibilityEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.evaluate()
}

func (o *ColumnObserver) evaluate() []loader.VisibilityEvent {
	ids := make([]string, 0, len(o.observed))
	for id := range o.observed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return o.extents[ids[i]].Left < o.extents[ids[j]].Left
	})

	var events []loader.VisibilityEvent
	for _, id := range ids {
		extent, placed := o.extents[id]
		now := placed && extent.Ratio(o.left, o.width) >= o.threshold
		if now == o.visible[id] {
			continue
		}
		if now {
			o.visible[id] = true
		} else {
			delete(o.visible, id)
		}
		events = append(events, loader.VisibilityEvent{ID: id, Visible: now})
	}
	return events
}
