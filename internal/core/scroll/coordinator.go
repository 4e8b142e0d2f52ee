package scroll

import (
	"sync"

	"github.com/penwyp/go-talkshow/internal/core/constants"
)

// Pane identifies one of the two synchronized scroll panes
type Pane int

const (
	AxisPane Pane = iota
	ContentPane
)

func (p Pane) other() Pane {
	if p == AxisPane {
		return ContentPane
	}
	return AxisPane
}

func (p Pane) String() string {
	if p == AxisPane {
		return "axis"
	}
	return "content"
}

// Scroller is a pane whose vertical offset can be set programmatically.
// A pane may report the change back through OnScroll, synchronously or later.
type Scroller interface {
	SetOffset(offset int)
}

// Offset is a Scroller that only records the last assigned offset
type Offset struct {
	mu    sync.Mutex
	value int
}

func (o *Offset) SetOffset(offset int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.value = offset
}

// Value returns the last assigned offset
func (o *Offset) Value() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Coordinator keeps the axis and content panes at the same offset and tracks which markers are in view
type Coordinator struct {
	mu         sync.Mutex
	panes      [2]Scroller
	expecting  [2]*int // echo expected from each pane after a programmatic assignment
	offset     int
	viewHeight int
	slotHeight int
	markers    int
	visible    []bool
}

// NewCoordinator creates a coordinator for markerCount markers drawn slotHeight rows apart
func NewCoordinator(axis, content Scroller, markerCount, slotHeight int) *Coordinator {
	if axis == nil {
		axis = &Offset{}
	}
	if content == nil {
		content = &Offset{}
	}
	if slotHeight <= 0 {
		slotHeight = constants.SlotHeight
	}
	c := &Coordinator{
		panes:      [2]Scroller{axis, content},
		slotHeight: slotHeight,
		markers:    markerCount,
		visible:    make([]bool, markerCount),
	}
	c.recompute()
	return c
}

// SetViewHeight updates the visible band height and recomputes marker visibility
func (c *Coordinator) SetViewHeight(height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if height < 0 {
		height = 0
	}
	c.viewHeight = height
	c.recompute()
}

// OnScroll handles a scroll event from pane, mirroring the offset to the other pane.
// It returns false when the event is the echo of the coordinator's own assignment.
func (c *Coordinator) OnScroll(pane Pane, offset int) bool {
	c.mu.Lock()
	if expected := c.expecting[pane]; expected != nil {
		c.expecting[pane] = nil
		if *expected == offset {
			c.mu.Unlock()
			return false
		}
	}

	c.offset = offset
	c.recompute()

	target := pane.other()
	mirrored := offset
	c.expecting[target] = &mirrored
	scroller := c.panes[target]
	c.mu.Unlock()

	// outside the lock: the target may re-enter OnScroll synchronously
	scroller.SetOffset(offset)
	return true
}

// Offset returns the shared offset of both panes
func (c *Coordinator) Offset() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// MarkerVisible reports whether marker i is inside the visible band
func (c *Coordinator) MarkerVisible(i int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return i >= 0 && i < len(c.visible) && c.visible[i]
}

// VisibleMarkers returns the indexes of the markers inside the visible band
func (c *Coordinator) VisibleMarkers() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	indexes := make([]int, 0)
	for i, v := range c.visible {
		if v {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

func (c *Coordinator) recompute() {
	top, bottom := c.offset, c.offset+c.viewHeight
	for i := range c.visible {
		row := i * c.slotHeight
		c.visible[i] = row >= top && row <= bottom
	}
}
