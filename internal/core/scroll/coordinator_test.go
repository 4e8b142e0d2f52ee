package scroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// echoPane re-emits every programmatic assignment as a scroll event, like a browser pane does
type echoPane struct {
	pane        Pane
	coordinator *Coordinator
	offset      int
	assigned    int
}

func (p *echoPane) SetOffset(offset int) {
	p.offset = offset
	p.assigned++
	if p.coordinator != nil {
		p.coordinator.OnScroll(p.pane, offset)
	}
}

func newEchoCoordinator(markers int) (*Coordinator, *echoPane, *echoPane) {
	axis := &echoPane{pane: AxisPane}
	content := &echoPane{pane: ContentPane}
	c := NewCoordinator(axis, content, markers, 2)
	axis.coordinator = c
	content.coordinator = c
	return c, axis, content
}

func TestCoordinator_ContentScrollMirrorsAxis(t *testing.T) {
	c, axis, content := newEchoCoordinator(10)

	assert.True(t, c.OnScroll(ContentPane, 7))

	assert.Equal(t, 7, axis.offset)
	assert.Equal(t, 1, axis.assigned)
	assert.Equal(t, 0, content.assigned)
	assert.Equal(t, 7, c.Offset())
}

func TestCoordinator_AxisScrollMirrorsContent(t *testing.T) {
	c, axis, content := newEchoCoordinator(10)

	assert.True(t, c.OnScroll(AxisPane, 4))

	assert.Equal(t, 4, content.offset)
	assert.Equal(t, 1, content.assigned)
	assert.Equal(t, 0, axis.assigned)
}

func TestCoordinator_NoFeedbackLoop(t *testing.T) {
	c, axis, content := newEchoCoordinator(10)

	for i, offset := range []int{3, 9, 9, 1} {
		pane := ContentPane
		if i%2 == 1 {
			pane = AxisPane
		}
		c.OnScroll(pane, offset)
	}

	assert.Equal(t, 2, axis.assigned)
	assert.Equal(t, 2, content.assigned)
	assert.Equal(t, 1, c.Offset())
	assert.Equal(t, 1, content.offset)
}

func TestCoordinator_UserScrollAfterUnmatchedEcho(t *testing.T) {
	axis := &Offset{}
	c := NewCoordinator(axis, &Offset{}, 5, 2)

	c.OnScroll(ContentPane, 6)
	assert.Equal(t, 6, axis.Value())

	// the axis never echoed; a different user offset on it still propagates
	assert.True(t, c.OnScroll(AxisPane, 2))
	assert.Equal(t, 2, c.Offset())
}

func TestCoordinator_MarkerVisibility(t *testing.T) {
	c := NewCoordinator(nil, nil, 10, 2)
	c.SetViewHeight(6)

	assert.Equal(t, []int{0, 1, 2, 3}, c.VisibleMarkers())

	c.OnScroll(ContentPane, 5)
	assert.Equal(t, []int{3, 4, 5}, c.VisibleMarkers())
	assert.True(t, c.MarkerVisible(4))
	assert.False(t, c.MarkerVisible(2))
	assert.False(t, c.MarkerVisible(42))
}

func TestCoordinator_NoMarkers(t *testing.T) {
	c := NewCoordinator(nil, nil, 0, 2)
	c.SetViewHeight(10)
	c.OnScroll(ContentPane, 3)

	assert.Empty(t, c.VisibleMarkers())
}
