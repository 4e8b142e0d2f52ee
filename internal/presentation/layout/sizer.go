package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/penwyp/go-talkshow/internal/util"
)

const (
	DefaultWidth  = 120
	DefaultHeight = 40

	AxisWidth      = 14 // "▸ 2024-01-02 " plus separator
	MinColumnWidth = 24
	MaxColumnWidth = 48
	HeaderLines    = 4
	FooterLines    = 1
)

// Sizer derives pane and column dimensions from the terminal size
type Sizer struct {
	Width  int
	Height int
}

// NewSizer creates a sizer for the given terminal dimensions
func NewSizer(width, height int) *Sizer {
	return &Sizer{Width: width, Height: height}
}

// TerminalSizer reads the size of stdout, falling back to defaults when it is not a terminal
func TerminalSizer() *Sizer {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		util.LogDebugf("Terminal size unavailable, using %dx%d: %v", DefaultWidth, DefaultHeight, err)
		return NewSizer(DefaultWidth, DefaultHeight)
	}
	return NewSizer(width, height)
}

// GetAvailableLines returns the rows left for the panes; never negative
func (s *Sizer) GetAvailableLines(headerLines, footerLines int) int {
	return max(0, s.Height-headerLines-footerLines)
}

// ContentWidth returns the cells to the right of the axis pane
func (s *Sizer) ContentWidth() int {
	return max(0, s.Width-AxisWidth)
}

// ColumnWidth picks a column width that fits at least one column on screen
func (s *Sizer) ColumnWidth() int {
	content := s.ContentWidth()
	switch {
	case content >= 3*MaxColumnWidth:
		return MaxColumnWidth
	case content >= 3*MinColumnWidth:
		return content / 3
	case content >= MinColumnWidth:
		return MinColumnWidth
	default:
		return max(1, content)
	}
}

// VisibleColumns returns how many columns fit in the content pane, at least one
func (s *Sizer) VisibleColumns() int {
	return max(1, s.ContentWidth()/s.ColumnWidth())
}

// PadString pads s to a display width, handling wide characters
func (s *Sizer) PadString(text string, width int, leftAlign bool) string {
	actual := runewidth.StringWidth(text)
	if actual >= width {
		return text
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return text + padding
	}
	return padding + text
}
