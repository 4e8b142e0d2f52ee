package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/penwyp/go-talkshow/internal/application/timeline"
	"github.com/penwyp/go-talkshow/internal/core/scroll"
	"github.com/penwyp/go-talkshow/internal/presentation/layout"
	"github.com/penwyp/go-talkshow/internal/presentation/render"
	"github.com/penwyp/go-talkshow/internal/util"
)

const wheelStep = 3

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
)

type mode int

const (
	modeTimeline mode = iota
	modeSearch
)

// Options configures the interactive viewer
type Options struct {
	ExportDir    string
	ExportFormat string
	Now          func() time.Time
}

// Model is the Bubble Tea model of the timeline viewer
type Model struct {
	ctx     context.Context
	view    *timeline.View
	options Options

	axis    *pane
	content *pane
	search  textinput.Model
	spinner spinner.Model

	sizer      *layout.Sizer
	frame      render.Frame
	mode       mode
	focus      scroll.Pane
	colOffset  int
	ready      bool
	refreshing bool
	status     string
}

// New creates a viewer for view; the first refresh runs from Init
func New(ctx context.Context, view *timeline.View, options Options) Model {
	if options.ExportDir == "" {
		options.ExportDir = "."
	}
	if options.ExportFormat == "" {
		options.ExportFormat = timeline.FormatJSON
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	si := textinput.New()
	si.Placeholder = "theme or first question..."
	si.Prompt = ""
	si.CharLimit = 100
	si.SetValue(view.Criteria().Search)

	axis := newPane(scroll.AxisPane, view.Scroll)
	content := newPane(scroll.ContentPane, view.Scroll)
	view.AttachPanes(axis, content)

	return Model{
		ctx:     ctx,
		view:    view,
		options: options,
		axis:    axis,
		content: content,
		search:  si,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
		sizer:      layout.NewSizer(layout.DefaultWidth, layout.DefaultHeight),
		focus:      scroll.ContentPane,
		refreshing: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, refreshCmd(m.ctx, m.view))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, fetchCmds(m.ctx, m.view)

	case refreshedMsg:
		m.refreshing = false
		if msg.err != nil {
			m.status = ""
		} else {
			m.colOffset = 0
			m.status = fmt.Sprintf("Loaded %d sessions", m.view.Frame().Total)
		}
		m.syncBand()
		m.refresh()
		return m, fetchCmds(m.ctx, m.view)

	case columnMsg:
		if m.view.Deliver(msg.result) {
			m.refresh()
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.status = "Export failed: " + msg.err.Error()
		} else {
			m.status = "Exported to " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		if !m.refreshing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		if m.mode == modeSearch {
			return m.updateSearch(msg)
		}
		return m.updateTimeline(msg)
	}
	return m, nil
}

func (m Model) updateTimeline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		if m.focus == scroll.ContentPane {
			m.focus = scroll.AxisPane
		} else {
			m.focus = scroll.ContentPane
		}

	case "up", "k":
		m.scrollTo(m.offset() - 1)
	case "down", "j":
		m.scrollTo(m.offset() + 1)
	case "pgup":
		m.scrollTo(m.offset() - m.paneHeight())
	case "pgdown", " ":
		m.scrollTo(m.offset() + m.paneHeight())
	case "home", "g":
		m.scrollTo(0)
	case "end", "G":
		m.scrollTo(m.frame.Height)

	case "left", "h":
		return m, m.shiftColumns(-1)
	case "right", "l":
		return m, m.shiftColumns(1)

	case "/":
		m.search.Focus()
		m.mode = modeSearch

	case "f":
		key, err := m.view.CycleFilter()
		if err != nil {
			util.LogWarnf("Filter not switched: %v", err)
			m.status = err.Error()
			return m, nil
		}
		util.LogDebugf("Filter switched to %s", key)
		return m, m.criteriaChanged()

	case "r":
		if m.refreshing {
			return m, nil
		}
		m.refreshing = true
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, refreshCmd(m.ctx, m.view))

	case "e":
		m.status = "Exporting..."
		return m, exportCmd(m.view, m.options.ExportDir, m.options.ExportFormat, m.options.Now())
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		m.mode = modeTimeline
		return m, nil
	case "esc":
		m.search.Blur()
		m.search.SetValue("")
		m.mode = modeTimeline
		m.view.SetSearch("")
		return m, m.criteriaChanged()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.view.SetSearch(m.search.Value())
	return m, tea.Batch(cmd, m.criteriaChanged())
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	pane := scroll.ContentPane
	if msg.X < layout.AxisWidth {
		pane = scroll.AxisPane
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.focus = pane
		m.scrollTo(m.offset() - wheelStep)
	case tea.MouseButtonWheelDown:
		m.focus = pane
		m.scrollTo(m.offset() + wheelStep)
	case tea.MouseButtonWheelLeft:
		return m, m.shiftColumns(-1)
	case tea.MouseButtonWheelRight:
		return m, m.shiftColumns(1)
	}
	return m, nil
}

// resize lays out both panes for a new terminal size
func (m *Model) resize(width, height int) {
	m.sizer = layout.NewSizer(width, height)
	paneHeight := m.paneHeight()

	m.axis.resize(layout.AxisWidth, paneHeight)
	m.content.resize(m.sizer.ContentWidth(), paneHeight)
	m.search.Width = max(10, width-12)

	m.view.SetColumnWidth(m.sizer.ColumnWidth())
	m.view.SetViewHeight(paneHeight)
	m.colOffset = min(m.colOffset, m.maxColOffset())
	m.syncBand()
	m.ready = true
	m.refresh()
}

// criteriaChanged resets the horizontal position after a new generation and requests its columns
func (m *Model) criteriaChanged() tea.Cmd {
	m.colOffset = 0
	m.syncBand()
	m.refresh()
	return fetchCmds(m.ctx, m.view)
}

func (m *Model) shiftColumns(delta int) tea.Cmd {
	next := max(0, min(m.colOffset+delta, m.maxColOffset()))
	if next == m.colOffset {
		return nil
	}
	m.colOffset = next
	m.syncBand()
	m.refresh()
	return fetchCmds(m.ctx, m.view)
}

func (m *Model) syncBand() {
	m.view.SetBand(m.colOffset*m.sizer.ColumnWidth(), m.sizer.ContentWidth())
}

// scrollTo moves the focused pane; the coordinator mirrors the offset to the other one
func (m *Model) scrollTo(target int) {
	limit := max(0, m.frame.Height-m.paneHeight())
	target = max(0, min(target, limit))
	if m.focus == scroll.AxisPane {
		m.axis.SetOffset(target)
	} else {
		m.content.SetOffset(target)
	}
	m.highlight()
}

// highlight redraws the axis with the markers now in view; the content lines are kept
func (m *Model) highlight() {
	if !m.ready {
		return
	}
	gen := m.view.Current()
	if gen.ID != m.frame.Generation {
		m.refresh()
		return
	}

	markers := make([]render.MarkerRow, len(m.frame.Markers))
	copy(markers, m.frame.Markers)
	for i := range markers {
		markers[i].Highlighted = false
	}
	for _, i := range gen.Scroll.VisibleMarkers() {
		if i < len(markers) {
			markers[i].Highlighted = true
		}
	}
	m.frame.Markers = markers
	m.axis.setLines(strings.Join(render.AxisLines(m.frame), "\n"))
}

// refresh rebuilds the frame and both panes, then realigns them through the coordinator
func (m *Model) refresh() {
	m.frame = m.view.Frame()
	if !m.ready {
		return
	}

	m.axis.setLines(strings.Join(render.AxisLines(m.frame), "\n"))
	lines := render.ContentLines(m.frame, m.sizer.ColumnWidth(), m.colOffset, m.sizer.VisibleColumns())
	m.content.setLines(strings.Join(lines, "\n"))

	offset := m.offset()
	m.content.SetOffset(offset)
	if m.offset() != offset {
		m.highlight()
	}
}

func (m Model) offset() int {
	return m.view.Current().Scroll.Offset()
}

func (m Model) paneHeight() int {
	return max(1, m.sizer.GetAvailableLines(layout.HeaderLines, layout.FooterLines))
}

func (m Model) maxColOffset() int {
	return max(0, len(m.frame.Columns)-m.sizer.VisibleColumns())
}

func (m Model) View() string {
	if !m.ready {
		return m.spinner.View() + " Loading timeline..."
	}

	width := m.sizer.Width
	lines := render.Header(m.frame, width)

	if m.frame.Error != "" {
		lines = append(lines, render.ErrorLines(m.frame.Error, width)...)
		lines = append(lines, m.footer(width))
		return strings.Join(lines, "\n")
	}

	lines = append(lines,
		render.ColumnHeaders(m.frame, m.sizer.ColumnWidth(), m.colOffset, m.sizer.VisibleColumns()),
		lipgloss.JoinHorizontal(lipgloss.Top, m.axis.View(), m.content.View()),
		m.footer(width),
	)
	return strings.Join(lines, "\n")
}

func (m Model) footer(width int) string {
	switch {
	case m.mode == modeSearch:
		return promptStyle.Render("Search: ") + m.search.View()
	case m.refreshing:
		return m.spinner.View() + " Refreshing..."
	case m.status != "":
		return statusStyle.Render(util.FitWidth(m.status, width))
	default:
		return render.Help(width)
	}
}
