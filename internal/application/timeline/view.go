package timeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-talkshow/internal/core/cache"
	"github.com/penwyp/go-talkshow/internal/core/loader"
	"github.com/penwyp/go-talkshow/internal/core/model"
	"github.com/penwyp/go-talkshow/internal/core/scroll"
	coretimeline "github.com/penwyp/go-talkshow/internal/core/timeline"
	"github.com/penwyp/go-talkshow/internal/presentation/render"
	"github.com/penwyp/go-talkshow/internal/presentation/viewport"
	"github.com/penwyp/go-talkshow/internal/util"
)

// ErrBulkLoad is returned when sessions, stats or timeline could not be loaded
var ErrBulkLoad = errors.New("failed to load timeline data")

// Request asks for the content of one column of one generation
type Request struct {
	Generation uint64
	ID         string
}

// Result is a fetched column tagged with the generation that requested it
type Result struct {
	Generation uint64
	loader.ColumnResult
}

// Generation is the derived state of one render cycle, replaced wholesale on every change
type Generation struct {
	ID       uint64
	Sessions []model.Session
	Markers  []coretimeline.TimeMarker
	Loader   *loader.Loader
	Observer *viewport.ColumnObserver
	Scroll   *scroll.Coordinator
}

// View is the timeline handle: loaded data, current criteria and the current generation
type View struct {
	mu     sync.RWMutex
	config *ViewConfig
	source DataSource
	cache  *cache.MemoryCache
	grid   *coretimeline.GridBuilder
	mapper coretimeline.PositionMapper
	now    func() time.Time

	sessions []model.Session
	stats    *model.Stats
	entries  []model.TimelineEntry
	err      error

	axisPane    scroll.Scroller
	contentPane scroll.Scroller

	filter   coretimeline.FilterOption
	criteria coretimeline.Criteria

	gen        *Generation
	nextGen    uint64
	pending    []Request
	bandLeft   int
	bandWidth  int
	viewHeight int
}

// NewView creates a view reading from source; no data is loaded until Refresh
func NewView(source DataSource, config *ViewConfig) (*View, error) {
	if config == nil {
		config = &ViewConfig{}
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	v := &View{
		config:   config,
		source:   source,
		cache:    cache.NewMemoryCache(),
		grid:     coretimeline.NewGridBuilder(config.Timezone),
		mapper:   coretimeline.NewPositionMapper(),
		now:      time.Now,
		sessions: []model.Session{},
		entries:  []model.TimelineEntry{},
	}
	if err := v.SetFilter(config.Since); err != nil {
		return nil, err
	}
	v.criteria.Search = config.Search
	v.rebuildLocked()
	return v, nil
}

// Refresh bulk-loads sessions, stats and timeline concurrently and rebuilds the generation.
// On failure the previously loaded data stays in place and the view reports ErrBulkLoad.
func (v *View) Refresh(ctx context.Context) error {
	ctx, _ = util.WithTrace(ctx)
	logger := util.LogCtx(ctx)
	logger.Info("refreshing timeline", util.F("api", v.config.APIURL))
	start := time.Now()

	v.cache.Clear()
	sessions, stats, entries, err := v.bulkLoad(ctx)
	if err != nil {
		v.cache.CancelClear()
		logger.Error("bulk load failed", util.F("error", err.Error()))

		v.mu.Lock()
		v.err = fmt.Errorf("%w: %w", ErrBulkLoad, err)
		v.mu.Unlock()
		return v.Err()
	}
	v.cache.CommitClear()

	v.mu.Lock()
	v.sessions = sessions
	v.stats = stats
	v.entries = entries
	v.err = nil
	v.rebuildLocked()
	genID := v.gen.ID
	v.mu.Unlock()

	logger.Info("timeline refreshed",
		util.F("sessions", len(sessions)),
		util.F("generation", genID),
		util.F("duration", time.Since(start).String()))
	return nil
}

func (v *View) bulkLoad(ctx context.Context) ([]model.Session, *model.Stats, []model.TimelineEntry, error) {
	var (
		wg       sync.WaitGroup
		sessions []model.Session
		stats    *model.Stats
		entries  []model.TimelineEntry
		errs     [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		sessions, errs[0] = v.source.ListSessions(ctx)
	}()
	go func() {
		defer wg.Done()
		stats, errs[1] = v.source.GetStats(ctx)
	}()
	go func() {
		defer wg.Done()
		entries, errs[2] = v.source.GetTimeline(ctx)
	}()
	wg.Wait()

	if err := errors.Join(errs[:]...); err != nil {
		return nil, nil, nil, err
	}
	return sessions, stats, entries, nil
}

// SetCriteria replaces the filter criteria and swaps in a new generation
func (v *View) SetCriteria(criteria coretimeline.Criteria) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria = criteria
	v.rebuildLocked()
}

// SetFilter selects a cutoff preset by key and rebuilds
func (v *View) SetFilter(key string) error {
	option, err := coretimeline.ResolveFilter(key, v.now())
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = option
	v.criteria.Since = option.Since
	if v.gen != nil {
		v.rebuildLocked()
	}
	return nil
}

// CycleFilter advances to the next cutoff preset and returns the active key
func (v *View) CycleFilter() (string, error) {
	options := coretimeline.FilterOptions(v.now())

	v.mu.RLock()
	current := v.filter.Key
	v.mu.RUnlock()

	next := options[0].Key
	for i, option := range options {
		if option.Key == current {
			next = options[(i+1)%len(options)].Key
			break
		}
	}
	if err := v.SetFilter(next); err != nil {
		return current, fmt.Errorf("failed to switch filter to %s: %w", next, err)
	}
	return next, nil
}

// SetSearch replaces the search query and rebuilds
func (v *View) SetSearch(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.criteria.Search == query {
		return
	}
	v.criteria.Search = query
	v.rebuildLocked()
}

// Criteria returns the active criteria
func (v *View) Criteria() coretimeline.Criteria {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.criteria
}

// FilterKey returns the active cutoff preset
func (v *View) FilterKey() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filter.Key
}

// rebuildLocked derives a fresh generation from the loaded data; v.mu must be held
func (v *View) rebuildLocked() {
	v.nextGen++
	filtered := coretimeline.FilterSessions(v.sessions, v.criteria)

	observer := viewport.NewColumnObserver(0)
	ids := make([]string, len(filtered))
	for i, s := range filtered {
		ids[i] = s.ID
		observer.Place(s.ID, viewport.Extent{Left: i * v.config.ColumnWidth, Width: v.config.ColumnWidth})
	}

	markers := v.grid.Build(filtered)
	gen := &Generation{
		ID:       v.nextGen,
		Sessions: filtered,
		Markers:  markers,
		Observer: observer,
		Loader:   loader.NewLoader(observer, v.config.Eager),
		Scroll:   scroll.NewCoordinator(v.axisPane, v.contentPane, len(markers), v.mapper.SlotHeight),
	}
	gen.Scroll.SetViewHeight(v.viewHeight)

	v.gen = gen
	v.pending = v.pending[:0]
	for _, id := range gen.Loader.Start(ids) {
		v.pending = append(v.pending, Request{Generation: gen.ID, ID: id})
	}
	if v.bandWidth > 0 {
		v.applyEventsLocked(observer.SetBand(v.bandLeft, v.bandWidth))
	}

	util.LogDebugf("Generation %d: %d of %d sessions, %d markers, %d eager requests",
		gen.ID, len(filtered), len(v.sessions), len(markers), len(v.pending))
}

func (v *View) applyEventsLocked(events []loader.VisibilityEvent) {
	for _, event := range events {
		if v.gen.Loader.HandleVisibility(event) {
			v.pending = append(v.pending, Request{Generation: v.gen.ID, ID: event.ID})
		}
	}
}

// SetBand moves the horizontal viewport, in cells from the first column
func (v *View) SetBand(left, width int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bandLeft, v.bandWidth = left, width
	v.applyEventsLocked(v.gen.Observer.SetBand(left, width))
}

// SetColumnWidth re-places the columns for a new width and re-evaluates their visibility
func (v *View) SetColumnWidth(width int) {
	if width <= 0 {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.config.ColumnWidth == width {
		return
	}
	v.config.ColumnWidth = width
	for i, s := range v.gen.Sessions {
		v.gen.Observer.Place(s.ID, viewport.Extent{Left: i * width, Width: width})
	}
	v.applyEventsLocked(v.gen.Observer.Evaluate())
}

// SetViewHeight sets the visible height of the panes in rows
func (v *View) SetViewHeight(height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewHeight = height
	v.gen.Scroll.SetViewHeight(height)
}

// AttachPanes lets the coordinators of this and every later generation move the given panes
func (v *View) AttachPanes(axis, content scroll.Scroller) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.axisPane, v.contentPane = axis, content

	coordinator := scroll.NewCoordinator(axis, content, len(v.gen.Markers), v.mapper.SlotHeight)
	coordinator.SetViewHeight(v.viewHeight)
	v.gen.Scroll = coordinator
}

// Scroll applies a user scroll of pane and returns the shared offset of both panes
func (v *View) Scroll(pane scroll.Pane, offset int) int {
	v.mu.RLock()
	coordinator := v.gen.Scroll
	v.mu.RUnlock()

	coordinator.OnScroll(pane, offset)
	return coordinator.Offset()
}

// TakeRequests drains the fetches the current generation is waiting for
func (v *View) TakeRequests() []Request {
	v.mu.Lock()
	defer v.mu.Unlock()

	requests := make([]Request, len(v.pending))
	copy(requests, v.pending)
	v.pending = v.pending[:0]
	return requests
}

// cachedSource serves repeated session fetches from memory
type cachedSource struct {
	cache  *cache.MemoryCache
	source DataSource
}

func (c cachedSource) GetSession(ctx context.Context, id string) (*model.SessionContent, error) {
	if content, ok := c.cache.Get(id); ok {
		return content, nil
	}
	return c.source.GetSession(ctx, id)
}

func (v *View) fetcher() loader.Fetcher {
	return cachedSource{cache: v.cache, source: v.source}
}

// Fetch retrieves one requested column, serving repeated requests from memory
func (v *View) Fetch(ctx context.Context, req Request) Result {
	return Result{Generation: req.Generation, ColumnResult: loader.Fetch(ctx, v.fetcher(), req.ID)}
}

// Deliver records a fetch result; results of a discarded generation are dropped
func (v *View) Deliver(res Result) bool {
	v.mu.RLock()
	gen := v.gen
	v.mu.RUnlock()

	if res.Generation != gen.ID {
		util.LogDebugf("Dropping result for %s from discarded generation %d", res.ID, res.Generation)
		return false
	}
	gen.Loader.Deliver(res.ColumnResult)
	if res.Err == nil && res.Content != nil {
		v.cache.Set(res.ID, res.Content)
	}
	return true
}

// LoadPending fetches every pending request concurrently and delivers the results
func (v *View) LoadPending(ctx context.Context) int {
	requests := v.TakeRequests()
	if len(requests) == 0 {
		return 0
	}

	// requests drained together belong to one generation
	ids := make([]string, len(requests))
	for i, req := range requests {
		ids[i] = req.ID
	}

	delivered := 0
	for _, res := range loader.FetchAll(ctx, v.fetcher(), ids) {
		if v.Deliver(Result{Generation: requests[0].Generation, ColumnResult: res}) {
			delivered++
		}
	}
	return delivered
}

// Current returns the current generation
func (v *View) Current() *Generation {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.gen
}

// Err returns the bulk load failure, if the last refresh failed
func (v *View) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}

// Frame describes the current generation for rendering
func (v *View) Frame() render.Frame {
	v.mu.RLock()
	defer v.mu.RUnlock()

	gen := v.gen
	return render.Build(render.Input{
		Generation: gen.ID,
		Total:      len(v.sessions),
		Sessions:   gen.Sessions,
		Markers:    gen.Markers,
		Columns:    gen.Loader,
		Highlight:  gen.Scroll.MarkerVisible,
		Mapper:     v.mapper,
		Location:   v.grid.Location(),
		Stats:      v.stats,
		Filter:     v.filter.Label,
		Search:     v.criteria.Search,
		Err:        v.err,
	})
}
