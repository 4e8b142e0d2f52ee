package loader

import (
	"sync"

	"github.com/penwyp/go-talkshow/internal/core/constants"
	"github.com/penwyp/go-talkshow/internal/core/model"
	"github.com/penwyp/go-talkshow/internal/util"
)

// Loader decides which columns to fetch: the first columns eagerly, the rest on first visibility.
// It never performs a fetch itself; callers execute the returned requests and Deliver the results.
type Loader struct {
	mu       sync.Mutex
	observer VisibilityObserver
	eager    int

	order    []string
	states   map[string]LoadState
	statuses map[string]ColumnStatus
	contents map[string]*model.SessionContent
	errs     map[string]error
}

// NewLoader creates a loader; a non-positive eager count uses the default
func NewLoader(observer VisibilityObserver, eager int) *Loader {
	if observer == nil {
		observer = NopObserver{}
	}
	if eager <= 0 {
		eager = constants.DefaultEagerThreshold
	}
	return &Loader{
		observer: observer,
		eager:    eager,
		states:   make(map[string]LoadState),
		statuses: make(map[string]ColumnStatus),
		contents: make(map[string]*model.SessionContent),
		errs:     make(map[string]error),
	}
}

// Start registers the columns in display order and returns the IDs to fetch immediately.
// Columns beyond the eager threshold are handed to the observer.
func (l *Loader) Start(ids []string) []string {
	l.mu.Lock()
	requests := make([]string, 0, min(len(ids), l.eager))
	var deferred []string
	for i, id := range ids {
		if _, seen := l.states[id]; seen {
			continue
		}
		l.order = append(l.order, id)
		l.statuses[id] = StatusPending
		if i < l.eager {
			l.states[id] = Requested
			requests = append(requests, id)
			continue
		}
		l.states[id] = NotRequested
		deferred = append(deferred, id)
	}
	l.mu.Unlock()

	for _, id := range deferred {
		l.observer.Observe(id)
	}

	util.LogDebugf("Loader started: %d eager, %d deferred", len(requests), len(deferred))
	return requests
}

// HandleVisibility applies a visibility event, returning true when the column must be fetched now
func (l *Loader) HandleVisibility(event VisibilityEvent) bool {
	l.mu.Lock()
	state, known := l.states[event.ID]
	if !known || !ShouldFetch(state, event) {
		l.mu.Unlock()
		return false
	}
	l.states[event.ID] = Requested
	l.mu.Unlock()

	l.observer.Unobserve(event.ID)
	util.LogDebugf("Column %s became visible, requesting content", event.ID)
	return true
}

// Deliver records a fetch result. Results for unknown or unrequested columns are ignored.
func (l *Loader) Deliver(result ColumnResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.states[result.ID] != Requested {
		util.LogDebugf("Ignoring result for unrequested column %s", result.ID)
		return
	}

	if result.Err != nil || result.Content == nil {
		l.statuses[result.ID] = StatusFailed
		l.errs[result.ID] = result.Err
		util.LogWarnf("Failed to load column %s: %v", result.ID, result.Err)
		return
	}

	l.statuses[result.ID] = StatusLoaded
	l.contents[result.ID] = result.Content
	delete(l.errs, result.ID)
}

// State returns the request state of a column
func (l *Loader) State(id string) LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.states[id]
}

// Status returns the display status of a column
func (l *Loader) Status(id string) ColumnStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.statuses[id]
}

// Content returns the loaded content of a column, or nil
func (l *Loader) Content(id string) *model.SessionContent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.contents[id]
}

// Err returns the failure recorded for a column
func (l *Loader) Err(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errs[id]
}

// Requested returns the requested column IDs in display order
func (l *Loader) Requested() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]string, 0, len(l.order))
	for _, id := range l.order {
		if l.states[id] == Requested {
			ids = append(ids, id)
		}
	}
	return ids
}

// Counts returns the number of columns per status
func (l *Loader) Counts() map[ColumnStatus]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := make(map[ColumnStatus]int, 3)
	for _, id := range l.order {
		counts[l.statuses[id]]++
	}
	return counts
}
