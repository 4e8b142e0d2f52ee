package loader

// VisibilityObserver watches registered columns and reports when they come into view.
// Events are fed back through Loader.HandleVisibility.
type VisibilityObserver interface {
	Observe(id string)
	Unobserve(id string)
}

// NopObserver ignores registrations; columns beyond the eager threshold stay pending
type NopObserver struct{}

func (NopObserver) Observe(string)   {}
func (NopObserver) Unobserve(string) {}
