package util

import (
	"fmt"
	"sync"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// TimeProvider handles timezone-aware time operations for display
type TimeProvider struct {
	location *time.Location
	mu       sync.RWMutex
}

var (
	globalTimeProvider *TimeProvider
	providerMu         sync.Mutex
)

// LoadLocation resolves a timezone name; "" and "Local" map to time.Local
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, America/New_York, Asia/Shanghai, Europe/London", timezone, err)
	}
	return loc, nil
}

// NewTimeProvider creates a provider for the given timezone
func NewTimeProvider(timezone string) (*TimeProvider, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &TimeProvider{location: loc}, nil
}

// InitializeTimeProvider initializes the global time provider with the specified timezone.
// The previous provider is kept when the timezone is invalid.
func InitializeTimeProvider(timezone string) error {
	provider, err := NewTimeProvider(timezone)
	if err != nil {
		return err
	}

	providerMu.Lock()
	defer providerMu.Unlock()
	globalTimeProvider = provider
	return nil
}

// GetTimeProvider returns the global time provider, defaulting to Local
func GetTimeProvider() *TimeProvider {
	providerMu.Lock()
	defer providerMu.Unlock()
	if globalTimeProvider == nil {
		globalTimeProvider = &TimeProvider{location: time.Local}
	}
	return globalTimeProvider
}

// Location returns the configured location
func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.location
}

// Now returns the current time in the configured timezone
func (tp *TimeProvider) Now() time.Time {
	return time.Now().In(tp.Location())
}

// Format formats t with layout in the configured timezone
func (tp *TimeProvider) Format(t time.Time, layout string) string {
	return t.In(tp.Location()).Format(layout)
}

// FormatDate formats an optional instant as a calendar date, "N/A" when absent
func (tp *TimeProvider) FormatDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return tp.Format(*t, DateLayout)
}

// FormatDateTime formats an optional instant with date and clock, "N/A" when absent
func (tp *TimeProvider) FormatDateTime(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return tp.Format(*t, DateTimeLayout)
}
