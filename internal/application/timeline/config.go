package timeline

import (
	"fmt"
	"time"

	"github.com/penwyp/go-talkshow/internal/core/constants"
	coretimeline "github.com/penwyp/go-talkshow/internal/core/timeline"
	"github.com/penwyp/go-talkshow/internal/data/source"
	"github.com/penwyp/go-talkshow/internal/util"
)

// ViewConfig contains configuration for the timeline view
type ViewConfig struct {
	// Data source
	APIURL string

	// Display settings
	Timezone    string
	ColumnWidth int

	// Loading
	Eager int

	// Initial criteria
	Since  string
	Search string
}

// Validate fills defaults and rejects values the view cannot use
func (c *ViewConfig) Validate() error {
	if c.APIURL == "" {
		c.APIURL = source.DefaultBaseURL
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.Eager <= 0 {
		c.Eager = constants.DefaultEagerThreshold
	}
	if c.ColumnWidth <= 0 {
		c.ColumnWidth = 32
	}
	if c.Since == "" {
		c.Since = "all"
	}
	if _, err := util.LoadLocation(c.Timezone); err != nil {
		return err
	}
	if _, err := coretimeline.ResolveFilter(c.Since, time.Now()); err != nil {
		return err
	}
	return nil
}

// String renders the configuration for debug logs
func (c *ViewConfig) String() string {
	return fmt.Sprintf("api=%s timezone=%s eager=%d since=%s search=%q",
		c.APIURL, c.Timezone, c.Eager, c.Since, c.Search)
}
