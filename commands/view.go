package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-talkshow/internal/application/timeline"
	"github.com/penwyp/go-talkshow/internal/core/constants"
	"github.com/penwyp/go-talkshow/internal/data/source"
	"github.com/penwyp/go-talkshow/internal/presentation/tui"
	"github.com/penwyp/go-talkshow/internal/util"
)

var (
	// Loading
	viewEager int

	// Initial criteria
	viewSearch string
	viewSince  string
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the session timeline interactively",
	Long: `Opens the interactive timeline. The first columns are loaded immediately, the rest when they
scroll into view.

Keys:
  ↑/↓ pgup/pgdn   scroll both panes
  ←/→             shift columns
  tab             switch the focused pane
  /               search themes and first questions
  f               cycle the time filter (all, 24h, week, month)
  r               reload everything
  e               export a snapshot to the current directory
  q               quit`,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
	addViewFlags(viewCmd)
}

// addViewFlags registers the loading and criteria flags shared by every command that builds a view
func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&viewEager, "eager", constants.DefaultEagerThreshold,
		"Number of leading columns loaded immediately")
	cmd.Flags().StringVar(&viewSearch, "search", "",
		"Only show sessions whose theme or first question contains this text")
	cmd.Flags().StringVar(&viewSince, "since", "all",
		"Time filter (all, 24h, week, month)")
}

// newView builds a timeline view reading from the configured data source
func newView() (*timeline.View, error) {
	config := &timeline.ViewConfig{
		APIURL:   apiURL,
		Timezone: timezone,
		Eager:    viewEager,
		Since:    viewSince,
		Search:   viewSearch,
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := source.NewClient(config.APIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create data source client: %w", err)
	}

	util.LogDebugf("View config: %s", config)
	return timeline.NewView(client, config)
}

func runView(cmd *cobra.Command, args []string) error {
	view, err := newView()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	return tui.Run(ctx, view, tui.Options{
		ExportDir:    ".",
		ExportFormat: timeline.FormatJSON,
	})
}
