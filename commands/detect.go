package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-talkshow/internal/application/timeline"
	"github.com/penwyp/go-talkshow/internal/core/loader"
	"github.com/penwyp/go-talkshow/internal/presentation/layout"
	"github.com/penwyp/go-talkshow/internal/util"
)

var detectCmd = &cobra.Command{
	Use:    "detect",
	Short:  "Debug command to load every column and print the results",
	Long:   `Loads the timeline, requests every column regardless of visibility and prints markers and per-column load results without UI.`,
	Hidden: true, // Hidden from help
	RunE:   runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
	addViewFlags(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	view, err := newView()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, sectionSeparator)
	fmt.Fprintln(out, "=== TalkShow Timeline Detection ===")
	fmt.Fprintf(out, "Timestamp: %s\n", util.GetTimeProvider().Now().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "Data Source: %s\n", apiURL)
	fmt.Fprintf(out, "Timezone: %s\n", util.GetTimeProvider().Location())
	fmt.Fprintln(out, sectionSeparator)

	start := time.Now()
	if err := view.Refresh(cmd.Context()); err != nil {
		return err
	}
	refreshTook := time.Since(start)

	// a band covering every column requests all of them
	gen := view.Current()
	view.SetColumnWidth(layout.MinColumnWidth)
	view.SetBand(0, max(1, len(gen.Sessions))*layout.MinColumnWidth)
	start = time.Now()
	delivered := view.LoadPending(cmd.Context())
	loadTook := time.Since(start)

	frame := view.Frame()
	printDetectSummary(out, frame.Total, gen, refreshTook)
	fmt.Fprintln(out, sectionSeparator)
	printMarkers(out, gen)
	fmt.Fprintln(out, sectionSeparator)
	printColumns(out, gen, delivered, loadTook)
	fmt.Fprintln(out, sectionSeparator)
	return nil
}

const sectionSeparator = "────────────────────────────────────────────────────────────"

func printDetectSummary(out io.Writer, total int, gen *timeline.Generation, took time.Duration) {
	fmt.Fprintln(out, "=== Summary ===")
	fmt.Fprintf(out, "Sessions: %d shown of %d\n", len(gen.Sessions), total)
	fmt.Fprintf(out, "Markers: %d\n", len(gen.Markers))
	fmt.Fprintf(out, "Generation: %d\n", gen.ID)
	fmt.Fprintf(out, "Bulk Load: %s\n", took.Round(time.Millisecond))
}

func printMarkers(out io.Writer, gen *timeline.Generation) {
	fmt.Fprintln(out, "=== Time Grid ===")
	if len(gen.Markers) == 0 {
		fmt.Fprintln(out, "No markers (no dated sessions)")
		return
	}

	first := gen.Markers[0]
	last := gen.Markers[len(gen.Markers)-1]
	fmt.Fprintf(out, "Range: %s %s → %s %s\n", first.Date, first.TimeDisplay, last.Date, last.TimeDisplay)

	days := 0
	for _, m := range gen.Markers {
		if m.IsNewDay {
			days++
		}
	}
	fmt.Fprintf(out, "Day Boundaries: %d\n", days)
}

func printColumns(out io.Writer, gen *timeline.Generation, delivered int, took time.Duration) {
	fmt.Fprintln(out, "=== Columns ===")
	counts := gen.Loader.Counts()
	fmt.Fprintf(out, "Delivered: %d in %s (loaded %d, failed %d, pending %d)\n",
		delivered, took.Round(time.Millisecond),
		counts[loader.StatusLoaded], counts[loader.StatusFailed], counts[loader.StatusPending])
	fmt.Fprintf(out, "Still Observed: %d\n", gen.Observer.Observed())

	for _, s := range gen.Sessions {
		status := gen.Loader.Status(s.ID)
		var started *time.Time
		if t, ok := s.StartTime(); ok {
			started = &t
		}
		line := fmt.Sprintf("  %-8s %-19s %s", status, util.GetTimeProvider().FormatDateTime(started), util.TruncateText(s.Theme, 40))
		switch status {
		case loader.StatusLoaded:
			if content := gen.Loader.Content(s.ID); content != nil {
				line += fmt.Sprintf(" (%d turns)", len(content.QAPairs))
			}
		case loader.StatusFailed:
			if err := gen.Loader.Err(s.ID); err != nil {
				line += ": " + err.Error()
			}
		}
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}
}
