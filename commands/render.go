package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-talkshow/internal/presentation/layout"
	"github.com/penwyp/go-talkshow/internal/presentation/render"
)

var renderWidth int

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print one static timeline frame",
	Long: `Loads the timeline once and prints the columns that fit the width to stdout.
The width defaults to the terminal width, or 120 when stdout is not a terminal.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addViewFlags(renderCmd)

	renderCmd.Flags().IntVar(&renderWidth, "width", 0,
		"Output width in cells (0 = terminal width)")
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderWidth < 0 {
		return fmt.Errorf("invalid width %d: must not be negative", renderWidth)
	}
	width := renderWidth
	if width == 0 {
		width = layout.TerminalSizer().Width
	}

	view, err := newView()
	if err != nil {
		return err
	}
	if err := view.Refresh(cmd.Context()); err != nil {
		return err
	}

	sizer := layout.NewSizer(width, 0)
	view.SetColumnWidth(sizer.ColumnWidth())
	view.SetBand(0, sizer.ContentWidth())
	view.LoadPending(cmd.Context())

	_, err = fmt.Fprint(cmd.OutOrStdout(), render.Static(view.Frame(), width))
	return err
}
