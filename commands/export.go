package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-talkshow/internal/application/timeline"
	"github.com/penwyp/go-talkshow/internal/util"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a snapshot of all sessions, stats and timeline",
	Long: `Loads sessions, stats and timeline from the data source and writes them, together with the
time markers of the current filter, as JSON or TOML.

Examples:
  go-talkshow export                          # talkshow_export_<date>.json in the current directory
  go-talkshow export --format toml --out -    # TOML to stdout`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addViewFlags(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", timeline.FormatJSON,
		"Snapshot format (json, toml)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "",
		"Output file, - for stdout (default talkshow_export_<date>.<format>)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != timeline.FormatJSON && exportFormat != timeline.FormatTOML {
		return fmt.Errorf("invalid export format '%s': must be json or toml", exportFormat)
	}

	view, err := newView()
	if err != nil {
		return err
	}
	if err := view.Refresh(cmd.Context()); err != nil {
		return err
	}

	if exportOut == "-" {
		return view.ExportSnapshot(cmd.OutOrStdout(), exportFormat)
	}

	path := exportOut
	if path == "" {
		path = timeline.ExportFileName(exportFormat, util.GetTimeProvider().Now())
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := view.ExportSnapshot(file, exportFormat); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sessions to %s\n", view.Frame().Total, path)
	return nil
}
