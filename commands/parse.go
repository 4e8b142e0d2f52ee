package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-talkshow/internal/core/model"
	"github.com/penwyp/go-talkshow/internal/data/parser"
	"github.com/penwyp/go-talkshow/internal/data/scanner"
	"github.com/penwyp/go-talkshow/internal/data/store"
	"github.com/penwyp/go-talkshow/internal/util"
)

var (
	parseData        string
	parseConcurrency int
)

var parseCmd = &cobra.Command{
	Use:     "parse <directory>",
	Aliases: []string{"ingest"},
	Short:   "Parse markdown chat exports into a TalkShow storage file",
	Long: `Reads every *.md export directly inside directory, extracts its question/answer pairs and
replaces the storage file with the result. A running "serve" picks the new file up on its own.

Examples:
  go-talkshow parse ./.specstory/history                       # Write the default storage file
  go-talkshow parse ./history --data ./web_sessions.json       # Write another storage file`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseData, "data", defaultDataFile,
		"TalkShow storage file to write")
	parseCmd.Flags().IntVar(&parseConcurrency, "concurrency", runtime.NumCPU(),
		"Number of files parsed at once")
}

func runParse(cmd *cobra.Command, args []string) error {
	dir := expandPath(args[0])
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to open history directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	files, err := scanner.NewFileScanner(dir).Scan()
	if err != nil {
		return err
	}

	var (
		sessions []model.StoredSession
		pairs    int
		skipped  int
	)
	for result := range parser.NewParser(parseConcurrency).ParseFiles(files) {
		if result.Error != nil {
			util.LogWarnf("Skipping %s: %v", result.File, result.Error)
			skipped++
			continue
		}
		sessions = append(sessions, *result.Session)
		pairs += result.Session.Meta.QACount
	}
	parser.SortByCreation(sessions)

	path := expandPath(parseData)
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := store.WriteFile(path, sessions); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Parsed %d sessions (%d QA pairs) from %d files, skipped %d\n",
		len(sessions), pairs, len(files), skipped)
	fmt.Fprintf(out, "Saved to %s\n", path)
	return nil
}
