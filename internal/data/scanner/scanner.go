package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/penwyp/go-talkshow/internal/util"
)

// FileScanner finds chat history exports in a directory
type FileScanner struct {
	baseDir string
	pattern string
}

// NewFileScanner creates a scanner for the markdown files directly under baseDir
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{
		baseDir: baseDir,
		pattern: "*.md",
	}
}

// Scan returns the matching file paths sorted by name; subdirectories are not entered
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	util.LogDebugf("Start scanning directory: %s", s.baseDir)

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", s.baseDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(s.pattern, entry.Name()); ok {
			files = append(files, filepath.Join(s.baseDir, entry.Name()))
		}
	}
	sort.Strings(files)

	util.LogDebugf("File scan completed: duration %v, scanned %d entries, found %d markdown files",
		time.Since(start), len(entries), len(files))
	return files, nil
}
