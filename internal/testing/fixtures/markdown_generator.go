package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MarkdownFilename returns the export file name the chat history tool uses for a session
func MarkdownFilename(theme string, start time.Time) string {
	return fmt.Sprintf("%s-%s.md", start.UTC().Format("2006-01-02_15-04Z"), strings.ReplaceAll(theme, " ", "-"))
}

// MarkdownExport renders a chat history export with turns exchanges spacing apart.
// Assistant headers carry their UTC time; every answer also holds a fenced command block.
func MarkdownExport(theme string, start time.Time, turns int, spacing time.Duration) string {
	var b strings.Builder
	b.WriteString("<!-- Generated by SpecStory -->\n\n")
	fmt.Fprintf(&b, "# %s (%s)\n\n", theme, start.UTC().Format("2006-01-02 15:04Z"))

	for i := 0; i < turns; i++ {
		at := start.Add(time.Duration(i) * spacing).UTC()
		fmt.Fprintf(&b, "_**User**_\n\n%s question %d\n\n---\n\n", theme, i+1)
		fmt.Fprintf(&b, "_**Assistant (%s)**_\n\n", at.Format("2006-01-02 15:04Z"))
		fmt.Fprintf(&b, "%s answer %d\n\n```bash\nls -la\n```\n\n---\n\n", theme, i+1)
	}
	return b.String()
}

// WriteMarkdown writes content to name under the base directory and returns its path
func (g *TestDataGenerator) WriteMarkdown(name, content string) (string, error) {
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(g.baseDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// GenerateMarkdownHistory writes the markdown exports of the simple storage sessions
func (g *TestDataGenerator) GenerateMarkdownHistory(start time.Time) ([]string, error) {
	sessions := []struct {
		theme  string
		offset time.Duration
		turns  int
	}{
		{"go channels", 0, 3},
		{"pasta recipes", 50 * time.Minute, 2},
	}

	paths := make([]string, 0, len(sessions))
	for _, s := range sessions {
		at := start.Add(s.offset)
		path, err := g.WriteMarkdown(MarkdownFilename(s.theme, at), MarkdownExport(s.theme, at, s.turns, 20*time.Minute))
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
