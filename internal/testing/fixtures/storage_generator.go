package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-talkshow/internal/core/model"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes all ANSI escape codes from a string
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// TestDataGenerator writes TalkShow storage files for tests
type TestDataGenerator struct {
	baseDir string
}

// NewTestDataGenerator creates a new test data generator
func NewTestDataGenerator(baseDir string) *TestDataGenerator {
	return &TestDataGenerator{
		baseDir: baseDir,
	}
}

// NewStoredSession builds a session whose turns start at start and are spacing apart
func NewStoredSession(theme string, start time.Time, turns int, spacing time.Duration) model.StoredSession {
	session := model.StoredSession{
		Meta: model.StoredMeta{
			Filename: MarkdownFilename(theme, start),
			Theme:    theme,
			CTime:    model.Timestamp(start),
			FileSize: int64(512 * turns),
			QACount:  turns,
		},
		QAPairs: make([]model.ConversationTurn, turns),
	}
	for i := range session.QAPairs {
		session.QAPairs[i] = model.ConversationTurn{
			Question:  fmt.Sprintf("%s question %d", theme, i+1),
			Answer:    fmt.Sprintf("%s answer %d", theme, i+1),
			Timestamp: model.NewTimestamp(start.Add(time.Duration(i) * spacing)),
		}
	}
	return session
}

// GenerateSimpleStorage writes three sessions spread over one evening, crossing midnight
func (g *TestDataGenerator) GenerateSimpleStorage(name string, start time.Time) (string, error) {
	sessions := []model.StoredSession{
		NewStoredSession("go channels", start, 3, 20*time.Minute),
		NewStoredSession("pasta recipes", start.Add(50*time.Minute), 2, 10*time.Minute),
		NewStoredSession("travel plans", start.Add(3*time.Hour), 1, 0),
	}
	sessions[1].QAPairs[0].QuestionSummary = "Pasta?"
	sessions[1].QAPairs[0].AnswerSummary = "Boil water."
	return g.WriteStorage(name, sessions)
}

// GenerateLargeDataset writes n sessions one hour apart
func (g *TestDataGenerator) GenerateLargeDataset(name string, start time.Time, n int) (string, error) {
	sessions := make([]model.StoredSession, n)
	for i := range sessions {
		sessions[i] = NewStoredSession(fmt.Sprintf("topic %03d", i), start.Add(time.Duration(i)*time.Hour), 1+i%4, 7*time.Minute)
	}
	return g.WriteStorage(name, sessions)
}

// CreateEmptyStorage writes a storage file without sessions
func (g *TestDataGenerator) CreateEmptyStorage(name string) (string, error) {
	return g.WriteStorage(name, []model.StoredSession{})
}

// WriteStorage writes sessions as a JSON array and returns the file path
func (g *TestDataGenerator) WriteStorage(name string, sessions []model.StoredSession) (string, error) {
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		return "", err
	}

	data, err := sonic.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode sessions: %w", err)
	}

	path := filepath.Join(g.baseDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// ReplaceStorage rewrites the file atomically through a rename
func (g *TestDataGenerator) ReplaceStorage(name string, sessions []model.StoredSession) (string, error) {
	tmp, err := g.WriteStorage(name+".tmp", sessions)
	if err != nil {
		return "", err
	}
	path := filepath.Join(g.baseDir, name)
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	return path, nil
}

// CleanupTestData removes everything under the base directory
func (g *TestDataGenerator) CleanupTestData() error {
	return os.RemoveAll(g.baseDir)
}

// GetBaseDir returns the base directory
func (g *TestDataGenerator) GetBaseDir() string {
	return g.baseDir
}
