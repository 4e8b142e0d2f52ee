package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-talkshow/internal/core/model"
	"github.com/penwyp/go-talkshow/internal/testing/fixtures"
)

var evening = time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)

func TestStore_Load(t *testing.T) {
	g := fixtures.NewTestDataGenerator(t.TempDir())
	path, err := g.GenerateSimpleStorage("web_sessions.json", evening)
	require.NoError(t, err)

	s := New(path)
	require.NoError(t, s.Load())

	sessions := s.Sessions()
	require.Len(t, sessions, 3)
	assert.Equal(t, "go channels", sessions[0].Theme)
	assert.Equal(t, "go channels question 1", sessions[0].FirstQuestion)
	assert.Equal(t, 3, sessions[0].QACount)

	content, ok := s.Content(sessions[1].ID)
	require.True(t, ok)
	assert.Len(t, content.QAPairs, 2)

	_, ok = s.Content("missing.md")
	assert.False(t, ok)
}

func TestStore_SortsByStartTime(t *testing.T) {
	g := fixtures.NewTestDataGenerator(t.TempDir())
	undated := model.StoredSession{Meta: model.StoredMeta{Filename: "undated.md", Theme: "undated"}}
	path, err := g.WriteStorage("web_sessions.json", []model.StoredSession{
		undated,
		fixtures.NewStoredSession("late", evening.Add(time.Hour), 1, 0),
		fixtures.NewStoredSession("early", evening, 1, 0),
	})
	require.NoError(t, err)

	s := New(path)
	require.NoError(t, s.Load())

	var themes []string
	for _, session := range s.Sessions() {
		themes = append(themes, session.Theme)
	}
	assert.Equal(t, []string{"early", "late", "undated"}, themes)

	timeline := s.Timeline()
	require.Len(t, timeline, 3)
	assert.Equal(t, "early", timeline[0].Theme)
	assert.Nil(t, timeline[2].CreatedTime)
}

func TestStore_Stats(t *testing.T) {
	g := fixtures.NewTestDataGenerator(t.TempDir())
	path, err := g.GenerateSimpleStorage("web_sessions.json", evening)
	require.NoError(t, err)

	s := New(path)
	require.NoError(t, s.Load())

	info, err := os.Stat(path)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, 3, stats.TotalSessions)
	assert.Equal(t, 6, stats.TotalQAPairs)
	assert.Equal(t, 1, stats.QuestionSummaries)
	assert.Equal(t, 1, stats.AnswerSummaries)
	assert.InDelta(t, 2.0, stats.AverageQAPerSession, 1e-9)
	assert.Equal(t, info.Size(), stats.StorageFileSize)
}

func TestStore_ObjectDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "web_sessions.json")
	doc := `{"sessions": [{"meta": {"filename": "a.md", "theme": "a", "ctime": "2024-01-01T10:00:00", "file_size": 10, "qa_count": 1},
		"qa_pairs": [{"question": "q", "answer": "a", "timestamp": null, "question_summary": null, "answer_summary": null}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	s := New(path)
	require.NoError(t, s.Load())

	sessions := s.Sessions()
	require.Len(t, sessions, 1)
	_, ok := sessions[0].StartTime()
	assert.True(t, ok, "ctime is used when the first turn has no timestamp")
}

func TestStore_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	err := New(filepath.Join(dir, "missing.json")).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0644))
	err = New(broken).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse storage file")

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	s := New(empty)
	require.NoError(t, s.Load())
	assert.Empty(t, s.Sessions())
}

func TestStore_ReloadIfChanged(t *testing.T) {
	g := fixtures.NewTestDataGenerator(t.TempDir())
	path, err := g.GenerateSimpleStorage("web_sessions.json", evening)
	require.NoError(t, err)

	s := New(path)
	require.NoError(t, s.Load())

	changed, err := s.ReloadIfChanged()
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = g.ReplaceStorage("web_sessions.json", []model.StoredSession{
		fixtures.NewStoredSession("only", evening, 1, 0),
	})
	require.NoError(t, err)

	changed, err = s.ReloadIfChanged()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, s.Sessions(), 1)
}

func TestFileInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))

	first, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.Size)
	assert.NotZero(t, first.Inode)
	assert.Len(t, first.Fingerprint, 8)

	second, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.True(t, first.Same(second))

	require.NoError(t, os.WriteFile(path, []byte("[ ]"), 0644))
	third, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.False(t, first.Same(third))
	assert.False(t, (*FileInfo)(nil).Same(third))
}

func TestWatcher_ReloadsOnReplace(t *testing.T) {
	g := fixtures.NewTestDataGenerator(t.TempDir())
	path, err := g.GenerateSimpleStorage("web_sessions.json", evening)
	require.NoError(t, err)

	s := New(path)
	require.NoError(t, s.Load())

	w, err := NewWatcher(s)
	require.NoError(t, err)
	defer w.Close()

	_, err = g.ReplaceStorage("web_sessions.json", []model.StoredSession{
		fixtures.NewStoredSession("only", evening, 1, 0),
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(s.Sessions()) == 1
	}, 5*time.Second, 20*time.Millisecond)

	select {
	case event := <-w.Events():
		assert.NoError(t, event.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload event delivered")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "web_sessions.json")
	require.NoError(t, WriteFile(path, []model.StoredSession{
		fixtures.NewStoredSession("late", evening.Add(time.Hour), 2, 0),
		fixtures.NewStoredSession("early", evening, 1, 0),
	}))

	s := New(path)
	require.NoError(t, s.Load())
	sessions := s.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "early", sessions[0].Theme)
	assert.Equal(t, 2, sessions[1].QACount)

	require.NoError(t, WriteFile(path, nil))
	changed, err := s.ReloadIfChanged()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, s.Sessions())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "absent", "web_sessions.json"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
