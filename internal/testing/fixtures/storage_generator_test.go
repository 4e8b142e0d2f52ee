package fixtures

import (
	"os"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-talkshow/internal/core/model"
)

func TestNewStoredSession(t *testing.T) {
	start := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	session := NewStoredSession("go channels", start, 3, 20*time.Minute)

	assert.Equal(t, "2024-01-01_22-00Z-go-channels.md", session.Meta.Filename)
	require.Len(t, session.QAPairs, 3)
	last, ok := session.QAPairs[2].Time()
	require.True(t, ok)
	assert.Equal(t, start.Add(40*time.Minute), last)
}

func TestGenerateSimpleStorage(t *testing.T) {
	g := NewTestDataGenerator(t.TempDir())
	path, err := g.GenerateSimpleStorage("web_sessions.json", time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var sessions []model.StoredSession
	require.NoError(t, sonic.Unmarshal(data, &sessions))
	require.Len(t, sessions, 3)
	assert.Equal(t, "Pasta?", sessions[1].QAPairs[0].QuestionSummary)
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "plain", StripANSI("\x1b[1;31mplain\x1b[0m"))
	assert.Equal(t, "x", StripANSI("\x1b[?25lx"))
}

func TestGenerateLargeDataset(t *testing.T) {
	g := NewTestDataGenerator(t.TempDir())
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	path, err := g.GenerateLargeDataset("large.json", start, 30)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var sessions []model.StoredSession
	require.NoError(t, sonic.Unmarshal(data, &sessions))
	require.Len(t, sessions, 30)
	assert.Equal(t, "topic 029", sessions[29].Meta.Theme)
	assert.Len(t, sessions[3].QAPairs, 4)
}

func TestEmptyStorageAndCleanup(t *testing.T) {
	g := NewTestDataGenerator(t.TempDir() + "/data")
	path, err := g.CreateEmptyStorage("empty.json")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	require.NoError(t, g.CleanupTestData())
	_, err = os.Stat(g.GetBaseDir())
	assert.True(t, os.IsNotExist(err))
}
