package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-talkshow/internal/core/model"
	"github.com/penwyp/go-talkshow/internal/util"
)

// storageDocument is the object form of the storage file; a bare array is accepted too
type storageDocument struct {
	Sessions []model.StoredSession `json:"sessions"`
}

// Store holds the sessions of a TalkShow storage file in memory
type Store struct {
	mu       sync.RWMutex
	path     string
	sessions []model.StoredSession
	index    map[string]int
	info     *FileInfo
}

// New creates an empty store for the file at path
func New(path string) *Store {
	return &Store{
		path:  path,
		index: make(map[string]int),
	}
}

// Path returns the storage file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the storage file unconditionally
func (s *Store) Load() error {
	info, err := GetFileInfo(s.path)
	if err != nil {
		return fmt.Errorf("failed to stat storage file: %w", err)
	}
	return s.load(info)
}

// ReloadIfChanged reloads the file when its identity or tail fingerprint changed
func (s *Store) ReloadIfChanged() (bool, error) {
	info, err := GetFileInfo(s.path)
	if err != nil {
		return false, fmt.Errorf("failed to stat storage file: %w", err)
	}

	s.mu.RLock()
	unchanged := s.info.Same(info)
	s.mu.RUnlock()
	if unchanged {
		return false, nil
	}

	if err := s.load(info); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) load(info *FileInfo) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read storage file: %w", err)
	}

	sessions, err := decodeSessions(data)
	if err != nil {
		return fmt.Errorf("failed to parse storage file %s: %w", s.path, err)
	}

	// stable order by start time, undated sessions last
	sort.SliceStable(sessions, func(i, j int) bool {
		ti, oki := sessions[i].StartTime()
		tj, okj := sessions[j].StartTime()
		if oki != okj {
			return oki
		}
		return oki && ti.Before(tj)
	})

	index := make(map[string]int, len(sessions))
	for i, session := range sessions {
		index[session.Meta.Filename] = i
	}

	s.mu.Lock()
	s.sessions = sessions
	s.index = index
	s.info = info
	s.mu.Unlock()

	util.LogInfof("Loaded %d sessions from %s (%s)", len(sessions), s.path, util.FormatFileSize(info.Size))
	return nil
}

func decodeSessions(data []byte) ([]model.StoredSession, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []model.StoredSession{}, nil
	}

	if trimmed[0] == '[' {
		var sessions []model.StoredSession
		if err := sonic.Unmarshal(trimmed, &sessions); err != nil {
			return nil, err
		}
		return sessions, nil
	}

	var doc storageDocument
	if err := sonic.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	if doc.Sessions == nil {
		doc.Sessions = []model.StoredSession{}
	}
	return doc.Sessions, nil
}

// WriteFile replaces the storage file at path with sessions; the rename keeps watchers from seeing a partial file
func WriteFile(path string, sessions []model.StoredSession) error {
	if sessions == nil {
		sessions = []model.StoredSession{}
	}
	data, err := sonic.MarshalIndent(storageDocument{Sessions: sessions}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary storage file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace storage file %s: %w", path, err)
	}

	util.LogDebugf("Wrote %d sessions to %s (%s)", len(sessions), path, util.FormatFileSize(int64(len(data))))
	return nil
}

// Sessions returns the session summaries in start-time order
func (s *Store) Sessions() []model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]model.Session, len(s.sessions))
	for i, session := range s.sessions {
		summaries[i] = session.Summary()
	}
	return summaries
}

// Content returns the turns of one session
func (s *Store) Content(id string) (*model.SessionContent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	pairs := make([]model.ConversationTurn, len(s.sessions[i].QAPairs))
	copy(pairs, s.sessions[i].QAPairs)
	return &model.SessionContent{QAPairs: pairs}, true
}

// Stats computes the aggregate counters
func (s *Store) Stats() model.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := model.Stats{TotalSessions: len(s.sessions)}
	for _, session := range s.sessions {
		stats.TotalQAPairs += len(session.QAPairs)
		for _, pair := range session.QAPairs {
			if pair.QuestionSummary != "" {
				stats.QuestionSummaries++
			}
			if pair.AnswerSummary != "" {
				stats.AnswerSummaries++
			}
		}
	}
	if stats.TotalSessions > 0 {
		stats.AverageQAPerSession = float64(stats.TotalQAPairs) / float64(stats.TotalSessions)
	}
	if s.info != nil {
		stats.StorageFileSize = s.info.Size
	}
	return stats
}

// Timeline returns one entry per session in start-time order
func (s *Store) Timeline() []model.TimelineEntry {
	sessions := s.Sessions()
	entries := make([]model.TimelineEntry, len(sessions))
	for i, session := range sessions {
		entries[i] = model.TimelineEntry{
			Filename:    session.ID,
			Theme:       session.Theme,
			CreatedTime: session.CreatedTime,
			QACount:     session.QACount,
		}
	}
	return entries
}
