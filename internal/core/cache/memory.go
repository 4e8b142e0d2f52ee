package cache

import (
	"sync"
	"time"

	"github.com/penwyp/go-talkshow/internal/core/model"
	"github.com/penwyp/go-talkshow/internal/util"
)

// MemoryCacheEntry is the fetched content of one session
type MemoryCacheEntry struct {
	Content      *model.SessionContent
	FetchedAt    int64
	LastAccessed int64
}

// MemoryCache holds session contents between generations.
// A clear is staged while a refresh runs so that a failed refresh keeps the old contents.
// Contents set while the clear is pending were fetched against the old data set and are not kept.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*MemoryCacheEntry

	pendingClear bool
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*MemoryCacheEntry),
	}
}

// Set stores content unless a clear is pending
func (mc *MemoryCache) Set(sessionID string, content *model.SessionContent) bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.pendingClear {
		util.LogDebugf("MemoryCache: Skipped %s while a clear is pending", sessionID)
		return false
	}
	now := time.Now().Unix()
	mc.entries[sessionID] = &MemoryCacheEntry{Content: content, FetchedAt: now, LastAccessed: now}
	return true
}

func (mc *MemoryCache) Get(sessionID string) (*model.SessionContent, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	entry, ok := mc.entries[sessionID]
	if !ok || entry == nil {
		return nil, false
	}
	entry.LastAccessed = time.Now().Unix()
	return entry.Content, true
}

// Len returns the number of live entries
func (mc *MemoryCache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.entries)
}

// Clear stages a clear; the current entries stay readable until CommitClear
func (mc *MemoryCache) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.pendingClear = true
	util.LogDebug("MemoryCache: Marked for pending clear, maintaining data until new data is ready")
}

// CommitClear drops every entry after a successful refresh
func (mc *MemoryCache) CommitClear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.pendingClear {
		mc.entries = make(map[string]*MemoryCacheEntry)
		mc.pendingClear = false
		util.LogDebug("MemoryCache: Committed clear")
	}
}

// CancelClear drops a pending clear and keeps the current entries
func (mc *MemoryCache) CancelClear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.pendingClear = false
	util.LogDebug("MemoryCache: Cancelled pending clear")
}
