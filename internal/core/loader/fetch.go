package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/penwyp/go-talkshow/internal/core/model"
)

// Fetcher retrieves the content of one session
type Fetcher interface {
	GetSession(ctx context.Context, id string) (*model.SessionContent, error)
}

// Fetch retrieves one column and wraps the outcome as a result
func Fetch(ctx context.Context, fetcher Fetcher, id string) ColumnResult {
	content, err := fetcher.GetSession(ctx, id)
	if err != nil {
		return ColumnResult{ID: id, Err: fmt.Errorf("failed to load session %s: %w", id, err)}
	}
	return ColumnResult{ID: id, Content: content}
}

// FetchAll retrieves the columns concurrently. Results are returned in completion order.
func FetchAll(ctx context.Context, fetcher Fetcher, ids []string) []ColumnResult {
	results := make(chan ColumnResult, len(ids))
	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			results <- Fetch(ctx, fetcher, id)
		}(id)
	}

	wg.Wait()
	close(results)

	collected := make([]ColumnResult, 0, len(ids))
	for r := range results {
		collected = append(collected, r)
	}
	return collected
}
