package memory

import (
	"context"
	"sync"

	"ai-study-guide/internal/domain/model"
	"ai-study-guide/internal/domain/ports/repository"
)

var _ repository.ChatHistoryRepository = (*ChatHistoryRepo)(nil)

// ChatHistoryRepo is the default chat log. History grows without bound for
// the lifetime of the process.
type ChatHistoryRepo struct {
	mu     sync.RWMutex
	byUser map[string][]model.ChatMessage
}

func NewChatHistoryRepo() *ChatHistoryRepo {
	return &ChatHistoryRepo{byUser: map[string][]model.ChatMessage{}}
}

func (r *ChatHistoryRepo) Append(ctx context.Context, userID string, msg model.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = append(r.byUser[userID], msg)
	return nil
}

func (r *ChatHistoryRepo) Recent(ctx context.Context, userID string, n int) ([]model.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tail := model.RecentMessages(r.byUser[userID], n)
	out := make([]model.ChatMessage, len(tail))
	copy(out, tail)
	return out, nil
}

func (r *ChatHistoryRepo) CountUsers(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser), nil
}
