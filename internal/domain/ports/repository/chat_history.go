package repository

import (
	"context"

	"ai-study-guide/internal/domain/model"
)

// -----------------------------
// Chat history
// -----------------------------

// ChatHistoryRepository is an append-only, per-user message log.
type ChatHistoryRepository interface {
	Append(ctx context.Context, userID string, msg model.ChatMessage) error
	// Recent returns up to n of the newest messages, oldest first. n <= 0 returns all.
	Recent(ctx context.Context, userID string, n int) ([]model.ChatMessage, error)
	CountUsers(ctx context.Context) (int, error)
}
