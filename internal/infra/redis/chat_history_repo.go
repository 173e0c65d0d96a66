package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ai-study-guide/internal/domain/model"
	"ai-study-guide/internal/domain/ports/repository"
	"ai-study-guide/internal/infra/security"
)

var _ repository.ChatHistoryRepository = (*ChatHistoryRepo)(nil)

const chatUsersKey = "chat:users"

// ChatHistoryRepo stores each user's conversation as a redis list of JSON
// entries. When an encryption service is supplied every entry is sealed with
// AES-GCM before it is written.
type ChatHistoryRepo struct {
	cli *redis.Client
	ttl time.Duration
	enc *security.EncryptionService
}

func NewChatHistoryRepo(c *Client, ttl time.Duration, enc *security.EncryptionService) *ChatHistoryRepo {
	return &ChatHistoryRepo{cli: c.cli, ttl: ttl, enc: enc}
}

func historyKey(userID string) string {
	return fmt.Sprintf("chat:history:%s", userID)
}

func (r *ChatHistoryRepo) Append(ctx context.Context, userID string, msg model.ChatMessage) error {
	payload, err := encodeMessage(msg, r.enc)
	if err != nil {
		return err
	}
	key := historyKey(userID)
	pipe := r.cli.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.SAdd(ctx, chatUsersKey, userID)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *ChatHistoryRepo) Recent(ctx context.Context, userID string, n int) ([]model.ChatMessage, error) {
	start := int64(0)
	if n > 0 {
		start = -int64(n)
	}
	raw, err := r.cli.LRange(ctx, historyKey(userID), start, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.ChatMessage, 0, len(raw))
	for _, s := range raw {
		m, err := decodeMessage(s, r.enc)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// CountUsers may over-count users whose history already expired.
func (r *ChatHistoryRepo) CountUsers(ctx context.Context) (int, error) {
	n, err := r.cli.SCard(ctx, chatUsersKey).Result()
	return int(n), err
}

func encodeMessage(m model.ChatMessage, enc *security.EncryptionService) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return string(b), nil
	}
	return enc.Encrypt(string(b))
}

func decodeMessage(s string, enc *security.EncryptionService) (model.ChatMessage, error) {
	var m model.ChatMessage
	if enc != nil {
		pt, err := enc.Decrypt(s)
		if err != nil {
			return m, fmt.Errorf("decrypt chat entry: %w", err)
		}
		s = pt
	}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return m, fmt.Errorf("decode chat entry: %w", err)
	}
	return m, nil
}
