//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"ai-study-guide/internal/domain"
	"ai-study-guide/internal/domain/ports/adapter"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

// day returns 2025-03-<n> at 14:30 local time.
func day(n int) time.Time { return time.Date(2025, 3, n, 14, 30, 0, 0, time.Local) }

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// ---- Mock AIServiceAdapter ----

type MockAI struct {
	mu sync.Mutex

	Reply   string
	Err     error
	// NoUsage makes ChatWithUsage report zero tokens, like gateways that omit usage.
	NoUsage bool

	Calls   int
	Counted int
	Models  []string
	Prompts []string
}

var _ adapter.AIServiceAdapter = (*MockAI)(nil)

func (m *MockAI) Provider() string { return "mock" }

func (m *MockAI) ListModels(ctx context.Context) ([]string, error) { return []string{"mock-model"}, nil }

func (m *MockAI) GetModelInfo(ctx context.Context, model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{Name: model}, nil
}

func (m *MockAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counted++
	n := 0
	for _, msg := range messages {
		n += len(strings.Fields(msg.Content))
	}
	return n, nil
}

func (m *MockAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := m.ChatWithUsage(ctx, model, messages)
	return reply, err
}

func (m *MockAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	m.mu.Lock()
	m.Calls++
	m.Models = append(m.Models, model)
	if len(messages) > 0 {
		m.Prompts = append(m.Prompts, messages[len(messages)-1].Content)
	}
	reply, err, noUsage := m.Reply, m.Err, m.NoUsage
	m.mu.Unlock()
	if err != nil {
		return "", adapter.Usage{}, err
	}
	if noUsage {
		return reply, adapter.Usage{}, nil
	}
	return reply, adapter.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, nil
}

func (m *MockAI) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}

// ---- Inline submitter: runs tasks synchronously ----

type inlinePool struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (p *inlinePool) Submit(name string, task func(ctx context.Context) error) error {
	p.mu.Lock()
	p.names = append(p.names, name)
	p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	_ = task(context.Background())
	return nil
}

// ---- Locker ----

type memLocker struct {
	mu   sync.Mutex
	held map[string]string
}

func (l *memLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[string]string{}
	}
	if _, ok := l.held[key]; ok {
		return "", domain.ErrAlreadyExists
	}
	l.held[key] = "tok"
	return "tok", nil
}

func (l *memLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] != token {
		return errors.New("not owner")
	}
	delete(l.held, key)
	return nil
}

// ---- Rate limiter ----

type countLimiter struct {
	limit int
	hits  map[string]int
	err   error
}

func (c *countLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	if c.hits == nil {
		c.hits = map[string]int{}
	}
	c.hits[key]++
	return c.hits[key] <= c.limit, nil
}
