//go:build !integration

package ai_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-study-guide/internal/domain/ports/adapter"
	ai "ai-study-guide/internal/infra/adapters/ai"
)

type blockingAI struct {
	stubAI
	release chan struct{}
	entered chan struct{}
}

func (b *blockingAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	b.entered <- struct{}{}
	<-b.release
	return "done", adapter.Usage{}, nil
}

func TestLimitedAI_WaiterHonoursContext(t *testing.T) {
	t.Parallel()
	inner := &blockingAI{stubAI: stubAI{name: "gemini"}, release: make(chan struct{}), entered: make(chan struct{}, 1)}
	lim := ai.NewLimitedAI(inner, 1)

	done := make(chan error, 1)
	go func() {
		_, _, err := lim.ChatWithUsage(context.Background(), "m", nil)
		done <- err
	}()
	<-inner.entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, _, err := lim.ChatWithUsage(ctx, "m", nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	close(inner.release)
	if err := <-done; err != nil {
		t.Fatalf("first call: %v", err)
	}
	if lim.Provider() != "gemini" {
		t.Fatalf("provider = %q", lim.Provider())
	}
}

func TestLimitedAI_ZeroLimitReturnsInner(t *testing.T) {
	t.Parallel()
	inner := &stubAI{name: "openai"}
	if got := ai.NewLimitedAI(inner, 0); got != adapter.AIServiceAdapter(inner) {
		t.Fatal("expected the inner adapter when limit is 0")
	}
}

func TestNoopAdapter(t *testing.T) {
	t.Parallel()
	n := ai.NewNoopAIAdapter(nil)
	reply, usage, err := n.ChatWithUsage(context.Background(), "", []adapter.Message{{Role: "user", Content: "plan my week please"}})
	if err != nil || reply == "" {
		t.Fatalf("reply=%q err=%v", reply, err)
	}
	if usage.PromptTokens != 4 || usage.TotalTokens <= usage.PromptTokens {
		t.Fatalf("usage = %+v", usage)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := n.Chat(ctx, "", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}
