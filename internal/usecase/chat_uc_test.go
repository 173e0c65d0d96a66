//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"ai-study-guide/internal/domain"
	"ai-study-guide/internal/domain/model"
	"ai-study-guide/internal/infra/memory"
	"ai-study-guide/internal/usecase"
)

func TestChatUC_RecordAndRespond(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	history := memory.NewChatHistoryRepo()
	ai := &MockAI{Reply: "Break it into chunks."}
	uc := usecase.NewChatUseCase(history, ai, usecase.ChatOptions{Model: "gemini-1.5-flash"}, nil, nil)

	reply, err := uc.RecordAndRespond(ctx, "", "How do I start?", model.ModeFriendly)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "Break it into chunks." {
		t.Fatalf("reply = %q", reply)
	}

	msgs, _ := history.Recent(ctx, usecase.DefaultUserID, 0)
	if len(msgs) != 2 || msgs[0].Role != model.RoleUser || msgs[1].Role != model.RoleAssistant {
		t.Fatalf("history = %+v", msgs)
	}
	if ai.Models[0] != "gemini-1.5-flash" {
		t.Errorf("model = %q", ai.Models[0])
	}
	prompt := ai.lastPrompt()
	if !strings.Contains(prompt, "Friendly Mode") || !strings.HasSuffix(prompt, "User: How do I start?\nAssistant:") {
		t.Errorf("unexpected prompt:\n%s", prompt)
	}
}

func TestChatUC_PromptUsesLastFivePriorTurns(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	history := memory.NewChatHistoryRepo()
	ai := &MockAI{Reply: "ok"}
	uc := usecase.NewChatUseCase(history, ai, usecase.ChatOptions{}, nil, nil)

	for i := 1; i <= 4; i++ {
		if _, err := uc.RecordAndRespond(ctx, "u1", fmt.Sprintf("q%d", i), model.ModeFocus); err != nil {
			t.Fatal(err)
		}
	}
	// history before the 4th call: q1 ok q2 ok q3 ok -> last five are ok q2 ok q3 ok
	prompt := ai.lastPrompt()
	if strings.Contains(prompt, "User: q1\n") {
		t.Errorf("q1 is outside the context window:\n%s", prompt)
	}
	for _, want := range []string{"User: q2\n", "User: q3\n", "Assistant: ok\n", "Focus Mode"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Count(prompt, "User: q4") != 1 {
		t.Errorf("current message must appear once:\n%s", prompt)
	}
}

func TestChatUC_CountsTokensOnlyWhenUsageMissing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	withUsage := &MockAI{Reply: "ok"}
	uc := usecase.NewChatUseCase(memory.NewChatHistoryRepo(), withUsage, usecase.ChatOptions{}, nil, nil)
	if _, err := uc.RecordAndRespond(ctx, "u1", "hello", model.ModeFocus); err != nil {
		t.Fatal(err)
	}
	if withUsage.Counted != 0 {
		t.Errorf("reported usage must not trigger a local count, got %d counts", withUsage.Counted)
	}

	noUsage := &MockAI{Reply: "ok", NoUsage: true}
	uc = usecase.NewChatUseCase(memory.NewChatHistoryRepo(), noUsage, usecase.ChatOptions{}, nil, nil)
	if _, err := uc.RecordAndRespond(ctx, "u1", "hello", model.ModeFocus); err != nil {
		t.Fatal(err)
	}
	if noUsage.Counted != 1 {
		t.Errorf("missing usage should be counted locally once, got %d counts", noUsage.Counted)
	}

	failing := &MockAI{Err: errors.New("boom"), NoUsage: true}
	uc = usecase.NewChatUseCase(memory.NewChatHistoryRepo(), failing, usecase.ChatOptions{}, nil, nil)
	_, _ = uc.RecordAndRespond(ctx, "u1", "hello", model.ModeFocus)
	if failing.Counted != 0 {
		t.Errorf("failed calls must not be counted, got %d counts", failing.Counted)
	}
}

func TestChatUC_UpstreamFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	history := memory.NewChatHistoryRepo()
	uc := usecase.NewChatUseCase(history, &MockAI{Err: errors.New("quota exceeded")}, usecase.ChatOptions{}, nil, nil)

	_, err := uc.RecordAndRespond(ctx, "u1", "hello", model.ModeFriendly)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("cause lost: %v", err)
	}
	// the user turn stays, no assistant turn is recorded
	msgs, _ := history.Recent(ctx, "u1", 0)
	if len(msgs) != 1 || msgs[0].Role != model.RoleUser {
		t.Fatalf("history = %+v", msgs)
	}
}

func TestChatUC_Validation(t *testing.T) {
	t.Parallel()
	ai := &MockAI{Reply: "ok"}
	uc := usecase.NewChatUseCase(memory.NewChatHistoryRepo(), ai, usecase.ChatOptions{}, nil, nil)
	if _, err := uc.RecordAndRespond(context.Background(), "u1", "   ", model.ModeFriendly); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if ai.Calls != 0 {
		t.Fatal("AI must not be called for an empty message")
	}
}

func TestChatUC_RateLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	lim := &countLimiter{limit: 1}
	uc := usecase.NewChatUseCase(memory.NewChatHistoryRepo(), &MockAI{Reply: "ok"}, usecase.ChatOptions{Limiter: lim}, nil, nil)

	if _, err := uc.RecordAndRespond(ctx, "u1", "one", model.ModeFriendly); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.RecordAndRespond(ctx, "u1", "two", model.ModeFriendly); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if _, err := uc.RecordAndRespond(ctx, "u2", "one", model.ModeFriendly); err != nil {
		t.Fatalf("limits are per user: %v", err)
	}

	broken := usecase.NewChatUseCase(memory.NewChatHistoryRepo(), &MockAI{Reply: "ok"}, usecase.ChatOptions{Limiter: &countLimiter{err: errors.New("redis down")}}, nil, nil)
	if _, err := broken.RecordAndRespond(ctx, "u1", "hi", model.ModeFriendly); err != nil {
		t.Fatalf("limiter failure should fail open: %v", err)
	}
}

func TestBuildChatPrompt(t *testing.T) {
	t.Parallel()
	prior := []model.ChatMessage{
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleAssistant, Content: "hello!"},
	}
	got := usecase.BuildChatPrompt(model.ModeFocus, prior, "next?")
	want := "You are an AI Study Mentor assistant.\nCurrent mode: focus\n\n" +
		"Focus Mode: Be concise, direct, and minimize distractions in your responses.\n\n" +
		"Provide helpful study advice, answer questions about learning, and guide users through their educational journey.\n\n" +
		"User: hi\nAssistant: hello!\nUser: next?\nAssistant:"
	if got != want {
		t.Fatalf("prompt mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}
