package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ai-study-guide/internal/domain"
	"ai-study-guide/internal/domain/model"
	"ai-study-guide/internal/domain/ports/adapter"
	"ai-study-guide/internal/domain/ports/repository"
	"ai-study-guide/internal/infra/logging"
	"ai-study-guide/internal/infra/metrics"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

// DefaultUserID owns every conversation when no identity is presented.
const DefaultUserID = "default_user"

const defaultHistoryContext = 5

type ChatUseCase interface {
	// RecordAndRespond appends message to the user's history, asks the AI for
	// a reply and appends that too.
	RecordAndRespond(ctx context.Context, userID, message string, mode model.ChatMode) (string, error)
}

type ChatOptions struct {
	Model          string
	HistoryContext int         // prior turns included in the prompt
	Limiter        RateLimiter // optional
}

type chatUC struct {
	history repository.ChatHistoryRepository
	ai      adapter.AIServiceAdapter
	opts    ChatOptions
	now     Clock
	log     *zerolog.Logger
}

func NewChatUseCase(history repository.ChatHistoryRepository, ai adapter.AIServiceAdapter, opts ChatOptions, now Clock, logger *zerolog.Logger) *chatUC {
	if opts.HistoryContext <= 0 {
		opts.HistoryContext = defaultHistoryContext
	}
	return &chatUC{history: history, ai: ai, opts: opts, now: clockOrNow(now), log: loggerOrNop(logger)}
}

func (c *chatUC) RecordAndRespond(ctx context.Context, userID, message string, mode model.ChatMode) (string, error) {
	defer logging.TraceDuration(c.log, "ChatUC.RecordAndRespond")()

	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("message is empty: %w", domain.ErrInvalidArgument)
	}
	if userID == "" {
		userID = DefaultUserID
	}
	if mode != model.ModeFocus {
		mode = model.ModeFriendly
	}
	log := logging.With(logging.WithUserID(ctx, userID), c.log)

	if c.opts.Limiter != nil {
		ok, err := c.opts.Limiter.Allow(ctx, "chat:"+userID)
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable; allowing")
		} else if !ok {
			metrics.IncChatMessage(string(mode), "rate_limited")
			return "", domain.ErrRateLimited
		}
	}

	if err := c.history.Append(ctx, userID, model.NewChatMessage(model.RoleUser, message, c.now())); err != nil {
		return "", err
	}
	// one extra entry: the newest is the message just appended
	recent, err := c.history.Recent(ctx, userID, c.opts.HistoryContext+1)
	if err != nil {
		return "", err
	}
	prior := recent[:max(0, len(recent)-1)]

	prompt := BuildChatPrompt(mode, prior, message)
	msgs := []adapter.Message{{Role: "user", Content: prompt}}

	start := time.Now()
	reply, usage, err := c.ai.ChatWithUsage(ctx, c.opts.Model, msgs)
	latency := int(time.Since(start).Milliseconds())
	if err == nil && usage.PromptTokens == 0 {
		usage = c.estimateUsage(ctx, msgs, usage)
	}
	metrics.ObserveChatUsage(c.ai.Provider(), c.opts.Model, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, latency, err == nil)
	if err != nil {
		metrics.IncChatMessage(string(mode), "error")
		log.Error().Err(err).Int("latency_ms", latency).Msg("ai chat failed")
		return "", fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	if err := c.history.Append(ctx, userID, model.NewChatMessage(model.RoleAssistant, reply, c.now())); err != nil {
		return "", err
	}
	metrics.IncChatMessage(string(mode), "ok")
	log.Debug().
		Str("mode", string(mode)).
		Int("context_turns", len(prior)).
		Int("latency_ms", latency).
		Msg("chat reply")
	return reply, nil
}

// estimateUsage fills prompt tokens with the provider's local counter when the
// reply carried no usage (some OpenAI-compatible gateways omit it).
func (c *chatUC) estimateUsage(ctx context.Context, msgs []adapter.Message, usage adapter.Usage) adapter.Usage {
	n, err := c.ai.CountTokens(ctx, c.opts.Model, msgs)
	if err != nil {
		c.log.Debug().Err(err).Msg("token count unavailable")
		return usage
	}
	usage.PromptTokens = n
	usage.TotalTokens = n + usage.CompletionTokens
	return usage
}

const (
	mentorIntro   = "You are an AI Study Mentor assistant."
	focusStyle    = "Focus Mode: Be concise, direct, and minimize distractions in your responses."
	friendlyStyle = "Friendly Mode: Be warm, encouraging, and supportive in your responses. Use emojis occasionally."
	mentorTask    = "Provide helpful study advice, answer questions about learning, and guide users through their educational journey."
)

// BuildChatPrompt renders the mode preamble, the prior turns labelled by role
// and the new user message, ending with an open assistant turn.
func BuildChatPrompt(mode model.ChatMode, prior []model.ChatMessage, message string) string {
	style := friendlyStyle
	if mode == model.ModeFocus {
		style = focusStyle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\nCurrent mode: %s\n\n%s\n\n%s\n\n", mentorIntro, mode, style, mentorTask)
	for _, m := range prior {
		fmt.Fprintf(&b, "%s: %s\n", roleLabel(m.Role), m.Content)
	}
	fmt.Fprintf(&b, "User: %s\nAssistant:", message)
	return b.String()
}

func roleLabel(r model.ChatRole) string {
	if r == model.RoleAssistant {
		return "Assistant"
	}
	return "User"
}
