package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"ai-study-guide/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*AnthropicAdapter)(nil)

// AnthropicAdapter talks to the Messages API. System turns are lifted into the
// request's system prompt since the API has no system role in the message list.
type AnthropicAdapter struct {
	client anthropic.Client
	model  string
	maxOut int
}

func NewAnthropicAdapter(apiKey, model, baseURL string, maxOut int) (*AnthropicAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic api key empty")
	}
	if model == "" {
		model = "claude-haiku-4-5"
	}
	if maxOut <= 0 {
		maxOut = 1024
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicAdapter{
		client: anthropic.NewClient(opts...),
		model:  model,
		maxOut: maxOut,
	}, nil
}

func (a *AnthropicAdapter) Provider() string { return "anthropic" }

func (a *AnthropicAdapter) ListModels(ctx context.Context) ([]string, error) {
	page, err := a.client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return []string{a.model}, nil
	}
	out := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		out = append(out, m.ID)
	}
	if len(out) == 0 {
		out = append(out, a.model)
	}
	return out, nil
}

func (a *AnthropicAdapter) GetModelInfo(ctx context.Context, model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{
		Name:        modelOrDefault(model, a.model),
		Description: "Anthropic Messages model",
		MaxTokens:   a.maxOut,
		Supports:    []string{"text"},
	}, nil
}

// CountTokens is a characters/4 estimate.
func (a *AnthropicAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	n := 0
	for _, m := range messages {
		n += (len(m.Content) + 3) / 4
	}
	return n, nil
}

func (a *AnthropicAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := a.ChatWithUsage(ctx, model, messages)
	return reply, err
}

func (a *AnthropicAdapter) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	system, turns := splitSystem(messages)
	if len(turns) == 0 {
		return "", adapter.Usage{}, errors.New("anthropic: no messages")
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelOrDefault(model, a.model)),
		MaxTokens: int64(a.maxOut),
		Messages:  turns,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", adapter.Usage{}, fmt.Errorf("anthropic http %d: %w", apiErr.StatusCode, err)
		}
		return "", adapter.Usage{}, err
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", adapter.Usage{}, errors.New("anthropic: no text content")
	}
	in, out := int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)
	return b.String(), adapter.Usage{PromptTokens: in, CompletionTokens: out, TotalTokens: in + out}, nil
}

func splitSystem(msgs []adapter.Message) (string, []anthropic.MessageParam) {
	var system []string
	turns := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		switch strings.ToLower(m.Role) {
		case "system":
			system = append(system, m.Content)
		case "assistant", "model":
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return strings.Join(system, "\n\n"), turns
}
