package ai

import (
	"context"
	"errors"
	"sort"
	"strings"

	"ai-study-guide/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*MultiAIAdapter)(nil)

var errNoProvider = errors.New("no ai provider configured")

// MultiAIAdapter routes each call to a provider picked from the model name:
// an explicit model->provider mapping wins, then well-known name prefixes,
// then the default provider.
type MultiAIAdapter struct {
	defaultProvider string
	byProvider      map[string]adapter.AIServiceAdapter
	order           []string // provider names, sorted, for deterministic fallback
	modelToProvider map[string]string
}

// NewMultiAIAdapter only knows a default provider; each provider adapter is
// responsible for its own default model.
func NewMultiAIAdapter(
	defaultProvider string,
	byProvider map[string]adapter.AIServiceAdapter,
	modelToProvider map[string]string,
) *MultiAIAdapter {
	clean := make(map[string]adapter.AIServiceAdapter, len(byProvider))
	order := make([]string, 0, len(byProvider))
	for name, a := range byProvider {
		if a == nil {
			continue
		}
		name = strings.ToLower(name)
		clean[name] = a
		order = append(order, name)
	}
	sort.Strings(order)
	return &MultiAIAdapter{
		defaultProvider: strings.ToLower(defaultProvider),
		byProvider:      clean,
		order:           order,
		modelToProvider: modelToProvider,
	}
}

func (m *MultiAIAdapter) resolveProvider(model string) string {
	if p := m.modelToProvider[model]; p != "" {
		return strings.ToLower(p)
	}
	l := strings.TrimPrefix(strings.ToLower(model), "models/")
	switch {
	case strings.HasPrefix(l, "gemini"):
		return "gemini"
	case strings.HasPrefix(l, "gpt"), strings.HasPrefix(l, "o1"), strings.HasPrefix(l, "o3"), strings.HasPrefix(l, "o4"):
		return "openai"
	case strings.HasPrefix(l, "claude"):
		return "anthropic"
	default:
		return m.defaultProvider
	}
}

func (m *MultiAIAdapter) pick(model string) adapter.AIServiceAdapter {
	if a := m.byProvider[m.resolveProvider(model)]; a != nil {
		return a
	}
	if a := m.byProvider[m.defaultProvider]; a != nil {
		return a
	}
	if len(m.order) > 0 {
		return m.byProvider[m.order[0]]
	}
	return nil
}

func (m *MultiAIAdapter) Provider() string {
	if a := m.pick(""); a != nil {
		return a.Provider()
	}
	return m.defaultProvider
}

// ListModels returns explicitly mapped models followed by each provider's list.
func (m *MultiAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}

	mapped := make([]string, 0, len(m.modelToProvider))
	for model := range m.modelToProvider {
		mapped = append(mapped, model)
	}
	sort.Strings(mapped)
	for _, model := range mapped {
		add(model)
	}
	for _, name := range m.order {
		list, err := m.byProvider[name].ListModels(ctx)
		if err != nil {
			continue
		}
		for _, model := range list {
			add(model)
		}
	}
	return out, nil
}

func (m *MultiAIAdapter) GetModelInfo(ctx context.Context, model string) (adapter.ModelInfo, error) {
	a := m.pick(model)
	if a == nil {
		return adapter.ModelInfo{Name: model}, nil
	}
	return a.GetModelInfo(ctx, model)
}

func (m *MultiAIAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	a := m.pick(model)
	if a == nil {
		return 0, errNoProvider
	}
	return a.CountTokens(ctx, model, messages)
}

func (m *MultiAIAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	a := m.pick(model)
	if a == nil {
		return "", errNoProvider
	}
	return a.Chat(ctx, model, messages)
}

func (m *MultiAIAdapter) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	a := m.pick(model)
	if a == nil {
		return "", adapter.Usage{}, errNoProvider
	}
	return a.ChatWithUsage(ctx, model, messages)
}
