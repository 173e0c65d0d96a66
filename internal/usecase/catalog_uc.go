package usecase

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"ai-study-guide/internal/domain"
	"ai-study-guide/internal/domain/ports/adapter"
	"ai-study-guide/internal/infra/metrics"
)

// Compile-time check
var _ CatalogUseCase = (*catalogUC)(nil)

type Technique struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tips        []string `json:"tips"`
}

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

var techniques = []Technique{
	{"Pomodoro Technique", "Study in 25-minute focused intervals with 5-minute breaks",
		[]string{"Set a timer", "Eliminate distractions", "Take real breaks"}},
	{"Active Recall", "Test yourself on material instead of passive reading",
		[]string{"Close your notes", "Write what you remember", "Check answers"}},
	{"Spaced Repetition", "Review material at increasing intervals",
		[]string{"Use flashcards", "Review after 1 day, 3 days, 1 week", "Focus on weak areas"}},
	{"Feynman Technique", "Explain concepts in simple terms as if teaching",
		[]string{"Choose a concept", "Explain it simply", "Identify gaps"}},
	{"Mind Mapping", "Create visual diagrams connecting related concepts",
		[]string{"Start with main topic", "Branch out to subtopics", "Use colors"}},
}

var quotes = []Quote{
	{"The expert in anything was once a beginner.", "Helen Hayes"},
	{"Learning never exhausts the mind.", "Leonardo da Vinci"},
	{"The beautiful thing about learning is that no one can take it away from you.", "B.B. King"},
	{"Education is not the filling of a pail, but the lighting of a fire.", "William Butler Yeats"},
	{"The capacity to learn is a gift; the ability to learn is a skill; the willingness to learn is a choice.", "Brian Herbert"},
}

const (
	techniquesPrompt = "Provide 5 effective study techniques with brief descriptions. " +
		"Include techniques like Pomodoro, Active Recall, Spaced Repetition, Feynman Technique, etc. " +
		"Format as JSON array with name, description, and tips fields."
	techniquesLockKey = "lock:study_techniques"
	backgroundTimeout = time.Minute
)

type CatalogUseCase interface {
	// StudyTechniques always returns the fixed list. It also queues an AI
	// generation whose result is discarded.
	StudyTechniques(ctx context.Context) []Technique
	DailyQuote(ctx context.Context) Quote
}

type CatalogOptions struct {
	Model  string
	Pool   TaskSubmitter // optional; nil skips background generation
	Locker Locker        // optional
	// Intn picks an index in [0,n). Defaults to math/rand/v2.
	Intn func(n int) int
}

type catalogUC struct {
	ai   adapter.AIServiceAdapter
	opts CatalogOptions
	log  *zerolog.Logger
}

func NewCatalogUseCase(ai adapter.AIServiceAdapter, opts CatalogOptions, logger *zerolog.Logger) *catalogUC {
	if opts.Intn == nil {
		opts.Intn = rand.IntN
	}
	return &catalogUC{ai: ai, opts: opts, log: loggerOrNop(logger)}
}

func (c *catalogUC) StudyTechniques(ctx context.Context) []Technique {
	if c.opts.Pool != nil && c.ai != nil {
		if err := c.opts.Pool.Submit("study_techniques", c.generateTechniques); err != nil {
			metrics.IncBackgroundCall("study_techniques", "dropped")
			c.log.Debug().Err(err).Msg("background generation not queued")
		}
	}

	out := make([]Technique, len(techniques))
	for i, t := range techniques {
		t.Tips = append([]string(nil), t.Tips...)
		out[i] = t
	}
	return out
}

func (c *catalogUC) generateTechniques(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, backgroundTimeout)
	defer cancel()

	if c.opts.Locker != nil {
		token, err := c.opts.Locker.TryLock(ctx, techniquesLockKey, backgroundTimeout)
		if errors.Is(err, domain.ErrAlreadyExists) {
			metrics.IncBackgroundCall("study_techniques", "skipped")
			return nil
		}
		if err != nil {
			return err
		}
		defer func() { _ = c.opts.Locker.Unlock(context.WithoutCancel(ctx), techniquesLockKey, token) }()
	}

	_, err := c.ai.Chat(ctx, c.opts.Model, []adapter.Message{{Role: "user", Content: techniquesPrompt}})
	if err != nil {
		metrics.IncBackgroundCall("study_techniques", "error")
		return err
	}
	metrics.IncBackgroundCall("study_techniques", "ok")
	return nil
}

func (c *catalogUC) DailyQuote(ctx context.Context) Quote {
	return quotes[c.opts.Intn(len(quotes))]
}
