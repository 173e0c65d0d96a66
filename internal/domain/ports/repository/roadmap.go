package repository

import (
	"context"

	"ai-study-guide/internal/domain/model"
)

// -----------------------------
// Roadmaps
// -----------------------------

// RoadmapRepository stores generated roadmaps for the process lifetime.
// Implementations return copies; callers never observe shared state.
type RoadmapRepository interface {
	Save(ctx context.Context, rm *model.Roadmap) error
	FindByID(ctx context.Context, id string) (*model.Roadmap, error)
	// Update runs fn against the stored roadmap under the repository lock and
	// persists the result when fn returns nil. Unknown ids yield domain.ErrNotFound.
	Update(ctx context.Context, id string, fn func(rm *model.Roadmap) error) (*model.Roadmap, error)
	Count(ctx context.Context) (int, error)
}
