package repository

import (
	"context"

	"ai-study-guide/internal/domain/model"
)

// -----------------------------
// Progress
// -----------------------------

// ProgressRepository keeps one progress record per roadmap.
type ProgressRepository interface {
	// Put creates or replaces the record for p.RoadmapID.
	Put(ctx context.Context, p *model.Progress) error
	FindByRoadmap(ctx context.Context, roadmapID string) (*model.Progress, error)
	// Update is a read-modify-write under the repository lock. fn returning an
	// error leaves the stored record untouched.
	Update(ctx context.Context, roadmapID string, fn func(p *model.Progress) error) (*model.Progress, error)
	Count(ctx context.Context) (int, error)
}
