package memory

import (
	"context"
	"sync"

	"ai-study-guide/internal/domain"
	"ai-study-guide/internal/domain/model"
	"ai-study-guide/internal/domain/ports/repository"
)

var _ repository.ProgressRepository = (*ProgressRepo)(nil)

// ProgressRepo keeps one progress record per roadmap id.
type ProgressRepo struct {
	mu        sync.Mutex
	byRoadmap map[string]*model.Progress
}

func NewProgressRepo() *ProgressRepo {
	return &ProgressRepo{byRoadmap: map[string]*model.Progress{}}
}

func (r *ProgressRepo) Put(ctx context.Context, p *model.Progress) error {
	if p == nil || p.RoadmapID == "" {
		return domain.ErrInvalidArgument
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byRoadmap[p.RoadmapID] = p.Clone()
	return nil
}

func (r *ProgressRepo) FindByRoadmap(ctx context.Context, roadmapID string) (*model.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byRoadmap[roadmapID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *ProgressRepo) Update(ctx context.Context, roadmapID string, fn func(p *model.Progress) error) (*model.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byRoadmap[roadmapID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	work := cur.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	r.byRoadmap[roadmapID] = work
	return work.Clone(), nil
}

func (r *ProgressRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byRoadmap), nil
}
