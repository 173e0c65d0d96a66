package memory

import (
	"context"
	"sync"

	"ai-study-guide/internal/domain"
	"ai-study-guide/internal/domain/model"
	"ai-study-guide/internal/domain/ports/repository"
)

var _ repository.RoadmapRepository = (*RoadmapRepo)(nil)

// RoadmapRepo keeps roadmaps in process memory. Contents are lost on restart.
type RoadmapRepo struct {
	mu   sync.RWMutex
	byID map[string]*model.Roadmap
}

func NewRoadmapRepo() *RoadmapRepo {
	return &RoadmapRepo{byID: map[string]*model.Roadmap{}}
}

func (r *RoadmapRepo) Save(ctx context.Context, rm *model.Roadmap) error {
	if rm == nil || rm.ID == "" {
		return domain.ErrInvalidArgument
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rm.ID] = rm.Clone()
	return nil
}

func (r *RoadmapRepo) FindByID(ctx context.Context, id string) (*model.Roadmap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rm.Clone(), nil
}

func (r *RoadmapRepo) Update(ctx context.Context, id string, fn func(rm *model.Roadmap) error) (*model.Roadmap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	work := cur.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	r.byID[id] = work
	return work.Clone(), nil
}

func (r *RoadmapRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}
