package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"ai-study-guide/internal/domain"
	"ai-study-guide/internal/domain/model"
	"ai-study-guide/internal/domain/ports/repository"
	"ai-study-guide/internal/infra/logging"
	"ai-study-guide/internal/infra/metrics"
)

// Compile-time check
var _ RoadmapUseCase = (*roadmapUC)(nil)

type RoadmapUseCase interface {
	Generate(ctx context.Context, req model.RoadmapRequest) (*model.Roadmap, error)
	Get(ctx context.Context, id string) (*model.Roadmap, error)
}

type roadmapUC struct {
	roadmaps repository.RoadmapRepository
	now      Clock
	log      *zerolog.Logger
}

func NewRoadmapUseCase(roadmaps repository.RoadmapRepository, now Clock, logger *zerolog.Logger) *roadmapUC {
	return &roadmapUC{roadmaps: roadmaps, now: clockOrNow(now), log: loggerOrNop(logger)}
}

// Generate builds the three tracks for req and stores the roadmap. The request
// is stored as given apart from defaults; unknown skill levels are not
// normalized and fall back inside the calculators.
func (u *roadmapUC) Generate(ctx context.Context, req model.RoadmapRequest) (*model.Roadmap, error) {
	defer logging.TraceDuration(u.log, "RoadmapUC.Generate")()

	if req.Budget == "" {
		req.Budget = "free"
	}
	if req.LearningStyles == nil {
		req.LearningStyles = []string{}
	}

	tracks, err := model.BuildTracks(req)
	if err != nil {
		return nil, err
	}
	now := u.now()
	rm, err := model.NewRoadmap(domain.NewRoadmapID(now), req, tracks, now)
	if err != nil {
		return nil, err
	}
	if err := u.roadmaps.Save(ctx, rm); err != nil {
		return nil, err
	}

	metrics.IncRoadmapGenerated(string(req.SkillLevel))
	logging.With(logging.WithRoadmapID(ctx, rm.ID), u.log).Info().
		Str("skill_level", string(req.SkillLevel)).
		Float64("time_commitment", req.TimeCommitment).
		Msg("roadmap generated")
	return rm, nil
}

func (u *roadmapUC) Get(ctx context.Context, id string) (*model.Roadmap, error) {
	defer logging.TraceDuration(u.log, "RoadmapUC.Get")()
	return u.roadmaps.FindByID(ctx, id)
}
