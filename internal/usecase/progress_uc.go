package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"ai-study-guide/internal/domain"
	"ai-study-guide/internal/domain/model"
	"ai-study-guide/internal/domain/ports/repository"
	"ai-study-guide/internal/infra/logging"
	"ai-study-guide/internal/infra/metrics"
)

// Compile-time check
var _ ProgressUseCase = (*progressUC)(nil)

// ProgressUpdate is one reported study event.
type ProgressUpdate struct {
	RoadmapID string
	TaskID    string
	Completed bool
	TimeSpent int // minutes
}

// GoalAdjustment changes the weekly commitment (and optionally the deadline)
// recorded on a roadmap. Tracks already built are left as they are.
type GoalAdjustment struct {
	RoadmapID         string
	NewTimeCommitment float64
	NewDeadline       *string
}

type ProgressUseCase interface {
	// SelectTrack marks the track on the roadmap and starts progress from zero.
	// It returns the progress id, which equals the roadmap id.
	SelectTrack(ctx context.Context, roadmapID string, track model.TrackName) (string, error)
	Update(ctx context.Context, u ProgressUpdate) (*model.Progress, error)
	// Get returns progress after applying (and persisting) streak decay.
	Get(ctx context.Context, roadmapID string) (*model.Progress, error)
	AdjustGoals(ctx context.Context, a GoalAdjustment) error
}

type progressUC struct {
	roadmaps repository.RoadmapRepository
	progress repository.ProgressRepository
	now      Clock
	log      *zerolog.Logger
}

func NewProgressUseCase(roadmaps repository.RoadmapRepository, progress repository.ProgressRepository, now Clock, logger *zerolog.Logger) *progressUC {
	return &progressUC{roadmaps: roadmaps, progress: progress, now: clockOrNow(now), log: loggerOrNop(logger)}
}

func (u *progressUC) SelectTrack(ctx context.Context, roadmapID string, track model.TrackName) (string, error) {
	defer logging.TraceDuration(u.log, "ProgressUC.SelectTrack")()

	if _, err := u.roadmaps.Update(ctx, roadmapID, func(rm *model.Roadmap) error {
		return rm.Select(track)
	}); err != nil {
		return "", err
	}
	p, err := model.NewProgress(roadmapID, track)
	if err != nil {
		return "", err
	}
	if err := u.progress.Put(ctx, p); err != nil {
		return "", err
	}

	metrics.IncTrackSelected(string(track))
	logging.With(logging.WithRoadmapID(ctx, roadmapID), u.log).Info().Str("track", string(track)).Msg("track selected")
	return roadmapID, nil
}

func (u *progressUC) Update(ctx context.Context, in ProgressUpdate) (*model.Progress, error) {
	defer logging.TraceDuration(u.log, "ProgressUC.Update")()

	if in.TimeSpent < 0 {
		return nil, fmt.Errorf("time spent must not be negative: %w", domain.ErrInvalidArgument)
	}
	now := u.now()
	p, err := u.progress.Update(ctx, in.RoadmapID, func(p *model.Progress) error {
		return p.RecordStudy(in.Completed, in.TimeSpent, now)
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveStudyEvent(in.Completed, in.TimeSpent)
	logging.With(logging.WithRoadmapID(ctx, in.RoadmapID), u.log).Debug().
		Str("task_id", in.TaskID).
		Bool("completed", in.Completed).
		Int("streak", p.Streak).
		Int("completion", p.CompletionPercentage).
		Msg("progress updated")
	return p, nil
}

func (u *progressUC) Get(ctx context.Context, roadmapID string) (*model.Progress, error) {
	defer logging.TraceDuration(u.log, "ProgressUC.Get")()

	now := u.now()
	decayed := false
	p, err := u.progress.Update(ctx, roadmapID, func(p *model.Progress) error {
		decayed = p.DecayStreak(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if decayed {
		metrics.IncStreakDecayed()
		logging.With(logging.WithRoadmapID(ctx, roadmapID), u.log).Info().Msg("streak reset after missed day")
	}
	return p, nil
}

func (u *progressUC) AdjustGoals(ctx context.Context, a GoalAdjustment) error {
	defer logging.TraceDuration(u.log, "ProgressUC.AdjustGoals")()

	if a.NewTimeCommitment <= 0 {
		return fmt.Errorf("time commitment must be positive: %w", domain.ErrInvalidArgument)
	}
	_, err := u.roadmaps.Update(ctx, a.RoadmapID, func(rm *model.Roadmap) error {
		rm.Request.TimeCommitment = a.NewTimeCommitment
		if a.NewDeadline != nil && *a.NewDeadline != "" {
			d := *a.NewDeadline
			rm.Request.Deadline = &d
		}
		return nil
	})
	if err != nil {
		return err
	}
	logging.With(logging.WithRoadmapID(ctx, a.RoadmapID), u.log).Info().
		Float64("time_commitment", a.NewTimeCommitment).
		Msg("goals adjusted")
	return nil
}
