package model

import (
	"fmt"
	"strings"
	"time"

	"ai-study-guide/internal/domain"
)

// RoadmapRequest is what a learner submits to get a roadmap generated.
type RoadmapRequest struct {
	LearningGoal   string     `json:"learning_goal"`
	TimeCommitment float64    `json:"time_commitment"` // hours per week
	SkillLevel     SkillLevel `json:"skill_level"`
	LearningStyles []string   `json:"learning_styles"`
	Deadline       *string    `json:"deadline"`
	Budget         string     `json:"budget"`
}

// Track is one pacing variant of a roadmap. Immutable once built.
type Track struct {
	Title        string  `json:"title"`
	Duration     string  `json:"duration"`
	HoursPerWeek float64 `json:"hours_per_week"`
	Description  string  `json:"description"`
	Phases       []Phase `json:"phases"`
}

// Roadmap is the stored record: the request snapshot plus the three generated tracks.
type Roadmap struct {
	ID            string              `json:"id"`
	Request       RoadmapRequest      `json:"request"`
	Tracks        map[TrackName]Track `json:"roadmaps"`
	CreatedAt     time.Time           `json:"created_at"`
	SelectedTrack *TrackName          `json:"selected_track"`
}

type trackSpec struct {
	multiplier  float64
	label       string
	description string
}

var trackSpecs = map[TrackName]trackSpec{
	TrackIntensive: {1.5, "Intensive", "Fast-paced learning with focused daily practice"},
	TrackBalanced:  {1.0, "Balanced", "Steady progress with sustainable learning pace"},
	TrackRelaxed:   {0.6, "Relaxed", "Gentle learning curve with flexibility"},
}

// TrackMultiplier reports the weekly-hours multiplier applied for a track.
func TrackMultiplier(name TrackName) float64 {
	return trackSpecs[name].multiplier
}

// Validate checks the fields the builder depends on.
func (r RoadmapRequest) Validate() error {
	if strings.TrimSpace(r.LearningGoal) == "" {
		return fmt.Errorf("learning goal is required: %w", domain.ErrInvalidArgument)
	}
	if r.TimeCommitment <= 0 {
		return fmt.Errorf("time commitment must be positive: %w", domain.ErrInvalidArgument)
	}
	return nil
}

// BuildTracks derives the intensive, balanced and relaxed tracks for a request.
// All three share the same phases; only weekly hours and duration differ.
func BuildTracks(req RoadmapRequest) (map[TrackName]Track, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	out := make(map[TrackName]Track, len(trackSpecs))
	for _, name := range TrackNames {
		spec := trackSpecs[name]
		hours := req.TimeCommitment * spec.multiplier
		dur, err := CalculateDuration(hours, req.SkillLevel)
		if err != nil {
			return nil, err
		}
		out[name] = Track{
			Title:        fmt.Sprintf("%s - %s Track", req.LearningGoal, spec.label),
			Duration:     dur,
			HoursPerWeek: hours,
			Description:  spec.description,
			Phases:       PhasesFor(req.SkillLevel),
		}
	}
	return out, nil
}

func NewRoadmap(id string, req RoadmapRequest, tracks map[TrackName]Track, now time.Time) (*Roadmap, error) {
	if id == "" || len(tracks) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Roadmap{
		ID:        id,
		Request:   req.clone(),
		Tracks:    tracks,
		CreatedAt: now,
	}, nil
}

// Select marks a track as chosen. Re-selection is allowed.
func (r *Roadmap) Select(name TrackName) error {
	if !name.Valid() {
		return fmt.Errorf("unknown track %q: %w", name, domain.ErrInvalidArgument)
	}
	r.SelectedTrack = &name
	return nil
}

// Clone returns a deep copy safe to hand out of a repository.
func (r *Roadmap) Clone() *Roadmap {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Request = r.Request.clone()
	cp.Tracks = make(map[TrackName]Track, len(r.Tracks))
	for k, t := range r.Tracks {
		phases := make([]Phase, len(t.Phases))
		for i, p := range t.Phases {
			phases[i] = Phase{Name: p.Name, Duration: p.Duration, Topics: append([]string(nil), p.Topics...)}
		}
		t.Phases = phases
		cp.Tracks[k] = t
	}
	if r.SelectedTrack != nil {
		sel := *r.SelectedTrack
		cp.SelectedTrack = &sel
	}
	return &cp
}

func (r RoadmapRequest) clone() RoadmapRequest {
	cp := r
	if r.LearningStyles != nil {
		cp.LearningStyles = append(make([]string, 0, len(r.LearningStyles)), r.LearningStyles...)
	}
	if r.Deadline != nil {
		d := *r.Deadline
		cp.Deadline = &d
	}
	return cp
}
