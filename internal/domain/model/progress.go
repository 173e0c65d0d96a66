package model

import (
	"fmt"
	"time"

	"ai-study-guide/internal/domain"
)

const (
	// DateLayout is how study dates are stored and rendered.
	DateLayout = "2006-01-02"

	completionStep = 5
	maxCompletion  = 100
)

// Progress tracks a learner's advance through the selected track of one roadmap.
//
// State lives in the counters; transitions are RecordStudy (a study event),
// DecayStreak (read-time streak correction); (re)selecting a track starts over
// from NewProgress.
type Progress struct {
	RoadmapID            string    `json:"roadmap_id"`
	Track                TrackName `json:"track"`
	CompletionPercentage int       `json:"completion_percentage"`
	CurrentPhase         int       `json:"current_phase"`
	Streak               int       `json:"streak"`
	TotalTimeSpent       int       `json:"total_time_spent"` // minutes
	LastStudyDate        *string   `json:"last_study_date"`
	Tasks                []string  `json:"tasks"`
	Milestones           []string  `json:"milestones"`
}

// NewProgress returns the zero state for a freshly selected track.
func NewProgress(roadmapID string, track TrackName) (*Progress, error) {
	if roadmapID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !track.Valid() {
		return nil, fmt.Errorf("unknown track %q: %w", track, domain.ErrInvalidArgument)
	}
	return &Progress{
		RoadmapID:  roadmapID,
		Track:      track,
		Tasks:      []string{},
		Milestones: []string{},
	}, nil
}

// RecordStudy applies one study event at time now:
// time spent accumulates, the streak advances at most once per calendar day
// (continuing only from yesterday, restarting at 1 otherwise) and a completed
// task adds a fixed step to completion, capped at 100.
func (p *Progress) RecordStudy(completed bool, minutes int, now time.Time) error {
	if minutes < 0 {
		return fmt.Errorf("time spent must not be negative: %w", domain.ErrInvalidArgument)
	}
	p.TotalTimeSpent += minutes

	today := now.Format(DateLayout)
	if p.LastStudyDate == nil || *p.LastStudyDate != today {
		if gap, ok := p.daysSinceLastStudy(now); ok && gap == 1 {
			p.Streak++
		} else {
			p.Streak = 1
		}
		p.LastStudyDate = &today
	}

	if completed {
		p.CompletionPercentage = min(maxCompletion, p.CompletionPercentage+completionStep)
	}
	return nil
}

// DecayStreak zeroes the streak when more than one full day has passed since
// the last study event. It reports whether the record changed.
func (p *Progress) DecayStreak(now time.Time) bool {
	gap, ok := p.daysSinceLastStudy(now)
	if !ok || gap <= 1 || p.Streak == 0 {
		return false
	}
	p.Streak = 0
	return true
}

// daysSinceLastStudy counts calendar days between the last study date and now.
// ok is false when there is no (parseable) last study date.
func (p *Progress) daysSinceLastStudy(now time.Time) (int, bool) {
	if p.LastStudyDate == nil {
		return 0, false
	}
	last, err := time.Parse(DateLayout, *p.LastStudyDate)
	if err != nil {
		return 0, false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(today.Sub(last).Hours() / 24), true
}

// Clone returns a deep copy safe to hand out of a repository.
func (p *Progress) Clone() *Progress {
	if p == nil {
		return nil
	}
	cp := *p
	if p.LastStudyDate != nil {
		d := *p.LastStudyDate
		cp.LastStudyDate = &d
	}
	cp.Tasks = append(make([]string, 0, len(p.Tasks)), p.Tasks...)
	cp.Milestones = append(make([]string, 0, len(p.Milestones)), p.Milestones...)
	return &cp
}
