//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"ai-study-guide/internal/domain"
)

func day(n int) time.Time {
	return time.Date(2025, time.March, n, 14, 30, 0, 0, time.Local)
}

func newTestProgress(t *testing.T) *Progress {
	t.Helper()
	p, err := NewProgress("roadmap_1", TrackBalanced)
	if err != nil {
		t.Fatalf("NewProgress: %v", err)
	}
	return p
}

func TestNewProgress(t *testing.T) {
	t.Run("should start from the zero state", func(t *testing.T) {
		p := newTestProgress(t)
		if p.CompletionPercentage != 0 || p.CurrentPhase != 0 || p.Streak != 0 || p.TotalTimeSpent != 0 {
			t.Errorf("expected zero counters, got %+v", p)
		}
		if p.LastStudyDate != nil {
			t.Errorf("expected no last study date, got %v", *p.LastStudyDate)
		}
		if p.Tasks == nil || p.Milestones == nil {
			t.Error("tasks and milestones should be empty, not nil")
		}
	})

	t.Run("should fail with invalid arguments", func(t *testing.T) {
		if _, err := NewProgress("", TrackBalanced); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("empty id: expected ErrInvalidArgument, got %v", err)
		}
		if _, err := NewProgress("roadmap_1", "turbo"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("bad track: expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestProgress_RecordStudy(t *testing.T) {
	t.Run("should follow the streak scenario", func(t *testing.T) {
		p := newTestProgress(t)

		_ = p.RecordStudy(true, 30, day(1))
		if p.Streak != 1 || p.CompletionPercentage != 5 {
			t.Fatalf("day 1: expected streak=1 completion=5, got streak=%d completion=%d", p.Streak, p.CompletionPercentage)
		}

		_ = p.RecordStudy(false, 10, day(2))
		if p.Streak != 2 {
			t.Fatalf("day 2: expected streak=2, got %d", p.Streak)
		}

		_ = p.RecordStudy(false, 10, day(4))
		if p.Streak != 1 {
			t.Fatalf("day 4 after a gap: expected streak=1, got %d", p.Streak)
		}
		if p.TotalTimeSpent != 50 {
			t.Errorf("expected 50 minutes in total, got %d", p.TotalTimeSpent)
		}
		if *p.LastStudyDate != day(4).Format(DateLayout) {
			t.Errorf("unexpected last study date %q", *p.LastStudyDate)
		}
	})

	t.Run("should leave the streak unchanged on the same day", func(t *testing.T) {
		p := newTestProgress(t)
		_ = p.RecordStudy(false, 0, day(1))
		_ = p.RecordStudy(false, 0, day(2))
		_ = p.RecordStudy(false, 0, day(2).Add(3*time.Hour))
		if p.Streak != 2 {
			t.Errorf("expected streak=2, got %d", p.Streak)
		}
	})

	t.Run("should restart the streak after a future last study date", func(t *testing.T) {
		p := newTestProgress(t)
		_ = p.RecordStudy(false, 0, day(10))
		_ = p.RecordStudy(false, 0, day(11))
		_ = p.RecordStudy(false, 0, day(5))
		if p.Streak != 1 {
			t.Errorf("expected streak=1, got %d", p.Streak)
		}
	})

	t.Run("should cap completion at 100", func(t *testing.T) {
		p := newTestProgress(t)
		for i := 0; i < 25; i++ {
			_ = p.RecordStudy(true, 1, day(1))
		}
		if p.CompletionPercentage != 100 {
			t.Errorf("expected completion=100, got %d", p.CompletionPercentage)
		}
	})

	t.Run("should not change completion for unfinished tasks", func(t *testing.T) {
		p := newTestProgress(t)
		_ = p.RecordStudy(false, 45, day(1))
		if p.CompletionPercentage != 0 {
			t.Errorf("expected completion=0, got %d", p.CompletionPercentage)
		}
	})

	t.Run("should reject negative time", func(t *testing.T) {
		p := newTestProgress(t)
		if err := p.RecordStudy(false, -5, day(1)); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if p.Streak != 0 || p.LastStudyDate != nil {
			t.Error("rejected event must not touch the record")
		}
	})
}

func TestProgress_DecayStreak(t *testing.T) {
	t.Run("should zero the streak after a missed day", func(t *testing.T) {
		p := newTestProgress(t)
		_ = p.RecordStudy(false, 0, day(1))
		if !p.DecayStreak(day(3)) {
			t.Fatal("expected decay to report a change")
		}
		if p.Streak != 0 {
			t.Errorf("expected streak=0, got %d", p.Streak)
		}
	})

	t.Run("should keep the streak through the next day", func(t *testing.T) {
		p := newTestProgress(t)
		_ = p.RecordStudy(false, 0, day(1))
		if p.DecayStreak(day(2)) || p.Streak != 1 {
			t.Errorf("expected streak=1 to survive, got %d", p.Streak)
		}
	})

	t.Run("should ignore records without a study date", func(t *testing.T) {
		p := newTestProgress(t)
		if p.DecayStreak(day(20)) {
			t.Error("expected no change")
		}
	})
}

func TestProgress_Clone(t *testing.T) {
	p := newTestProgress(t)
	_ = p.RecordStudy(true, 5, day(1))
	cp := p.Clone()
	*cp.LastStudyDate = "1999-01-01"
	cp.Streak = 42
	if *p.LastStudyDate == "1999-01-01" || p.Streak == 42 {
		t.Error("clone shares state with original")
	}
}
