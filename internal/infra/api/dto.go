package api

import "ai-study-guide/internal/domain/model"

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=8000"`
	Mode    string `json:"mode" validate:"max=32"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

type RoadmapRequest struct {
	LearningGoal   string   `json:"learning_goal" validate:"required,max=500"`
	TimeCommitment float64  `json:"time_commitment" validate:"gt=0"`
	SkillLevel     string   `json:"skill_level" validate:"required"`
	LearningStyles []string `json:"learning_styles" validate:"dive,max=64"`
	Deadline       *string  `json:"deadline"`
	Budget         string   `json:"budget"`
}

func (r RoadmapRequest) toModel() model.RoadmapRequest {
	return model.RoadmapRequest{
		LearningGoal:   r.LearningGoal,
		TimeCommitment: r.TimeCommitment,
		SkillLevel:     model.SkillLevel(r.SkillLevel),
		LearningStyles: r.LearningStyles,
		Deadline:       r.Deadline,
		Budget:         r.Budget,
	}
}

type RoadmapGenerated struct {
	RoadmapID string                          `json:"roadmap_id"`
	Roadmaps  map[model.TrackName]model.Track `json:"roadmaps"`
}

type SelectTrackRequest struct {
	TrackType string `json:"track_type" validate:"required,oneof=intensive balanced relaxed"`
}

type ProgressUpdateRequest struct {
	RoadmapID string `json:"roadmap_id" validate:"required"`
	TaskID    string `json:"task_id"`
	Completed bool   `json:"completed"`
	TimeSpent int    `json:"time_spent" validate:"gte=0"`
}

// GoalAdjustmentRequest carries roadmap_id for compatibility; the id in the
// URL path is the one applied.
type GoalAdjustmentRequest struct {
	RoadmapID         string  `json:"roadmap_id"`
	NewTimeCommitment float64 `json:"new_time_commitment" validate:"gt=0"`
	NewDeadline       *string `json:"new_deadline"`
}

type statusResponse struct {
	Status     string          `json:"status"`
	ProgressID string          `json:"progress_id,omitempty"`
	Progress   *model.Progress `json:"progress,omitempty"`
	Message    string          `json:"message,omitempty"`
}
