package model

// SkillLevel is the learner's self-reported starting point.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// TrackName identifies one of the three pacing variants of a roadmap.
type TrackName string

const (
	TrackIntensive TrackName = "intensive"
	TrackBalanced  TrackName = "balanced"
	TrackRelaxed   TrackName = "relaxed"
)

// TrackNames lists the tracks in the order they are presented.
var TrackNames = []TrackName{TrackIntensive, TrackBalanced, TrackRelaxed}

func (t TrackName) Valid() bool {
	switch t {
	case TrackIntensive, TrackBalanced, TrackRelaxed:
		return true
	}
	return false
}
