package model

// Phase is a named stage of a track with an estimated duration and topics.
type Phase struct {
	Name     string   `json:"name"`
	Duration string   `json:"duration"`
	Topics   []string `json:"topics"`
}

var phaseTemplates = map[SkillLevel][]Phase{
	SkillBeginner: {
		{Name: "Foundations", Duration: "2-3 weeks", Topics: []string{"Basics", "Core Concepts", "Setup"}},
		{Name: "Building Blocks", Duration: "3-4 weeks", Topics: []string{"Fundamentals", "Practice", "Tools"}},
		{Name: "Applied Learning", Duration: "4-6 weeks", Topics: []string{"Projects", "Real-world", "Integration"}},
		{Name: "Mastery", Duration: "4-8 weeks", Topics: []string{"Advanced", "Portfolio", "Best Practices"}},
	},
	SkillIntermediate: {
		{Name: "Deep Dive", Duration: "2-3 weeks", Topics: []string{"Advanced Concepts", "Patterns"}},
		{Name: "Specialization", Duration: "4-6 weeks", Topics: []string{"Expert Areas", "Complex Projects"}},
		{Name: "Production Ready", Duration: "3-4 weeks", Topics: []string{"Optimization", "Deployment"}},
	},
	SkillAdvanced: {
		{Name: "Expert Topics", Duration: "3-4 weeks", Topics: []string{"Cutting Edge", "Architecture"}},
		{Name: "Thought Leadership", Duration: "4-6 weeks", Topics: []string{"Innovation", "Contribution"}},
	},
}

// PhasesFor returns a fresh copy of the phase template for a level.
// Unknown levels get the beginner template.
func PhasesFor(level SkillLevel) []Phase {
	tpl, ok := phaseTemplates[level]
	if !ok {
		tpl = phaseTemplates[SkillBeginner]
	}
	out := make([]Phase, len(tpl))
	for i, p := range tpl {
		out[i] = Phase{
			Name:     p.Name,
			Duration: p.Duration,
			Topics:   append([]string(nil), p.Topics...),
		}
	}
	return out
}
