package model

import (
	"fmt"
	"math"

	"ai-study-guide/internal/domain"
)

// Total study hours needed to finish a roadmap, by starting level.
var baseHours = map[SkillLevel]float64{
	SkillBeginner:     200,
	SkillIntermediate: 150,
	SkillAdvanced:     100,
}

const defaultBaseHours = 150

// CalculateDuration turns a weekly study budget into a human-readable estimate.
// Weeks are floored; under 4 weeks reads as weeks, under 52 as whole months
// (weeks/4), otherwise whole years (weeks/52). The level must match one of the
// three constants exactly; anything else uses the default base.
func CalculateDuration(hoursPerWeek float64, level SkillLevel) (string, error) {
	if hoursPerWeek <= 0 || math.IsNaN(hoursPerWeek) || math.IsInf(hoursPerWeek, 0) {
		return "", fmt.Errorf("hours per week must be positive: %w", domain.ErrInvalidArgument)
	}
	total, ok := baseHours[level]
	if !ok {
		total = defaultBaseHours
	}
	// kept as float: tiny commitments give week counts far beyond int range
	weeks := math.Floor(total / hoursPerWeek)
	if math.IsInf(weeks, 0) {
		return "", fmt.Errorf("hours per week too small: %w", domain.ErrInvalidArgument)
	}

	switch {
	case weeks < 4:
		return fmt.Sprintf("%d weeks", int(weeks)), nil
	case weeks < 52:
		return fmt.Sprintf("%d months", int(weeks)/4), nil
	default:
		return fmt.Sprintf("%.0f years", math.Floor(weeks/52)), nil
	}
}
