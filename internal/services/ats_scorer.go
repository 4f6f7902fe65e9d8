package services

import "math"

// Composite score weights.
const (
	SkillWeight   = 5.0
	JDMatchWeight = 0.5
	LinkBonus     = 10.0
)

// ATSScore combines skill count, job-match percentage and link presence:
//
//	skillCount*5 + jdMatch*0.5 + (10 if hasLinks)
//
// rounded to two decimals. There is no upper bound.
func ATSScore(skillCount int, jdMatch float64, hasLinks bool) float64 {
	score := float64(skillCount)*SkillWeight + jdMatch*JDMatchWeight
	if hasLinks {
		score += LinkBonus
	}
	return round2(score)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
