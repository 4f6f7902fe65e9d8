package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestATSScore(t *testing.T) {
	tests := []struct {
		name       string
		skillCount int
		jdMatch    float64
		hasLinks   bool
		want       float64
	}{
		{name: "zero", want: 0},
		{name: "skills only", skillCount: 3, want: 15},
		{name: "match only", jdMatch: 42.5, want: 21.25},
		{name: "links bonus", hasLinks: true, want: 10},
		{name: "all parts", skillCount: 2, jdMatch: 30, hasLinks: true, want: 35},
		{name: "rounded", skillCount: 1, jdMatch: 33.334, want: 21.67},
		{name: "unbounded", skillCount: 40, jdMatch: 100, hasLinks: true, want: 260},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, ATSScore(tt.skillCount, tt.jdMatch, tt.hasLinks), 1e-9)
		})
	}
}

func TestATSScore_Monotonic(t *testing.T) {
	base := ATSScore(2, 40, false)

	assert.Greater(t, ATSScore(3, 40, false), base)
	assert.Greater(t, ATSScore(2, 41, false), base)
	assert.InDelta(t, base+LinkBonus, ATSScore(2, 40, true), 1e-9)
}
