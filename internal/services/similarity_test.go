package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJDSimilarity(t *testing.T) {
	tests := []struct {
		name   string
		resume string
		jd     string
		check  func(t *testing.T, got float64)
	}{
		{
			name:   "identical text",
			resume: "Python and AWS engineer",
			jd:     "Python and AWS engineer",
			check: func(t *testing.T, got float64) {
				assert.InDelta(t, 100.0, got, 1e-9)
			},
		},
		{
			name:   "disjoint vocabulary",
			resume: "gardening and cooking",
			jd:     "Kubernetes operator",
			check: func(t *testing.T, got float64) {
				assert.Equal(t, 0.0, got)
			},
		},
		{
			name:   "empty resume",
			resume: "",
			jd:     "Python developer",
			check: func(t *testing.T, got float64) {
				assert.Equal(t, 0.0, got)
			},
		},
		{
			name:   "empty job description",
			resume: "Python developer",
			jd:     "   ",
			check: func(t *testing.T, got float64) {
				assert.Equal(t, 0.0, got)
			},
		},
		{
			name:   "single letter tokens ignored",
			resume: "a b c",
			jd:     "a b c",
			check: func(t *testing.T, got float64) {
				assert.Equal(t, 0.0, got)
			},
		},
		{
			name:   "partial overlap",
			resume: sampleResume,
			jd:     "Looking for a Python and AWS expert",
			check: func(t *testing.T, got float64) {
				assert.Greater(t, got, 0.0)
				assert.Less(t, got, 100.0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, JDSimilarity(tt.resume, tt.jd))
		})
	}
}

func TestJDSimilarity_Symmetric(t *testing.T) {
	a := "Go developer building Kubernetes operators in Go"
	b := "We need a Kubernetes engineer who writes Go"

	assert.InDelta(t, JDSimilarity(a, b), JDSimilarity(b, a), 1e-9)
}

func TestJDSimilarity_CaseInsensitive(t *testing.T) {
	assert.InDelta(t,
		JDSimilarity("PYTHON AWS", "python aws"),
		100.0,
		1e-9,
	)
}

// Shared terms get weight 1 and unshared terms ln(1.5)+1, so the score can
// be checked by hand for a small pair.
func TestJDSimilarity_KnownValue(t *testing.T) {
	// resume {python:1, go:1}, jd {python:1}
	// weights: python 1, go 1+ln(1.5)
	got := JDSimilarity("python go", "python")

	goW := 1 + math.Log(1.5)
	want := 100 / math.Sqrt(1+goW*goW)
	assert.InDelta(t, want, got, 1e-9)
}

