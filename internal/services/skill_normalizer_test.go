package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Sample(t *testing.T) {
	n := NewSkillNormalizer(DefaultVocabulary())

	skills := n.Normalize(sampleResume)

	assert.Equal(t, SkillSet{"Python", "AWS", "Amazon Web Services"}, skills)
}

func TestNormalize(t *testing.T) {
	n := NewSkillNormalizer(DefaultVocabulary())

	tests := []struct {
		name string
		text string
		want SkillSet
	}{
		{name: "empty", text: "", want: SkillSet{}},
		{name: "case insensitive", text: "PYTHON and linux", want: SkillSet{"Python", "Linux"}},
		{name: "abbreviation", text: "NLP research", want: SkillSet{"Natural Language Processing"}},
		{name: "javascript contains java and js", text: "JavaScript", want: SkillSet{"Java", "JavaScript"}},
		{name: "substring false positive", text: "she said hello", want: SkillSet{"Artificial Intelligence"}},
		{name: "dedup base and abbreviation", text: "ml and machine learning", want: SkillSet{"Machine Learning"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, n.Normalize(tt.text))
		})
	}
}

func TestNormalize_WordBoundaries(t *testing.T) {
	n := NewSkillNormalizer(DefaultVocabulary(), WithWordBoundaries())

	assert.Empty(t, n.Normalize("she said hello"))
	assert.Equal(t, SkillSet{"Artificial Intelligence"}, n.Normalize("applied AI"))
}

// Feeding the joined output back in never adds skills and settles after one
// round. Abbreviation-only skills such as NLP drop out on the way.
func TestNormalize_Reapplied(t *testing.T) {
	n := NewSkillNormalizer(DefaultVocabulary())

	inputs := []string{
		sampleResume,
		"JavaScript, SQL and ML",
		"Cybersecurity on Linux with NLP",
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once.String())
		assert.ElementsMatch(t, n.Normalize(twice.String()), twice, in)
		assert.Subset(t, once, twice, in)
	}
}

func TestNormalize_NoDuplicates(t *testing.T) {
	n := NewSkillNormalizer(DefaultVocabulary())

	skills := n.Normalize("python Python PYTHON aws AWS")

	seen := map[string]bool{}
	for _, s := range skills {
		assert.False(t, seen[s], "duplicate %s", s)
		seen[s] = true
	}
}

func TestSkillSet(t *testing.T) {
	s := SkillSet{"Python", "AWS"}

	assert.True(t, s.Contains("python"))
	assert.False(t, s.Contains("Java"))
	assert.Equal(t, "Python, AWS", s.String())
}

func TestLoadVocabulary(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "skills.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{
		"base_skills": ["Go", "Kubernetes"],
		"abbreviations": [{"key": "k8s", "skill": "Kubernetes"}]
	}`), 0o644))

	v, err := LoadVocabulary(valid)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Kubernetes"}, v.BaseSkills)

	n := NewSkillNormalizer(v)
	assert.Equal(t, SkillSet{"Kubernetes"}, n.Normalize("ran K8S clusters"))

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{}`), 0o644))
	_, err = LoadVocabulary(empty)
	assert.Error(t, err)

	blank := filepath.Join(dir, "blank.json")
	require.NoError(t, os.WriteFile(blank, []byte(`{"base_skills": ["Go", ""]}`), 0o644))
	_, err = LoadVocabulary(blank)
	assert.Error(t, err)

	noSkill := filepath.Join(dir, "noskill.json")
	require.NoError(t, os.WriteFile(noSkill, []byte(`{"abbreviations": [{"key": "k8s"}]}`), 0o644))
	_, err = LoadVocabulary(noSkill)
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0o644))
	_, err = LoadVocabulary(broken)
	assert.Error(t, err)

	_, err = LoadVocabulary(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestVocabularyValidate_Default(t *testing.T) {
	assert.NoError(t, DefaultVocabulary().Validate())
}
