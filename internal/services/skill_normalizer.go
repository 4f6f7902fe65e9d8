package services

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Abbreviation maps a short lower-case key found in free text to a
// canonical skill name.
type Abbreviation struct {
	Key   string `json:"key" validate:"required,max=32"`
	Skill string `json:"skill" validate:"required,max=100"`
}

// Vocabulary is the controlled skill vocabulary: canonical base skills plus
// an abbreviation table.
type Vocabulary struct {
	BaseSkills    []string       `json:"base_skills" validate:"omitempty,dive,required,max=100"`
	Abbreviations []Abbreviation `json:"abbreviations" validate:"omitempty,dive"`
}

var vocabularyValidator = validator.New()

// DefaultVocabulary returns the built-in vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		BaseSkills: []string{
			"Python", "Java", "Machine Learning", "Artificial Intelligence",
			"Cybersecurity", "JavaScript", "SQL", "AWS", "Linux",
		},
		Abbreviations: []Abbreviation{
			{Key: "ml", Skill: "Machine Learning"},
			{Key: "ai", Skill: "Artificial Intelligence"},
			{Key: "js", Skill: "JavaScript"},
			{Key: "aws", Skill: "Amazon Web Services"},
			{Key: "nlp", Skill: "Natural Language Processing"},
		},
	}
}

// LoadVocabulary reads a vocabulary from a JSON file.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var v Vocabulary
	if err := json.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
	}

	if err := v.Validate(); err != nil {
		return Vocabulary{}, fmt.Errorf("invalid vocabulary file %s: %w", path, err)
	}

	return v, nil
}

// Validate rejects empty vocabularies and blank or oversized entries.
// Entries that are only whitespace pass here and are dropped by
// NewSkillNormalizer.
func (v Vocabulary) Validate() error {
	if len(v.BaseSkills) == 0 && len(v.Abbreviations) == 0 {
		return fmt.Errorf("vocabulary has no skills")
	}
	return vocabularyValidator.Struct(v)
}

// SkillSet is an ordered, duplicate-free list of canonical skill names.
type SkillSet []string

// Contains reports whether name is in the set, ignoring case.
func (s SkillSet) Contains(name string) bool {
	for _, skill := range s {
		if strings.EqualFold(skill, name) {
			return true
		}
	}
	return false
}

// String joins the skills with ", ".
func (s SkillSet) String() string {
	return strings.Join(s, ", ")
}

type NormalizerOption func(*SkillNormalizer)

// WithWordBoundaries makes abbreviation keys match whole words only, so
// "ai" no longer matches inside "said". This changes scores compared to the
// default substring matching.
func WithWordBoundaries() NormalizerOption {
	return func(n *SkillNormalizer) {
		n.wordBoundary = true
	}
}

// SkillNormalizer maps free text onto the canonical vocabulary. It is
// immutable after construction and safe for concurrent use.
type SkillNormalizer struct {
	baseSkills   []string
	baseLower    []string
	abbrevs      []Abbreviation
	abbrevRes    []*regexp.Regexp
	wordBoundary bool
}

func NewSkillNormalizer(v Vocabulary, opts ...NormalizerOption) *SkillNormalizer {
	n := &SkillNormalizer{}
	for _, opt := range opts {
		opt(n)
	}

	for _, skill := range v.BaseSkills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		n.baseSkills = append(n.baseSkills, skill)
		n.baseLower = append(n.baseLower, strings.ToLower(skill))
	}

	for _, a := range v.Abbreviations {
		key := strings.ToLower(strings.TrimSpace(a.Key))
		skill := strings.TrimSpace(a.Skill)
		if key == "" || skill == "" {
			continue
		}
		n.abbrevs = append(n.abbrevs, Abbreviation{Key: key, Skill: skill})
		if n.wordBoundary {
			n.abbrevRes = append(n.abbrevRes, regexp.MustCompile(`\b`+regexp.QuoteMeta(key)+`\b`))
		}
	}

	return n
}

// Normalize returns the canonical skills mentioned in text. Base skills are
// matched as case-insensitive substrings; abbreviation keys are matched as
// substrings of the lower-cased text (whole words with WithWordBoundaries).
// Base skills come first in vocabulary order, then abbreviation expansions
// in table order.
func (n *SkillNormalizer) Normalize(text string) SkillSet {
	lower := strings.ToLower(text)
	found := SkillSet{}
	seen := make(map[string]bool)

	add := func(skill string) {
		key := strings.ToLower(skill)
		if seen[key] {
			return
		}
		seen[key] = true
		found = append(found, skill)
	}

	for i, skill := range n.baseSkills {
		if strings.Contains(lower, n.baseLower[i]) {
			add(skill)
		}
	}

	for i, a := range n.abbrevs {
		var ok bool
		if n.wordBoundary {
			ok = n.abbrevRes[i].MatchString(lower)
		} else {
			ok = strings.Contains(lower, a.Key)
		}
		if ok {
			add(a.Skill)
		}
	}

	return found
}
