package services

import (
	"math"
	"regexp"
	"strings"
)

// Runs of two or more word characters, the same tokens a default TF-IDF
// vectorizer keeps.
var tokenRe = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// SimilarityFunc scores résumé text against a job description, 0-100.
type SimilarityFunc func(resume, jd string) float64

// JDSimilarity returns the TF-IDF cosine similarity of resume and jd as a
// percentage. The IDF weights come from the two-document corpus
// {resume, jd} only, so every pair is scored independently of the rest of
// its batch. Empty input or no shared vocabulary yields 0.
func JDSimilarity(resume, jd string) float64 {
	resumeTF := termCounts(resume)
	jdTF := termCounts(jd)
	if len(resumeTF) == 0 || len(jdTF) == 0 {
		return 0
	}

	const corpusSize = 2.0
	idf := func(term string) float64 {
		df := 0.0
		if _, ok := resumeTF[term]; ok {
			df++
		}
		if _, ok := jdTF[term]; ok {
			df++
		}
		// smoothed idf: ln((1+n)/(1+df)) + 1
		return math.Log((1+corpusSize)/(1+df)) + 1
	}

	var resumeNorm, jdNorm, dot float64
	for term, tf := range resumeTF {
		w := tf * idf(term)
		resumeNorm += w * w
		if jtf, ok := jdTF[term]; ok {
			dot += w * jtf * idf(term)
		}
	}
	for term, tf := range jdTF {
		w := tf * idf(term)
		jdNorm += w * w
	}

	if dot == 0 || resumeNorm == 0 || jdNorm == 0 {
		return 0
	}

	cosine := dot / (math.Sqrt(resumeNorm) * math.Sqrt(jdNorm))
	return math.Min(100, math.Max(0, cosine*100))
}

func termCounts(text string) map[string]float64 {
	counts := make(map[string]float64)
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		counts[tok]++
	}
	return counts
}
