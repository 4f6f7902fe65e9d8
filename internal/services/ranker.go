package services

import "sort"

// Rank orders records by ATS score, highest first. Records with equal
// scores keep their input order. The input slice is not modified.
func Rank(records []CandidateRecord) RankedBatch {
	out := make(RankedBatch, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ATSScore > out[j].ATSScore
	})

	return out
}
