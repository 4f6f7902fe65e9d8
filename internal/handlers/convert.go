package handlers

import (
	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/services"
)

func candidateResults(batch services.RankedBatch) []models.CandidateResult {
	out := make([]models.CandidateResult, 0, len(batch))
	for i, rec := range batch {
		out = append(out, models.CandidateResult{
			Rank:       i + 1,
			Filename:   rec.Filename,
			Name:       rec.Name,
			Email:      rec.Email,
			Phone:      rec.Phone,
			Skills:     rec.Skills,
			SkillCount: rec.SkillCount,
			JDMatch:    rec.JDMatch,
			ATSScore:   rec.ATSScore,
			Links:      rec.Links,
		})
	}
	return out
}

func failureResults(failures []services.DocumentFailure) []models.FailureResult {
	out := make([]models.FailureResult, 0, len(failures))
	for _, f := range failures {
		out = append(out, models.FailureResult{Filename: f.Filename, Reason: f.Reason})
	}
	return out
}

// rankedFromResumes rebuilds a ranked batch from rows already in rank order.
func rankedFromResumes(resumes []models.Resume) services.RankedBatch {
	batch := make(services.RankedBatch, 0, len(resumes))
	for _, r := range resumes {
		batch = append(batch, services.RecordFromResume(r))
	}
	return batch
}
