package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-ranker/internal/models"
)

// ResumeFromRecord converts a ranked record into its persisted form. rank
// is 1-based.
func ResumeFromRecord(batchID uuid.UUID, rank int, rec CandidateRecord, uploadedAt time.Time) models.Resume {
	return models.Resume{
		ID:         uuid.New(),
		BatchID:    batchID,
		Rank:       rank,
		Filename:   rec.Filename,
		Name:       rec.Name,
		Email:      rec.Email,
		Phone:      rec.Phone,
		Skills:     rec.Skills.String(),
		SkillCount: rec.SkillCount,
		JDMatch:    rec.JDMatch,
		ATSScore:   rec.ATSScore,
		Links:      strings.Join(rec.Links, ", "),
		UploadedAt: uploadedAt,
	}
}

// RecordFromResume rebuilds a record from storage. The source text is not
// stored, so Text stays empty.
func RecordFromResume(r models.Resume) CandidateRecord {
	return CandidateRecord{
		Filename:   r.Filename,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Links:      splitJoined(r.Links),
		Skills:     SkillSet(splitJoined(r.Skills)),
		SkillCount: r.SkillCount,
		JDMatch:    r.JDMatch,
		ATSScore:   r.ATSScore,
	}
}

func splitJoined(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ", ") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
