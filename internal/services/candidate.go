package services

// DocumentInput is résumé text that has already been extracted from its
// source file.
type DocumentInput struct {
	DocumentID string
	Filename   string
	Text       string
}

// SourceDocument is a stored résumé file that still needs text extraction.
type SourceDocument struct {
	DocumentID string
	Filename   string
	Path       string
}

// CandidateRecord is the scored, structured view of one résumé.
type CandidateRecord struct {
	DocumentID string   `json:"document_id,omitempty"`
	Filename   string   `json:"filename"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Links      []string `json:"links"`
	Skills     SkillSet `json:"skills"`
	SkillCount int      `json:"skill_count"`
	JDMatch    float64  `json:"jd_match"`
	ATSScore   float64  `json:"ats_score"`

	// Text is the extracted résumé text. It feeds the candidate index and
	// is never serialized.
	Text string `json:"-"`
}

// HasLinks reports whether at least one link was found.
func (r CandidateRecord) HasLinks() bool {
	return len(r.Links) > 0
}

// RankedBatch is a set of records ordered by ATS score, highest first.
type RankedBatch []CandidateRecord

// DocumentFailure is a document that dropped out of a batch.
type DocumentFailure struct {
	DocumentID string `json:"document_id,omitempty"`
	Filename   string `json:"filename"`
	Reason     string `json:"reason"`
	Err        error  `json:"-"`
}

// BatchResult holds the ranked successes and the failures of one batch.
// Failures keep input order.
type BatchResult struct {
	Ranked   RankedBatch       `json:"ranked"`
	Failures []DocumentFailure `json:"failures"`
}
