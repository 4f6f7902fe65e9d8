package models

import "time"

type BatchCreatedResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	TotalCount int    `json:"total_count"`
}

// CandidateResult is a ranked record as returned by the API.
type CandidateResult struct {
	Rank       int      `json:"rank"`
	Filename   string   `json:"filename"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	SkillCount int      `json:"skill_count"`
	JDMatch    float64  `json:"jd_match"`
	ATSScore   float64  `json:"ats_score"`
	Links      []string `json:"links"`
}

type FailureResult struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

type BatchResultResponse struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	TotalCount   int               `json:"total_count"`
	SuccessCount int               `json:"success_count"`
	FailureCount int               `json:"failure_count"`
	Ranked       []CandidateResult `json:"ranked,omitempty"`
	Failures     []FailureResult   `json:"failures,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

type ResumeListResponse struct {
	Resumes []Resume `json:"resumes"`
	Count   int      `json:"count"`
}
