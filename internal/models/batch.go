package models

import (
	"time"

	"github.com/google/uuid"
)

type BatchStatus string

const (
	StatusQueued     BatchStatus = "queued"
	StatusProcessing BatchStatus = "processing"
	StatusCompleted  BatchStatus = "completed"
	StatusFailed     BatchStatus = "failed"
)

// Batch is one ranking request: a job description plus the résumés scored
// against it.
type Batch struct {
	ID             uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobDescription string      `gorm:"type:text;not null" json:"job_description"`
	Status         BatchStatus `gorm:"not null;default:'queued'" json:"status"`
	TotalCount     int         `gorm:"not null;default:0" json:"total_count"`
	SuccessCount   int         `gorm:"not null;default:0" json:"success_count"`
	FailureCount   int         `gorm:"not null;default:0" json:"failure_count"`
	ErrorMessage   string      `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Documents []Document `gorm:"foreignKey:BatchID" json:"-"`
	Resumes   []Resume   `gorm:"foreignKey:BatchID" json:"-"`
}

func (Batch) TableName() string {
	return "batches"
}
