package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

const (
	DocumentPending   DocumentStatus = "pending"
	DocumentProcessed DocumentStatus = "processed"
	DocumentFailed    DocumentStatus = "failed"
)

// Document is an uploaded résumé file belonging to a batch.
type Document struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BatchID          uuid.UUID      `gorm:"type:uuid;index;not null" json:"batch_id"`
	Position         int            `gorm:"not null;default:0" json:"position"`
	Filename         string         `gorm:"type:text" json:"filename"`
	OriginalFileName string         `gorm:"type:text" json:"original_filename"`
	FileType         string         `gorm:"type:text" json:"file_type"`
	FilePath         string         `gorm:"type:text" json:"file_path"`
	Status           DocumentStatus `gorm:"not null;default:'pending'" json:"status"`
	ErrorMessage     string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt        time.Time      `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}
