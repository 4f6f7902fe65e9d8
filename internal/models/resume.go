package models

import (
	"time"

	"github.com/google/uuid"
)

// Resume is the persisted form of a scored candidate. Skills and links are
// stored comma-joined, the same shape the CSV export uses.
type Resume struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BatchID    uuid.UUID `gorm:"type:uuid;index" json:"batch_id"`
	Rank       int       `gorm:"not null;default:0" json:"rank"`
	Filename   string    `gorm:"type:varchar(200)" json:"filename"`
	Name       string    `gorm:"type:varchar(100)" json:"name"`
	Email      string    `gorm:"type:varchar(120)" json:"email"`
	Phone      string    `gorm:"type:varchar(50)" json:"phone"`
	Skills     string    `gorm:"type:text" json:"skills"`
	SkillCount int       `json:"skill_count"`
	JDMatch    float64   `gorm:"column:jd_match" json:"jd_match"`
	ATSScore   float64   `gorm:"column:ats_score;index" json:"ats_score"`
	Links      string    `gorm:"type:text" json:"links"`
	UploadedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"uploaded_at"`
}

func (Resume) TableName() string {
	return "resumes"
}
