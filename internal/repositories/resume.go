package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-ranker/internal/models"
)

type ResumeRepository interface {
	CreateMany(resumes []models.Resume) error
	FindByBatchID(batchID uuid.UUID) ([]models.Resume, error)
	ListRecent(limit int) ([]models.Resume, error)
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) CreateMany(resumes []models.Resume) error {
	if len(resumes) == 0 {
		return nil
	}
	if err := r.db.Create(&resumes).Error; err != nil {
		return fmt.Errorf("failed to create resumes: %w", err)
	}
	return nil
}

// FindByBatchID returns a batch's records in rank order.
func (r *resumeRepository) FindByBatchID(batchID uuid.UUID) ([]models.Resume, error) {
	var resumes []models.Resume
	if err := r.db.Where("batch_id = ?", batchID).Order("rank ASC").Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("failed to find resumes: %w", err)
	}
	return resumes, nil
}

// ListRecent returns the newest batches first, each in rank order.
func (r *resumeRepository) ListRecent(limit int) ([]models.Resume, error) {
	var resumes []models.Resume
	err := r.db.
		Order("uploaded_at DESC").
		Order("batch_id").
		Order("rank ASC").
		Limit(limit).
		Find(&resumes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}
