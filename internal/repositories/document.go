package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-ranker/internal/models"
)

type DocumentRepository interface {
	FindByBatchID(batchID uuid.UUID) ([]models.Document, error)
	FindFailedByBatchID(batchID uuid.UUID) ([]models.Document, error)
	MarkProcessed(ids []uuid.UUID) error
	MarkFailed(id uuid.UUID, errorMsg string) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// FindByBatchID returns the documents in upload order.
func (d *documentRepository) FindByBatchID(batchID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	if err := d.db.Where("batch_id = ?", batchID).Order("position ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}
	return docs, nil
}

func (d *documentRepository) FindFailedByBatchID(batchID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	err := d.db.
		Where("batch_id = ? AND status = ?", batchID, models.DocumentFailed).
		Order("position ASC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find failed documents: %w", err)
	}
	return docs, nil
}

func (d *documentRepository) MarkProcessed(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	err := d.db.Model(&models.Document{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     models.DocumentProcessed,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark documents processed: %w", err)
	}

	return nil
}

func (d *documentRepository) MarkFailed(id uuid.UUID, errorMsg string) error {
	err := d.db.Model(&models.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.DocumentFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark document failed: %w", err)
	}

	return nil
}
