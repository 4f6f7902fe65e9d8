package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-ranker/internal/models"
)

var ErrBatchNotFound = errors.New("batch not found")

type BatchRepository interface {
	CreateWithDocuments(batch *models.Batch, docs []models.Document) error
	FindByID(id uuid.UUID) (*models.Batch, error)
	Claim(id uuid.UUID) (bool, error)
	Complete(id uuid.UUID, successCount, failureCount int) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindQueued(limit int) ([]models.Batch, error)
}

type batchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

// CreateWithDocuments stores a batch and its documents in one transaction.
func (r *batchRepository) CreateWithDocuments(batch *models.Batch, docs []models.Document) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}

		if len(docs) == 0 {
			return nil
		}

		for i := range docs {
			docs[i].BatchID = batch.ID
		}
		if err := tx.Create(&docs).Error; err != nil {
			return fmt.Errorf("failed to create documents: %w", err)
		}

		return nil
	})
}

func (r *batchRepository) FindByID(id uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	if err := r.db.Where("id = ?", id).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to find batch: %w", err)
	}
	return &batch, nil
}

// Claim moves a queued batch to processing. It returns false when the
// batch was not queued, so two workers never run the same batch.
func (r *batchRepository) Claim(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.Batch{}).
		Where("id = ? AND status = ?", id, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim batch: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *batchRepository) Complete(id uuid.UUID, successCount, failureCount int) error {
	result := r.db.Model(&models.Batch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusCompleted,
			"success_count": successCount,
			"failure_count": failureCount,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to complete batch: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrBatchNotFound
	}

	return nil
}

func (r *batchRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.Batch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrBatchNotFound
	}

	return nil
}

func (r *batchRepository) FindQueued(limit int) ([]models.Batch, error) {
	var batches []models.Batch
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&batches).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find queued batches: %w", err)
	}

	return batches, nil
}
