package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/repositories"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type ResultHandler struct {
	batchRepo  repositories.BatchRepository
	docRepo    repositories.DocumentRepository
	resumeRepo repositories.ResumeRepository
}

func NewResultHandler(
	batchRepo repositories.BatchRepository,
	docRepo repositories.DocumentRepository,
	resumeRepo repositories.ResumeRepository,
) *ResultHandler {
	return &ResultHandler{
		batchRepo:  batchRepo,
		docRepo:    docRepo,
		resumeRepo: resumeRepo,
	}
}

// HandleGetBatch handles GET /batches/:id
func (h *ResultHandler) HandleGetBatch(c *fiber.Ctx) error {
	batch, err := h.findBatch(c)
	if err != nil {
		return err
	}

	response := models.BatchResultResponse{
		ID:           batch.ID.String(),
		Status:       string(batch.Status),
		TotalCount:   batch.TotalCount,
		SuccessCount: batch.SuccessCount,
		FailureCount: batch.FailureCount,
		CreatedAt:    batch.CreatedAt,
	}

	if batch.Status == models.StatusCompleted {
		resumes, err := h.resumeRepo.FindByBatchID(batch.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load results")
		}
		response.Ranked = candidateResults(rankedFromResumes(resumes))

		failed, err := h.docRepo.FindFailedByBatchID(batch.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load results")
		}
		response.Failures = make([]models.FailureResult, 0, len(failed))
		for _, doc := range failed {
			response.Failures = append(response.Failures, models.FailureResult{
				Filename: doc.OriginalFileName,
				Reason:   doc.ErrorMessage,
			})
		}
	}

	if batch.Status == models.StatusFailed && batch.ErrorMessage != "" {
		response.ErrorMessage = &batch.ErrorMessage
	}

	return c.JSON(response)
}

// HandleExportBatch handles GET /batches/:id/export
func (h *ResultHandler) HandleExportBatch(c *fiber.Ctx) error {
	batch, err := h.findBatch(c)
	if err != nil {
		return err
	}

	if batch.Status != models.StatusCompleted {
		return fiber.NewError(fiber.StatusConflict, "batch is "+string(batch.Status))
	}

	resumes, err := h.resumeRepo.FindByBatchID(batch.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load results")
	}

	return sendCSV(c, rankedFromResumes(resumes))
}

// HandleListResumes handles GET /resumes
func (h *ResultHandler) HandleListResumes(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	resumes, err := h.resumeRepo.ListRecent(limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list resumes")
	}

	return c.JSON(models.ResumeListResponse{
		Resumes: resumes,
		Count:   len(resumes),
	})
}

func (h *ResultHandler) findBatch(c *fiber.Ctx) (*models.Batch, error) {
	batchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid batch ID format")
	}

	batch, err := h.batchRepo.FindByID(batchID)
	if errors.Is(err, repositories.ErrBatchNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Batch not found")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load batch")
	}

	return batch, nil
}

