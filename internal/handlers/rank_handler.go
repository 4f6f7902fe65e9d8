package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/repositories"
	"alfredoptarigan/resume-ranker/internal/services"
)

const exportFilename = "ranked_resumes.csv"

type RankHandler struct {
	batchRepo      repositories.BatchRepository
	storageService services.StorageService
	rankingService services.RankingService
	worker         services.Worker
	jdExtractor    services.TextExtractor
	maxFileSize    int64
	logger         *zap.Logger
}

func NewRankHandler(
	batchRepo repositories.BatchRepository,
	storageService services.StorageService,
	rankingService services.RankingService,
	worker services.Worker,
	jdExtractor services.TextExtractor,
	maxFileSize int64,
	log *zap.Logger,
) *RankHandler {
	return &RankHandler{
		batchRepo:      batchRepo,
		storageService: storageService,
		rankingService: rankingService,
		worker:         worker,
		jdExtractor:    jdExtractor,
		maxFileSize:    maxFileSize,
		logger:         logger.OrNop(log),
	}
}

// HandleRank handles POST /rank. The batch runs inside the request and the
// ranking comes back as JSON, or as CSV with ?format=csv.
func (h *RankHandler) HandleRank(c *fiber.Ctx) error {
	batch, err := h.createBatch(c, models.StatusProcessing)
	if err != nil {
		return err
	}

	outcome, err := h.rankingService.ProcessClaimed(c.UserContext(), batch.ID)
	if err != nil {
		h.logger.Error("failed to rank batch", zap.String("batch_id", batch.ID.String()), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to rank resumes")
	}

	if strings.EqualFold(c.Query("format"), "csv") {
		return sendCSV(c, outcome.Result.Ranked)
	}

	return c.JSON(models.BatchResultResponse{
		ID:           batch.ID.String(),
		Status:       string(models.StatusCompleted),
		TotalCount:   batch.TotalCount,
		SuccessCount: len(outcome.Result.Ranked),
		FailureCount: len(outcome.Result.Failures),
		Ranked:       candidateResults(outcome.Result.Ranked),
		Failures:     failureResults(outcome.Result.Failures),
		CreatedAt:    batch.CreatedAt,
	})
}

// HandleCreateBatch handles POST /batches. The batch is queued for the
// worker and its ID returned immediately.
func (h *RankHandler) HandleCreateBatch(c *fiber.Ctx) error {
	batch, err := h.createBatch(c, models.StatusQueued)
	if err != nil {
		return err
	}

	h.worker.EnqueueBatch(batch.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.BatchCreatedResponse{
		ID:         batch.ID.String(),
		Status:     string(models.StatusQueued),
		TotalCount: batch.TotalCount,
	})
}

// createBatch validates the form, stores the uploads and records the batch.
// Returned errors are *fiber.Error.
func (h *RankHandler) createBatch(c *fiber.Ctx, status models.BatchStatus) (*models.Batch, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "failed to parse multipart form")
	}

	jd, err := h.readJobDescription(c, form)
	if err != nil {
		return nil, err
	}

	files := form.File["resumes"]
	if len(files) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "at least one file must be uploaded as 'resumes'")
	}

	for _, file := range files {
		if err := h.validateFile(file); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	batch := &models.Batch{
		ID:             uuid.New(),
		JobDescription: jd,
		Status:         status,
		TotalCount:     len(files),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	docs := make([]models.Document, 0, len(files))
	for i, file := range files {
		filename, filePath, err := h.storageService.SaveFile(file, batch.ID)
		if err != nil {
			h.cleanup(docs)
			return nil, fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("failed to save %s: %v", file.Filename, err))
		}

		docs = append(docs, models.Document{
			ID:               uuid.New(),
			Position:         i,
			Filename:         filename,
			OriginalFileName: file.Filename,
			FileType:         strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), "."),
			FilePath:         filePath,
			Status:           models.DocumentPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	if err := h.batchRepo.CreateWithDocuments(batch, docs); err != nil {
		h.cleanup(docs)
		h.logger.Error("failed to create batch", zap.Error(err))
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to create batch")
	}

	h.logger.Info("batch created",
		zap.String("batch_id", batch.ID.String()),
		zap.String("status", string(status)),
		zap.Int("documents", len(docs)),
	)

	return batch, nil
}

// readJobDescription takes the jd text field, or failing that the text of
// the jd_file upload.
func (h *RankHandler) readJobDescription(c *fiber.Ctx, form *multipart.Form) (string, error) {
	if jd := strings.TrimSpace(c.FormValue("jd")); jd != "" {
		return jd, nil
	}

	jdFiles := form.File["jd_file"]
	if len(jdFiles) == 0 {
		return "", fiber.NewError(fiber.StatusBadRequest, services.ErrJobDescriptionRequired.Error())
	}

	file := jdFiles[0]
	if err := h.validateFile(file); err != nil {
		return "", err
	}

	filename, _, err := h.storageService.SaveFile(file, uuid.Nil)
	if err != nil {
		return "", fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("failed to save job description: %v", err))
	}
	defer func() {
		if err := h.storageService.DeleteFile(filename); err != nil {
			h.logger.Warn("failed to remove job description upload", zap.Error(err))
		}
	}()

	text, err := h.jdExtractor.ExtractText(c.UserContext(), h.storageService.GetFilePath(filename))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("job description could not be read: %v", err))
	}

	jd := strings.TrimSpace(text)
	if jd == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, services.ErrJobDescriptionRequired.Error())
	}

	return jd, nil
}

func (h *RankHandler) validateFile(file *multipart.FileHeader) error {
	if file.Size > h.maxFileSize {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("%s too large. Max size: %d bytes", file.Filename, h.maxFileSize))
	}

	if !services.IsSupportedExtension(filepath.Ext(file.Filename)) {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("%s: %v", file.Filename, services.ErrUnsupportedFormat))
	}

	return nil
}

func (h *RankHandler) cleanup(docs []models.Document) {
	for _, doc := range docs {
		if err := h.storageService.DeleteFile(doc.Filename); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.logger.Warn("failed to remove upload", zap.String("file", doc.Filename), zap.Error(err))
		}
	}
}

func sendCSV(c *fiber.Ctx, batch services.RankedBatch) error {
	var buf bytes.Buffer
	if err := services.WriteCSV(&buf, batch); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to export ranking")
	}

	c.Attachment(exportFilename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}
