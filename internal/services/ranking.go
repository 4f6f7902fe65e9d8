package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/models"
	"alfredoptarigan/resume-ranker/internal/repositories"
)

// BatchOutcome is what a processed batch produced. Resumes are the
// persisted rows in rank order.
type BatchOutcome struct {
	BatchID uuid.UUID
	Result  BatchResult
	Resumes []models.Resume
}

type RankingService interface {
	// ProcessBatch claims a queued batch and runs it.
	ProcessBatch(ctx context.Context, batchID uuid.UUID) (*BatchOutcome, error)
	// ProcessClaimed runs a batch that was created already processing, so
	// the poller never sees it.
	ProcessClaimed(ctx context.Context, batchID uuid.UUID) (*BatchOutcome, error)
}

type rankingService struct {
	batchRepo repositories.BatchRepository
	docRepo   repositories.DocumentRepository
	uow       repositories.UnitOfWork
	pipeline  *Pipeline
	index     CandidateIndex
	logger    *zap.Logger
}

// NewRankingService wires batch processing. The results of a batch are
// written through uow in one transaction. index may be nil, in which case
// completed batches are not indexed.
func NewRankingService(
	batchRepo repositories.BatchRepository,
	docRepo repositories.DocumentRepository,
	uow repositories.UnitOfWork,
	pipeline *Pipeline,
	index CandidateIndex,
	log *zap.Logger,
) RankingService {
	return &rankingService{
		batchRepo: batchRepo,
		docRepo:   docRepo,
		uow:       uow,
		pipeline:  pipeline,
		index:     index,
		logger:    logger.OrNop(log),
	}
}

// ProcessBatch implements RankingService.
func (s *rankingService) ProcessBatch(ctx context.Context, batchID uuid.UUID) (*BatchOutcome, error) {
	claimed, err := s.batchRepo.Claim(batchID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrBatchNotQueued
	}

	return s.ProcessClaimed(ctx, batchID)
}

// ProcessClaimed implements RankingService. Only a missing job description
// or a storage failure fails the whole batch; document failures are
// recorded per document.
func (s *rankingService) ProcessClaimed(ctx context.Context, batchID uuid.UUID) (*BatchOutcome, error) {
	log := s.logger.With(zap.String("batch_id", batchID.String()))
	log.Info("processing batch")

	batch, err := s.batchRepo.FindByID(batchID)
	if err != nil {
		return nil, s.fail(batchID, fmt.Errorf("failed to load batch: %w", err))
	}

	if batch.JobDescription == "" {
		return nil, s.fail(batchID, ErrJobDescriptionRequired)
	}

	docs, err := s.docRepo.FindByBatchID(batchID)
	if err != nil {
		return nil, s.fail(batchID, err)
	}

	sources := make([]SourceDocument, 0, len(docs))
	for _, doc := range docs {
		sources = append(sources, SourceDocument{
			DocumentID: doc.ID.String(),
			Filename:   doc.OriginalFileName,
			Path:       doc.FilePath,
		})
	}

	result := s.pipeline.RankDocuments(ctx, sources, batch.JobDescription)

	// One timestamp per batch keeps history listings in rank order.
	uploadedAt := time.Now().UTC()
	resumes := make([]models.Resume, 0, len(result.Ranked))
	for i, rec := range result.Ranked {
		resumes = append(resumes, ResumeFromRecord(batchID, i+1, rec, uploadedAt))
	}

	if err := s.saveResults(batchID, result, resumes); err != nil {
		return nil, s.fail(batchID, err)
	}

	log.Info("batch completed",
		zap.Int("ranked", len(result.Ranked)),
		zap.Int("failed", len(result.Failures)),
	)

	s.indexBatch(ctx, batchID, result.Ranked, resumes)

	return &BatchOutcome{
		BatchID: batchID,
		Result:  result,
		Resumes: resumes,
	}, nil
}

// saveResults stores the ranked rows, the document statuses and the batch
// counts together, so a failed write leaves no rows behind.
func (s *rankingService) saveResults(batchID uuid.UUID, result BatchResult, resumes []models.Resume) error {
	processed := make([]uuid.UUID, 0, len(result.Ranked))
	for _, rec := range result.Ranked {
		if id, err := uuid.Parse(rec.DocumentID); err == nil {
			processed = append(processed, id)
		}
	}

	return s.uow.Transaction(func(repos repositories.Repositories) error {
		if err := repos.Resumes.CreateMany(resumes); err != nil {
			return err
		}

		if err := repos.Documents.MarkProcessed(processed); err != nil {
			return err
		}

		for _, failure := range result.Failures {
			id, err := uuid.Parse(failure.DocumentID)
			if err != nil {
				continue
			}
			if err := repos.Documents.MarkFailed(id, failure.Reason); err != nil {
				return err
			}
		}

		return repos.Batches.Complete(batchID, len(result.Ranked), len(result.Failures))
	})
}

// indexBatch feeds the candidate index. Errors are logged only.
func (s *rankingService) indexBatch(ctx context.Context, batchID uuid.UUID, ranked RankedBatch, resumes []models.Resume) {
	if s.index == nil {
		return
	}

	for i, rec := range ranked {
		entry := IndexEntry{
			ResumeID: resumes[i].ID.String(),
			BatchID:  batchID.String(),
			Filename: rec.Filename,
			Name:     rec.Name,
			ATSScore: rec.ATSScore,
		}

		chunks, err := s.index.IndexCandidate(ctx, entry, rec.Text)
		if err != nil {
			s.logger.Warn("failed to index candidate",
				zap.String("batch_id", batchID.String()),
				zap.String("filename", rec.Filename),
				zap.Error(err),
			)
			continue
		}

		s.logger.Debug("candidate indexed",
			zap.String("resume_id", entry.ResumeID),
			zap.Int("chunks", chunks),
		)
	}
}

func (s *rankingService) fail(batchID uuid.UUID, cause error) error {
	if err := s.batchRepo.UpdateError(batchID, cause.Error()); err != nil {
		s.logger.Error("failed to record batch error",
			zap.String("batch_id", batchID.String()),
			zap.Error(err),
		)
	}
	return cause
}
