package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
)

const (
	indexChunkSize    = 1000
	indexChunkOverlap = 200
)

// IndexEntry identifies the résumé a set of chunks belongs to.
type IndexEntry struct {
	ResumeID string
	BatchID  string
	Filename string
	Name     string
	ATSScore float64
}

// CandidateMatch is one search hit, collapsed to its résumé.
type CandidateMatch struct {
	ResumeID string  `json:"resume_id"`
	BatchID  string  `json:"batch_id"`
	Filename string  `json:"filename"`
	Name     string  `json:"name"`
	ATSScore float64 `json:"ats_score"`
	Score    float32 `json:"score"`
	Snippet  string  `json:"snippet"`
}

type CandidateIndex interface {
	IndexCandidate(ctx context.Context, entry IndexEntry, text string) (int, error)
	Search(ctx context.Context, query string, limit int) ([]CandidateMatch, error)
	DeleteCandidate(ctx context.Context, resumeID string) error
}

type candidateIndex struct {
	store         VectorStore
	embedder      Embedder
	chunker       TextChunker
	promptBuilder *PromptBuilder
	logger        *zap.Logger
}

func NewCandidateIndex(store VectorStore, embedder Embedder, chunker TextChunker, log *zap.Logger) CandidateIndex {
	if chunker == nil {
		chunker = NewTextChunker()
	}
	return &candidateIndex{
		store:         store,
		embedder:      embedder,
		chunker:       chunker,
		promptBuilder: NewPromptBuilder(),
		logger:        logger.OrNop(log),
	}
}

// IndexCandidate implements CandidateIndex. It returns the number of chunks
// stored; chunks that fail to embed are skipped.
func (ci *candidateIndex) IndexCandidate(ctx context.Context, entry IndexEntry, text string) (int, error) {
	chunks := ci.chunker.ChunkText(CleanText(text), indexChunkSize, indexChunkOverlap)
	if len(chunks) == 0 {
		return 0, nil
	}

	points := make([]VectorPoint, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := ci.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			ci.logger.Warn("failed to embed chunk",
				zap.String("resume_id", entry.ResumeID),
				zap.Int("chunk", i),
				zap.Error(err),
			)
			continue
		}

		points = append(points, VectorPoint{
			ID:     uuid.New(),
			Vector: embedding,
			Payload: map[string]interface{}{
				"resume_id": entry.ResumeID,
				"batch_id":  entry.BatchID,
				"filename":  entry.Filename,
				"name":      entry.Name,
				"ats_score": entry.ATSScore,
				"chunk":     float64(i),
				"text":      chunk,
			},
		})
	}

	if len(points) == 0 {
		return 0, fmt.Errorf("no chunk of %s could be embedded", entry.Filename)
	}

	if err := ci.store.Upsert(ctx, points); err != nil {
		return 0, err
	}

	return len(points), nil
}

// Search implements CandidateIndex. Several chunks of one résumé may hit;
// only the best one is kept per résumé.
func (ci *candidateIndex) Search(ctx context.Context, query string, limit int) ([]CandidateMatch, error) {
	if strings.TrimSpace(query) == "" {
		return []CandidateMatch{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	embedding, err := ci.embedder.GenerateEmbedding(ctx, ci.promptBuilder.BuildSearchQuery(query))
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	// Over-fetch so that collapsing chunks still fills the limit.
	hits, err := ci.store.Search(ctx, embedding, limit*3)
	if err != nil {
		return nil, err
	}

	matches := []CandidateMatch{}
	seen := make(map[string]bool)
	for _, hit := range hits {
		m := CandidateMatch{
			ResumeID: payloadString(hit.Payload, "resume_id"),
			BatchID:  payloadString(hit.Payload, "batch_id"),
			Filename: payloadString(hit.Payload, "filename"),
			Name:     payloadString(hit.Payload, "name"),
			ATSScore: payloadFloat(hit.Payload, "ats_score"),
			Score:    hit.Score,
			Snippet:  payloadString(hit.Payload, "text"),
		}
		if seen[m.ResumeID] {
			continue
		}
		seen[m.ResumeID] = true
		matches = append(matches, m)
		if len(matches) == limit {
			break
		}
	}

	return matches, nil
}

// DeleteCandidate implements CandidateIndex.
func (ci *candidateIndex) DeleteCandidate(ctx context.Context, resumeID string) error {
	return ci.store.DeleteByField(ctx, "resume_id", resumeID)
}

func payloadString(p map[string]interface{}, key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

func payloadFloat(p map[string]interface{}, key string) float64 {
	if v, ok := p[key].(float64); ok {
		return v
	}
	return 0
}
