package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-ranker/internal/logger"
)

// Pipeline scores résumés against a job description. It keeps no state
// between documents, so documents may be processed in any order or in
// parallel without changing their individual results.
type Pipeline struct {
	extractor       TextExtractor
	names           NameExtractor
	skills          *SkillNormalizer
	similarity      SimilarityFunc
	concurrency     int
	documentTimeout time.Duration
	logger          *zap.Logger
}

type PipelineOption func(*Pipeline)

// WithConcurrency bounds how many documents of a batch run at once.
func WithConcurrency(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithDocumentTimeout bounds text and name extraction per document. Zero
// disables the timeout.
func WithDocumentTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.documentTimeout = d
	}
}

func WithSimilarity(fn SimilarityFunc) PipelineOption {
	return func(p *Pipeline) {
		if fn != nil {
			p.similarity = fn
		}
	}
}

func WithPipelineLogger(l *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger.OrNop(l)
	}
}

// NewPipeline wires the collaborators. A nil names falls back to the
// heuristic extractor and a nil skills to the default vocabulary.
func NewPipeline(extractor TextExtractor, names NameExtractor, skills *SkillNormalizer, opts ...PipelineOption) *Pipeline {
	if names == nil {
		names = NewHeuristicNameExtractor()
	}
	if skills == nil {
		skills = NewSkillNormalizer(DefaultVocabulary())
	}

	p := &Pipeline{
		extractor:   extractor,
		names:       names,
		skills:      skills,
		similarity:  JDSimilarity,
		concurrency: 1,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyze builds the candidate record for already-extracted text. It never
// fails: a name extraction error only leaves the name empty.
func (p *Pipeline) Analyze(ctx context.Context, in DocumentInput, jd string) CandidateRecord {
	contacts := ExtractContacts(in.Text)
	skills := p.skills.Normalize(in.Text)
	name := p.extractName(ctx, in)

	jdMatch := p.similarity(in.Text, jd)
	score := ATSScore(len(skills), jdMatch, len(contacts.Links) > 0)

	return CandidateRecord{
		DocumentID: in.DocumentID,
		Filename:   in.Filename,
		Name:       name,
		Email:      contacts.Email,
		Phone:      contacts.Phone,
		Links:      contacts.Links,
		Skills:     skills,
		SkillCount: len(skills),
		JDMatch:    round2(jdMatch),
		ATSScore:   score,
		Text:       in.Text,
	}
}

// Process extracts the text of one stored document and analyzes it.
// Extraction failures come back as *ExtractionError.
func (p *Pipeline) Process(ctx context.Context, doc SourceDocument, jd string) (*CandidateRecord, error) {
	text, err := p.extractText(ctx, doc)
	if err != nil {
		var extractionErr *ExtractionError
		if errors.As(err, &extractionErr) {
			return nil, err
		}
		return nil, &ExtractionError{Filename: doc.Filename, Cause: err}
	}

	record := p.Analyze(ctx, DocumentInput{
		DocumentID: doc.DocumentID,
		Filename:   doc.Filename,
		Text:       text,
	}, jd)

	return &record, nil
}

// RankDocuments processes every document with bounded concurrency and
// ranks the successes. A failing document is reported in Failures and does
// not affect its siblings.
func (p *Pipeline) RankDocuments(ctx context.Context, docs []SourceDocument, jd string) BatchResult {
	records := make([]*CandidateRecord, len(docs))
	errs := make([]error, len(docs))

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("panic while processing %s: %v", doc.Filename, r)
				}
			}()

			records[i], errs[i] = p.Process(ctx, doc, jd)
			return nil
		})
	}
	_ = g.Wait()

	result := BatchResult{Failures: []DocumentFailure{}}
	successes := make([]CandidateRecord, 0, len(docs))

	for i, doc := range docs {
		if errs[i] != nil {
			p.logger.Warn("document failed",
				zap.String("filename", doc.Filename),
				zap.Error(errs[i]),
			)
			result.Failures = append(result.Failures, DocumentFailure{
				DocumentID: doc.DocumentID,
				Filename:   doc.Filename,
				Reason:     errs[i].Error(),
				Err:        errs[i],
			})
			continue
		}
		successes = append(successes, *records[i])
	}

	result.Ranked = Rank(successes)

	p.logger.Info("batch ranked",
		zap.Int("documents", len(docs)),
		zap.Int("ranked", len(result.Ranked)),
		zap.Int("failed", len(result.Failures)),
	)

	return result
}

// RankInputs analyzes already-extracted documents and ranks them.
func (p *Pipeline) RankInputs(ctx context.Context, inputs []DocumentInput, jd string) RankedBatch {
	records := make([]CandidateRecord, len(inputs))

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, in := range inputs {
		g.Go(func() error {
			records[i] = p.Analyze(ctx, in, jd)
			return nil
		})
	}
	_ = g.Wait()

	return Rank(records)
}

func (p *Pipeline) extractText(ctx context.Context, doc SourceDocument) (string, error) {
	if p.extractor == nil {
		return "", fmt.Errorf("no text extractor configured")
	}

	ctx, cancel := p.withDocumentTimeout(ctx)
	defer cancel()

	type extraction struct {
		text string
		err  error
	}

	// Parsers are not all context-aware; wait on whichever ends first.
	done := make(chan extraction, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- extraction{err: fmt.Errorf("panic while extracting %s: %v", doc.Filename, r)}
			}
		}()
		text, err := p.extractor.ExtractText(ctx, doc.Path)
		done <- extraction{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.text, res.err
	}
}

func (p *Pipeline) extractName(ctx context.Context, in DocumentInput) string {
	ctx, cancel := p.withDocumentTimeout(ctx)
	defer cancel()

	name, err := p.names.ExtractPersonName(ctx, in.Text)
	if err != nil {
		p.logger.Warn("name extraction failed",
			zap.String("filename", in.Filename),
			zap.Error(err),
		)
		return ""
	}
	return name
}

func (p *Pipeline) withDocumentTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.documentTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.documentTimeout)
}
