// Backfills the candidate index from a directory of résumé files.
//
//	go run scripts/index_resumes.go --dir ./resumes [--jd "Go developer"]
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/services"
)

var (
	dir string
	jd  string
)

func main() {
	cmd := &cobra.Command{
		Use:          "index_resumes",
		Short:        "Embed résumé files into the candidate index",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory containing résumé files (required)")
	cmd.Flags().StringVar(&jd, "jd", "", "Optional job description used for the stored ATS score")
	_ = cmd.MarkFlagRequired("dir")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, _ := config.Load()

	zl, err := logger.New(cfg.Server.LogJSON, cfg.Server.LogDebug)
	if err != nil {
		return err
	}
	defer zl.Sync() //nolint:errcheck

	if !cfg.IndexEnabled() {
		return fmt.Errorf("QDRANT_URL and GEMINI_API_KEY must be set")
	}

	gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel, zl)
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini: %w", err)
	}

	store, err := services.NewQdrantStore(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, zl)
	if err != nil {
		return err
	}
	if err := store.InitCollection(ctx); err != nil {
		return err
	}

	index := services.NewCandidateIndex(store, gemini, services.NewTextChunker(), zl)
	pipeline := services.NewPipeline(services.NewDocumentParser(), nil, nil,
		services.WithDocumentTimeout(cfg.Worker.DocumentTimeout),
		services.WithPipelineLogger(zl),
	)

	files, err := resumeFiles(dir)
	if err != nil {
		return err
	}
	zl.Info("indexing resumes", zap.String("dir", dir), zap.Int("files", len(files)))

	successCount, failCount := 0, 0
	for _, path := range files {
		log := zl.With(zap.String("file", path))

		rec, err := pipeline.Process(ctx, services.SourceDocument{
			DocumentID: path,
			Filename:   filepath.Base(path),
			Path:       path,
		}, jd)
		if err != nil {
			log.Warn("failed to extract", zap.Error(err))
			failCount++
			continue
		}

		// Stable per path, so a rerun replaces the previous chunks.
		resumeID := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+path)).String()
		if err := index.DeleteCandidate(ctx, resumeID); err != nil {
			log.Warn("failed to clear previous chunks", zap.Error(err))
		}

		chunks, err := index.IndexCandidate(ctx, services.IndexEntry{
			ResumeID: resumeID,
			Filename: rec.Filename,
			Name:     rec.Name,
			ATSScore: rec.ATSScore,
		}, rec.Text)
		if err != nil {
			log.Warn("failed to index", zap.Error(err))
			failCount++
			continue
		}

		log.Info("indexed", zap.String("name", rec.Name), zap.Int("chunks", chunks))
		successCount++
	}

	zl.Info("indexing finished", zap.Int("indexed", successCount), zap.Int("failed", failCount))

	if failCount > 0 {
		return fmt.Errorf("%d of %d files failed", failCount, len(files))
	}
	return nil
}

func resumeFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !services.IsSupportedExtension(strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
