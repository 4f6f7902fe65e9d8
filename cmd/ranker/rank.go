package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/services"
)

type rankOptions struct {
	jd      string
	out     string
	asJSON  bool
	verbose bool
}

func newRankCmd() *cobra.Command {
	opts := &rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank [flags] files...",
		Short: "Rank résumé files (.pdf, .docx, .txt) by ATS score",
		Long: "Extract contact details and skills from each résumé, score it against the job description " +
			"and print the ranking. Files that cannot be read are reported on stderr and left out.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd.Context(), opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.jd, "jd", "", "Job description text, or a path to a job description file (required)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write the ranking as CSV to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the ranking as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	_ = cmd.MarkFlagRequired("jd")
	cmd.MarkFlagsMutuallyExclusive("json", "out")

	return cmd
}

func runRank(ctx context.Context, opts *rankOptions, files []string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, _ := config.Load()

	zl, err := logger.New(false, opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if !opts.verbose {
		zl = zap.NewNop()
	}

	parser := services.NewDocumentParser()

	jd, err := readJobDescription(ctx, parser, opts.jd)
	if err != nil {
		return err
	}

	names, err := buildNameExtractor(ctx, cfg, zl)
	if err != nil {
		return err
	}

	vocab := services.DefaultVocabulary()
	if cfg.Scoring.SkillsFile != "" {
		if vocab, err = services.LoadVocabulary(cfg.Scoring.SkillsFile); err != nil {
			return err
		}
	}
	var normOpts []services.NormalizerOption
	if cfg.Scoring.WordBoundaryMatch {
		normOpts = append(normOpts, services.WithWordBoundaries())
	}

	pipeline := services.NewPipeline(parser, names, services.NewSkillNormalizer(vocab, normOpts...),
		services.WithConcurrency(cfg.Worker.Concurrency),
		services.WithDocumentTimeout(cfg.Worker.DocumentTimeout),
		services.WithPipelineLogger(zl),
	)

	docs := make([]services.SourceDocument, 0, len(files))
	for i, path := range files {
		docs = append(docs, services.SourceDocument{
			DocumentID: fmt.Sprintf("%d", i),
			Filename:   filepath.Base(path),
			Path:       path,
		})
	}

	result := pipeline.RankDocuments(ctx, docs, jd)

	for _, failure := range result.Failures {
		fmt.Fprintf(stderr, "skipped %s: %s\n", failure.Filename, failure.Reason)
	}

	switch {
	case opts.asJSON:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case opts.out != "":
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.out, err)
		}
		defer f.Close()

		if err := services.WriteCSV(f, result.Ranked); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Ranked %d of %d resumes into %s\n", len(result.Ranked), len(files), opts.out)
		return nil
	default:
		return services.WriteCSV(stdout, result.Ranked)
	}
}

// readJobDescription treats value as a path when a file exists there and as
// literal text otherwise.
func readJobDescription(ctx context.Context, parser services.TextExtractor, value string) (string, error) {
	jd := value
	if info, err := os.Stat(value); err == nil && !info.IsDir() {
		text, err := parser.ExtractText(ctx, value)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		jd = text
	}

	jd = strings.TrimSpace(jd)
	if jd == "" {
		return "", services.ErrJobDescriptionRequired
	}
	return jd, nil
}

func buildNameExtractor(ctx context.Context, cfg *config.Config, zl *zap.Logger) (services.NameExtractor, error) {
	heuristic := services.NewHeuristicNameExtractor()
	if !cfg.GeminiEnabled() {
		return heuristic, nil
	}

	gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel, zl)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini: %w", err)
	}

	return services.NewFallbackNameExtractor(
		services.NewGeminiNameExtractor(gemini, cfg.Worker.RetryMaxAttempts),
		heuristic,
		zl,
	), nil
}
