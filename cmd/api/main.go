package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/handlers"
	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/repositories"
	"alfredoptarigan/resume-ranker/internal/services"
)

func main() {
	cfg, envLoaded := config.Load()

	zl, err := logger.New(cfg.Server.LogJSON, cfg.Server.LogDebug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if !envLoaded {
		zl.Debug("no .env file found, using environment")
	}

	db, err := config.InitDatabase(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}

	batchRepo := repositories.NewBatchRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)
	uow := repositories.NewUnitOfWork(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zl.Fatal("failed to create upload directory", zap.Error(err))
	}

	ctx := context.Background()

	parser := services.NewDocumentParser()
	var extractor services.TextExtractor = parser
	if cfg.Redis.URL != "" {
		cache, err := services.NewRedisTextCache(ctx, cfg.Redis.URL)
		if err != nil {
			zl.Warn("text cache disabled", zap.Error(err))
		} else {
			extractor = services.NewCachedTextExtractor(parser, cache, cfg.Redis.TextCacheTTL, zl)
			zl.Info("text cache enabled")
		}
	}

	skills, err := buildSkillNormalizer(cfg)
	if err != nil {
		zl.Fatal("failed to load skill vocabulary", zap.Error(err))
	}

	names := services.NewHeuristicNameExtractor()
	var index services.CandidateIndex

	if cfg.GeminiEnabled() {
		geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel, zl)
		if err != nil {
			zl.Fatal("failed to initialize Gemini", zap.Error(err))
		}
		names = services.NewFallbackNameExtractor(
			services.NewGeminiNameExtractor(geminiService, cfg.Worker.RetryMaxAttempts),
			names,
			zl,
		)
		zl.Info("gemini name extraction enabled", zap.String("model", cfg.Gemini.Model))

		if cfg.IndexEnabled() {
			index, err = buildCandidateIndex(ctx, cfg, geminiService, zl)
			if err != nil {
				zl.Warn("candidate index disabled", zap.Error(err))
			}
		}
	}

	pipeline := services.NewPipeline(extractor, names, skills,
		services.WithConcurrency(cfg.Worker.Concurrency),
		services.WithDocumentTimeout(cfg.Worker.DocumentTimeout),
		services.WithPipelineLogger(zl),
	)

	rankingService := services.NewRankingService(batchRepo, docRepo, uow, pipeline, index, zl)

	worker := services.NewWorker(batchRepo, rankingService, cfg.Worker.Concurrency, cfg.Worker.PollInterval, zl)
	worker.Start(ctx)

	rankHandler := handlers.NewRankHandler(
		batchRepo,
		storageService,
		rankingService,
		worker,
		parser,
		cfg.Storage.MaxFileSize,
		zl,
	)
	resultHandler := handlers.NewResultHandler(batchRepo, docRepo, resumeRepo)
	searchHandler := handlers.NewSearchHandler(index, zl)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Ranker API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		// A batch carries many files.
		BodyLimit:    int(cfg.Storage.MaxFileSize) * 20,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
			"index":  index != nil,
		})
	})

	api.Post("/rank", rankHandler.HandleRank)
	api.Post("/batches", rankHandler.HandleCreateBatch)
	api.Get("/batches/:id", resultHandler.HandleGetBatch)
	api.Get("/batches/:id/export", resultHandler.HandleExportBatch)
	api.Get("/resumes", resultHandler.HandleListResumes)
	api.Get("/candidates/search", searchHandler.HandleSearch)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Ranker API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/rank",
				"POST /api/v1/batches",
				"GET /api/v1/batches/:id",
				"GET /api/v1/batches/:id/export",
				"GET /api/v1/resumes",
				"GET /api/v1/candidates/search",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zl.Info("shutting down server")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			zl.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zl.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}

func buildSkillNormalizer(cfg *config.Config) (*services.SkillNormalizer, error) {
	vocab := services.DefaultVocabulary()
	if cfg.Scoring.SkillsFile != "" {
		loaded, err := services.LoadVocabulary(cfg.Scoring.SkillsFile)
		if err != nil {
			return nil, err
		}
		vocab = loaded
	}

	var opts []services.NormalizerOption
	if cfg.Scoring.WordBoundaryMatch {
		opts = append(opts, services.WithWordBoundaries())
	}

	return services.NewSkillNormalizer(vocab, opts...), nil
}

func buildCandidateIndex(ctx context.Context, cfg *config.Config, embedder services.Embedder, zl *zap.Logger) (services.CandidateIndex, error) {
	store, err := services.NewQdrantStore(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, zl)
	if err != nil {
		return nil, err
	}

	if err := store.InitCollection(ctx); err != nil {
		return nil, err
	}

	zl.Info("candidate index enabled", zap.String("collection", cfg.Qdrant.Collection))
	return services.NewCandidateIndex(store, embedder, services.NewTextChunker(), zl), nil
}
