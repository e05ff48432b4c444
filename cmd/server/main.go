package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-builder/internal/adapter/http"
	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/config"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/render"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/ai"
	infra "resume-builder/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	gen, err := newGenerator(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("text generation unavailable: %v", err)
	}

	renderer, err := render.NewRenderer(
		infra.NewChromedpRenderer(cfg.Render.ChromePath, cfg.Render.Timeout),
		render.DefaultRegistry(),
		cfg.Storage.OutputDir,
		render.Assets{Dir: cfg.Storage.AssetsDir, Logo: cfg.Storage.LogoFilename, Bullet: cfg.Storage.BPFilename},
	)
	if err != nil {
		log.Fatalf("renderer setup failed: %v", err)
	}

	// optional infrastructure: each piece degrades to "off" when missing
	var runs usecase.RunsRepo
	if pool, err := infra.NewRunsPool(ctx, cfg.Database.URL); err != nil {
		slog.Warn("warning: runs DB not available", "error", err)
	} else {
		defer pool.Close()
		if err := migration.RunMigrations(ctx, pool); err != nil {
			slog.Warn("warning: migrations failed, run history disabled", "error", err)
		} else {
			runs = repo.NewRunsRepo(pool)
		}
	}

	var cache usecase.SnapshotCache
	if rc, err := infra.NewRedisSnapshotCache(ctx, cfg.Cache.RedisURL, cfg.Cache.SkillMatrixTTL); err != nil {
		slog.Warn("warning: skill matrix cache not available", "error", err)
	} else if rc != nil {
		defer rc.Close()
		cache = rc
	}

	var artifacts usecase.ArtifactStore
	r2cfg := infra.R2Config{AccountID: cfg.R2.AccountID, AccessKey: cfg.R2.AccessKey, SecretKey: cfg.R2.SecretKey, Bucket: cfg.R2.Bucket}
	if r2cfg.Enabled() {
		if store, err := infra.NewR2ArtifactStore(ctx, r2cfg); err != nil {
			slog.Warn("warning: artifact storage not available", "error", err)
		} else {
			artifacts = store
		}
	}

	var events usecase.EventPublisher
	if cfg.Broker.URL != "" {
		if pub, err := infra.NewAMQPPublisher(cfg.Broker.URL, cfg.Broker.Exchange); err != nil {
			slog.Warn("warning: event broker not available", "error", err)
		} else {
			defer pub.Close()
			events = pub
		}
	}

	skills := usecase.NewSkillMatrixStore(cache)
	loader := infra.NewSkillMatrixLoader()
	processor := usecase.NewProcessor(usecase.Deps{
		Extractor:   infra.NewDocumentExtractor(),
		Loader:      loader,
		Skills:      skills,
		Schema:      usecase.NewSchemaExtractor(gen, cfg.LLM.Model, cfg.LLM.Timeout),
		Composer:    usecase.NewProfileComposer(gen, cfg.LLM.Model, cfg.LLM.Timeout),
		CoverLetter: usecase.NewCoverLetterComposer(gen, cfg.LLM.Model, cfg.LLM.Timeout),
		Documents:   renderer,
		Runs:        runs,
		Artifacts:   artifacts,
		Events:      events,
	})

	app := fiber.New(fiber.Config{
		AppName:   "resume-builder",
		BodyLimit: int(cfg.Storage.MaxFileSize) + 1<<20,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	h := httpadapter.NewHandler(processor, skills, loader, usecase.NewApplicationMailer(events), renderer.Registry(),
		httpadapter.Options{UploadDir: cfg.Storage.UploadDir, OutputDir: cfg.Storage.OutputDir, MaxFileSize: cfg.Storage.MaxFileSize})
	h.Register(app)

	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()
	slog.Info("server started", "port", cfg.Server.Port, "llm", cfg.LLM.Provider)

	<-ctx.Done()
	slog.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

func newGenerator(ctx context.Context, cfg config.LLMConfig) (ai.Generator, error) {
	if cfg.Provider == "service" {
		return ai.NewServiceClient(cfg.ServiceURL, cfg.Timeout), nil
	}
	return ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Model)
}
