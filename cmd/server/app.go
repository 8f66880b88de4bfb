package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/atelierhq/atelier-api/internal/config"
	"github.com/atelierhq/atelier-api/internal/events"
	"github.com/atelierhq/atelier-api/internal/generation"
	"github.com/atelierhq/atelier-api/internal/platform/gemini"
	"github.com/atelierhq/atelier-api/internal/platform/ollama"
	"github.com/atelierhq/atelier-api/internal/platform/postgres"
	"github.com/atelierhq/atelier-api/internal/service"
	"github.com/atelierhq/atelier-api/internal/service/auth"
	"github.com/atelierhq/atelier-api/internal/task"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Auth
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	// Stores
	userStore         *postgres.UserStore
	taskStore         *postgres.TaskStore
	projectStore      *postgres.ProjectStore
	templateStore     *postgres.TemplateStore
	documentStore     *postgres.DocumentStore
	sourceCodeStore   *postgres.SourceCodeStore
	qualityCheckStore *postgres.QualityCheckStore
	workEstimateStore *postgres.WorkEstimateStore
	proposalStore     *postgres.ProposalStore

	// Generation
	generator generation.Generator

	// Services and the event bridge into the engine
	taskService  service.TaskService
	eventEmitter events.EventEmitter

	// Task handling
	runner *task.Runner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger,
// and database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	// Stores
	app.userStore = postgres.NewUserStore(db, logger)
	app.taskStore = postgres.NewTaskStore(db, logger)
	app.projectStore = postgres.NewProjectStore(db, logger)
	app.templateStore = postgres.NewTemplateStore(db, logger)
	app.documentStore = postgres.NewDocumentStore(db, logger)
	app.sourceCodeStore = postgres.NewSourceCodeStore(db, logger)
	app.qualityCheckStore = postgres.NewQualityCheckStore(db, logger)
	app.workEstimateStore = postgres.NewWorkEstimateStore(db, logger)
	app.proposalStore = postgres.NewProposalStore(db, logger)

	// Generation backend: every configured backend is registered, the
	// configured provider is the one handed to the engine.
	app.generator, err = setupGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation backend: %w", err)
	}
	logger.Info("Generation backend initialized", "provider", cfg.LLM.Provider)

	// Task runner
	app.runner = task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)
	app.runner.Start()

	// Engine wiring: submission emits an event, the handler builds a work
	// unit and hands it to the runner.
	inputSource := service.NewInputSource(
		app.projectStore,
		app.documentStore,
		app.sourceCodeStore,
		app.templateStore,
		app.workEstimateStore,
	)
	artifactWriter := service.NewArtifactWriter(
		app.documentStore,
		app.sourceCodeStore,
		app.qualityCheckStore,
		app.workEstimateStore,
		app.proposalStore,
		logger,
	)
	workUnitFactory := task.NewWorkUnitFactory(
		app.taskStore,
		inputSource,
		artifactWriter,
		app.generator,
		logger,
	)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(task.NewWorkUnitEventHandler(workUnitFactory, app.runner, logger))
	app.eventEmitter = emitter

	// Task service
	app.taskService, err = service.NewTaskService(
		app.taskStore,
		app.projectStore,
		app.documentStore,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupGenerator builds the generation registry from the configured
// backends and returns the one selected by cfg.LLM.Provider.
func setupGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (generation.Generator, error) {
	registry := generation.NewRegistry()

	if cfg.LLM.GeminiAPIKey != "" {
		g, err := gemini.NewGenerator(ctx, logger.With("component", "gemini_generator"), cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini backend: %w", err)
		}
		registry.Register("gemini", g)
	}

	if cfg.LLM.OllamaHost != "" {
		o, err := ollama.NewGenerator(logger.With("component", "ollama_generator"), cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ollama backend: %w", err)
		}
		registry.Register("ollama", o)
	}

	return registry.Lookup(cfg.LLM.Provider)
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources. The runner
// is stopped first so queued work drains before the database goes away.
func (app *application) cleanup() {
	if app.runner != nil {
		app.runner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
