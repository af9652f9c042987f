package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/yachaflex/yachaflex-api/internal/biometric"
	"github.com/yachaflex/yachaflex-api/internal/config"
	"github.com/yachaflex/yachaflex-api/internal/domain/stress"
	"github.com/yachaflex/yachaflex-api/internal/generation"
	"github.com/yachaflex/yachaflex-api/internal/platform/dynamo"
	"github.com/yachaflex/yachaflex-api/internal/platform/pdf"
	"github.com/yachaflex/yachaflex-api/internal/platform/postgres"
	"github.com/yachaflex/yachaflex-api/internal/service"
	"github.com/yachaflex/yachaflex-api/internal/service/auth"
)

// maxPDFPages bounds how many pages of an uploaded PDF are read.
const maxPDFPages = 100

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Service interfaces
	jwtService        auth.JWTService
	userService       service.UserService
	stressService     service.StressService
	generationService service.GenerationService
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	return buildApplication(ctx, cfg, logger, db, newAWSClients(ctx))
}

func buildApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	awsClients *awsClients,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	passwords := auth.NewBcryptVerifier()

	// Initialize stores
	userStore := postgres.NewPostgresUserStore(db, logger)
	recordStore := postgres.NewPostgresStressRecordStore(db, logger)
	contentStore := postgres.NewPostgresContentStore(db, logger)

	scorer, err := stress.NewScorer(scoringParams(cfg.Scoring))
	if err != nil {
		return nil, fmt.Errorf("failed to create stress scorer: %w", err)
	}

	registry, err := newRegistry(cfg.Biometrics, awsClients.dynamoDB, logger)
	if err != nil {
		return nil, err
	}

	llmClient, err := newLLMClient(ctx, cfg.LLM, awsClients.parameterStore, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("LLM client initialized successfully", "provider", cfg.LLM.Provider)

	profiles, err := generation.LoadProfiles(cfg.LLM.ProfilesPath)
	if err != nil {
		return nil, err
	}
	prompts, err := generation.LoadPromptBuilder(cfg.LLM.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	orchestrator, err := generation.NewOrchestrator(
		llmClient,
		service.NewStressHistoryLookup(recordStore),
		logger,
		generation.WithProfiles(profiles),
		generation.WithPromptBuilder(prompts),
		generation.WithTimeout(time.Duration(cfg.LLM.TimeoutSeconds)*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation orchestrator: %w", err)
	}

	app.userService, err = service.NewUserService(userStore, passwords, passwords, app.jwtService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.stressService, err = service.NewStressService(db, recordStore, scorer, registry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create stress service: %w", err)
	}

	app.generationService, err = service.NewGenerationService(
		orchestrator,
		contentStore,
		pdf.NewExtractor(maxPDFPages),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// newRegistry creates the biometric session registry for the configured backend.
func newRegistry(
	cfg config.BiometricsConfig,
	dynamoClient func() (*dynamodb.Client, error),
	logger *slog.Logger,
) (biometric.Registry, error) {
	switch cfg.Backend {
	case config.BackendDynamoDB:
		client, err := dynamoClient()
		if err != nil {
			return nil, err
		}
		registry, err := dynamo.NewRegistry(
			client,
			cfg.TableName,
			time.Duration(cfg.SessionTTLHours)*time.Hour,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create DynamoDB session registry: %w", err)
		}
		logger.Info("Biometric session registry initialized",
			"backend", cfg.Backend,
			"table", cfg.TableName)
		return registry, nil

	case config.BackendMemory, "":
		logger.Info("Biometric session registry initialized", "backend", config.BackendMemory)
		return biometric.NewMemoryRegistry(), nil

	default:
		return nil, fmt.Errorf("unsupported biometrics backend %q", cfg.Backend)
	}
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
