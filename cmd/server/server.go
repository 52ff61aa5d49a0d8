package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"tutor-server/chat-api/internal/config"
	"tutor-server/chat-api/internal/domain/agent"
	"tutor-server/chat-api/internal/domain/chat"
	"tutor-server/chat-api/internal/domain/conversation"
	"tutor-server/chat-api/internal/infrastructure/agentruntime"
	"tutor-server/chat-api/internal/infrastructure/approvalstore"
	"tutor-server/chat-api/internal/infrastructure/auth"
	"tutor-server/chat-api/internal/infrastructure/database"
	"tutor-server/chat-api/internal/infrastructure/logger"
	"tutor-server/chat-api/internal/infrastructure/observability"
	chatrepo "tutor-server/chat-api/internal/infrastructure/repository/chat"
	convrepo "tutor-server/chat-api/internal/infrastructure/repository/conversation"
	"tutor-server/chat-api/internal/infrastructure/storage"
	"tutor-server/chat-api/internal/interfaces/httpserver"
	"tutor-server/chat-api/internal/interfaces/httpserver/handlers"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	store, err := storage.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize file storage")
	}

	runtime := agentruntime.NewClient(cfg, log)

	approvals := approvalstore.NewMemory(cfg.ApprovalTTL)
	pending := approvalstore.NewPending()

	fileWorkflow := agent.NewWorkflow(runtime, agent.TutorAgent(cfg.AgentModel), log)
	var workflow chat.Orchestrator = fileWorkflow
	if cfg.MultiAgentEnabled {
		multi := agent.NewMultiAgentWorkflow(
			runtime,
			agent.TutorStages(cfg.AgentModel),
			approvals,
			true,
			cfg.ApprovalPollInterval,
			cfg.ApprovalTimeout,
			log,
		)
		multi.OnApprovalRequest = pending.Add
		workflow = multi
	}

	messageRepo := chatrepo.NewRepository(db)
	conversationRepo := convrepo.NewRepository(db)
	conversationService := conversation.NewService(conversationRepo, log)
	chatService := chat.NewService(
		messageRepo, conversationRepo, workflow, fileWorkflow,
		runtime, store, cfg.SiteURL, log,
	)

	handlerProvider := handlers.NewProvider(
		chatService, conversationService, runtime, chatService,
		store, approvals, pending, cfg.MaxUploadSizeBytes, log,
	)

	httpServer := httpserver.New(cfg, log, handlerProvider, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
