//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
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
	chatrepo "tutor-server/chat-api/internal/infrastructure/repository/chat"
	convrepo "tutor-server/chat-api/internal/infrastructure/repository/conversation"
	"tutor-server/chat-api/internal/infrastructure/storage"
	"tutor-server/chat-api/internal/interfaces/httpserver"
	"tutor-server/chat-api/internal/interfaces/httpserver/handlers"
)

var repositorySet = wire.NewSet(
	chatrepo.NewRepository,
	wire.Bind(new(chat.Repository), new(*chatrepo.Repository)),
	convrepo.NewRepository,
	wire.Bind(new(conversation.Repository), new(*convrepo.Repository)),
)

// BuildApplication assembles the chat service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		newStorage,
		agentruntime.NewClient,
		newApprovalStore,
		approvalstore.NewPending,
		newWorkflows,
		repositorySet,
		conversation.NewService,
		newChatService,
		newHandlerProvider,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.Storage, error) {
	return storage.New(ctx, cfg, log)
}

func newApprovalStore(cfg *config.Config) *approvalstore.Memory {
	return approvalstore.NewMemory(cfg.ApprovalTTL)
}

// workflows bundles the default and file-aware orchestrators.
type workflows struct {
	Default chat.Orchestrator
	File    chat.Orchestrator
}

func newWorkflows(
	cfg *config.Config,
	runtime *agentruntime.Client,
	approvals *approvalstore.Memory,
	pending *approvalstore.Pending,
	log zerolog.Logger,
) workflows {
	fileWorkflow := agent.NewWorkflow(runtime, agent.TutorAgent(cfg.AgentModel), log)
	w := workflows{Default: fileWorkflow, File: fileWorkflow}
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
		w.Default = multi
	}
	return w
}

func newChatService(
	cfg *config.Config,
	messages chat.Repository,
	conversations conversation.Repository,
	w workflows,
	runtime *agentruntime.Client,
	store storage.Storage,
	log zerolog.Logger,
) *chat.Service {
	return chat.NewService(messages, conversations, w.Default, w.File, runtime, store, cfg.SiteURL, log)
}

func newHandlerProvider(
	cfg *config.Config,
	chatService *chat.Service,
	conversationService *conversation.Service,
	runtime *agentruntime.Client,
	store storage.Storage,
	approvals *approvalstore.Memory,
	pending *approvalstore.Pending,
	log zerolog.Logger,
) *handlers.Provider {
	return handlers.NewProvider(
		chatService, conversationService, runtime, chatService,
		store, approvals, pending, cfg.MaxUploadSizeBytes, log,
	)
}
