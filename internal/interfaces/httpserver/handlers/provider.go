package handlers

import (
	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/domain/approval"
	"tutor-server/chat-api/internal/infrastructure/approvalstore"
	"tutor-server/chat-api/internal/infrastructure/storage"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat         *ChatHandler
	Conversation *ConversationHandler
	Upload       *UploadHandler
	File         *FileHandler
	Approval     *ApprovalHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	chatService ChatService,
	conversationService ConversationService,
	uploader Uploader,
	bridge FileBridge,
	store storage.Storage,
	approvals approval.Store,
	pending *approvalstore.Pending,
	maxUploadBytes int64,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Chat:         NewChatHandler(chatService, log),
		Conversation: NewConversationHandler(conversationService, log),
		Upload:       NewUploadHandler(uploader, maxUploadBytes, log),
		File:         NewFileHandler(bridge, store, log),
		Approval:     NewApprovalHandler(approvals, pending, log),
	}
}
