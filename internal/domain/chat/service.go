package chat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"tutor-server/chat-api/internal/domain/agent"
	"tutor-server/chat-api/internal/domain/attachment"
	"tutor-server/chat-api/internal/domain/conversation"
)

// Orchestrator starts one workflow turn and streams adapted events.
type Orchestrator interface {
	Stream(ctx context.Context, input agent.WorkflowInput) (<-chan agent.StreamEvent, error)
}

// RuntimeFiles is the slice of the agent runtime API the reconciliation
// pipeline needs: the sandbox's live listing and raw file content.
type RuntimeFiles interface {
	ListContainerFiles(ctx context.Context, containerID string) ([]agent.ContainerFile, error)
	DownloadContainerFile(ctx context.Context, containerID, fileID string) ([]byte, error)
}

// FileStore uploads durable file content.
type FileStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}

// StreamObserver receives the chat turn's outbound frames as they happen.
type StreamObserver interface {
	OnText(content string)
	OnBoundary()
	OnApprovalRequest(approvalID string)
	OnDone(message string)
	OnError(message string)
}

// Params carries one inbound chat turn.
type Params struct {
	UserID         string
	ConversationID string
	Message        string
	FileIDs        []string
}

// BridgeParams identifies a single sandbox file to move into durable storage.
type BridgeParams struct {
	FileID         string
	ContainerID    string
	FileName       string
	UserID         string
	ConversationID string
}

// Service drives the chat turn pipeline: persist the user message, stream
// the workflow, reconcile sandbox files into durable storage, persist the
// assistant message.
type Service struct {
	messages      Repository
	conversations conversation.Repository
	workflow      Orchestrator
	fileWorkflow  Orchestrator
	runtime       RuntimeFiles
	store         FileStore
	siteURL       string
	log           zerolog.Logger
}

// NewService constructs the chat service.
func NewService(
	messages Repository,
	conversations conversation.Repository,
	workflow Orchestrator,
	fileWorkflow Orchestrator,
	runtime RuntimeFiles,
	store FileStore,
	siteURL string,
	log zerolog.Logger,
) *Service {
	return &Service{
		messages:      messages,
		conversations: conversations,
		workflow:      workflow,
		fileWorkflow:  fileWorkflow,
		runtime:       runtime,
		store:         store,
		siteURL:       strings.TrimSuffix(siteURL, "/"),
		log:           log.With().Str("component", "chat-service").Logger(),
	}
}

// Chat runs one turn. Text events reach the observer as they arrive; the done
// frame is deferred until sandbox files have been reconciled. A returned
// error means the workflow could not start; failures after that are reported
// through the observer.
func (s *Service) Chat(ctx context.Context, p Params, obs StreamObserver) error {
	// Persisting the inbound message must never block generation.
	userMsg := &Message{
		UserID:         p.UserID,
		ConversationID: p.ConversationID,
		Role:           RoleUser,
		Content:        p.Message,
	}
	if err := s.messages.Insert(ctx, userMsg); err != nil {
		s.log.Error().Err(err).Str("user_id", p.UserID).Msg("persist user message")
	}

	orchestrator := s.workflow
	if len(p.FileIDs) > 0 {
		orchestrator = s.fileWorkflow
	}

	events, err := orchestrator.Stream(ctx, agent.WorkflowInput{
		InputAsText: p.Message,
		FileIDs:     p.FileIDs,
	})
	if err != nil {
		return fmt.Errorf("start workflow: %w", err)
	}

	var (
		finalMessage string
		files        []agent.FileReference
		containerID  string
		done         bool
	)
	for evt := range events {
		switch evt.Type {
		case agent.EventText:
			obs.OnText(evt.Content)
		case agent.EventBoundary:
			obs.OnBoundary()
		case agent.EventApprovalRequest:
			obs.OnApprovalRequest(evt.ApprovalID)
		case agent.EventErr:
			s.log.Error().Str("message", evt.Message).Msg("workflow stream failed")
			obs.OnError(evt.Message)
			return nil
		case agent.EventDone:
			finalMessage = evt.Message
			files = evt.Files
			containerID = evt.ContainerID
			done = true
		}
	}
	if !done {
		obs.OnError("stream ended unexpectedly")
		return nil
	}

	if len(files) > 0 {
		finalMessage = s.reconcileFiles(ctx, finalMessage, files, containerID, p.UserID, p.ConversationID)
	}

	obs.OnDone(finalMessage)

	assistantMsg := &Message{
		UserID:         p.UserID,
		ConversationID: p.ConversationID,
		Role:           RoleAssistant,
		Content:        finalMessage,
	}
	if err := s.messages.Insert(ctx, assistantMsg); err != nil {
		s.log.Error().Err(err).Msg("persist assistant message")
	}
	if p.ConversationID != "" {
		if err := s.conversations.Touch(ctx, p.ConversationID); err != nil {
			s.log.Error().Err(err).Str("conversation_id", p.ConversationID).Msg("touch conversation")
		}
	}
	return nil
}

// reconcileFiles moves each referenced sandbox file into durable storage and
// rewrites the message's ephemeral links. Every failure is per-file: the rest
// of the files and the turn itself still complete.
func (s *Service) reconcileFiles(
	ctx context.Context,
	message string,
	files []agent.FileReference,
	containerID, userID, conversationID string,
) string {
	if !agent.IsValidContainerID(containerID) {
		s.log.Error().
			Str("container_id", containerID).
			Int("files", len(files)).
			Msg("files detected but no usable container id, leaving sandbox links unresolved")
		return message
	}

	listing, err := s.runtime.ListContainerFiles(ctx, containerID)
	if err != nil {
		s.log.Error().Err(err).Str("container_id", containerID).Msg("list container files")
		return message
	}

	for _, ref := range files {
		remote := matchContainerFile(listing, ref)
		if remote == nil {
			s.log.Warn().
				Str("path", ref.Path).
				Str("file_name", ref.FileName).
				Msg("no matching container file, leaving reference unresolved")
			continue
		}

		fileName := remote.Name
		if fileName == "" {
			fileName = ref.FileName
		}

		fileURL, _, err := s.BridgeFile(ctx, BridgeParams{
			FileID:         remote.ID,
			ContainerID:    containerID,
			FileName:       fileName,
			UserID:         userID,
			ConversationID: conversationID,
		})
		if err != nil {
			s.log.Error().Err(err).Str("file_id", remote.ID).Msg("bridge container file")
			continue
		}

		message = RewriteFileLink(message, ref.Path, fileURL, fileName)
	}
	return message
}

// BridgeFile downloads one file from the sandbox, uploads it to durable
// storage under a deterministic per-user/per-conversation key, and returns
// the servable URL plus the storage path.
func (s *Service) BridgeFile(ctx context.Context, p BridgeParams) (string, string, error) {
	data, err := s.runtime.DownloadContainerFile(ctx, p.ContainerID, p.FileID)
	if err != nil {
		return "", "", fmt.Errorf("download container file: %w", err)
	}

	storagePath := p.UserID + "/" + p.ConversationID + "/" + p.FileName
	contentType := attachment.DetectContentType(data, p.FileName)
	if err := s.store.Upload(ctx, storagePath, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", "", fmt.Errorf("upload to storage: %w", err)
	}

	return s.ServeURL(storagePath, p.FileName), storagePath, nil
}

// ServeURL builds the durable link clients use to fetch a stored file.
func (s *Service) ServeURL(storagePath, fileName string) string {
	return fmt.Sprintf("%s/api/files/serve?path=%s&filename=%s",
		s.siteURL, url.QueryEscape(storagePath), url.QueryEscape(fileName))
}

// History returns the user's messages, optionally scoped to one conversation,
// oldest first.
func (s *Service) History(ctx context.Context, userID, conversationID string) ([]Message, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("userID is required")
	}
	if conversationID != "" {
		return s.messages.ListByConversationID(ctx, userID, conversationID)
	}
	return s.messages.ListByUserID(ctx, userID)
}

// matchContainerFile finds ref in the sandbox listing, trying exact path,
// leading slash variants, declared name, then a suffix match.
func matchContainerFile(listing []agent.ContainerFile, ref agent.FileReference) *agent.ContainerFile {
	for i := range listing {
		if listing[i].Path == ref.Path {
			return &listing[i]
		}
	}
	for i := range listing {
		if strings.TrimPrefix(listing[i].Path, "/") == strings.TrimPrefix(ref.Path, "/") {
			return &listing[i]
		}
	}
	for i := range listing {
		if listing[i].Name != "" && listing[i].Name == ref.FileName {
			return &listing[i]
		}
	}
	for i := range listing {
		if ref.FileName != "" && strings.HasSuffix(listing[i].Path, ref.FileName) {
			return &listing[i]
		}
	}
	return nil
}
