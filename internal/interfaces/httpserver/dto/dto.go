// Package dto holds the request and response shapes of the HTTP API.
package dto

import "tutor-server/chat-api/internal/domain/chat"

// ChatRequest starts one streaming chat turn.
type ChatRequest struct {
	Message        string   `json:"message" binding:"required"`
	ConversationID string   `json:"conversationId"`
	FileIDs        []string `json:"fileIds"`
}

// CreateConversationRequest names a new conversation.
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// RenameConversationRequest renames an existing conversation.
type RenameConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

// UploadResponse reports a completed file upload.
type UploadResponse struct {
	FileID   string `json:"fileId"`
	Filename string `json:"filename"`
	Bytes    int64  `json:"bytes"`
}

// DownloadRequest bridges one sandbox file into durable storage.
type DownloadRequest struct {
	FileID         string `json:"fileId" binding:"required"`
	ContainerID    string `json:"containerId" binding:"required"`
	FileName       string `json:"fileName" binding:"required"`
	ConversationID string `json:"conversationId"`
}

// DownloadResponse carries the durable URL of a bridged file.
type DownloadResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// ApprovalRequest records a human decision for a waiting workflow.
type ApprovalRequest struct {
	ApprovalID string `json:"approvalId" binding:"required"`
	Approved   bool   `json:"approved"`
}

// ApprovalStatus reports a stored decision. Approved is null while no
// decision has been recorded.
type ApprovalStatus struct {
	Approved *bool `json:"approved"`
}

// HistoryResponse wraps a history listing.
type HistoryResponse struct {
	Messages []chat.Message `json:"messages"`
}
