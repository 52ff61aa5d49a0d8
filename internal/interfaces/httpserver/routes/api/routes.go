package api

import (
	"github.com/gin-gonic/gin"

	"tutor-server/chat-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates API route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the API route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register attaches all routes under the /api prefix.
func (r *Routes) Register(engine *gin.Engine) {
	group := engine.Group("/api")
	registerChatRoutes(group, r.handlers.Chat)
	registerConversationRoutes(group, r.handlers.Conversation)
	registerFileRoutes(group, r.handlers.Upload, r.handlers.File)
	registerApprovalRoutes(group, r.handlers.Approval)
}
