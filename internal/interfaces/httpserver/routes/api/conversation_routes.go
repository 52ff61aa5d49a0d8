package api

import (
	"github.com/gin-gonic/gin"

	"tutor-server/chat-api/internal/interfaces/httpserver/handlers"
)

func registerConversationRoutes(router gin.IRoutes, handler *handlers.ConversationHandler) {
	router.GET("/conversations", handler.List)
	router.POST("/conversations", handler.Create)
	router.PATCH("/conversations/:conversation_id", handler.Rename)
	router.DELETE("/conversations/:conversation_id", handler.Delete)
}
