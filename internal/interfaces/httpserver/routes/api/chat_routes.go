package api

import (
	"github.com/gin-gonic/gin"

	"tutor-server/chat-api/internal/interfaces/httpserver/handlers"
)

func registerChatRoutes(router gin.IRoutes, handler *handlers.ChatHandler) {
	router.POST("/chat", handler.Stream)
	router.GET("/chat-history", handler.History)
}
