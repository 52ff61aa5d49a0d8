package api

import (
	"github.com/gin-gonic/gin"

	"tutor-server/chat-api/internal/interfaces/httpserver/handlers"
)

func registerApprovalRoutes(router gin.IRoutes, handler *handlers.ApprovalHandler) {
	router.POST("/approval", handler.Decide)
	router.GET("/approval", handler.Status)
	router.GET("/approval/pending", handler.Pending)
}
