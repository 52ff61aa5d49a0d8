package api

import (
	"github.com/gin-gonic/gin"

	"tutor-server/chat-api/internal/interfaces/httpserver/handlers"
)

func registerFileRoutes(router gin.IRoutes, upload *handlers.UploadHandler, file *handlers.FileHandler) {
	router.POST("/upload", upload.Upload)
	router.POST("/files/download", file.Download)
	router.GET("/files/serve", file.Serve)
}
