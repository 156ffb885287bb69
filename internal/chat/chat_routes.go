package chat

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/config"
	mw "github.com/teamup-app/teamup/internal/middleware"
)

// ChatRoutes sets up chat history routes. Everything is principal-scoped.
func ChatRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	chatRepo := NewChatRepository(db)
	chatController := NewChatController(chatRepo, appConfig)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		authRoutes.GET("/chat/:room_id", chatController.GetRoomMessages)
		authRoutes.POST("/chat", chatController.SendMessage)
		authRoutes.PUT("/chat/:message_id", chatController.EditMessage)
		authRoutes.DELETE("/chat/:message_id", chatController.DeleteMessage)

		authRoutes.GET("/team-chat/:team_id/messages", chatController.GetTeamMessages)
		authRoutes.POST("/team-chat/:team_id/message", chatController.SendTeamMessage)
		authRoutes.POST("/team-chat/upload", chatController.UploadChatFile)
	}
}
