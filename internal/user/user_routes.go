package user

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/config"
	mw "github.com/teamup-app/teamup/internal/middleware"
)

// UserRoutes sets up profile and friend-graph routes.
func UserRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	userRepo := NewUserRepository(db)
	userController := NewUserController(userRepo, appConfig)

	router.GET("/users", userController.GetAllUsers)
	router.GET("/users/:user_id", userController.GetUserByID)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		authRoutes.PUT("/users/me", userController.UpdateProfile)
		authRoutes.POST("/users/me/avatar", userController.UploadAvatar)

		authRoutes.GET("/users/me/friends", userController.GetFriends)
		authRoutes.POST("/users/:user_id/friend-request", userController.SendFriendRequest)
		authRoutes.POST("/users/:user_id/friend-request/accept", userController.AcceptFriendRequest)
		authRoutes.POST("/users/:user_id/friend-request/decline", userController.DeclineFriendRequest)
		authRoutes.DELETE("/users/:user_id/friend", userController.Unfriend)
	}
}
