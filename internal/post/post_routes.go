package post

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/config"
	mw "github.com/teamup-app/teamup/internal/middleware"
)

// PostRoutes sets up feed routes. Reading is public; mutations require
// authentication.
func PostRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	postRepo := NewPostRepository(db)
	postController := NewPostController(postRepo, appConfig)

	router.GET("/posts", postController.GetFeed)
	router.GET("/posts/:post_id", postController.GetPostByID)

	authRoutes := router.Group("/posts")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		authRoutes.POST("", postController.CreatePost)
		authRoutes.PUT("/:post_id", postController.UpdatePost)
		authRoutes.DELETE("/:post_id", postController.DeletePost)
		authRoutes.POST("/:post_id/like", postController.LikePost)
		authRoutes.DELETE("/:post_id/like", postController.UnlikePost)
		authRoutes.POST("/:post_id/comments", postController.AddComment)
		authRoutes.DELETE("/comments/:comment_id", postController.DeleteComment)
		authRoutes.POST("/comments/:comment_id/like", postController.LikeComment)
		authRoutes.DELETE("/comments/:comment_id/like", postController.UnlikeComment)
	}
}
