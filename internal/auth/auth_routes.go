package auth

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/config"
)

func RegisterAuthRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	authRepo := NewAuthRepository(db)
	authController := NewAuthController(authRepo, appConfig)

	authPublic := router.Group("/auth")
	{
		authPublic.POST("/register", authController.Register)
		authPublic.POST("/login", authController.Login)
		authPublic.POST("/send-code", authController.SendCode)
		authPublic.POST("/verify-code", authController.VerifyCode)
		authPublic.POST("/forgot-password", authController.ForgotPassword)
		authPublic.POST("/reset-password", authController.ResetPassword)
	}
}
