package team

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/config"
	mw "github.com/teamup-app/teamup/internal/middleware"
)

// TeamRoutes sets up team routes. Listing and single-team reads are public;
// everything that mutates membership requires authentication.
func TeamRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	teamRepo := NewTeamRepository(db)
	teamController := NewTeamController(teamRepo, appConfig)

	router.GET("/teams", teamController.GetAllTeams)

	authRoutes := router.Group("/teams")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		authRoutes.GET("/my", teamController.GetMyTeam)
		authRoutes.POST("", teamController.CreateTeam)
		authRoutes.PUT("/:team_id", teamController.UpdateTeam)
		authRoutes.DELETE("/:team_id", teamController.DeleteTeam)
		authRoutes.POST("/:team_id/join", teamController.RequestJoin)
		authRoutes.POST("/:team_id/leave", teamController.LeaveTeam)
		authRoutes.POST("/:team_id/requests/:user_id/approve", teamController.ApproveJoin)
		authRoutes.POST("/:team_id/requests/:user_id/reject", teamController.RejectJoin)
		authRoutes.POST("/:team_id/remove/:user_id", teamController.RemoveMember)
	}

	router.GET("/teams/:team_id", teamController.GetTeamByID)
}
