package routes

import (
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/config"
	"github.com/teamup-app/teamup/internal/auth"
	"github.com/teamup-app/teamup/internal/booking"
	"github.com/teamup-app/teamup/internal/chat"
	"github.com/teamup-app/teamup/internal/field"
	"github.com/teamup-app/teamup/internal/post"
	"github.com/teamup-app/teamup/internal/relay"
	"github.com/teamup-app/teamup/internal/team"
	"github.com/teamup-app/teamup/internal/user"
)

// SetupRoutes builds the gin engine: CORS, static uploads, swagger, the
// websocket relay endpoint and every API group.
func SetupRoutes(db *gorm.DB, appConfig *config.Config) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{appConfig.App.FrontendURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.Static("/static/avatars", filepath.Join(appConfig.App.UploadDir, "avatars"))
	r.Static("/static/team-chat", filepath.Join(appConfig.App.UploadDir, "team-chat"))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "teamup", "status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	hub := relay.NewHub()
	r.GET("/ws", relay.ServeWS(hub))

	jwtSecret := appConfig.JWT.Secret

	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, appConfig)
	user.UserRoutes(api, db, appConfig, jwtSecret)
	field.FieldRoutes(api, db, appConfig, jwtSecret)
	booking.BookingRoutes(api, db, appConfig, jwtSecret)
	team.TeamRoutes(api, db, appConfig, jwtSecret)
	chat.ChatRoutes(api, db, appConfig, jwtSecret)
	post.PostRoutes(api, db, appConfig, jwtSecret)

	return r
}
