package field

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/config"
	mw "github.com/teamup-app/teamup/internal/middleware"
	"github.com/teamup-app/teamup/pkg/rmiddleware"
)

// FieldRoutes sets up field routes. Reads are public; mutations are gated to
// owner/admin roles.
func FieldRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	fieldRepo := NewFieldRepository(db)
	fieldController := NewFieldController(fieldRepo, appConfig)

	router.GET("/fields", fieldController.GetAllFields)
	router.GET("/fields/:field_id", fieldController.GetFieldByID)

	managed := router.Group("/")
	managed.Use(mw.AuthMiddleware(jwtSecret, db))
	managed.Use(rmiddleware.OwnerOrAdminMiddleware(db))
	{
		managed.POST("/fields", fieldController.CreateField)
		managed.PUT("/fields/:field_id", fieldController.UpdateField)
		managed.DELETE("/fields/:field_id", fieldController.DeleteField)
	}
}
