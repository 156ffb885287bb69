package main

import (
	"log"

	"github.com/teamup-app/teamup/config"
	_ "github.com/teamup-app/teamup/docs"
	"github.com/teamup-app/teamup/internal/auth"
	"github.com/teamup-app/teamup/internal/booking"
	"github.com/teamup-app/teamup/internal/chat"
	"github.com/teamup-app/teamup/internal/field"
	"github.com/teamup-app/teamup/internal/post"
	"github.com/teamup-app/teamup/internal/team"
	"github.com/teamup-app/teamup/internal/user"
	"github.com/teamup-app/teamup/routes"
)

// @title TeamUp REST API
// @version 1.0
// @description Football field booking, teams and chat.
// @host localhost:3000
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&user.User{}, &user.Friendship{}, &user.FriendRequest{}, &auth.OTP{},
		&field.Field{}, &field.FieldSlot{},
		&booking.Booking{},
		&team.Team{}, &team.TeamMember{}, &team.TeamJoinRequest{},
		&chat.ChatMessage{}, &chat.TeamChatMessage{},
		&post.Post{}, &post.PostComment{}, &post.PostLike{}, &post.CommentLike{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	r := routes.SetupRoutes(config.DB, cfg)

	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
