package auth

import (
	"time"

	"gorm.io/gorm"

	"github.com/teamup-app/teamup/internal/user"
)

// OTP tracks verification codes sent to a phone, with attempt counting for
// cooldown enforcement.
type OTP struct {
	gorm.Model
	Phone     string    `gorm:"not null;index"`
	Code      string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Verified  bool      `gorm:"default:false"`
	Attempt   int       `gorm:"default:0"`
}

type RegisterRequest struct {
	FirstName string    `json:"first_name" binding:"required"`
	LastName  string    `json:"last_name" binding:"required"`
	Phone     string    `json:"phone" binding:"required,e164" example:"+380501234567"`
	Password  string    `json:"password" binding:"required,min=8,max=72"`
	BirthDate time.Time `json:"birth_date" binding:"required"`
	About     string    `json:"about,omitempty"`
}

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required,e164"`
	Password string `json:"password" binding:"required"`
}

type SendCodeRequest struct {
	Phone string `json:"phone" binding:"required,e164"`
}

type VerifyCodeRequest struct {
	Phone string `json:"phone" binding:"required,e164"`
	Code  string `json:"code" binding:"required,len=6"`
}

type ForgotPasswordRequest struct {
	Phone string `json:"phone" binding:"required,e164"`
}

type ResetPasswordRequest struct {
	Phone       string `json:"phone" binding:"required,e164"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	About     string    `json:"about"`
	AvatarURL string    `json:"avatar_url"`
	BirthDate time.Time `json:"birth_date"`
	TeamID    *uint     `json:"team_id"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

func FilterUserRecord(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		About:     u.About,
		AvatarURL: u.AvatarURL,
		BirthDate: u.BirthDate,
		TeamID:    u.TeamID,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}
