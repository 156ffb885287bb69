package user

import (
	"time"

	"gorm.io/gorm"
)

const (
	RolePlayer = "player"
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
)

// User is an account identified by a unique phone number. TeamID is the
// single-team membership reference: a user belongs to at most one team.
type User struct {
	gorm.Model
	FirstName               string     `json:"first_name" gorm:"not null"`
	LastName                string     `json:"last_name" gorm:"not null"`
	Phone                   string     `json:"phone" gorm:"uniqueIndex;not null"`
	PasswordHash            string     `json:"-" gorm:"not null"`
	Role                    string     `json:"role" gorm:"type:VARCHAR(20);default:'player'"`
	About                   string     `json:"about"`
	AvatarURL               string     `json:"avatar_url"`
	BirthDate               time.Time  `json:"birth_date"`
	TeamID                  *uint      `json:"team_id" gorm:"index"`
	Verified                bool       `json:"verified" gorm:"default:false"`
	VerificationCode        string     `json:"-"`
	VerificationCodeExpires *time.Time `json:"-"`
}

// Friendship is one direction of a confirmed friend edge; edges are stored
// symmetrically, two rows per pair.
type Friendship struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"index:idx_friend_pair,unique"`
	FriendID uint `json:"friend_id" gorm:"index:idx_friend_pair,unique"`
}

// FriendRequest is a pending, directed friend application.
type FriendRequest struct {
	gorm.Model
	FromUserID uint `json:"from_user_id" gorm:"index:idx_friend_req,unique"`
	ToUserID   uint `json:"to_user_id" gorm:"index:idx_friend_req,unique"`
}

// PublicUser is the read-side projection attached to teams, bookings and
// friend lists.
type PublicUser struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		AvatarURL: u.AvatarURL,
	}
}
