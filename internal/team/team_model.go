package team

import (
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/internal/models"
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Team is a named group of players with exactly one owner. Membership rows
// live in TeamMember; the owner additionally appears there with role owner.
type Team struct {
	gorm.Model
	Name         string             `json:"name" gorm:"not null"`
	Description  string             `json:"description"`
	City         string             `json:"city"`
	TrainingDays models.StringSlice `json:"training_days" gorm:"type:jsonb"`
	Type         string             `json:"type" gorm:"type:VARCHAR(10)"`
	LogoURL      string             `json:"logo_url"`
	OwnerID      uint               `json:"owner_id" gorm:"index;not null"`
	Members      []TeamMember       `json:"members,omitempty" gorm:"foreignKey:TeamID"`
}

// TeamMember is one (team, user) membership. The pair is unique; exactly one
// row per team carries role owner and its UserID equals the team's OwnerID.
type TeamMember struct {
	gorm.Model
	TeamID     uint   `json:"team_id" gorm:"index:idx_team_user,unique"`
	UserID     uint   `json:"user_id" gorm:"index:idx_team_user,unique"`
	RoleInTeam string `json:"role_in_team" gorm:"type:VARCHAR(20);default:'member'"`
}

// TeamJoinRequest is a pending candidacy, disjoint from membership.
type TeamJoinRequest struct {
	gorm.Model
	TeamID uint `json:"team_id" gorm:"index:idx_team_join,unique"`
	UserID uint `json:"user_id" gorm:"index:idx_team_join,unique"`
}

// MemberView is the member projection with display fields joined in.
type MemberView struct {
	UserID     uint   `json:"user_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	AvatarURL  string `json:"avatar_url"`
	RoleInTeam string `json:"role_in_team"`
}

// TeamView is a team with its members and pending request user ids resolved.
type TeamView struct {
	Team
	MemberList []MemberView `json:"member_list"`
	Requests   []MemberView `json:"requests,omitempty"`
}
