package team

import (
	"errors"

	"gorm.io/gorm"
)

// TeamRepository defines team, membership and join-request data operations.
// The user fixups (team reference, role) live here too so the cascade paths
// can run inside one transaction.
type TeamRepository interface {
	GetTeamByID(id uint) (*Team, error)
	GetAllTeams() ([]Team, error)
	CreateTeam(t *Team) error
	UpdateTeam(t *Team) error
	DeleteTeam(id uint) error

	GetMember(teamID, userID uint) (*TeamMember, error)
	GetMembers(teamID uint) ([]MemberView, error)
	AddMember(m *TeamMember) error
	RemoveMember(teamID, userID uint) error
	RemoveAllMembers(teamID uint) error

	GetJoinRequest(teamID, userID uint) (*TeamJoinRequest, error)
	GetJoinRequests(teamID uint) ([]MemberView, error)
	CreateJoinRequest(teamID, userID uint) error
	DeleteJoinRequest(teamID, userID uint) error
	DeleteAllJoinRequests(teamID uint) error

	UserExists(id uint) (bool, error)
	UserTeamID(userID uint) (*uint, error)
	SetUserTeam(userID uint, teamID *uint) error
	SetUserRole(userID uint, role string) error
	ClearTeamReferences(teamID uint) error
	DeleteTeamBookings(teamID uint) error
	DeleteTeamChat(teamID uint) error

	WithTransaction(txFunc func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) GetTeamByID(id uint) (*Team, error) {
	var t Team
	if err := r.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *teamRepository) GetAllTeams() ([]Team, error) {
	var teams []Team
	err := r.db.Order("created_at desc").Find(&teams).Error
	return teams, err
}

func (r *teamRepository) CreateTeam(t *Team) error {
	return r.db.Create(t).Error
}

func (r *teamRepository) UpdateTeam(t *Team) error {
	return r.db.Omit("Members").Save(t).Error
}

func (r *teamRepository) DeleteTeam(id uint) error {
	return r.db.Unscoped().Delete(&Team{}, id).Error
}

func (r *teamRepository) GetMember(teamID, userID uint) (*TeamMember, error) {
	var m TeamMember
	err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

const memberSelect = `team_members.user_id, users.first_name, users.last_name,
	users.avatar_url, team_members.role_in_team`

func (r *teamRepository) GetMembers(teamID uint) ([]MemberView, error) {
	var members []MemberView
	err := r.db.Table("team_members").
		Select(memberSelect).
		Joins("JOIN users ON users.id = team_members.user_id").
		Where("team_members.team_id = ? AND team_members.deleted_at IS NULL", teamID).
		Order("team_members.created_at asc").
		Scan(&members).Error
	return members, err
}

func (r *teamRepository) AddMember(m *TeamMember) error {
	return r.db.Create(m).Error
}

func (r *teamRepository) RemoveMember(teamID, userID uint) error {
	return r.db.Unscoped().
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&TeamMember{}).Error
}

func (r *teamRepository) RemoveAllMembers(teamID uint) error {
	return r.db.Unscoped().Where("team_id = ?", teamID).Delete(&TeamMember{}).Error
}

func (r *teamRepository) GetJoinRequest(teamID, userID uint) (*TeamJoinRequest, error) {
	var req TeamJoinRequest
	err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *teamRepository) GetJoinRequests(teamID uint) ([]MemberView, error) {
	var requests []MemberView
	err := r.db.Table("team_join_requests").
		Select(`team_join_requests.user_id, users.first_name, users.last_name,
			users.avatar_url, '' AS role_in_team`).
		Joins("JOIN users ON users.id = team_join_requests.user_id").
		Where("team_join_requests.team_id = ? AND team_join_requests.deleted_at IS NULL", teamID).
		Order("team_join_requests.created_at asc").
		Scan(&requests).Error
	return requests, err
}

func (r *teamRepository) CreateJoinRequest(teamID, userID uint) error {
	return r.db.Create(&TeamJoinRequest{TeamID: teamID, UserID: userID}).Error
}

func (r *teamRepository) DeleteJoinRequest(teamID, userID uint) error {
	return r.db.Unscoped().
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&TeamJoinRequest{}).Error
}

func (r *teamRepository) DeleteAllJoinRequests(teamID uint) error {
	return r.db.Unscoped().Where("team_id = ?", teamID).Delete(&TeamJoinRequest{}).Error
}

func (r *teamRepository) UserExists(id uint) (bool, error) {
	var exists bool
	err := r.db.Table("users").Select("1").Where("id = ? AND deleted_at IS NULL", id).Scan(&exists).Error
	return exists, err
}

func (r *teamRepository) UserTeamID(userID uint) (*uint, error) {
	var row struct{ TeamID *uint }
	err := r.db.Table("users").Select("team_id").Where("id = ? AND deleted_at IS NULL", userID).Scan(&row).Error
	return row.TeamID, err
}

func (r *teamRepository) SetUserTeam(userID uint, teamID *uint) error {
	return r.db.Table("users").Where("id = ?", userID).
		Update("team_id", teamID).Error
}

func (r *teamRepository) SetUserRole(userID uint, role string) error {
	return r.db.Table("users").Where("id = ?", userID).
		Update("role", role).Error
}

func (r *teamRepository) ClearTeamReferences(teamID uint) error {
	return r.db.Table("users").Where("team_id = ?", teamID).
		Update("team_id", nil).Error
}

func (r *teamRepository) DeleteTeamBookings(teamID uint) error {
	return r.db.Exec("DELETE FROM bookings WHERE booked_by_team_id = ?", teamID).Error
}

func (r *teamRepository) DeleteTeamChat(teamID uint) error {
	return r.db.Exec("DELETE FROM team_chat_messages WHERE team_id = ?", teamID).Error
}

func (r *teamRepository) WithTransaction(txFunc func(TeamRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&teamRepository{db: tx})
	})
}
