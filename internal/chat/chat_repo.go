package chat

import (
	"errors"

	"gorm.io/gorm"
)

// ChatRepository defines direct and team chat persistence.
type ChatRepository interface {
	GetRoomMessages(roomID string) ([]ChatMessage, error)
	GetMessageByID(id uint) (*ChatMessage, error)
	CreateMessage(m *ChatMessage) error
	UpdateMessage(m *ChatMessage) error
	DeleteMessage(id uint) error

	GetTeamMessages(teamID uint) ([]TeamChatMessage, error)
	CreateTeamMessage(m *TeamChatMessage) error

	UserDisplayName(userID uint) (string, error)
	TeamExists(id uint) (bool, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) GetRoomMessages(roomID string) ([]ChatMessage, error) {
	var messages []ChatMessage
	err := r.db.Where("room_id = ?", roomID).Order("created_at asc").Find(&messages).Error
	return messages, err
}

func (r *chatRepository) GetMessageByID(id uint) (*ChatMessage, error) {
	var m ChatMessage
	if err := r.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *chatRepository) CreateMessage(m *ChatMessage) error {
	return r.db.Create(m).Error
}

func (r *chatRepository) UpdateMessage(m *ChatMessage) error {
	return r.db.Save(m).Error
}

func (r *chatRepository) DeleteMessage(id uint) error {
	return r.db.Unscoped().Delete(&ChatMessage{}, id).Error
}

func (r *chatRepository) GetTeamMessages(teamID uint) ([]TeamChatMessage, error) {
	var messages []TeamChatMessage
	err := r.db.Where("team_id = ?", teamID).Order("created_at asc").Find(&messages).Error
	return messages, err
}

func (r *chatRepository) CreateTeamMessage(m *TeamChatMessage) error {
	return r.db.Create(m).Error
}

func (r *chatRepository) UserDisplayName(userID uint) (string, error) {
	var row struct {
		FirstName string
		LastName  string
	}
	err := r.db.Table("users").Select("first_name, last_name").
		Where("id = ? AND deleted_at IS NULL", userID).Scan(&row).Error
	if err != nil {
		return "", err
	}
	if row.FirstName == "" && row.LastName == "" {
		return "", gorm.ErrRecordNotFound
	}
	return row.FirstName + " " + row.LastName, nil
}

func (r *chatRepository) TeamExists(id uint) (bool, error) {
	var exists bool
	err := r.db.Table("teams").Select("1").Where("id = ? AND deleted_at IS NULL", id).Scan(&exists).Error
	return exists, err
}
