package chat

import (
	"strconv"

	"gorm.io/gorm"
)

const (
	FileTypeImage = "image"
	FileTypeVideo = "video"
	FileTypeOther = "other"
)

// ChatMessage is one direct-chat record. RoomID is the canonical pair id from
// DirectRoomID, so both participants read and write the same history.
type ChatMessage struct {
	gorm.Model
	RoomID   string `json:"room_id" gorm:"index;not null"`
	AuthorID uint   `json:"author_id" gorm:"not null"`
	Text     string `json:"text"`
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type" gorm:"type:VARCHAR(10)"`
	Edited   bool   `json:"edited" gorm:"default:false"`
}

// TeamChatMessage is one team-room record. Author is the sender's display
// name captured at send time.
type TeamChatMessage struct {
	gorm.Model
	TeamID   uint   `json:"team_id" gorm:"index;not null"`
	UserID   uint   `json:"user_id" gorm:"not null"`
	Author   string `json:"author"`
	Text     string `json:"text"`
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type" gorm:"type:VARCHAR(10)"`
}

// ValidFileType reports whether t is one of the supported attachment kinds.
func ValidFileType(t string) bool {
	return t == FileTypeImage || t == FileTypeVideo || t == FileTypeOther
}

// DirectRoomID builds the canonical room id for a direct conversation. The
// two user ids are ordered ascending and joined with "_", so both sides
// compute the same room regardless of who starts the chat.
func DirectRoomID(a, b uint) string {
	if b < a {
		a, b = b, a
	}
	return strconv.FormatUint(uint64(a), 10) + "_" + strconv.FormatUint(uint64(b), 10)
}
