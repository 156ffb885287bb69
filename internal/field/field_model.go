package field

import (
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/internal/models"
)

const (
	TypeFiveASide   = "5x5"
	TypeElevenASide = "11x11"

	// Capacity is the number of separate bookers (individuals or teams) that
	// may share one physical field's time window; games are organized by
	// matching bookers into the same window.
	CapacityFiveASide   = 10
	CapacityElevenASide = 22
)

// Field is a bookable venue owned by a user with role owner or admin.
type Field struct {
	gorm.Model
	Name     string             `json:"name" gorm:"not null"`
	Type     string             `json:"type" gorm:"type:VARCHAR(10);not null"`
	Location string             `json:"location" gorm:"not null"`
	Images   models.StringSlice `json:"images" gorm:"type:jsonb"`
	OwnerID  uint               `json:"owner_id" gorm:"index"`
	Slots    []FieldSlot        `json:"slots"`
}

// FieldSlot is one nominal time-window template, e.g. 08:00-10:00. Occupancy
// is counted against concrete bookings whose interval matches a template on a
// given date.
type FieldSlot struct {
	gorm.Model
	FieldID uint   `json:"field_id" gorm:"index"`
	Start   string `json:"start" gorm:"not null"` // "HH:MM"
	End     string `json:"end" gorm:"not null"`
}

// ValidType reports whether t is a known field type.
func ValidType(t string) bool {
	return t == TypeFiveASide || t == TypeElevenASide
}

// Capacity maps a field type to its per-window booker capacity.
func Capacity(fieldType string) int {
	if fieldType == TypeElevenASide {
		return CapacityElevenASide
	}
	return CapacityFiveASide
}

// DefaultSlots returns the seven canonical two-hour windows, 08:00 to 22:00.
func DefaultSlots() []FieldSlot {
	windows := [][2]string{
		{"08:00", "10:00"},
		{"10:00", "12:00"},
		{"12:00", "14:00"},
		{"14:00", "16:00"},
		{"16:00", "18:00"},
		{"18:00", "20:00"},
		{"20:00", "22:00"},
	}
	slots := make([]FieldSlot, 0, len(windows))
	for _, w := range windows {
		slots = append(slots, FieldSlot{Start: w[0], End: w[1]})
	}
	return slots
}
