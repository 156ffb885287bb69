package booking

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCanceled  = "canceled"

	// CancelLeadTime is the minimum gap between a cancellation request and the
	// booking's start time.
	CancelLeadTime = time.Hour
)

// Booking reserves one field for one concrete [StartTime,EndTime) interval,
// attributed to exactly one of BookedByUserID or BookedByTeamID. The composite
// unique index closes the duplicate-slot race for user bookings at the store;
// team bookings carry a NULL user id and are exempt (Postgres treats NULLs as
// distinct).
type Booking struct {
	gorm.Model
	FieldID        uint      `json:"field_id" gorm:"index;uniqueIndex:idx_user_field_slot"`
	BookedByUserID *uint     `json:"booked_by_user_id" gorm:"uniqueIndex:idx_user_field_slot"`
	BookedByTeamID *uint     `json:"booked_by_team_id" gorm:"index"`
	StartTime      time.Time `json:"start_time" gorm:"uniqueIndex:idx_user_field_slot"`
	EndTime        time.Time `json:"end_time" gorm:"uniqueIndex:idx_user_field_slot"`
	Status         string    `json:"status" gorm:"type:VARCHAR(20);check:status IN ('pending','confirmed','canceled');default:'pending'"`
}

// ValidStatus reports whether s is one of the three booking states.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCanceled
}

// BookingView is the read-side projection with display fields joined in; the
// engine itself stays id-only.
type BookingView struct {
	Booking
	FieldName      string `json:"field_name"`
	FieldLocation  string `json:"field_location"`
	BookerFirst    string `json:"booker_first_name,omitempty"`
	BookerLast     string `json:"booker_last_name,omitempty"`
	BookerPhone    string `json:"booker_phone,omitempty"`
	BookedTeamName string `json:"booked_team_name,omitempty"`
}
