package booking

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows a bookings query; zero values mean "no constraint".
// Date is a calendar day matched against StartTime.
type ListFilter struct {
	FieldID uint
	UserID  uint
	Date    string // "2006-01-02"
}

// BookingRepository defines booking data operations.
type BookingRepository interface {
	ListBookings(filter ListFilter) ([]BookingView, error)
	GetBookingByID(id uint) (*Booking, error)
	GetBookingView(id uint) (*BookingView, error)
	CreateBooking(b *Booking) error
	UpdateBooking(b *Booking) error
	DeleteBooking(id uint) error

	// DuplicateExists matches the exact (field, user, interval) tuple
	// regardless of status.
	DuplicateExists(fieldID, userID uint, start, end time.Time) (bool, error)
	// CountActiveForWindow counts non-canceled bookings sharing the exact
	// interval on a field; compared against the field type's capacity.
	CountActiveForWindow(fieldID uint, start, end time.Time) (int64, error)

	FieldType(fieldID uint) (string, error)
	UserExists(id uint) (bool, error)
	TeamExists(id uint) (bool, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

const viewSelect = `bookings.*,
	fields.name AS field_name, fields.location AS field_location,
	users.first_name AS booker_first, users.last_name AS booker_last, users.phone AS booker_phone,
	teams.name AS booked_team_name`

func (r *bookingRepository) viewQuery() *gorm.DB {
	return r.db.Model(&Booking{}).
		Select(viewSelect).
		Joins("JOIN fields ON fields.id = bookings.field_id").
		Joins("LEFT JOIN users ON users.id = bookings.booked_by_user_id").
		Joins("LEFT JOIN teams ON teams.id = bookings.booked_by_team_id")
}

func (r *bookingRepository) ListBookings(filter ListFilter) ([]BookingView, error) {
	query := r.viewQuery()

	if filter.FieldID != 0 {
		query = query.Where("bookings.field_id = ?", filter.FieldID)
	}
	if filter.UserID != 0 {
		query = query.Where("bookings.booked_by_user_id = ?", filter.UserID)
	}
	if filter.Date != "" {
		day, err := time.Parse("2006-01-02", filter.Date)
		if err != nil {
			return nil, errors.New("invalid date format, expected YYYY-MM-DD")
		}
		query = query.Where("bookings.start_time >= ? AND bookings.start_time < ?",
			day, day.AddDate(0, 0, 1))
	}

	var views []BookingView
	if err := query.Order("bookings.start_time desc").Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

func (r *bookingRepository) GetBookingByID(id uint) (*Booking, error) {
	var b Booking
	if err := r.db.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) GetBookingView(id uint) (*BookingView, error) {
	var v BookingView
	err := r.viewQuery().Where("bookings.id = ?", id).Scan(&v).Error
	if err != nil {
		return nil, err
	}
	if v.ID == 0 {
		return nil, nil
	}
	return &v, nil
}

func (r *bookingRepository) CreateBooking(b *Booking) error {
	return r.db.Create(b).Error
}

func (r *bookingRepository) UpdateBooking(b *Booking) error {
	return r.db.Save(b).Error
}

func (r *bookingRepository) DeleteBooking(id uint) error {
	return r.db.Unscoped().Delete(&Booking{}, id).Error
}

func (r *bookingRepository) DuplicateExists(fieldID, userID uint, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&Booking{}).
		Where("field_id = ? AND booked_by_user_id = ? AND start_time = ? AND end_time = ?",
			fieldID, userID, start, end).
		Count(&count).Error
	return count > 0, err
}

func (r *bookingRepository) CountActiveForWindow(fieldID uint, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&Booking{}).
		Where("field_id = ? AND start_time = ? AND end_time = ? AND status <> ?",
			fieldID, start, end, StatusCanceled).
		Count(&count).Error
	return count, err
}

func (r *bookingRepository) FieldType(fieldID uint) (string, error) {
	var fieldType string
	err := r.db.Table("fields").Select("type").
		Where("id = ? AND deleted_at IS NULL", fieldID).
		Scan(&fieldType).Error
	if err != nil {
		return "", err
	}
	return fieldType, nil
}

func (r *bookingRepository) UserExists(id uint) (bool, error) {
	var exists bool
	err := r.db.Table("users").Select("1").Where("id = ? AND deleted_at IS NULL", id).Scan(&exists).Error
	return exists, err
}

func (r *bookingRepository) TeamExists(id uint) (bool, error) {
	var exists bool
	err := r.db.Table("teams").Select("1").Where("id = ? AND deleted_at IS NULL", id).Scan(&exists).Error
	return exists, err
}
