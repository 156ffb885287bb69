package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamup-app/teamup/config"
	"github.com/teamup-app/teamup/internal/field"
	"github.com/teamup-app/teamup/pkg/responses"
)

// BookingController admits or rejects reservation requests against the
// contention rules and answers occupancy queries.
type BookingController struct {
	repo      BookingRepository
	appConfig *config.Config
	now       func() time.Time
}

func NewBookingController(repo BookingRepository, appConfig *config.Config) *BookingController {
	return &BookingController{repo: repo, appConfig: appConfig, now: time.Now}
}

type CreateBookingRequest struct {
	FieldID        uint      `json:"field_id" binding:"required"`
	BookedByUserID *uint     `json:"booked_by_user_id"`
	BookedByTeamID *uint     `json:"booked_by_team_id"`
	StartTime      time.Time `json:"start_time" binding:"required"`
	EndTime        time.Time `json:"end_time" binding:"required"`
}

type UpdateBookingRequest struct {
	Status    *string    `json:"status"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

// ListBookings godoc
// @Summary List bookings
// @Description Returns bookings matching the filter, newest start time first, with field and booker display fields joined in.
// @Tags Bookings
// @Produce json
// @Param field_id query int false "Filter by field"
// @Param user_id query int false "Filter by booking user"
// @Param date query string false "Filter by calendar day (YYYY-MM-DD)"
// @Success 200 {object} responses.SuccessResponse{data=[]BookingView}
// @Router /bookings [get]
func (bc *BookingController) ListBookings(c *gin.Context) {
	var filter ListFilter

	if v := c.Query("field_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			responses.BadRequest(c, "Invalid field_id")
			return
		}
		filter.FieldID = uint(id)
	}
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			responses.BadRequest(c, "Invalid user_id")
			return
		}
		filter.UserID = uint(id)
	}
	filter.Date = c.Query("date")

	views, err := bc.repo.ListBookings(filter)
	if err != nil {
		if err.Error() == "invalid date format, expected YYYY-MM-DD" {
			responses.BadRequest(c, err.Error())
			return
		}
		responses.InternalServerError(c, "Failed to fetch bookings")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", views)
}

// GetBookingByID godoc
// @Summary Get a booking
// @Tags Bookings
// @Produce json
// @Param booking_id path int true "Booking ID"
// @Success 200 {object} responses.SuccessResponse{data=BookingView}
// @Failure 404 {object} responses.ErrorResponse
// @Router /bookings/{booking_id} [get]
func (bc *BookingController) GetBookingByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("booking_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid booking ID format")
		return
	}
	view, err := bc.repo.GetBookingView(uint(id))
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch booking")
		return
	}
	if view == nil {
		responses.NotFound(c, "Booking")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", view)
}

// CreateBooking godoc
// @Summary Create a booking
// @Description Admits a reservation for one field and time window. A user may not hold two bookings for the same field and interval, and a window is full once non-canceled bookings reach the field type's capacity (10 for 5x5, 22 for 11x11).
// @Tags Bookings
// @Accept json
// @Produce json
// @Param booking body CreateBookingRequest true "Booking data"
// @Success 201 {object} responses.SuccessResponse{data=BookingView}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /bookings [post]
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	if (req.BookedByUserID == nil) == (req.BookedByTeamID == nil) {
		responses.BadRequest(c, "Exactly one of booked_by_user_id or booked_by_team_id is required")
		return
	}
	if !req.StartTime.Before(req.EndTime) {
		responses.BadRequest(c, "End time must be after start time")
		return
	}

	fieldType, err := bc.repo.FieldType(req.FieldID)
	if err != nil {
		responses.InternalServerError(c, "Failed to verify field")
		return
	}
	if fieldType == "" {
		responses.NotFound(c, "Field")
		return
	}

	if req.BookedByUserID != nil {
		exists, err := bc.repo.UserExists(*req.BookedByUserID)
		if err != nil {
			responses.InternalServerError(c, "Failed to verify user")
			return
		}
		if !exists {
			responses.NotFound(c, "User")
			return
		}

		dup, err := bc.repo.DuplicateExists(req.FieldID, *req.BookedByUserID, req.StartTime, req.EndTime)
		if err != nil {
			responses.InternalServerError(c, "Failed to check existing bookings")
			return
		}
		if dup {
			responses.Conflict(c, "You have already booked this slot")
			return
		}
	} else {
		exists, err := bc.repo.TeamExists(*req.BookedByTeamID)
		if err != nil {
			responses.InternalServerError(c, "Failed to verify team")
			return
		}
		if !exists {
			responses.NotFound(c, "Team")
			return
		}
	}

	occupied, err := bc.repo.CountActiveForWindow(req.FieldID, req.StartTime, req.EndTime)
	if err != nil {
		responses.InternalServerError(c, "Failed to check window occupancy")
		return
	}
	if occupied >= int64(field.Capacity(fieldType)) {
		responses.Conflict(c, "This time window is fully booked")
		return
	}

	b := &Booking{
		FieldID:        req.FieldID,
		BookedByUserID: req.BookedByUserID,
		BookedByTeamID: req.BookedByTeamID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Status:         StatusPending,
	}

	if err := bc.repo.CreateBooking(b); err != nil {
		// A concurrent request past the pre-check lands on the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			responses.Conflict(c, "You have already booked this slot")
			return
		}
		responses.InternalServerError(c, "Failed to create booking")
		return
	}

	view, err := bc.repo.GetBookingView(b.ID)
	if err != nil || view == nil {
		responses.SendSuccess(c, http.StatusCreated, "Booking created", b)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Booking created", view)
}

// UpdateBooking godoc
// @Summary Update a booking
// @Description Patches status and/or times. Any status transition between the three states is allowed.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param booking_id path int true "Booking ID"
// @Param booking body UpdateBookingRequest true "Fields to update"
// @Success 200 {object} responses.SuccessResponse{data=BookingView}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /bookings/{booking_id} [put]
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("booking_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid booking ID format")
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	if req.Status != nil && !ValidStatus(*req.Status) {
		responses.BadRequest(c, "Status must be pending, confirmed or canceled")
		return
	}

	b, err := bc.repo.GetBookingByID(uint(id))
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch booking")
		return
	}
	if b == nil {
		responses.NotFound(c, "Booking")
		return
	}

	if req.StartTime != nil {
		b.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		b.EndTime = *req.EndTime
	}
	if req.Status != nil {
		b.Status = *req.Status
	}

	if err := bc.repo.UpdateBooking(b); err != nil {
		responses.InternalServerError(c, "Failed to update booking")
		return
	}

	view, err := bc.repo.GetBookingView(b.ID)
	if err != nil || view == nil {
		responses.SendSuccess(c, http.StatusOK, "Booking updated", b)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Booking updated", view)
}

// CancelBooking godoc
// @Summary Cancel a booking
// @Description Cancels a booking if at least one hour remains before its start time.
// @Tags Bookings
// @Produce json
// @Param booking_id path int true "Booking ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /bookings/{booking_id}/cancel [post]
func (bc *BookingController) CancelBooking(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("booking_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid booking ID format")
		return
	}

	b, err := bc.repo.GetBookingByID(uint(id))
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch booking")
		return
	}
	if b == nil {
		responses.NotFound(c, "Booking")
		return
	}

	if b.Status == StatusCanceled {
		responses.Conflict(c, "Booking is already canceled")
		return
	}
	if b.StartTime.Sub(bc.now()) < CancelLeadTime {
		responses.BadRequest(c, "Too late to cancel: bookings must be canceled at least 1 hour in advance")
		return
	}

	b.Status = StatusCanceled
	if err := bc.repo.UpdateBooking(b); err != nil {
		responses.InternalServerError(c, "Failed to cancel booking")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Booking canceled", nil)
}

// DeleteBooking godoc
// @Summary Delete a booking
// @Tags Bookings
// @Produce json
// @Param booking_id path int true "Booking ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /bookings/{booking_id} [delete]
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("booking_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid booking ID format")
		return
	}

	b, err := bc.repo.GetBookingByID(uint(id))
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch booking")
		return
	}
	if b == nil {
		responses.NotFound(c, "Booking")
		return
	}

	if err := bc.repo.DeleteBooking(b.ID); err != nil {
		responses.InternalServerError(c, "Failed to delete booking")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Booking deleted", nil)
}
