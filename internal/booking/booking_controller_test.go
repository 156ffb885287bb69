package booking

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamup-app/teamup/config"
	"github.com/teamup-app/teamup/internal/field"
)

type fakeBookingRepo struct {
	bookings  map[uint]*Booking
	nextID    uint
	fieldType map[uint]string
	users     map[uint]bool
	teams     map[uint]bool
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings:  make(map[uint]*Booking),
		nextID:    1,
		fieldType: map[uint]string{1: field.TypeFiveASide, 2: field.TypeElevenASide},
		users:     map[uint]bool{1: true, 2: true},
		teams:     map[uint]bool{1: true},
	}
}

func (f *fakeBookingRepo) ListBookings(filter ListFilter) ([]BookingView, error) {
	var dayStart, dayEnd time.Time
	if filter.Date != "" {
		day, err := time.Parse("2006-01-02", filter.Date)
		if err != nil {
			return nil, errors.New("invalid date format, expected YYYY-MM-DD")
		}
		dayStart, dayEnd = day, day.AddDate(0, 0, 1)
	}

	var views []BookingView
	for _, b := range f.bookings {
		if filter.FieldID != 0 && b.FieldID != filter.FieldID {
			continue
		}
		if filter.UserID != 0 && (b.BookedByUserID == nil || *b.BookedByUserID != filter.UserID) {
			continue
		}
		if filter.Date != "" && (b.StartTime.Before(dayStart) || !b.StartTime.Before(dayEnd)) {
			continue
		}
		views = append(views, BookingView{Booking: *b})
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].StartTime.After(views[j].StartTime)
	})
	return views, nil
}

func (f *fakeBookingRepo) GetBookingByID(id uint) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetBookingView(id uint) (*BookingView, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	return &BookingView{Booking: *b}, nil
}

func (f *fakeBookingRepo) CreateBooking(b *Booking) error {
	b.ID = f.nextID
	f.nextID++
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) UpdateBooking(b *Booking) error {
	copied := *b
	f.bookings[b.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) DeleteBooking(id uint) error {
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) DuplicateExists(fieldID, userID uint, start, end time.Time) (bool, error) {
	for _, b := range f.bookings {
		if b.FieldID == fieldID && b.BookedByUserID != nil && *b.BookedByUserID == userID &&
			b.StartTime.Equal(start) && b.EndTime.Equal(end) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) CountActiveForWindow(fieldID uint, start, end time.Time) (int64, error) {
	var count int64
	for _, b := range f.bookings {
		if b.FieldID == fieldID && b.Status != StatusCanceled &&
			b.StartTime.Equal(start) && b.EndTime.Equal(end) {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) FieldType(fieldID uint) (string, error) {
	return f.fieldType[fieldID], nil
}

func (f *fakeBookingRepo) UserExists(id uint) (bool, error) { return f.users[id], nil }
func (f *fakeBookingRepo) TeamExists(id uint) (bool, error) { return f.teams[id], nil }

func setupBookingRouter(repo BookingRepository) (*gin.Engine, *BookingController) {
	gin.SetMode(gin.TestMode)
	bc := NewBookingController(repo, &config.Config{})
	r := gin.New()
	r.GET("/bookings", bc.ListBookings)
	r.GET("/bookings/:booking_id", bc.GetBookingByID)
	r.POST("/bookings", bc.CreateBooking)
	r.PUT("/bookings/:booking_id", bc.UpdateBooking)
	r.POST("/bookings/:booking_id/cancel", bc.CancelBooking)
	r.DELETE("/bookings/:booking_id", bc.DeleteBooking)
	return r, bc
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bookingWindow() (time.Time, time.Time) {
	start := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	return start, start.Add(2 * time.Hour)
}

func TestCreateBooking_RequiresExactlyOneRequester(t *testing.T) {
	r, _ := setupBookingRouter(newFakeBookingRepo())
	start, end := bookingWindow()

	userID := uint(1)
	teamID := uint(1)

	w := postJSON(t, r, "/bookings", gin.H{
		"field_id": 1, "start_time": start, "end_time": end,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/bookings", CreateBookingRequest{
		FieldID: 1, BookedByUserID: &userID, BookedByTeamID: &teamID,
		StartTime: start, EndTime: end,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBooking_RejectsInvertedWindow(t *testing.T) {
	r, _ := setupBookingRouter(newFakeBookingRepo())
	start, end := bookingWindow()
	userID := uint(1)

	w := postJSON(t, r, "/bookings", CreateBookingRequest{
		FieldID: 1, BookedByUserID: &userID, StartTime: end, EndTime: start,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBooking_DuplicateSlotConflict(t *testing.T) {
	repo := newFakeBookingRepo()
	r, _ := setupBookingRouter(repo)
	start, end := bookingWindow()
	userID := uint(1)

	req := CreateBookingRequest{
		FieldID: 1, BookedByUserID: &userID, StartTime: start, EndTime: end,
	}
	w := postJSON(t, r, "/bookings", req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/bookings", req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already booked")
}

func TestCreateBooking_DuplicateCheckIgnoresStatus(t *testing.T) {
	repo := newFakeBookingRepo()
	r, _ := setupBookingRouter(repo)
	start, end := bookingWindow()
	userID := uint(1)

	repo.bookings[99] = &Booking{
		FieldID: 1, BookedByUserID: &userID,
		StartTime: start, EndTime: end, Status: StatusCanceled,
	}

	w := postJSON(t, r, "/bookings", CreateBookingRequest{
		FieldID: 1, BookedByUserID: &userID, StartTime: start, EndTime: end,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateBooking_WindowCapacityEnforced(t *testing.T) {
	repo := newFakeBookingRepo()
	r, _ := setupBookingRouter(repo)
	start, end := bookingWindow()

	// Ten distinct users fill a 5x5 window.
	for i := 1; i <= field.CapacityFiveASide; i++ {
		uid := uint(i)
		repo.users[uid] = true
		repo.bookings[uint(100+i)] = &Booking{
			FieldID: 1, BookedByUserID: &uid,
			StartTime: start, EndTime: end, Status: StatusPending,
		}
	}

	eleventh := uint(11)
	repo.users[eleventh] = true
	w := postJSON(t, r, "/bookings", CreateBookingRequest{
		FieldID: 1, BookedByUserID: &eleventh, StartTime: start, EndTime: end,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "fully booked")
}

func TestCreateBooking_CanceledBookingsFreeCapacity(t *testing.T) {
	repo := newFakeBookingRepo()
	r, _ := setupBookingRouter(repo)
	start, end := bookingWindow()

	for i := 1; i <= field.CapacityFiveASide; i++ {
		uid := uint(i)
		repo.users[uid] = true
		status := StatusPending
		if i == 1 {
			status = StatusCanceled
		}
		repo.bookings[uint(100+i)] = &Booking{
			FieldID: 1, BookedByUserID: &uid,
			StartTime: start, EndTime: end, Status: status,
		}
	}

	eleventh := uint(11)
	repo.users[eleventh] = true
	w := postJSON(t, r, "/bookings", CreateBookingRequest{
		FieldID: 1, BookedByUserID: &eleventh, StartTime: start, EndTime: end,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateBooking_UnknownFieldAndRequester(t *testing.T) {
	r, _ := setupBookingRouter(newFakeBookingRepo())
	start, end := bookingWindow()
	userID := uint(1)

	w := postJSON(t, r, "/bookings", CreateBookingRequest{
		FieldID: 42, BookedByUserID: &userID, StartTime: start, EndTime: end,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	ghost := uint(77)
	w = postJSON(t, r, "/bookings", CreateBookingRequest{
		FieldID: 1, BookedByUserID: &ghost, StartTime: start, EndTime: end,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	ghostTeam := uint(9)
	w = postJSON(t, r, "/bookings", CreateBookingRequest{
		FieldID: 1, BookedByTeamID: &ghostTeam, StartTime: start, EndTime: end,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBooking_TeamBookingDefaultsPending(t *testing.T) {
	repo := newFakeBookingRepo()
	r, _ := setupBookingRouter(repo)
	start, end := bookingWindow()
	teamID := uint(1)

	w := postJSON(t, r, "/bookings", CreateBookingRequest{
		FieldID: 2, BookedByTeamID: &teamID, StartTime: start, EndTime: end,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.bookings, 1)
	for _, b := range repo.bookings {
		assert.Equal(t, StatusPending, b.Status)
		assert.Nil(t, b.BookedByUserID)
	}
}

func TestUpdateBooking_StatusEnum(t *testing.T) {
	repo := newFakeBookingRepo()
	r, _ := setupBookingRouter(repo)
	start, end := bookingWindow()
	userID := uint(1)
	repo.bookings[5] = &Booking{
		FieldID: 1, BookedByUserID: &userID,
		StartTime: start, EndTime: end, Status: StatusPending,
	}
	repo.bookings[5].ID = 5

	raw, _ := json.Marshal(gin.H{"status": "archived"})
	req := httptest.NewRequest(http.MethodPut, "/bookings/5", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Any transition between the three states is allowed, even backwards.
	raw, _ = json.Marshal(gin.H{"status": StatusConfirmed})
	req = httptest.NewRequest(http.MethodPut, "/bookings/5", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	raw, _ = json.Marshal(gin.H{"status": StatusPending})
	req = httptest.NewRequest(http.MethodPut, "/bookings/5", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, StatusPending, repo.bookings[5].Status)
}

func TestCancelBooking_LeadTime(t *testing.T) {
	repo := newFakeBookingRepo()
	r, bc := setupBookingRouter(repo)
	userID := uint(1)
	start := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)

	repo.bookings[7] = &Booking{
		FieldID: 1, BookedByUserID: &userID,
		StartTime: start, EndTime: start.Add(2 * time.Hour), Status: StatusPending,
	}
	repo.bookings[7].ID = 7

	// 30 minutes before kickoff is too late.
	bc.now = func() time.Time { return start.Add(-30 * time.Minute) }
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bookings/7/cancel", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Too late to cancel")
	assert.Equal(t, StatusPending, repo.bookings[7].Status)

	// Two hours ahead is fine.
	bc.now = func() time.Time { return start.Add(-2 * time.Hour) }
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bookings/7/cancel", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, StatusCanceled, repo.bookings[7].Status)

	// Canceling twice conflicts.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bookings/7/cancel", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteBooking(t *testing.T) {
	repo := newFakeBookingRepo()
	r, _ := setupBookingRouter(repo)
	userID := uint(1)
	repo.bookings[3] = &Booking{FieldID: 1, BookedByUserID: &userID, Status: StatusPending}
	repo.bookings[3].ID = 3

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/bookings/3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.bookings)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/bookings/3", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBookings_Filters(t *testing.T) {
	repo := newFakeBookingRepo()
	r, _ := setupBookingRouter(repo)
	start, end := bookingWindow()
	u1, u2 := uint(1), uint(2)
	repo.bookings[1] = &Booking{FieldID: 1, BookedByUserID: &u1, StartTime: start, EndTime: end, Status: StatusPending}
	repo.bookings[2] = &Booking{FieldID: 2, BookedByUserID: &u2, StartTime: start, EndTime: end, Status: StatusPending}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings?user_id=1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []BookingView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, uint(1), resp.Data[0].FieldID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/bookings?field_id=%d", 2), nil))
	require.Equal(t, http.StatusOK, w.Code)
	resp.Data = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, uint(2), resp.Data[0].FieldID)
}

func TestListBookings_DateFilterAndOrdering(t *testing.T) {
	repo := newFakeBookingRepo()
	r, _ := setupBookingRouter(repo)
	u1 := uint(1)

	day := func(d, hour int) time.Time {
		return time.Date(2026, 9, d, hour, 0, 0, 0, time.UTC)
	}
	for i, start := range []time.Time{day(12, 10), day(12, 18), day(13, 9)} {
		b := &Booking{
			FieldID: 1, BookedByUserID: &u1,
			StartTime: start, EndTime: start.Add(time.Hour), Status: StatusPending,
		}
		b.ID = uint(i + 1)
		repo.bookings[b.ID] = b
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []BookingView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	// Newest start time first.
	assert.Equal(t, day(13, 9), resp.Data[0].StartTime)
	assert.Equal(t, day(12, 18), resp.Data[1].StartTime)
	assert.Equal(t, day(12, 10), resp.Data[2].StartTime)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings?date=2026-09-12", nil))
	require.Equal(t, http.StatusOK, w.Code)
	resp.Data = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, day(12, 18), resp.Data[0].StartTime)
	assert.Equal(t, day(12, 10), resp.Data[1].StartTime)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings?date=12-09-2026", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
