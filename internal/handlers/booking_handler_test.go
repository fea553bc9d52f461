package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/dto"
	"github.com/BruksfildServices01/booking-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
	ucBooking "github.com/BruksfildServices01/booking-marketplace/internal/usecase/booking"
)

func bookingRouter(s *bookingStack, userID, role string) *gin.Engine {
	r := gin.New()
	r.GET("/api/availability", s.booking.Availability)

	g := r.Group("/api", as(userID, role))
	g.GET("/bookings", s.booking.ListMine)
	g.POST("/bookings", s.booking.Create)
	g.POST("/bookings/:id/reschedule", s.booking.Reschedule)
	g.POST("/bookings/:id/cancel", s.booking.Cancel)
	return r
}

func TestAvailability(t *testing.T) {
	s := newBookingStack()
	svc := s.repo.addService("Massage", 100, 0)
	b := s.repo.addBooking("u1", "2024-06-10", "9:00 AM", domain.StatusConfirmed)
	b.Service, b.ServiceID = svc, &svc.ID

	r := bookingRouter(s, "u1", "customer")

	w := call(r, http.MethodGet, "/api/availability?date=2024-06-10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out domain.Availability
	decode(t, w, &out)
	assert.Equal(t, "2024-06-10", out.Date)
	assert.Equal(t, []string{"11:00 AM", "1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM"}, out.AvailableTimes)
	assert.False(t, out.Slots[1].Available)
	assert.Equal(t, "Booked for Massage until 10:40 AM", out.Slots[1].Reason)
}

func TestAvailability_BadInput(t *testing.T) {
	r := bookingRouter(newBookingStack(), "u1", "customer")

	w := call(r, http.MethodGet, "/api/availability", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_date", errorCode(t, w))

	w = call(r, http.MethodGet, "/api/availability?date=June", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_date", errorCode(t, w))
}

func TestCreateBooking(t *testing.T) {
	s := newBookingStack()
	r := bookingRouter(s, "u1", "customer")

	w := call(r, http.MethodPost, "/api/bookings", gin.H{
		"date": "2024-06-10",
		"time": "10:00 am",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res ucBooking.CreateBookingResult
	decode(t, w, &res)
	require.NotNil(t, res.Booking)
	assert.Equal(t, "10:00 AM", res.Booking.AppointmentTime)
	assert.Equal(t, "Token Name", res.Booking.CustomerName)
	assert.Equal(t, "u1@example.com", res.Booking.CustomerEmail)
	assert.Equal(t, "u1", res.Booking.UserID)
	assert.Empty(t, res.CheckoutURL)

	// same slot again
	w = call(r, http.MethodPost, "/api/bookings", gin.H{"date": "2024-06-10", "time": "10:00 AM"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "time_conflict", errorCode(t, w))
}

func TestCreateBooking_Rejects(t *testing.T) {
	r := bookingRouter(newBookingStack(), "u1", "customer")

	cases := []struct {
		name   string
		body   gin.H
		status int
		code   string
	}{
		{"missing fields", gin.H{"date": "2024-06-10"}, http.StatusBadRequest, "invalid_request"},
		{"bad email", gin.H{"date": "2024-06-10", "time": "9:00 AM", "customer_email": "nope"}, http.StatusBadRequest, "invalid_email"},
		{"off catalog", gin.H{"date": "2024-06-10", "time": "12:00 PM"}, http.StatusBadRequest, "invalid_slot"},
		{"unknown service", gin.H{"date": "2024-06-10", "time": "9:00 AM", "service_id": "not-a-uuid"}, http.StatusNotFound, "service_not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := call(r, http.MethodPost, "/api/bookings", tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, errorCode(t, w))
		})
	}
}

func TestListMine(t *testing.T) {
	s := newBookingStack()
	s.repo.addBooking("u1", "2024-06-10", "9:00 AM", domain.StatusPending)
	s.repo.addBooking("u2", "2024-06-10", "10:00 AM", domain.StatusPending)

	w := call(bookingRouter(s, "u1", "customer"), http.MethodGet, "/api/bookings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out httpresp.ListResponse[dto.BookingListDTO]
	decode(t, w, &out)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, "9:00 AM", out.Data[0].Time)
}

func TestReschedule(t *testing.T) {
	s := newBookingStack()
	b := s.repo.addBooking("u1", "2024-06-10", "9:00 AM", domain.StatusConfirmed)
	s.repo.timeOff = []models.TimeOff{{
		StartDate: "2024-06-11", EndDate: "2024-06-11",
		StartTime: "14:00:00", EndTime: "15:00:00",
	}}
	r := bookingRouter(s, "u1", "customer")
	path := "/api/bookings/" + b.ID.String() + "/reschedule"

	w := call(r, http.MethodPost, path, gin.H{"date": "2024-06-11", "time": "2:00 PM"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "time_off_conflict", errorCode(t, w))

	w = call(r, http.MethodPost, path, gin.H{"date": "2024-06-11", "time": "3:00 PM"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out models.Booking
	decode(t, w, &out)
	assert.Equal(t, "2024-06-11", out.AppointmentDate)
	assert.Equal(t, "3:00 PM", out.AppointmentTime)
	assert.Equal(t, 1, s.notifier.sent)
}

func TestReschedule_OtherCustomer(t *testing.T) {
	s := newBookingStack()
	b := s.repo.addBooking("u1", "2024-06-10", "9:00 AM", domain.StatusConfirmed)

	w := call(bookingRouter(s, "intruder", "customer"), http.MethodPost,
		"/api/bookings/"+b.ID.String()+"/reschedule", gin.H{"date": "2024-06-11", "time": "9:00 AM"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "booking_not_found", errorCode(t, w))
}

func TestCancel(t *testing.T) {
	s := newBookingStack()
	b := s.repo.addBooking("u1", "2024-06-10", "9:00 AM", domain.StatusPending)
	r := bookingRouter(s, "u1", "customer")

	w := call(r, http.MethodPost, "/api/bookings/"+b.ID.String()+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(domain.StatusCancelled), s.repo.bookings[b.ID].Status)

	w = call(r, http.MethodPost, "/api/bookings/"+b.ID.String()+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_state", errorCode(t, w))

	w = call(r, http.MethodPost, "/api/bookings/not-a-uuid/cancel", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
