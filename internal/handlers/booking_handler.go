package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-marketplace/internal/dto"
	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/booking-marketplace/internal/middleware"
	ucBooking "github.com/BruksfildServices01/booking-marketplace/internal/usecase/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	availability *ucBooking.GetAvailability
	create       *ucBooking.CreateBooking
	list         *ucBooking.ListBookings
	reschedule   *ucBooking.RescheduleBooking
	cancel       *ucBooking.CancelBooking

	// checkMX also requires the customer email domain to resolve.
	checkMX bool
}

func NewBookingHandler(
	availability *ucBooking.GetAvailability,
	create *ucBooking.CreateBooking,
	list *ucBooking.ListBookings,
	reschedule *ucBooking.RescheduleBooking,
	cancel *ucBooking.CancelBooking,
	checkMX bool,
) *BookingHandler {
	return &BookingHandler{
		availability: availability,
		create:       create,
		list:         list,
		reschedule:   reschedule,
		cancel:       cancel,
		checkMX:      checkMX,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	ServiceID     string `json:"service_id"`
	Date          string `json:"date" binding:"required"` // YYYY-MM-DD
	Time          string `json:"time" binding:"required"` // h:mm AM/PM
	Notes         string `json:"notes" binding:"max=500"`
}

type RescheduleBookingRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *BookingHandler) Availability(c *gin.Context) {
	out, err := h.availability.Execute(
		c.Request.Context(),
		domain.AvailabilityInput{
			Date:      c.Query("date"),
			ServiceID: strings.TrimSpace(c.Query("service_id")),
		},
	)
	if err != nil {
		writeError(c, err, "availability_failed")
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	// token profile fills what the form leaves out
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		name = c.GetString(middleware.ContextUserName)
	}
	rawEmail := req.CustomerEmail
	if strings.TrimSpace(rawEmail) == "" {
		rawEmail = c.GetString(middleware.ContextUserEmail)
	}

	var email string
	if strings.TrimSpace(rawEmail) != "" {
		normalized, err := validators.NormalizeEmail(rawEmail)
		if err != nil || (h.checkMX && !validators.IsEmailDomainValid(normalized)) {
			httperr.BadRequest(c, "invalid_email", "Email address is not valid.")
			return
		}
		email = normalized
	}

	res, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		UserID:        c.GetString(middleware.ContextUserID),
		CustomerName:  name,
		CustomerEmail: email,
		ServiceID:     strings.TrimSpace(req.ServiceID),
		Date:          req.Date,
		Time:          req.Time,
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		writeError(c, err, "failed_to_create_booking")
		return
	}

	httpresp.Created(c, res)
}

// ======================================================
// LIST (OWN)
// ======================================================

func (h *BookingHandler) ListMine(c *gin.Context) {
	bookings, err := h.list.ForUser(
		c.Request.Context(),
		c.GetString(middleware.ContextUserID),
	)
	if err != nil {
		writeError(c, err, "failed_to_list_bookings")
		return
	}

	httpresp.List(c, dto.NewBookingList(bookings))
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *BookingHandler) Reschedule(c *gin.Context) {
	id, ok := uuidParam(c, "booking_not_found")
	if !ok {
		return
	}

	var req RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.reschedule.Execute(
		c.Request.Context(),
		actorFrom(c),
		id,
		req.Date,
		req.Time,
	)
	if err != nil {
		writeError(c, err, "failed_to_reschedule_booking")
		return
	}

	c.JSON(http.StatusOK, b)
}

// ======================================================
// CANCEL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := uuidParam(c, "booking_not_found")
	if !ok {
		return
	}

	b, err := h.cancel.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, err, "failed_to_cancel_booking")
		return
	}

	c.JSON(http.StatusOK, b)
}
