package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-marketplace/internal/dto"
	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/middleware"
	ucBooking "github.com/BruksfildServices01/booking-marketplace/internal/usecase/booking"
)

type AdminBookingHandler struct {
	list   *ucBooking.ListBookings
	status *ucBooking.UpdateBookingStatus
}

func NewAdminBookingHandler(
	list *ucBooking.ListBookings,
	status *ucBooking.UpdateBookingStatus,
) *AdminBookingHandler {
	return &AdminBookingHandler{list: list, status: status}
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List supports ?date=YYYY-MM-DD&status=&page=&limit=.
func (h *AdminBookingHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	filter := domain.ListFilter{
		Date:   c.Query("date"),
		Status: c.Query("status"),
		Limit:  limit,
	}
	if limit > 0 {
		filter.Offset = (page - 1) * limit
	}

	bookings, err := h.list.All(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err, "failed_to_list_bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":     page,
		"limit":    limit,
		"bookings": dto.NewBookingList(bookings),
	})
}

func (h *AdminBookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := uuidParam(c, "booking_not_found")
	if !ok {
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.status.Execute(
		c.Request.Context(),
		c.GetString(middleware.ContextUserID),
		id,
		req.Status,
	)
	if err != nil {
		writeError(c, err, "failed_to_update_booking")
		return
	}

	c.JSON(http.StatusOK, b)
}
