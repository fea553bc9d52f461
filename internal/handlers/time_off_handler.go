package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/booking-marketplace/internal/middleware"
	"github.com/BruksfildServices01/booking-marketplace/internal/timeutil"
	ucBooking "github.com/BruksfildServices01/booking-marketplace/internal/usecase/booking"
	ucTimeOff "github.com/BruksfildServices01/booking-marketplace/internal/usecase/timeoff"
)

type TimeOffHandler struct {
	manage *ucTimeOff.Manage
	check  *ucBooking.CheckTimeOff
}

func NewTimeOffHandler(manage *ucTimeOff.Manage, check *ucBooking.CheckTimeOff) *TimeOffHandler {
	return &TimeOffHandler{manage: manage, check: check}
}

type CreateTimeOffRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"`
	IsAllDay  *bool  `json:"is_all_day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Type      string `json:"type"`
	Reason    string `json:"reason" binding:"max=255"`
}

func (h *TimeOffHandler) List(c *gin.Context) {
	periods, err := h.manage.List(c.Request.Context(), c.Query("from"))
	if err != nil {
		writeError(c, err, "failed_to_list_time_off")
		return
	}

	httpresp.List(c, periods)
}

func (h *TimeOffHandler) Create(c *gin.Context) {
	var req CreateTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	// all day unless told otherwise
	allDay := req.IsAllDay == nil || *req.IsAllDay

	p, err := h.manage.Create(
		c.Request.Context(),
		c.GetString(middleware.ContextUserID),
		ucTimeOff.CreateInput{
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			IsAllDay:  allDay,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Type:      req.Type,
			Reason:    req.Reason,
		},
	)
	if err != nil {
		writeError(c, err, "failed_to_create_time_off")
		return
	}

	httpresp.Created(c, p)
}

func (h *TimeOffHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "time_off_not_found")
	if !ok {
		return
	}

	if err := h.manage.Delete(
		c.Request.Context(),
		c.GetString(middleware.ContextUserID),
		id,
	); err != nil {
		writeError(c, err, "failed_to_delete_time_off")
		return
	}

	c.Status(http.StatusNoContent)
}

// Check answers ?date=YYYY-MM-DD&time=HH:MM&duration=60. time may also be
// given as "9:00 AM".
func (h *TimeOffHandler) Check(c *gin.Context) {
	date := c.Query("date")

	start := strings.TrimSpace(c.Query("time"))
	if h24, err := timeutil.To24Hour(start); err == nil {
		start = h24
	}

	duration := timeutil.DefaultDurationMinutes
	if raw := strings.TrimSpace(c.Query("duration")); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, httperr.ErrBusiness("invalid_duration"), "time_off_check_failed")
			return
		}
		duration = d
	}

	conflict, err := h.check.Execute(c.Request.Context(), date, start, duration)
	if err != nil {
		writeError(c, err, "time_off_check_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     date,
		"time":     start,
		"duration": duration,
		"conflict": conflict,
	})
}
