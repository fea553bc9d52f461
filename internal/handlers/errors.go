package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
)

type errorSpec struct {
	status  int
	message string
}

var businessErrors = map[string]errorSpec{
	"missing_date":          {http.StatusBadRequest, "Date is required."},
	"invalid_date":          {http.StatusBadRequest, "Date must be YYYY-MM-DD."},
	"invalid_time":          {http.StatusBadRequest, "Time is not valid."},
	"invalid_duration":      {http.StatusBadRequest, "Duration must be positive."},
	"invalid_slot":          {http.StatusBadRequest, "Time is not one of the bookable slots."},
	"invalid_status":        {http.StatusBadRequest, "Unknown booking status."},
	"invalid_time_off":      {http.StatusBadRequest, "Time off period is not valid."},
	"missing_customer_name": {http.StatusBadRequest, "Customer name is required."},

	"service_not_found":  {http.StatusNotFound, "Service not found."},
	"booking_not_found":  {http.StatusNotFound, "Booking not found."},
	"time_off_not_found": {http.StatusNotFound, "Time off not found."},

	"invalid_state":     {http.StatusConflict, "Booking cannot move to that status."},
	"time_conflict":     {http.StatusConflict, "The requested time is not available."},
	"time_off_conflict": {http.StatusConflict, "The requested time conflicts with a blocked period."},

	"checkout_unavailable": {http.StatusServiceUnavailable, "Payment checkout is unavailable. Try again later."},
	"corrupt_booking_time": {http.StatusInternalServerError, "Stored booking data is invalid."},
}

// writeError renders business errors with their mapped status. Anything
// else is a 500 under fallback.
func writeError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	code := httperr.BusinessCode(err)
	if spec, ok := businessErrors[code]; ok {
		httperr.Write(c, spec.status, code, spec.message)
		return
	}

	httperr.Internal(c, fallback, "Something went wrong.")
}
