package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
)

func TestWriteError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{httperr.ErrBusiness("time_off_conflict"), http.StatusConflict, "time_off_conflict"},
		{fmt.Errorf("reschedule: %w", httperr.ErrBusiness("booking_not_found")), http.StatusNotFound, "booking_not_found"},
		{httperr.ErrBusiness("checkout_unavailable"), http.StatusServiceUnavailable, "checkout_unavailable"},
		{httperr.ErrBusiness("corrupt_booking_time"), http.StatusInternalServerError, "corrupt_booking_time"},
		{httperr.ErrBusiness("never_heard_of_it"), http.StatusInternalServerError, "fallback"},
		{errors.New("boom"), http.StatusInternalServerError, "fallback"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		writeError(c, tc.err, "fallback")

		assert.Equalf(t, tc.status, w.Code, "%v", tc.err)
		assert.Equalf(t, tc.code, errorCode(t, w), "%v", tc.err)
		assert.Len(t, c.Errors, 1)
	}
}
