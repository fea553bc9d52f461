package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/booking-marketplace/internal/handlers"
	"github.com/BruksfildServices01/booking-marketplace/internal/metrics"
)

func newEngine(opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Handlers{
		Health: handlers.NewHealthHandler(nil),
	}, opts)
	return r
}

func get(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRegisterRoutes_Guards(t *testing.T) {
	r := newEngine(Options{AuthSecret: "s", CORSOrigins: []string{"*"}})

	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, get(r, http.MethodGet, "/ready").Code)

	assert.Equal(t, http.StatusUnauthorized, get(r, http.MethodGet, "/api/bookings").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, http.MethodGet, "/api/admin/bookings").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, http.MethodPost, "/api/bookings/x/reschedule").Code)

	// no CRON_SECRET configured
	assert.Equal(t, http.StatusServiceUnavailable, get(r, http.MethodPost, "/api/cron/reminders").Code)

	assert.Equal(t, http.StatusNotFound, get(r, http.MethodGet, "/metrics").Code)
}

func TestRegisterRoutes_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.BookingsCreated.Inc()

	r := newEngine(Options{Gatherer: reg})

	w := get(r, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "booking_created_total 1")
}
