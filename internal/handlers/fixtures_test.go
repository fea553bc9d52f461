package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-marketplace/internal/catalog"
	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/domain/timeoff"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/middleware"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
	"github.com/BruksfildServices01/booking-marketplace/internal/timeutil"
	ucBooking "github.com/BruksfildServices01/booking-marketplace/internal/usecase/booking"
	ucTimeOff "github.com/BruksfildServices01/booking-marketplace/internal/usecase/timeoff"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memRepo backs both booking and time-off use cases.
type memRepo struct {
	order    []uuid.UUID
	bookings map[uuid.UUID]*models.Booking
	services map[uuid.UUID]*models.Service
	timeOff  []models.TimeOff
}

var (
	_ domain.Repository  = (*memRepo)(nil)
	_ timeoff.Repository = (*memRepo)(nil)
)

func newMemRepo() *memRepo {
	return &memRepo{
		bookings: map[uuid.UUID]*models.Booking{},
		services: map[uuid.UUID]*models.Service{},
	}
}

func (r *memRepo) addService(name string, minutes int, price int64) *models.Service {
	s := &models.Service{ID: uuid.New(), Name: name, DurationMinutes: minutes, PriceCents: price, Currency: "usd", Active: true}
	r.services[s.ID] = s
	return s
}

func (r *memRepo) addBooking(userID, date, display string, status domain.Status) *models.Booking {
	b := &models.Booking{
		ID:              uuid.New(),
		UserID:          userID,
		CustomerName:    "Ana",
		CustomerEmail:   "ana@example.com",
		AppointmentDate: date,
		AppointmentTime: display,
		Status:          string(status),
		PaymentStatus:   string(domain.PaymentUnpaid),
	}
	r.bookings[b.ID] = b
	r.order = append(r.order, b.ID)
	return b
}

func (r *memRepo) ActiveBookingsForDate(_ context.Context, date string) ([]domain.ActiveBooking, error) {
	var out []domain.ActiveBooking
	for _, id := range r.order {
		b := r.bookings[id]
		if b.AppointmentDate != date || !domain.Status(b.Status).Active() {
			continue
		}
		ab := domain.ActiveBooking{ID: b.ID, AppointmentTime: b.AppointmentTime, ServiceName: b.ServiceName()}
		if b.ServiceID != nil {
			ab.ServiceID = b.ServiceID.String()
		}
		out = append(out, ab)
	}
	return out, nil
}

func (r *memRepo) DurationMinutes(_ context.Context, serviceID string) (int, error) {
	if id, err := uuid.Parse(serviceID); err == nil {
		if s, ok := r.services[id]; ok {
			return s.DurationMinutes, nil
		}
	}
	return timeutil.DefaultDurationMinutes, nil
}

func (r *memRepo) CheckTimeOffConflict(_ context.Context, date, start, end string) (bool, error) {
	s, err := timeutil.ParseClock(start)
	if err != nil {
		return false, err
	}
	e, err := timeutil.ParseClock(end)
	if err != nil {
		return false, err
	}
	return timeoff.Conflicts(r.timeOff, date, s, e)
}

func (r *memRepo) TimeOffOverlapping(_ context.Context, date string) ([]models.TimeOff, error) {
	var out []models.TimeOff
	for _, p := range r.timeOff {
		if timeoff.CoversDate(p, date) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memRepo) GetService(_ context.Context, id uuid.UUID) (*models.Service, error) {
	if s, ok := r.services[id]; ok {
		return s, nil
	}
	return nil, httperr.ErrBusiness("service_not_found")
}

func (r *memRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.bookings[b.ID] = b
	r.order = append(r.order, b.ID)
	return nil
}

func (r *memRepo) GetBooking(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	if b, ok := r.bookings[id]; ok {
		return b, nil
	}
	return nil, httperr.ErrBusiness("booking_not_found")
}

func (r *memRepo) GetBookingByCheckout(_ context.Context, provider, checkoutID string) (*models.Booking, error) {
	for _, id := range r.order {
		if b := r.bookings[id]; b.CheckoutProvider == provider && b.CheckoutID == checkoutID {
			return b, nil
		}
	}
	return nil, httperr.ErrBusiness("booking_not_found")
}

func (r *memRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	r.bookings[b.ID] = b
	return nil
}

func (r *memRepo) ListBookingsForUser(_ context.Context, userID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, id := range r.order {
		if b := r.bookings[id]; b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memRepo) ListBookings(_ context.Context, f domain.ListFilter) ([]models.Booking, error) {
	var out []models.Booking
	for _, id := range r.order {
		b := r.bookings[id]
		if (f.Date == "" || b.AppointmentDate == f.Date) && (f.Status == "" || b.Status == f.Status) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memRepo) ListDueReminders(context.Context, string) ([]models.Booking, error) {
	return nil, nil
}

func (r *memRepo) CreateTimeOff(_ context.Context, p *models.TimeOff) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.timeOff = append(r.timeOff, *p)
	return nil
}

func (r *memRepo) DeleteTimeOff(_ context.Context, id uuid.UUID) error {
	for i, p := range r.timeOff {
		if p.ID == id {
			r.timeOff = append(r.timeOff[:i], r.timeOff[i+1:]...)
			return nil
		}
	}
	return httperr.ErrBusiness("time_off_not_found")
}

func (r *memRepo) ListTimeOff(_ context.Context, from string) ([]models.TimeOff, error) {
	var out []models.TimeOff
	for _, p := range r.timeOff {
		if from == "" || p.EndDate >= from {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out, nil
}

// ----------------------------------------------------------------

type quietNotifier struct{ sent int }

func (n *quietNotifier) BookingConfirmed(context.Context, *models.Booking) error   { n.sent++; return nil }
func (n *quietNotifier) BookingRescheduled(context.Context, *models.Booking) error { n.sent++; return nil }
func (n *quietNotifier) BookingCancelled(context.Context, *models.Booking) error   { n.sent++; return nil }
func (n *quietNotifier) BookingReminder(context.Context, *models.Booking) error    { n.sent++; return nil }

type bookingStack struct {
	repo         *memRepo
	notifier     *quietNotifier
	availability *ucBooking.GetAvailability
	checkTimeOff *ucBooking.CheckTimeOff
	list         *ucBooking.ListBookings
	status       *ucBooking.UpdateBookingStatus
	timeOff      *ucTimeOff.Manage
	booking      *BookingHandler
}

func newBookingStack() *bookingStack {
	repo := newMemRepo()
	n := &quietNotifier{}
	cat := catalog.Default()

	avail := ucBooking.NewGetAvailability(repo, cat, nil, nil)
	check := ucBooking.NewCheckTimeOff(repo, ucBooking.FailOpen, nil, nil)
	list := ucBooking.NewListBookings(repo)

	return &bookingStack{
		repo:         repo,
		notifier:     n,
		availability: avail,
		checkTimeOff: check,
		list:         list,
		status:       ucBooking.NewUpdateBookingStatus(repo, n, nil),
		timeOff:      ucTimeOff.NewManage(repo, nil),
		booking: NewBookingHandler(
			avail,
			ucBooking.NewCreateBooking(repo, avail, nil, ucBooking.CheckoutURLs{}, nil, nil, nil),
			list,
			ucBooking.NewRescheduleBooking(repo, avail, check, n, nil, nil),
			ucBooking.NewCancelBooking(repo, n, nil),
			false,
		),
	}
}

// as stands in for AuthMiddleware.
func as(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUserName, "Token Name")
		c.Set(middleware.ContextUserEmail, userID+"@example.com")
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}

func call(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body httperr.HTTPError
	decode(t, w, &body)
	return body.Code
}
