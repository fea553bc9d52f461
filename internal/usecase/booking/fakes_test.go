package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/domain/timeoff"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
	"github.com/BruksfildServices01/booking-marketplace/internal/payment"
	"github.com/BruksfildServices01/booking-marketplace/internal/timeutil"
)

var errStoreDown = errors.New("store unavailable")

// fakeRepo is an in-memory domain.Repository. Bookings are returned in
// insertion order.
type fakeRepo struct {
	mu sync.Mutex

	order    []uuid.UUID
	bookings map[uuid.UUID]*models.Booking
	services map[uuid.UUID]*models.Service

	// durations by service id; anything missing resolves to 60.
	durations map[string]int
	timeOff   []models.TimeOff

	// extra rows returned verbatim by ActiveBookingsForDate.
	rawActive []domain.ActiveBooking

	activeErr    error
	durationErr  error
	predicateErr error
	overlapErr   error
	updateErr    error

	durationCalls  int
	activeCalls    int
	predicateCalls int
	overlapCalls   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings:  map[uuid.UUID]*models.Booking{},
		services:  map[uuid.UUID]*models.Service{},
		durations: map[string]int{},
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (f *fakeRepo) addService(name string, minutes int, priceCents int64) *models.Service {
	s := &models.Service{
		ID:              uuid.New(),
		Name:            name,
		DurationMinutes: minutes,
		PriceCents:      priceCents,
		Currency:        "usd",
		Active:          true,
	}
	f.services[s.ID] = s
	f.durations[s.ID.String()] = minutes
	return s
}

func (f *fakeRepo) addBooking(date, display string, svc *models.Service, status domain.Status) *models.Booking {
	b := &models.Booking{
		ID:              uuid.New(),
		UserID:          "user-1",
		CustomerName:    "Ana",
		CustomerEmail:   "ana@example.com",
		AppointmentDate: date,
		AppointmentTime: display,
		Status:          string(status),
		PaymentStatus:   string(domain.PaymentUnpaid),
	}
	if svc != nil {
		b.ServiceID = &svc.ID
		b.Service = svc
	}
	f.bookings[b.ID] = b
	f.order = append(f.order, b.ID)
	return b
}

func (f *fakeRepo) ActiveBookingsForDate(_ context.Context, date string) ([]domain.ActiveBooking, error) {
	f.activeCalls++
	if f.activeErr != nil {
		return nil, f.activeErr
	}

	out := append([]domain.ActiveBooking{}, f.rawActive...)
	for _, id := range f.order {
		b := f.bookings[id]
		if b.AppointmentDate != date || !domain.Status(b.Status).Active() {
			continue
		}
		out = append(out, domain.ActiveBooking{
			ID:              b.ID,
			AppointmentTime: b.AppointmentTime,
			ServiceID:       serviceKey(b.ServiceID),
			ServiceName:     b.ServiceName(),
		})
	}
	return out, nil
}

func (f *fakeRepo) DurationMinutes(_ context.Context, serviceID string) (int, error) {
	f.durationCalls++
	if f.durationErr != nil {
		return 0, f.durationErr
	}
	if d, ok := f.durations[serviceID]; ok {
		return d, nil
	}
	return timeutil.DefaultDurationMinutes, nil
}

// CheckTimeOffConflict behaves like a correct server-side predicate.
func (f *fakeRepo) CheckTimeOffConflict(_ context.Context, date, start, end string) (bool, error) {
	f.predicateCalls++
	if f.predicateErr != nil {
		return false, f.predicateErr
	}
	s, err := timeutil.ParseClock(start)
	if err != nil {
		return false, err
	}
	e, err := timeutil.ParseClock(end)
	if err != nil {
		return false, err
	}
	return timeoff.Conflicts(f.timeOff, date, s, e)
}

func (f *fakeRepo) TimeOffOverlapping(_ context.Context, date string) ([]models.TimeOff, error) {
	f.overlapCalls++
	if f.overlapErr != nil {
		return nil, f.overlapErr
	}
	var out []models.TimeOff
	for _, p := range f.timeOff {
		if timeoff.CoversDate(p, date) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetService(_ context.Context, id uuid.UUID) (*models.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	return s, nil
}

func (f *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	f.bookings[b.ID] = b
	f.order = append(f.order, b.ID)
	return nil
}

func (f *fakeRepo) GetBooking(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	return b, nil
}

func (f *fakeRepo) GetBookingByCheckout(_ context.Context, provider, checkoutID string) (*models.Booking, error) {
	for _, id := range f.order {
		b := f.bookings[id]
		if b.CheckoutProvider == provider && b.CheckoutID == checkoutID {
			return b, nil
		}
	}
	return nil, httperr.ErrBusiness("booking_not_found")
}

func (f *fakeRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeRepo) ListBookingsForUser(_ context.Context, userID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, id := range f.order {
		if b := f.bookings[id]; b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListBookings(_ context.Context, filter domain.ListFilter) ([]models.Booking, error) {
	var out []models.Booking
	for _, id := range f.order {
		b := f.bookings[id]
		if filter.Date != "" && b.AppointmentDate != filter.Date {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, *b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AppointmentDate < out[j].AppointmentDate })
	if filter.Offset < len(out) {
		out = out[filter.Offset:]
	} else {
		out = nil
	}
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeRepo) ListDueReminders(_ context.Context, date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, id := range f.order {
		b := f.bookings[id]
		if b.AppointmentDate == date && b.Status == string(domain.StatusConfirmed) && b.ReminderSentAt == nil {
			out = append(out, *b)
		}
	}
	return out, nil
}

// ----------------------------------------------------------------

type recordingNotifier struct {
	confirmed, rescheduled, cancelled, reminded []uuid.UUID
}

func (n *recordingNotifier) BookingConfirmed(_ context.Context, b *models.Booking) error {
	n.confirmed = append(n.confirmed, b.ID)
	return nil
}

func (n *recordingNotifier) BookingRescheduled(_ context.Context, b *models.Booking) error {
	n.rescheduled = append(n.rescheduled, b.ID)
	return nil
}

func (n *recordingNotifier) BookingCancelled(_ context.Context, b *models.Booking) error {
	n.cancelled = append(n.cancelled, b.ID)
	return nil
}

func (n *recordingNotifier) BookingReminder(_ context.Context, b *models.Booking) error {
	n.reminded = append(n.reminded, b.ID)
	return nil
}

// ----------------------------------------------------------------

type memoryClaims struct {
	keys     map[string]bool
	released []string
}

func newMemoryClaims() *memoryClaims {
	return &memoryClaims{keys: map[string]bool{}}
}

func (m *memoryClaims) Claim(_ context.Context, key string, _ time.Duration) (bool, error) {
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *memoryClaims) Release(_ context.Context, key string) error {
	delete(m.keys, key)
	m.released = append(m.released, key)
	return nil
}

// ----------------------------------------------------------------

type fakeGateway struct {
	err  error
	reqs []payment.CheckoutRequest
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) CreateCheckout(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.reqs = append(g.reqs, req)
	if g.err != nil {
		return nil, g.err
	}
	return &payment.CheckoutSession{ID: "cs_" + req.BookingID, URL: "https://pay.test/" + req.BookingID}, nil
}

func (g *fakeGateway) ParseWebhook(context.Context, payment.WebhookRequest) (*payment.Event, error) {
	return nil, payment.ErrDisabled
}
