package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-marketplace/internal/catalog"
	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/logging"
	"github.com/BruksfildServices01/booking-marketplace/internal/metrics"
	"github.com/BruksfildServices01/booking-marketplace/internal/timeutil"
)

const dateLayout = "2006-01-02"

type GetAvailability struct {
	store   domain.AvailabilityStore
	catalog *catalog.Catalog
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewGetAvailability(
	store domain.AvailabilityStore,
	cat *catalog.Catalog,
	m *metrics.Metrics,
	logger *zap.Logger,
) *GetAvailability {
	if cat == nil {
		cat = catalog.Default()
	}
	if m == nil {
		m = metrics.Nop()
	}
	return &GetAvailability{
		store:   store,
		catalog: cat,
		metrics: m,
		logger:  logging.OrNop(logger),
	}
}

type occupied struct {
	start, end int
	name       string
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.Availability, error) {

	// ---- 1️⃣ input ----
	date, err := ParseDate(in.Date)
	if err != nil {
		uc.metrics.AvailabilityRequests.WithLabelValues("invalid").Inc()
		return nil, err
	}

	duration, err := uc.store.DurationMinutes(ctx, in.ServiceID)
	if err != nil {
		uc.metrics.AvailabilityRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("resolve duration for %q: %w", in.ServiceID, err)
	}

	// ---- 2️⃣ existing bookings ----
	bookings, err := uc.store.ActiveBookingsForDate(ctx, date)
	if err != nil {
		uc.metrics.AvailabilityRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load bookings for %s: %w", date, err)
	}

	taken, err := uc.occupiedIntervals(ctx, date, bookings, in)
	if err != nil {
		uc.metrics.AvailabilityRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	// ---- 3️⃣ slots ----
	out := &domain.Availability{
		Date:           date,
		ServiceID:      in.ServiceID,
		Duration:       duration,
		Slots:          make([]domain.SlotAvailability, 0, len(uc.catalog.Slots)),
		AvailableTimes: []string{},
	}

	for _, slot := range uc.catalog.Slots {
		start, err := timeutil.ParseTimeToMinutes(slot)
		if err != nil {
			return nil, fmt.Errorf("catalog slot %q: %w", slot, err)
		}
		end := start + duration

		sa := domain.SlotAvailability{Time: slot, Available: true}
		for _, o := range taken {
			if timeutil.Overlaps(start, end, o.start, o.end) {
				sa.Available = false
				sa.Reason = conflictReason(o)
				break
			}
		}

		out.Slots = append(out.Slots, sa)
		if sa.Available {
			out.AvailableTimes = append(out.AvailableTimes, slot)
		}
	}

	uc.metrics.AvailabilityRequests.WithLabelValues("ok").Inc()
	return out, nil
}

// occupiedIntervals resolves each booking's own duration. Durations are
// memoized per service within the request.
func (uc *GetAvailability) occupiedIntervals(
	ctx context.Context,
	date string,
	bookings []domain.ActiveBooking,
	in domain.AvailabilityInput,
) ([]occupied, error) {

	durations := map[string]int{}
	out := make([]occupied, 0, len(bookings))

	for _, b := range bookings {
		if in.ExcludeBookingID != nil && b.ID == *in.ExcludeBookingID {
			continue
		}

		start, err := timeutil.ParseTimeToMinutes(b.AppointmentTime)
		if err != nil {
			uc.logger.Error("stored booking time does not parse",
				zap.String("booking_id", b.ID.String()),
				zap.String("date", date),
				zap.String("appointment_time", b.AppointmentTime),
				zap.Error(err),
			)
			return nil, fmt.Errorf("booking %s: %w", b.ID, httperr.ErrBusiness("corrupt_booking_time"))
		}

		d, ok := durations[b.ServiceID]
		if !ok {
			d, err = uc.store.DurationMinutes(ctx, b.ServiceID)
			if err != nil {
				return nil, fmt.Errorf("resolve duration for booking %s: %w", b.ID, err)
			}
			durations[b.ServiceID] = d
		}

		out = append(out, occupied{start: start, end: start + d, name: b.ServiceName})
	}

	return out, nil
}

func conflictReason(o occupied) string {
	until := "end of day"
	if o.end < timeutil.MinutesPerDay {
		until, _ = timeutil.FormatMinutesToTimeDisplay(o.end)
	}

	name := o.name
	if name == "" {
		name = "another appointment"
	}
	return fmt.Sprintf("Booked for %s until %s", name, until)
}

// ParseDate validates a YYYY-MM-DD date.
func ParseDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", httperr.ErrBusiness("missing_date")
	}
	if _, err := time.Parse(dateLayout, raw); err != nil {
		return "", httperr.ErrBusiness("invalid_date")
	}
	return raw, nil
}
