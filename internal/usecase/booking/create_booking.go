package booking

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/logging"
	"github.com/BruksfildServices01/booking-marketplace/internal/metrics"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
	"github.com/BruksfildServices01/booking-marketplace/internal/payment"
	"github.com/BruksfildServices01/booking-marketplace/internal/timeutil"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	UserID        string
	CustomerName  string
	CustomerEmail string

	ServiceID string
	Date      string
	Time      string
	Notes     string
}

type CreateBookingResult struct {
	Booking     *models.Booking `json:"booking"`
	CheckoutURL string          `json:"checkout_url,omitempty"`
}

// CheckoutURLs are where the provider sends the customer and its
// notifications. The booking id is appended as a query parameter.
type CheckoutURLs struct {
	Success      string
	Cancel       string
	Notification string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo         domain.Repository
	availability *GetAvailability
	gateway      payment.Gateway
	urls         CheckoutURLs
	audit        *audit.Dispatcher
	metrics      *metrics.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	availability *GetAvailability,
	gateway payment.Gateway,
	urls CheckoutURLs,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CreateBooking {
	if gateway == nil {
		gateway = payment.Disabled{}
	}
	if m == nil {
		m = metrics.Nop()
	}
	return &CreateBooking{
		repo:         repo,
		availability: availability,
		gateway:      gateway,
		urls:         urls,
		audit:        audit,
		metrics:      m,
		logger:       logging.OrNop(logger),
		now:          time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*CreateBookingResult, error) {

	// --------------------------------------------------
	// 1️⃣ Input
	// --------------------------------------------------
	date, err := ParseDate(in.Date)
	if err != nil {
		return nil, err
	}

	display, err := normalizeDisplay(in.Time)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, httperr.ErrBusiness("missing_customer_name")
	}

	// --------------------------------------------------
	// 2️⃣ Service
	// --------------------------------------------------
	var service *models.Service
	if in.ServiceID != "" {
		id, err := uuid.Parse(in.ServiceID)
		if err != nil {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		service, err = uc.repo.GetService(ctx, id)
		if err != nil {
			return nil, err
		}
		if !service.Active {
			return nil, httperr.ErrBusiness("service_not_found")
		}
	}

	// --------------------------------------------------
	// 3️⃣ Slot free?
	// --------------------------------------------------
	avail, err := uc.availability.Execute(ctx, domain.AvailabilityInput{
		Date:      date,
		ServiceID: in.ServiceID,
	})
	if err != nil {
		return nil, err
	}
	if err := slotFree(avail, display); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Persist
	// --------------------------------------------------
	b := &models.Booking{
		UserID:          in.UserID,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		AppointmentDate: date,
		AppointmentTime: display,
		Status:          string(domain.InitialStatus()),
		PaymentStatus:   string(domain.PaymentUnpaid),
		Notes:           in.Notes,
	}
	if service != nil {
		b.ServiceID = &service.ID
		b.Service = service
		b.AmountCents = service.PriceCents
		b.Currency = service.Currency
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		if httperr.IsExclusionConflict(err) || httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrBusiness("time_conflict")
		}
		return nil, err
	}

	uc.metrics.BookingsCreated.Inc()
	uc.audit.Dispatch(audit.Event{
		ActorID:  in.UserID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: b.ID.String(),
		Metadata: map[string]any{"date": date, "time": display},
	})

	// --------------------------------------------------
	// 5️⃣ Checkout
	// --------------------------------------------------
	res := &CreateBookingResult{Booking: b}
	if service == nil || service.PriceCents <= 0 {
		return res, nil
	}

	sess, err := uc.gateway.CreateCheckout(ctx, payment.CheckoutRequest{
		BookingID:       b.ID.String(),
		Description:     fmt.Sprintf("%s on %s at %s", service.Name, date, display),
		AmountCents:     service.PriceCents,
		Currency:        service.Currency,
		CustomerEmail:   b.CustomerEmail,
		SuccessURL:      withBooking(uc.urls.Success, b.ID),
		CancelURL:       withBooking(uc.urls.Cancel, b.ID),
		NotificationURL: uc.urls.Notification,
	})
	if errors.Is(err, payment.ErrDisabled) {
		return res, nil
	}
	if err != nil {
		uc.logger.Error("checkout creation failed, cancelling booking",
			zap.String("booking_id", b.ID.String()),
			zap.String("provider", uc.gateway.Name()),
			zap.Error(err),
		)
		if cerr := domain.Cancel(b, uc.now()); cerr == nil {
			if uerr := uc.repo.UpdateBooking(ctx, b); uerr != nil {
				uc.logger.Error("cancel after checkout failure", zap.Error(uerr))
			}
		}
		return nil, httperr.ErrBusiness("checkout_unavailable")
	}

	b.CheckoutProvider = uc.gateway.Name()
	b.CheckoutID = sess.ID
	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	res.CheckoutURL = sess.URL
	return res, nil
}

// normalizeDisplay canonicalizes "9:00 am" to "9:00 AM".
func normalizeDisplay(raw string) (string, error) {
	m, err := timeutil.ParseTimeToMinutes(raw)
	if err != nil {
		return "", httperr.ErrBusiness("invalid_time")
	}
	display, err := timeutil.FormatMinutesToTimeDisplay(m)
	if err != nil {
		return "", httperr.ErrBusiness("invalid_time")
	}
	return display, nil
}

func slotFree(avail *domain.Availability, display string) error {
	for _, s := range avail.Slots {
		if s.Time != display {
			continue
		}
		if !s.Available {
			return httperr.ErrBusiness("time_conflict")
		}
		return nil
	}
	return httperr.ErrBusiness("invalid_slot")
}

func withBooking(raw string, id uuid.UUID) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set("booking_id", id.String())
	u.RawQuery = q.Encode()
	return u.String()
}
