package booking

import (
	"context"
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
)

const webhookDedupeTTL = 7 * 24 * time.Hour

// Outcome of applying one webhook event.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
)

// ApplyPaymentEvent mirrors the provider's payment state onto the booking.
type ApplyPaymentEvent struct {
	repo     domain.Repository
	claims   Claimer
	notifier Notifier
	audit    *audit.Dispatcher
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewApplyPaymentEvent(
	repo domain.Repository,
	claims Claimer,
	notifier Notifier,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ApplyPaymentEvent {
	if m == nil {
		m = metrics.Nop()
	}
	return &ApplyPaymentEvent{
		repo:     repo,
		claims:   claims,
		notifier: notifier,
		audit:    audit,
		metrics:  m,
		logger:   logging.OrNop(logger),
	}
}

func (uc *ApplyPaymentEvent) Execute(
	ctx context.Context,
	provider string,
	evt *payment.Event,
) (Outcome, error) {

	if evt.Kind == payment.EventIgnored {
		uc.metrics.WebhookEvents.WithLabelValues(provider, string(OutcomeIgnored)).Inc()
		return OutcomeIgnored, nil
	}

	// ---- 1️⃣ dedupe ----
	key := "webhook:" + provider + ":" + evt.ID
	if uc.claims != nil {
		fresh, err := uc.claims.Claim(ctx, key, webhookDedupeTTL)
		if err != nil {
			return "", err
		}
		if !fresh {
			uc.metrics.WebhookEvents.WithLabelValues(provider, string(OutcomeDuplicate)).Inc()
			return OutcomeDuplicate, nil
		}
	}

	outcome, err := uc.apply(ctx, provider, evt)
	if err != nil {
		// let the provider retry
		if uc.claims != nil {
			if rerr := uc.claims.Release(ctx, key); rerr != nil {
				uc.logger.Warn("release webhook claim", zap.String("key", key), zap.Error(rerr))
			}
		}
		uc.metrics.WebhookEvents.WithLabelValues(provider, "error").Inc()
		return "", err
	}

	uc.metrics.WebhookEvents.WithLabelValues(provider, string(outcome)).Inc()
	return outcome, nil
}

func (uc *ApplyPaymentEvent) apply(
	ctx context.Context,
	provider string,
	evt *payment.Event,
) (Outcome, error) {

	// ---- 2️⃣ booking ----
	b, err := uc.find(ctx, provider, evt)
	if err != nil {
		return "", err
	}

	// ---- 3️⃣ mirror ----
	confirmed := false
	switch evt.Kind {
	case payment.EventPaid:
		b.PaymentStatus = string(domain.PaymentPaid)
		if domain.CanConfirm(domain.Status(b.Status)) == nil {
			_ = domain.Confirm(b)
			confirmed = true
		}
	case payment.EventFailed, payment.EventExpired:
		if b.PaymentStatus == string(domain.PaymentPaid) {
			return OutcomeIgnored, nil
		}
		b.PaymentStatus = string(domain.PaymentFailed)
	case payment.EventRefunded:
		b.PaymentStatus = string(domain.PaymentRefunded)
	default:
		return OutcomeIgnored, nil
	}

	if evt.Reference != "" {
		b.PaymentReference = evt.Reference
	}
	if b.CheckoutProvider == "" {
		b.CheckoutProvider = provider
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return "", err
	}

	if confirmed && uc.notifier != nil {
		_ = uc.notifier.BookingConfirmed(ctx, b)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  provider,
		Action:   "payment_" + string(evt.Kind),
		Entity:   "booking",
		EntityID: b.ID.String(),
		Metadata: map[string]any{"event_id": evt.ID, "amount_cents": evt.AmountCents},
	})

	return OutcomeApplied, nil
}

func (uc *ApplyPaymentEvent) find(
	ctx context.Context,
	provider string,
	evt *payment.Event,
) (*models.Booking, error) {

	if evt.BookingID != "" {
		id, err := uuid.Parse(evt.BookingID)
		if err == nil {
			b, err := uc.repo.GetBooking(ctx, id)
			if err == nil || !httperr.IsBusiness(err, "booking_not_found") || evt.CheckoutID == "" {
				return b, err
			}
		}
	}

	if evt.CheckoutID != "" {
		return uc.repo.GetBookingByCheckout(ctx, provider, evt.CheckoutID)
	}

	return nil, httperr.ErrBusiness("booking_not_found")
}
