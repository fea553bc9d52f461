package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/logging"
	"github.com/BruksfildServices01/booking-marketplace/internal/payment"
	ucBooking "github.com/BruksfildServices01/booking-marketplace/internal/usecase/booking"
)

const maxWebhookBytes = 1 << 20

type PaymentWebhookHandler struct {
	gateway payment.Gateway
	apply   *ucBooking.ApplyPaymentEvent
	logger  *zap.Logger
}

func NewPaymentWebhookHandler(
	gateway payment.Gateway,
	apply *ucBooking.ApplyPaymentEvent,
	logger *zap.Logger,
) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		gateway: gateway,
		apply:   apply,
		logger:  logging.OrNop(logger),
	}
}

// Handle answers 2xx for anything the provider should not retry,
// including events that match no booking.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	provider := strings.ToLower(c.Param("provider"))
	if h.gateway == nil || provider == "none" || h.gateway.Name() != provider {
		httperr.NotFound(c, "unknown_provider", "Payment provider is not enabled.")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		httperr.BadRequest(c, "invalid_payload", "Could not read payload.")
		return
	}

	evt, err := h.gateway.ParseWebhook(c.Request.Context(), payment.WebhookRequest{
		Payload: payload,
		Header:  c.Request.Header,
		Query:   c.Request.URL.Query(),
	})
	switch {
	case errors.Is(err, payment.ErrInvalidSignature):
		h.logger.Warn("webhook signature rejected", zap.String("provider", provider))
		httperr.Unauthorized(c, "invalid_signature", "Invalid webhook signature.")
		return
	case errors.Is(err, payment.ErrMalformedEvent):
		httperr.BadRequest(c, "invalid_payload", "Malformed webhook event.")
		return
	case err != nil:
		_ = c.Error(err)
		httperr.Write(c, http.StatusBadGateway, "provider_lookup_failed", "Could not verify event with provider.")
		return
	}

	outcome, err := h.apply.Execute(c.Request.Context(), provider, evt)
	if httperr.IsBusiness(err, "booking_not_found") {
		h.logger.Warn("webhook event matches no booking",
			zap.String("provider", provider),
			zap.String("event_id", evt.ID),
			zap.String("booking_id", evt.BookingID),
			zap.String("checkout_id", evt.CheckoutID),
		)
		c.JSON(http.StatusOK, gin.H{"status": "unmatched"})
		return
	}
	if err != nil {
		writeError(c, err, "webhook_apply_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(outcome)})
}
