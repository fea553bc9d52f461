package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

type Stripe struct {
	api           *client.API
	webhookSecret string
}

func NewStripe(secretKey, webhookSecret string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &Stripe{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.BookingID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(req.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
			},
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.AddMetadata("booking_id", req.BookingID)
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (s *Stripe) ParseWebhook(_ context.Context, req WebhookRequest) (*Event, error) {
	evt, err := webhook.ConstructEventWithOptions(
		req.Payload,
		req.Header.Get("Stripe-Signature"),
		s.webhookSecret,
		webhook.ConstructEventOptions{
			Tolerance:                webhook.DefaultTolerance,
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: evt.ID, Kind: EventIgnored}

	var kind EventKind
	switch string(evt.Type) {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		kind = EventPaid
	case "checkout.session.async_payment_failed":
		kind = EventFailed
	case "checkout.session.expired":
		kind = EventExpired
	default:
		return out, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(evt.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	// Delayed payment methods complete the session before the money moves.
	if kind == EventPaid && session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
		return out, nil
	}

	out.Kind = kind
	out.CheckoutID = session.ID
	out.AmountCents = session.AmountTotal
	out.BookingID = session.Metadata["booking_id"]
	if out.BookingID == "" {
		out.BookingID = session.ClientReferenceID
	}
	if session.PaymentIntent != nil {
		out.Reference = session.PaymentIntent.ID
	}

	return out, nil
}
