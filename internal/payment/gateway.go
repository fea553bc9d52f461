// Package payment opens hosted checkouts and turns provider webhooks into
// booking payment events. Capture and settlement stay with the provider.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var (
	ErrInvalidSignature = errors.New("payment: invalid webhook signature")
	ErrDisabled         = errors.New("payment: checkout disabled")
	ErrMalformedEvent   = errors.New("payment: malformed webhook event")
)

type CheckoutRequest struct {
	BookingID     string
	Description   string
	AmountCents   int64
	Currency      string
	CustomerEmail string

	SuccessURL      string
	CancelURL       string
	NotificationURL string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type EventKind string

const (
	EventPaid     EventKind = "paid"
	EventFailed   EventKind = "failed"
	EventExpired  EventKind = "expired"
	EventRefunded EventKind = "refunded"
	EventIgnored  EventKind = "ignored"
)

// Event is a provider notification reduced to what the booking needs.
type Event struct {
	// ID is unique per provider state change and used for deduplication.
	ID          string
	Kind        EventKind
	BookingID   string
	CheckoutID  string
	Reference   string
	AmountCents int64
}

type WebhookRequest struct {
	Payload []byte
	Header  http.Header
	Query   url.Values
}

type Gateway interface {
	Name() string
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	ParseWebhook(ctx context.Context, req WebhookRequest) (*Event, error)
}

// New selects a gateway by provider name.
func New(provider string, cfg Config) (Gateway, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "none":
		return Disabled{}, nil
	case "stripe":
		return NewStripe(cfg.StripeSecretKey, cfg.StripeWebhookSecret), nil
	case "mercadopago":
		return NewMercadoPago(cfg.MercadoPagoAccessToken, cfg.MercadoPagoWebhookSecret)
	}
	return nil, fmt.Errorf("payment: unknown provider %q", provider)
}

type Config struct {
	StripeSecretKey     string
	StripeWebhookSecret string

	MercadoPagoAccessToken   string
	MercadoPagoWebhookSecret string
}

// Disabled is used when no provider is configured: bookings stay pending
// until an admin confirms them.
type Disabled struct{}

func (Disabled) Name() string { return "none" }

func (Disabled) CreateCheckout(context.Context, CheckoutRequest) (*CheckoutSession, error) {
	return nil, ErrDisabled
}

func (Disabled) ParseWebhook(context.Context, WebhookRequest) (*Event, error) {
	return nil, ErrDisabled
}
