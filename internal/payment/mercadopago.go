package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type paymentFetcher interface {
	Get(ctx context.Context, id int) (*mppayment.Response, error)
}

type MercadoPago struct {
	prefs         preferenceCreator
	payments      paymentFetcher
	webhookSecret string
}

func NewMercadoPago(accessToken, webhookSecret string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: config: %w", err)
	}

	return &MercadoPago{
		prefs:         preference.NewClient(cfg),
		payments:      mppayment.NewClient(cfg),
		webhookSecret: webhookSecret,
	}, nil
}

func (m *MercadoPago) Name() string { return "mercadopago" }

func (m *MercadoPago) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	request := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:         req.BookingID,
				Title:      req.Description,
				Quantity:   1,
				UnitPrice:  float64(req.AmountCents) / 100,
				CurrencyID: strings.ToUpper(req.Currency),
			},
		},
		ExternalReference: req.BookingID,
		NotificationURL:   req.NotificationURL,
		BackURLs: &preference.BackURLsRequest{
			Success: req.SuccessURL,
			Pending: req.SuccessURL,
			Failure: req.CancelURL,
		},
	}

	res, err := m.prefs.Create(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: create preference: %w", err)
	}

	return &CheckoutSession{ID: res.ID, URL: res.InitPoint}, nil
}

type mpNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (m *MercadoPago) ParseWebhook(ctx context.Context, req WebhookRequest) (*Event, error) {
	var n mpNotification
	if err := json.Unmarshal(req.Payload, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	dataID := req.Query.Get("data.id")
	if dataID == "" {
		dataID = n.Data.ID
	}
	if dataID == "" {
		return nil, fmt.Errorf("%w: missing data.id", ErrMalformedEvent)
	}

	if !m.verifySignature(dataID, req.Header.Get("x-request-id"), req.Header.Get("x-signature")) {
		return nil, ErrInvalidSignature
	}

	if n.Type != "payment" {
		return &Event{ID: n.Type + ":" + dataID, Kind: EventIgnored}, nil
	}

	id, err := strconv.Atoi(dataID)
	if err != nil {
		return nil, fmt.Errorf("%w: payment id %q", ErrMalformedEvent, dataID)
	}

	p, err := m.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: get payment %d: %w", id, err)
	}

	return &Event{
		ID:          fmt.Sprintf("%d:%s", p.ID, p.Status),
		Kind:        mpKind(p.Status),
		BookingID:   p.ExternalReference,
		Reference:   strconv.Itoa(p.ID),
		AmountCents: int64(math.Round(p.TransactionAmount * 100)),
	}, nil
}

func mpKind(status string) EventKind {
	switch status {
	case "approved":
		return EventPaid
	case "rejected", "cancelled":
		return EventFailed
	case "refunded", "charged_back":
		return EventRefunded
	}
	return EventIgnored
}

// verifySignature checks the x-signature header ("ts=...,v1=...") against
// the manifest "id:<data.id>;request-id:<x-request-id>;ts:<ts>;".
func (m *MercadoPago) verifySignature(dataID, requestID, header string) bool {
	if m.webhookSecret == "" {
		return false
	}

	var ts, v1 string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "ts":
			ts = v
		case "v1":
			v1 = v
		}
	}
	if ts == "" || v1 == "" {
		return false
	}

	manifest := "id:" + strings.ToLower(dataID) + ";"
	if requestID != "" {
		manifest += "request-id:" + requestID + ";"
	}
	manifest += "ts:" + ts + ";"

	mac := hmac.New(sha256.New, []byte(m.webhookSecret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(v1))
}
