package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

type mockEmailSender struct {
	sent    []EmailMessage
	callErr error
}

func (m *mockEmailSender) Send(_ context.Context, msg EmailMessage) error {
	if m.callErr != nil {
		return m.callErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

func testBooking() *models.Booking {
	return &models.Booking{
		ID:              uuid.New(),
		CustomerName:    "Ana",
		CustomerEmail:   "ana@example.com",
		AppointmentDate: "2025-06-02",
		AppointmentTime: "10:00 AM",
		Service:         &models.Service{Name: "Massage"},
	}
}

func TestService_Messages(t *testing.T) {
	sender := &mockEmailSender{}
	svc := NewService(sender, nil)
	b := testBooking()
	ctx := context.Background()

	require.NoError(t, svc.BookingConfirmed(ctx, b))
	require.NoError(t, svc.BookingRescheduled(ctx, b))
	require.NoError(t, svc.BookingCancelled(ctx, b))
	require.NoError(t, svc.BookingReminder(ctx, b))

	require.Len(t, sender.sent, 4)
	first := sender.sent[0]
	assert.Equal(t, "ana@example.com", first.To)
	assert.Equal(t, "Ana", first.ToName)
	assert.Equal(t, "Your booking is confirmed", first.Subject)
	assert.Contains(t, first.Body, "Hello Ana,")
	assert.Contains(t, first.Body, "Massage appointment")
	assert.Contains(t, first.Body, "2025-06-02 at 10:00 AM")

	assert.Contains(t, sender.sent[3].Subject, "Reminder")
}

func TestService_NoEmailSkips(t *testing.T) {
	sender := &mockEmailSender{}
	svc := NewService(sender, nil)

	b := testBooking()
	b.CustomerEmail = " "
	require.NoError(t, svc.BookingConfirmed(context.Background(), b))
	assert.Empty(t, sender.sent)
}

func TestService_SenderErrorLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sender := &mockEmailSender{callErr: errors.New("smtp down")}
	svc := NewService(sender, zap.New(core))

	err := svc.BookingCancelled(context.Background(), testBooking())
	assert.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("booking email failed").Len())
}

func TestService_NilIsNoop(t *testing.T) {
	var svc *Service
	assert.NoError(t, svc.BookingReminder(context.Background(), testBooking()))
}

func TestNewSender(t *testing.T) {
	_, isStub := NewSender(SendGridConfig{}, nil).(*StubSender)
	assert.True(t, isStub)

	_, isSG := NewSender(SendGridConfig{APIKey: "SG.test", FromEmail: "noreply@example.com"}, nil).(*SendGridSender)
	assert.True(t, isSG)
}

func TestStubSender_Logs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewStubSender(zap.New(core))

	require.NoError(t, s.Send(context.Background(), EmailMessage{To: "a@b.c", Subject: "hi"}))
	assert.Equal(t, 1, logs.Len())
}
