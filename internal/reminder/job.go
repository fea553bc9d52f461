// Package reminder emails customers the day before a confirmed booking.
package reminder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-marketplace/internal/logging"
	"github.com/BruksfildServices01/booking-marketplace/internal/metrics"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

const lockTTL = 15 * time.Minute

type Store interface {
	ListDueReminders(ctx context.Context, date string) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, b *models.Booking) error
}

type Sender interface {
	BookingReminder(ctx context.Context, b *models.Booking) error
}

type Locker interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Result struct {
	Date    string `json:"date"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Skipped bool   `json:"skipped"`
}

type Job struct {
	store   Store
	sender  Sender
	locker  Locker
	loc     *time.Location
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewJob(
	store Store,
	sender Sender,
	locker Locker,
	loc *time.Location,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Job {
	if loc == nil {
		loc = time.UTC
	}
	if m == nil {
		m = metrics.Nop()
	}
	return &Job{
		store:   store,
		sender:  sender,
		locker:  locker,
		loc:     loc,
		metrics: m,
		logger:  logging.OrNop(logger),
	}
}

// Run sends reminders for bookings on the day after now, in the business
// timezone. Overlapping runs are skipped while another replica holds the
// lock for the same day.
func (j *Job) Run(ctx context.Context, now time.Time) (Result, error) {
	date := now.In(j.loc).AddDate(0, 0, 1).Format("2006-01-02")
	res := Result{Date: date}

	if j.locker != nil {
		key := "reminders:" + date
		ok, err := j.locker.Claim(ctx, key, lockTTL)
		if err != nil {
			return res, err
		}
		if !ok {
			j.logger.Info("reminder run already in progress", zap.String("date", date))
			res.Skipped = true
			return res, nil
		}
		defer func() {
			if err := j.locker.Release(context.WithoutCancel(ctx), key); err != nil {
				j.logger.Warn("release reminder lock", zap.Error(err))
			}
		}()
	}

	due, err := j.store.ListDueReminders(ctx, date)
	if err != nil {
		return res, fmt.Errorf("list due reminders for %s: %w", date, err)
	}

	for i := range due {
		b := &due[i]

		if err := j.sender.BookingReminder(ctx, b); err != nil {
			res.Failed++
			continue
		}

		sentAt := now.UTC()
		b.ReminderSentAt = &sentAt
		if err := j.store.UpdateBooking(ctx, b); err != nil {
			j.logger.Error("mark reminder sent",
				zap.String("booking_id", b.ID.String()),
				zap.Error(err),
			)
			res.Failed++
			continue
		}

		res.Sent++
		j.metrics.RemindersSent.Inc()
	}

	j.logger.Info("reminder run finished",
		zap.String("date", date),
		zap.Int("due", len(due)),
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
