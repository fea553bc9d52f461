package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-marketplace/internal/reminder"
)

// ReminderRunner is satisfied by *reminder.Job.
type ReminderRunner interface {
	Run(ctx context.Context, now time.Time) (reminder.Result, error)
}

type CronHandler struct {
	reminders ReminderRunner
	now       func() time.Time
}

func NewCronHandler(reminders ReminderRunner) *CronHandler {
	return &CronHandler{reminders: reminders, now: time.Now}
}

func (h *CronHandler) Reminders(c *gin.Context) {
	res, err := h.reminders.Run(c.Request.Context(), h.now())
	if err != nil {
		writeError(c, err, "reminder_run_failed")
		return
	}

	c.JSON(http.StatusOK, res)
}
