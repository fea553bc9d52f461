package timeoff

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

type Repository interface {
	CreateTimeOff(ctx context.Context, p *models.TimeOff) error
	DeleteTimeOff(ctx context.Context, id uuid.UUID) error

	// ListTimeOff returns periods ending on or after from, ordered by
	// start date. An empty from lists everything.
	ListTimeOff(ctx context.Context, from string) ([]models.TimeOff, error)
}
