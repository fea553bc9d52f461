// Package timeoff manages admin blackout periods.
package timeoff

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/booking-marketplace/internal/domain/timeoff"
	"github.com/BruksfildServices01/booking-marketplace/internal/httperr"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
	"github.com/BruksfildServices01/booking-marketplace/internal/timeutil"
)

type CreateInput struct {
	StartDate string
	EndDate   string
	IsAllDay  bool
	StartTime string
	EndTime   string
	Type      string
	Reason    string
}

type Manage struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewManage(repo domain.Repository, audit *audit.Dispatcher) *Manage {
	return &Manage{repo: repo, audit: audit}
}

func (uc *Manage) Create(
	ctx context.Context,
	actorID string,
	in CreateInput,
) (*models.TimeOff, error) {

	p := &models.TimeOff{
		StartDate: strings.TrimSpace(in.StartDate),
		EndDate:   strings.TrimSpace(in.EndDate),
		IsAllDay:  in.IsAllDay,
		Type:      strings.TrimSpace(in.Type),
		Reason:    strings.TrimSpace(in.Reason),
		CreatedBy: actorID,
	}
	if p.EndDate == "" {
		p.EndDate = p.StartDate
	}
	if p.Type == "" {
		p.Type = string(domain.TypeTimeOff)
	}

	// stored as HH:MM:SS so the server-side predicate compares like for like
	if !p.IsAllDay {
		start, err := timeutil.ParseClock(in.StartTime)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_time_off")
		}
		end, err := timeutil.ParseClock(in.EndTime)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_time_off")
		}
		p.StartTime = timeutil.FormatClock(start)
		p.EndTime = timeutil.FormatClock(end)
	}

	if err := domain.Validate(*p); err != nil {
		return nil, httperr.ErrBusiness("invalid_time_off")
	}

	if err := uc.repo.CreateTimeOff(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "time_off_created",
		Entity:   "time_off",
		EntityID: p.ID.String(),
		Metadata: map[string]any{"start_date": p.StartDate, "end_date": p.EndDate, "all_day": p.IsAllDay},
	})

	return p, nil
}

func (uc *Manage) Delete(ctx context.Context, actorID string, id uuid.UUID) error {
	if err := uc.repo.DeleteTimeOff(ctx, id); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "time_off_deleted",
		Entity:   "time_off",
		EntityID: id.String(),
	})
	return nil
}

func (uc *Manage) List(ctx context.Context, from string) ([]models.TimeOff, error) {
	from = strings.TrimSpace(from)
	if from != "" && !validDate(from) {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	return uc.repo.ListTimeOff(ctx, from)
}

func validDate(s string) bool {
	return domain.Validate(models.TimeOff{StartDate: s, EndDate: s, IsAllDay: true}) == nil
}
