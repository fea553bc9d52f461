// Package timeoff decides whether a booking interval falls inside an
// admin-declared blackout period.
package timeoff

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/booking-marketplace/internal/models"
	"github.com/BruksfildServices01/booking-marketplace/internal/timeutil"
)

const DateLayout = "2006-01-02"

type Type string

const (
	TypeTimeOff     Type = "time_off"
	TypeHoliday     Type = "holiday"
	TypeMaintenance Type = "maintenance"
	TypePersonal    Type = "personal"
)

func (t Type) Valid() bool {
	switch t {
	case TypeTimeOff, TypeHoliday, TypeMaintenance, TypePersonal:
		return true
	}
	return false
}

// CoversDate reports whether date (YYYY-MM-DD) is inside the inclusive
// range. ISO dates compare correctly as strings.
func CoversDate(p models.TimeOff, date string) bool {
	return p.StartDate <= date && date <= p.EndDate
}

// Blocks reports whether p blocks [start,end) minutes on date.
func Blocks(p models.TimeOff, date string, start, end int) (bool, error) {
	if !CoversDate(p, date) {
		return false, nil
	}
	if p.IsAllDay {
		return true, nil
	}

	ps, err := timeutil.ParseClock(p.StartTime)
	if err != nil {
		return false, fmt.Errorf("time off %s: start_time: %w", p.ID, err)
	}
	pe, err := timeutil.ParseClock(p.EndTime)
	if err != nil {
		return false, fmt.Errorf("time off %s: end_time: %w", p.ID, err)
	}

	return timeutil.Overlaps(start, end, ps, pe), nil
}

// Conflicts scans every period; any single blocking period is a conflict.
func Conflicts(periods []models.TimeOff, date string, start, end int) (bool, error) {
	for _, p := range periods {
		blocked, err := Blocks(p, date, start, end)
		if err != nil {
			return false, err
		}
		if blocked {
			return true, nil
		}
	}
	return false, nil
}

// Validate checks a period before it is stored.
func Validate(p models.TimeOff) error {
	if _, err := time.Parse(DateLayout, p.StartDate); err != nil {
		return fmt.Errorf("invalid start_date %q", p.StartDate)
	}
	if _, err := time.Parse(DateLayout, p.EndDate); err != nil {
		return fmt.Errorf("invalid end_date %q", p.EndDate)
	}
	if p.EndDate < p.StartDate {
		return fmt.Errorf("end_date before start_date")
	}
	if p.Type != "" && !Type(p.Type).Valid() {
		return fmt.Errorf("invalid type %q", p.Type)
	}
	if p.IsAllDay {
		return nil
	}

	ps, err := timeutil.ParseClock(p.StartTime)
	if err != nil {
		return err
	}
	pe, err := timeutil.ParseClock(p.EndTime)
	if err != nil {
		return err
	}
	if pe <= ps {
		return fmt.Errorf("end_time must be after start_time")
	}
	return nil
}
