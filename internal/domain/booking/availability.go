package booking

import "github.com/google/uuid"

type AvailabilityInput struct {
	Date      string
	ServiceID string

	// ExcludeBookingID ignores one booking, so a reschedule does not
	// conflict with the slot it is leaving.
	ExcludeBookingID *uuid.UUID
}

type SlotAvailability struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type Availability struct {
	Date           string             `json:"date"`
	ServiceID      string             `json:"service_id,omitempty"`
	Duration       int                `json:"duration_minutes"`
	Slots          []SlotAvailability `json:"slots"`
	AvailableTimes []string           `json:"available_times"`
}

// IsAvailable reports whether display is one of the free slots.
func (a *Availability) IsAvailable(display string) bool {
	for _, s := range a.Slots {
		if s.Time == display {
			return s.Available
		}
	}
	return false
}

// ActiveBooking is the read-only projection the evaluator needs.
type ActiveBooking struct {
	ID              uuid.UUID
	AppointmentTime string
	ServiceID       string
	ServiceName     string
}
