// Package catalog holds the business-hours schedule: the fixed list of
// bookable start times and the per-service duration table.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BruksfildServices01/booking-marketplace/internal/timeutil"
)

// DefaultKey is the duration entry used for unknown or absent services.
const DefaultKey = "default"

type Catalog struct {
	Slots     []string       `yaml:"slots"`
	Durations map[string]int `yaml:"durations"`
}

func Default() *Catalog {
	return &Catalog{
		Slots: []string{
			"9:00 AM",
			"10:00 AM",
			"11:00 AM",
			"1:00 PM",
			"2:00 PM",
			"3:00 PM",
			"4:00 PM",
		},
		Durations: map[string]int{
			DefaultKey: timeutil.DefaultDurationMinutes,
		},
	}
}

// Load reads a YAML catalog. An empty path returns the built-in default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	if len(c.Slots) == 0 {
		c.Slots = Default().Slots
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks every slot parses, rewrites slots in canonical
// "H:MM AM" form and fills in the default duration.
func (c *Catalog) Validate() error {
	seen := make(map[int]bool, len(c.Slots))
	for i, s := range c.Slots {
		m, err := timeutil.ParseTimeToMinutes(s)
		if err != nil {
			return fmt.Errorf("catalog: slot %q: %w", s, err)
		}
		if seen[m] {
			return fmt.Errorf("catalog: duplicate slot %q", s)
		}
		seen[m] = true
		c.Slots[i], _ = timeutil.FormatMinutesToTimeDisplay(m)
	}

	if c.Durations == nil {
		c.Durations = map[string]int{}
	}
	for id, d := range c.Durations {
		if d <= 0 {
			return fmt.Errorf("catalog: duration for %q must be positive", id)
		}
	}
	if _, ok := c.Durations[DefaultKey]; !ok {
		c.Durations[DefaultKey] = timeutil.DefaultDurationMinutes
	}

	return nil
}

// DurationMinutes resolves a service id against the table, falling back to
// the default entry.
func (c *Catalog) DurationMinutes(serviceID string) int {
	if serviceID != "" {
		if d, ok := c.Durations[serviceID]; ok {
			return d
		}
	}
	if d, ok := c.Durations[DefaultKey]; ok {
		return d
	}
	return timeutil.DefaultDurationMinutes
}

// HasSlot reports whether display names one of the catalog start times.
func (c *Catalog) HasSlot(display string) bool {
	m, err := timeutil.ParseTimeToMinutes(display)
	if err != nil {
		return false
	}
	for _, s := range c.Slots {
		if sm, err := timeutil.ParseTimeToMinutes(s); err == nil && sm == m {
			return true
		}
	}
	return false
}
