package planner

import (
	"fmt"
	"time"
	_ "time/tzdata" // Reference zones must resolve on hosts without zoneinfo.
)

// DefaultTimezone is the reference zone for stats timestamps and expiry.
const DefaultTimezone = "Europe/Kiev"

// Clock supplies the current time in the reference time zone.
type Clock interface {
	Now() time.Time
}

// ZoneClock reports wall-clock time in a fixed location.
type ZoneClock struct {
	loc *time.Location
}

// NewZoneClock returns a clock for the named IANA time zone.
func NewZoneClock(name string) (*ZoneClock, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", name, err)
	}
	return &ZoneClock{loc: loc}, nil
}

// Now returns the current time in the clock's location.
func (c *ZoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location returns the clock's reference zone.
func (c *ZoneClock) Location() *time.Location {
	return c.loc
}
