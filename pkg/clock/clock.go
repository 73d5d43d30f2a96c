package clock

import (
	"fmt"
	"time"
)

// Clock provides timezone-aware time for the whole app. Every timestamp the
// service issues or compares goes through it so expiry arithmetic stays in the
// event timezone.
type Clock struct {
	location *time.Location
}

// NewClock loads the given IANA timezone name (e.g. "Asia/Kuala_Lumpur").
func NewClock(timezone string) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}

	return &Clock{location: loc}, nil
}

// Now returns the current time in the event timezone.
func (c *Clock) Now() time.Time {
	return time.Now().In(c.location)
}

// Expiry returns the expiry instant for a grant issued at the given time,
// days ahead, in the event timezone.
func (c *Clock) Expiry(issuedAt time.Time, days int) time.Time {
	return issuedAt.In(c.location).AddDate(0, 0, days)
}

// Parse parses an RFC 3339 timestamp and converts it into the event timezone.
func (c *Clock) Parse(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse expiry %q: %w", value, err)
	}

	return t.In(c.location), nil
}
