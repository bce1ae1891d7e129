package service

import (
	"time"

	"taxclarity/internal/model"
)

// Clock anchors calendar-date arithmetic to one timezone.
type Clock struct {
	now func() time.Time
	loc *time.Location
}

// NewClock returns a Clock for loc. A nil now uses time.Now.
func NewClock(loc *time.Location, now func() time.Time) Clock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return Clock{now: now, loc: loc}
}

func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// Today is the current calendar date in the clock's location.
func (c Clock) Today() model.Date {
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}
	return model.DateOf(c.Now().In(loc))
}
