package domain

import "time"

// Clock supplies the current time. The store stamps timestamps and the
// reminder scanner computes staleness through it, so tests can pin "now".
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	return f()
}

// TimestampPrecision matches PostgreSQL timestamptz, so a task returned
// from Create carries the same timestamps a later read does.
const TimestampPrecision = time.Microsecond

// SystemClock reads the wall clock in UTC at TimestampPrecision.
var SystemClock Clock = ClockFunc(func() time.Time {
	return time.Now().UTC().Truncate(TimestampPrecision)
})

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
