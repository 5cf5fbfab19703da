package biztime

import "time"

// Clock supplies the current instant. All duration math in the
// subscription engine is relative to a Clock so that lifecycle logic
// stays testable without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return NowUTC()
}

// SystemClock returns a Clock backed by the wall clock, in UTC.
func SystemClock() Clock {
	return systemClock{}
}
