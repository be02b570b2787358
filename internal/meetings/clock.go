package meetings

import "time"

// Clock abstracts retry delay scheduling so tests can fast-forward
// simulated time instead of waiting on real delays.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// SystemClock schedules delays on the wall clock.
var SystemClock Clock = systemClock{}
