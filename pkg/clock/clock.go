// Package clock abstracts "now" so date defaults can be fixed in tests.
package clock

import "time"

// Clock reports the current wall-clock time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the real clock.
var System Clock = systemClock{}

// Fixed always reports the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }
