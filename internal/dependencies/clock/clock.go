package clock

import "time"

// Clock abstracts wall-clock reads so components that timestamp
// messages can be tested against a fixed time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New returns the system-clock implementation
func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}
