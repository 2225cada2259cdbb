package clock

import "time"

// Interface is the part of the time package that observation handlers depend on
type Interface interface {
	Now() time.Time
	Since(time.Time) time.Duration
}

type systemClock struct{}

func (sc systemClock) Now() time.Time {
	return time.Now()
}

func (sc systemClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// System returns a clock backed by the time package
func System() Interface {
	return systemClock{}
}
