package ext

import "time"

// Clock wraps the Now method so that tests can control timestamps.
type Clock interface {
	Now() time.Time
}

type SystemClock struct {
}

func (c *SystemClock) Now() time.Time {
	return time.Now()
}
