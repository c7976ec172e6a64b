package behavior

import "time"

// Clock supplies the current time to time-aware leaves such as Wait.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the Clock backed by time.Now.
var SystemClock Clock = ClockFunc(time.Now)
