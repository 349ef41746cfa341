package auth

import "time"

// Clock supplies the current time to components that make time-based
// decisions (token expiry, rate windows, attempt resets). Production code
// uses [SystemClock]; tests inject a fake to control time directly instead
// of sleeping through real windows.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// systemClock is the production Clock backed by time.Now.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the default [Clock] used when none is injected.
var SystemClock Clock = systemClock{}
