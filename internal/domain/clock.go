package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is the package time source behind view timestamps such as
// TableView.GeneratedAt. The service serves real time; tests freeze it so
// generated views compare byte-for-byte.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time {
	return clock.Now()
}
