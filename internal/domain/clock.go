package domain

import "github.com/jonboulle/clockwork"

// clock stamps GlacierCollection.UpdatedAt and snapshot load times.
var clock = clockwork.NewRealClock()

// SetClock replaces the clock used to stamp collections. Nil restores the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}
