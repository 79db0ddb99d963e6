package booking

import "time"

// Clock abstracts the current time so time-gated transitions stay
// deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystemClock returns a Clock backed by the wall clock (UTC).
func NewSystemClock() Clock { return systemClock{} }
