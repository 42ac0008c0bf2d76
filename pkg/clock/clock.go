// Package clock lets services read "now" through an injectable source so
// overdue derivation can be pinned in tests.
package clock

import "time"

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System is the wall clock, always in UTC.
func System() Clock { return systemClock{} }

// Fixed always returns t.
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t.UTC() })
}
