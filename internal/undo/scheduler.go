package undo

import "time"

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the callback was
	// prevented from running.
	Stop() bool
}

// Scheduler arms deferred callbacks. Production code uses the real
// clock; tests substitute a manual implementation and fire callbacks
// explicitly instead of sleeping.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// NewScheduler returns a Scheduler backed by the real clock.
func NewScheduler() Scheduler {
	return realScheduler{}
}
