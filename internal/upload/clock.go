package upload

import "time"

// Clock abstracts timer waits so tests can drive the cosmetic phase sequence
// deterministically.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
