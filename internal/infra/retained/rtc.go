package retained

import (
	"time"

	"wake_sync_bot/internal/domain/clock"
)

// RTC is a real-time clock that starts at zero on power-up and keeps
// counting through emulated deep sleep, like an unset hardware RTC.
type RTC struct {
	base  clock.Reading
	setAt time.Time
	now   func() time.Time
}

func NewRTC() *RTC {
	return newRTC(time.Now)
}

func newRTC(now func() time.Time) *RTC {
	return &RTC{setAt: now(), now: now}
}

// Now returns the clock value in whole seconds.
func (r *RTC) Now() clock.Reading {
	elapsed := r.now().Sub(r.setAt) / time.Second
	return r.base + clock.Reading(elapsed)
}

// Set moves the clock to v with the sub-second part zeroed.
func (r *RTC) Set(v clock.Reading) {
	r.base = v
	r.setAt = r.now()
}
