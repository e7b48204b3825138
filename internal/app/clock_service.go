// internal/app/clock_service.go
package app

import (
	"wake_sync_bot/internal/domain/clock"
	"wake_sync_bot/internal/domain/cycle"

	"github.com/sirupsen/logrus"
)

// Reconciliation is the decision taken for the retained clock.
type Reconciliation struct {
	Action cycle.ClockAction
	Drift  int32         // Network minus retained, in seconds; zero when the clock was updated
	Clock  clock.Reading // Retained clock after the decision
}

// Reconcile decides between overwriting an uninitialised RTC and reporting drift of a trusted one.
func Reconcile(retained, network clock.Reading) Reconciliation {
	if !retained.Trusted() {
		return Reconciliation{Action: cycle.ClockUpdated, Clock: network}
	}
	return Reconciliation{
		Action: cycle.ClockDriftReported,
		Drift:  network.DiffSeconds(retained),
		Clock:  retained,
	}
}

// ClockService applies reconciliation decisions to the RTC.
type ClockService struct {
	rtc    clock.RTC
	logger *logrus.Entry
}

func NewClockService(rtc clock.RTC, logger *logrus.Entry) *ClockService {
	return &ClockService{rtc: rtc, logger: logger}
}

// Now reads the retained clock.
func (s *ClockService) Now() clock.Reading {
	return s.rtc.Now()
}

// Sync reconciles the retained reading with the network time and writes the RTC on a cold start.
func (s *ClockService) Sync(retained, network clock.Reading) Reconciliation {
	rec := Reconcile(retained, network)
	switch rec.Action {
	case cycle.ClockUpdated:
		s.rtc.Set(network)
		s.logger.WithField("rtc", network.String()).Info("RTC time updated")
	case cycle.ClockDriftReported:
		s.logger.WithField("difference_sec", rec.Drift).Info("Time difference")
	}
	return rec
}
