// internal/infra/scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ErrTimerNotArmed is returned by PowerDown when nothing would wake the device again.
var ErrTimerNotArmed = fmt.Errorf("wake timer not armed")

// wakeAt is a cron schedule that fires exactly once.
type wakeAt time.Time

// Next returns the wake time until it has passed, then the zero time, which cron treats as "never again".
func (w wakeAt) Next(t time.Time) time.Time {
	at := time.Time(w)
	if t.Before(at) {
		return at
	}
	return time.Time{}
}

// WakeScheduler emulates the deep-sleep wake timer: PowerDown blocks until
// the armed interval has elapsed, driven by a cron engine.
type WakeScheduler struct {
	logger  *logrus.Entry
	armed   time.Duration
	isArmed bool
	now     func() time.Time
}

func NewWakeScheduler(logger *logrus.Entry) *WakeScheduler {
	return &WakeScheduler{logger: logger, now: time.Now}
}

// ArmWakeTimer sets the sleep length in microseconds, the unit of the hardware timer.
func (s *WakeScheduler) ArmWakeTimer(micros uint64) {
	s.armed = time.Duration(micros) * time.Microsecond
	s.isArmed = true
	s.logger.WithField("sleep", s.armed).Debug("Wake timer armed")
}

// PowerDown sleeps until the wake timer fires or ctx is done. The timer is
// disarmed afterwards, as it would be by a real wake-up.
func (s *WakeScheduler) PowerDown(ctx context.Context) error {
	if !s.isArmed {
		return ErrTimerNotArmed
	}
	s.isArmed = false

	wake := s.now().Add(s.armed)
	engine := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cron.PrintfLogger(s.logger)),
	)
	woke := make(chan struct{})
	engine.Schedule(wakeAt(wake), cron.FuncJob(func() { close(woke) }))

	s.logger.WithField("wake_at", wake.Format(time.RFC3339)).Info("Powering down")
	engine.Start()
	defer func() {
		<-engine.Stop().Done()
	}()

	select {
	case <-woke:
		s.logger.Info("Wake timer fired")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
