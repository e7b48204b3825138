// internal/app/cycle_service.go
package app

import (
	"context"
	"time"

	"wake_sync_bot/internal/domain/clock"
	"wake_sync_bot/internal/domain/cycle"
	"wake_sync_bot/internal/domain/device"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TimeSource fetches the network time. A failed fetch returns 0 and an error.
type TimeSource interface {
	Fetch(ctx context.Context) (clock.Reading, error)
}

// CycleService runs one wake: sync, report, schedule, power down.
type CycleService struct {
	stateRepo cycle.Repository
	link      *LinkService
	timeSrc   TimeSource
	clocks    *ClockService
	reporter  *ReportService
	power     device.Power
	logger    *logrus.Entry

	newID func() string
	now   func() time.Time
}

func NewCycleService(
	stateRepo cycle.Repository,
	link *LinkService,
	timeSrc TimeSource,
	clocks *ClockService,
	reporter *ReportService,
	power device.Power,
	logger *logrus.Entry,
) *CycleService {
	return &CycleService{
		stateRepo: stateRepo,
		link:      link,
		timeSrc:   timeSrc,
		clocks:    clocks,
		reporter:  reporter,
		power:     power,
		logger:    logger,
		newID:     func() string { return uuid.Must(uuid.NewV7()).String() },
		now:       time.Now,
	}
}

// Run executes one wake cycle. Stage failures are recorded in the Outcome
// and never stop the cycle: the next interval is always computed, the wake
// timer always armed and PowerDown always called.
func (s *CycleService) Run(ctx context.Context) *cycle.Outcome {
	out := &cycle.Outcome{ID: s.newID(), StartedAt: s.now(), Clock: cycle.ClockUntouched}
	logCtx := s.logger.WithField("cycle_id", out.ID)

	state, err := s.stateRepo.Load(ctx)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load cycle state, starting from scratch")
		state = &cycle.State{}
	}
	if state.IsFirstCycle() {
		logCtx.Info("First cycle since cold boot")
	}
	out.PreviousInterval = state.SleepInterval

	s.syncAndReport(ctx, state, out, logCtx)

	out.NextInterval = NextInterval(state.SleepInterval)
	state.SleepInterval = out.NextInterval
	if err := s.stateRepo.Save(ctx, state); err != nil {
		logCtx.WithError(err).Error("Failed to save cycle state")
	}

	out.ArmedMicros = uint64(out.NextInterval.Milliseconds()) * 1000
	logCtx.WithFields(logrus.Fields{
		"sleep_sec": out.NextInterval.Milliseconds() / 1000,
		"reported":  out.Reported(),
	}).Info("Going to sleep")
	s.power.ArmWakeTimer(out.ArmedMicros)
	out.PowerDownErr = s.power.PowerDown(ctx)
	if out.PowerDownErr != nil {
		logCtx.WithError(out.PowerDownErr).Warn("Power-down interrupted")
	}
	return out
}

// syncAndReport covers every network-dependent stage. Each failure skips the stages after it.
func (s *CycleService) syncAndReport(ctx context.Context, state *cycle.State, out *cycle.Outcome, logCtx *logrus.Entry) {
	if err := s.link.Connect(ctx); err != nil {
		logCtx.WithError(err).Warn("No connectivity, skipping time sync and report")
		return
	}
	out.Connected = true
	defer s.link.Disconnect()

	out.RetainedRTC = s.clocks.Now()
	logCtx.WithField("rtc", out.RetainedRTC.String()).Info("RTC time")

	ntp, err := s.timeSrc.Fetch(ctx)
	if err != nil {
		out.FetchErr = err
		logCtx.WithError(err).Error("Updating time from NTP server FAIL")
		return
	}
	out.NetworkTime = ntp
	logCtx.WithField("ntp", ntp.String()).Info("NTP time")

	rec := s.clocks.Sync(out.RetainedRTC, ntp)
	out.Clock = rec.Action
	out.Drift = rec.Drift

	out.ReportAttempted = true
	out.ReportErr = s.reporter.Report(state, rec.Clock, ntp)
	if state.LastMessageID.Valid {
		out.MessageID = state.LastMessageID.Int32
		out.HasMessageID = true
	}
}
