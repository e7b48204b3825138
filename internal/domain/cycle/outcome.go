// internal/domain/cycle/outcome.go
package cycle

import (
	"time"

	"wake_sync_bot/internal/domain/clock"
)

// ClockAction tells what the reconciler did with the retained clock.
type ClockAction string

const (
	ClockUntouched     ClockAction = "UNTOUCHED"      // No network time this cycle
	ClockUpdated       ClockAction = "UPDATED"        // Cold start, RTC overwritten with network time
	ClockDriftReported ClockAction = "DRIFT_REPORTED" // RTC trusted, only the difference was reported
)

// Outcome records what a single wake did. It is logged, never persisted.
type Outcome struct {
	ID        string
	StartedAt time.Time

	Connected   bool
	RetainedRTC clock.Reading // RTC as read before the sync
	NetworkTime clock.Reading // 0 when the fetch failed or was skipped
	FetchErr    error

	Clock ClockAction
	Drift int32 // Seconds, network minus retained; only set with ClockDriftReported

	ReportAttempted bool
	ReportErr       error
	MessageID       int32 // Valid only when HasMessageID
	HasMessageID    bool

	PreviousInterval time.Duration
	NextInterval     time.Duration
	ArmedMicros      uint64
	PowerDownErr     error
}

// Reported reports whether the status message reached the chat.
func (o *Outcome) Reported() bool {
	return o.ReportAttempted && o.ReportErr == nil
}
