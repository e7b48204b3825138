// internal/app/status.go
package app

import (
	"fmt"
	"time"

	"wake_sync_bot/internal/domain/clock"
)

// FormatStatus renders the chat message body for one cycle.
// interval is the interval the device slept before this wake.
func FormatStatus(rtc, ntp clock.Reading, interval time.Duration) string {
	return fmt.Sprintf("RTC time: %d\nNTP time: %d\nSleep duration: %d sec.",
		rtc.Seconds(), ntp.Seconds(), interval.Milliseconds()/1000)
}
