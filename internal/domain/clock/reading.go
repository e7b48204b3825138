// internal/domain/clock/reading.go
package clock

import "fmt"

// TrustThreshold is the smallest reading considered a real wall-clock time.
// Anything below one day after the epoch is an RTC that was never set.
const TrustThreshold Reading = 24 * 60 * 60

// Reading is a wall-clock value in seconds since the Unix epoch,
// already shifted by the configured timezone offset.
type Reading uint32

// Trusted reports whether the reading looks like a real time.
func (r Reading) Trusted() bool {
	return r >= TrustThreshold
}

// Seconds returns the raw value.
func (r Reading) Seconds() uint32 {
	return uint32(r)
}

// String renders the reading as "1700000000 (22:13:20)".
func (r Reading) String() string {
	s := uint32(r)
	return fmt.Sprintf("%d (%02d:%02d:%02d)", s, (s%86400)/3600, (s%3600)/60, s%60)
}

// DiffSeconds returns r minus other as a signed number of seconds.
func (r Reading) DiffSeconds(other Reading) int32 {
	return int32(uint32(r) - uint32(other))
}

// RTC is the real-time clock that keeps running through deep sleep.
type RTC interface {
	Now() Reading
	Set(Reading) // Sub-second part is zeroed
}
