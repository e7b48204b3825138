// internal/domain/device/device.go
package device

import "context"

// Link is the wireless association. Begin starts it, Connected is polled
// until it reports true or the caller gives up.
type Link interface {
	Begin() error
	Connected() bool
	Disconnect()
}

// Indicator is the status LED.
type Indicator interface {
	Set(on bool)
}

// Power controls the deep-sleep wake timer and the power-down itself.
// ArmWakeTimer must be called before PowerDown.
type Power interface {
	ArmWakeTimer(micros uint64)
	PowerDown(ctx context.Context) error
}
