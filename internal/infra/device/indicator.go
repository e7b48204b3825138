package device

import "github.com/sirupsen/logrus"

// LogIndicator is the status LED of a board without one: transitions go to the trace log.
type LogIndicator struct {
	on     bool
	logger *logrus.Entry
}

func NewLogIndicator(logger *logrus.Entry) *LogIndicator {
	return &LogIndicator{logger: logger}
}

func (i *LogIndicator) Set(on bool) {
	if i.on == on {
		return
	}
	i.on = on
	i.logger.WithField("on", on).Trace("led:changed")
}

// On reports the current LED state.
func (i *LogIndicator) On() bool {
	return i.on
}
