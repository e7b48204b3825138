// internal/infra/device/link.go
package device

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

const probeDialTimeout = 300 * time.Millisecond

// ProbeLink stands in for the radio on a host: the link counts as
// associated once a TCP connection to the probe address succeeds.
type ProbeLink struct {
	addr   string
	up     bool
	begun  bool
	logger *logrus.Entry

	dial func(network, address string, timeout time.Duration) (net.Conn, error)
}

func NewProbeLink(addr string, logger *logrus.Entry) *ProbeLink {
	return &ProbeLink{addr: addr, logger: logger, dial: net.DialTimeout}
}

func (l *ProbeLink) Begin() error {
	l.begun = true
	l.up = false
	l.logger.WithField("probe", l.addr).Debug("Link association started")
	return nil
}

// Connected probes the address until it answers once; the result is kept until Disconnect.
func (l *ProbeLink) Connected() bool {
	if !l.begun {
		return false
	}
	if l.up {
		return true
	}
	conn, err := l.dial("tcp", l.addr, probeDialTimeout)
	if err != nil {
		l.logger.WithError(err).Trace("Link probe failed")
		return false
	}
	conn.Close()
	l.up = true
	return true
}

func (l *ProbeLink) Disconnect() {
	l.begun = false
	l.up = false
}
