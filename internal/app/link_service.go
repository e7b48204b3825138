// internal/app/link_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"wake_sync_bot/internal/domain/device"

	"github.com/sirupsen/logrus"
)

// ErrLinkTimeout is returned when association did not complete in time.
var ErrLinkTimeout = fmt.Errorf("link not connected before timeout")

// Blink pattern shown while waiting for association.
const (
	linkPollPeriod = 500 * time.Millisecond
	linkBlinkOn    = 25 * time.Millisecond
)

// LinkService brings the wireless link up and down, blinking the indicator while it waits.
type LinkService struct {
	link      device.Link
	indicator device.Indicator
	timeout   time.Duration
	logger    *logrus.Entry

	sleep func(ctx context.Context, d time.Duration) error
}

func NewLinkService(link device.Link, indicator device.Indicator, timeout time.Duration, logger *logrus.Entry) *LinkService {
	return &LinkService{
		link:      link,
		indicator: indicator,
		timeout:   timeout,
		logger:    logger,
		sleep:     sleepContext,
	}
}

// Connect starts association and polls until the link is up or the timeout expires.
// On failure the link is already torn down.
func (s *LinkService) Connect(ctx context.Context) error {
	s.logger.Info("Connecting to network")
	if err := s.link.Begin(); err != nil {
		s.link.Disconnect()
		return fmt.Errorf("failed to start association: %w", err)
	}

	deadline := time.Now().Add(s.timeout)
	for !s.link.Connected() {
		if !time.Now().Before(deadline) {
			s.link.Disconnect()
			s.logger.WithField("timeout", s.timeout).Warn("Network connection FAIL")
			return ErrLinkTimeout
		}
		s.indicator.Set(true)
		err := s.sleep(ctx, linkBlinkOn)
		s.indicator.Set(false)
		if err == nil {
			err = s.sleep(ctx, linkPollPeriod-linkBlinkOn)
		}
		if err != nil {
			s.link.Disconnect()
			return err
		}
	}
	s.logger.Info("Network connection OK")
	return nil
}

// Disconnect releases the link before power-down.
func (s *LinkService) Disconnect() {
	s.link.Disconnect()
	s.logger.Debug("Network disconnected")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
