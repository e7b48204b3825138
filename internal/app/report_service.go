// internal/app/report_service.go
package app

import (
	"errors"
	"fmt"

	"wake_sync_bot/internal/domain/clock"
	"wake_sync_bot/internal/domain/cycle"
	domainTelegram "wake_sync_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// ErrDeliveryFailed is returned when no status message reached the chat this cycle.
var ErrDeliveryFailed = fmt.Errorf("status message not delivered")

// ReportService posts the status line and keeps the edit target in the cycle State.
type ReportService struct {
	telegramClient domainTelegram.Client
	chatID         int64
	logger         *logrus.Entry
}

func NewReportService(tc domainTelegram.Client, chatID int64, logger *logrus.Entry) *ReportService {
	return &ReportService{
		telegramClient: tc,
		chatID:         chatID,
		logger:         logger,
	}
}

// Report delivers the status for this cycle.
//
// Without a previous message it sends a new one. With one it edits it and,
// if the edit is rejected, sends a new message instead; if that fails too the
// previous id is dropped. An unreachable endpoint ends the step at once.
// At most two API calls are made.
func (s *ReportService) Report(state *cycle.State, rtc, ntp clock.Reading) error {
	text := FormatStatus(rtc, ntp, state.SleepInterval)

	if !state.LastMessageID.Valid {
		body, err := s.telegramClient.SendMessage(s.chatID, text)
		if err != nil {
			s.logger.WithError(err).Error("Sending BOT message failed")
			return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		}
		s.captureMessageID(state, body)
		return nil
	}

	prevID := state.LastMessageID.Int32
	body, err := s.telegramClient.EditMessageText(s.chatID, prevID, text)
	if err == nil {
		s.captureMessageID(state, body)
		return nil
	}
	if errors.Is(err, domainTelegram.ErrTransport) {
		s.logger.WithError(err).WithField("message_id", prevID).Error("Telegram BOT API unreachable, keeping message id")
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	s.logger.WithError(err).WithField("message_id", prevID).Warn("Editing BOT message failed, resending")
	body, err = s.telegramClient.SendMessage(s.chatID, text)
	if err != nil {
		state.ForgetMessage()
		s.logger.WithError(err).Error("Resending BOT message failed, message id dropped")
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	s.captureMessageID(state, body)
	return nil
}

// captureMessageID stores the id from a successful response. A response
// without one leaves the stored id as it was.
func (s *ReportService) captureMessageID(state *cycle.State, body []byte) {
	id, ok := domainTelegram.ExtractMessageID(body)
	if !ok {
		s.logger.Warn("BOT message delivered but response carries no message id")
		return
	}
	state.RememberMessage(id)
	s.logger.WithField("message_id", id).Info("BOT message delivered")
}
