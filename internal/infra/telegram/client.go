// internal/infra/telegram/client.go
package telegram

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	domainTelegram "wake_sync_bot/internal/domain/telegram"

	"gopkg.in/telebot.v3"
)

const requestTimeout = 30 * time.Second

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// NewBot builds an offline bot: no getMe round trip and no poller, the
// device only ever posts. apiURL may be empty for the public Bot API.
func NewBot(token, apiURL string, client *http.Client) (*telebot.Bot, error) {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return telebot.NewBot(telebot.Settings{
		Token:   token,
		URL:     apiURL,
		Client:  client,
		Offline: true,
	})
}

// SendMessage posts a new text message to the chat.
func (tba *TelebotAdapter) SendMessage(chatID int64, text string) ([]byte, error) {
	return tba.call("sendMessage", map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	})
}

// EditMessageText replaces the text of a message sent earlier.
func (tba *TelebotAdapter) EditMessageText(chatID int64, messageID int32, text string) ([]byte, error) {
	return tba.call("editMessageText", map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	})
}

// call posts the payload and sorts failures into unreachable vs rejected.
func (tba *TelebotAdapter) call(method string, payload map[string]interface{}) ([]byte, error) {
	data, err := tba.bot.Raw(method, payload)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return data, fmt.Errorf("%w: %s: %v", domainTelegram.ErrTransport, method, err)
		}
		return data, fmt.Errorf("%w: %s: %v", domainTelegram.ErrRejected, method, err)
	}

	// telebot lets bodies that are not JSON through (proxy error pages and the like)
	var envelope struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || !envelope.OK {
		return data, fmt.Errorf("%w: %s: unexpected response", domainTelegram.ErrRejected, method)
	}
	return data, nil
}
