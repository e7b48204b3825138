package telegram

import "errors"

// ErrTransport means the Bot API endpoint could not be reached at all.
var ErrTransport = errors.New("telegram endpoint unreachable")

// ErrRejected means the Bot API answered but did not accept the request.
var ErrRejected = errors.New("telegram request rejected")

// Client defines the two Bot API calls the reporter needs.
// Both return the raw response body so the caller can pick the message id out of it.
type Client interface {
	SendMessage(chatID int64, text string) ([]byte, error)
	EditMessageText(chatID int64, messageID int32, text string) ([]byte, error)
}
