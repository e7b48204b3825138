// internal/domain/cycle/state.go
package cycle

import (
	"database/sql"
	"time"
)

// State is what survives deep sleep between two wakes.
// The zero value is the state of the very first cold boot.
type State struct {
	SleepInterval time.Duration // Last interval the wake timer was armed with
	LastMessageID sql.NullInt32 // Telegram message to edit next time; Valid=false means none
}

// IsFirstCycle reports whether the backoff ladder has not been entered yet.
func (s State) IsFirstCycle() bool {
	return s.SleepInterval == 0
}

// ForgetMessage drops the edit target so the next report is sent as a new message.
func (s *State) ForgetMessage() {
	s.LastMessageID = sql.NullInt32{}
}

// RememberMessage records the identifier returned by the chat API.
func (s *State) RememberMessage(id int32) {
	s.LastMessageID = sql.NullInt32{Int32: id, Valid: true}
}
