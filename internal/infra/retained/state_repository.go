// Package retained emulates memory that survives deep sleep but not power loss.
// On the host, "power loss" is the process exiting.
package retained

import (
	"context"

	"wake_sync_bot/internal/domain/cycle"
)

// StateRepository keeps the cycle State in process memory.
type StateRepository struct {
	state cycle.State
}

func NewStateRepository() *StateRepository {
	return &StateRepository{}
}

func (r *StateRepository) Load(ctx context.Context) (*cycle.State, error) {
	s := r.state
	return &s, nil
}

func (r *StateRepository) Save(ctx context.Context, state *cycle.State) error {
	r.state = *state
	return nil
}
