// internal/domain/cycle/repository.go
package cycle

import "context"

// Repository keeps the cycle State across power-down.
type Repository interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
}
