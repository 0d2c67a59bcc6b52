package session

import "context"

// Machine applies commands to one Session. Calls must not overlap.
type Machine interface {
	// Dispatch validates cmd against the current session and applies it.
	// Rejections and aborted runs are returned as *pipeline.Failure; a
	// trigger whose backend fails stores an empty slot and returns nil.
	Dispatch(ctx context.Context, cmd Command) error
	Snapshot() Snapshot
}
