package watcher

import "context"

// Watcher monitors a drop folder and hands every new supported file to a handler
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is a function that handles file events
type EventHandler func(ctx context.Context, filePath string) error
