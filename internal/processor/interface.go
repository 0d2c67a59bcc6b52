package processor

import "context"

// Processor handles one dropped media or subtitle file end to end
type Processor interface {
	Process(ctx context.Context, path string) error
}
