package enrichment

import "context"

// Gateway sends one prompt to a text-generation backend.
// An empty string with a nil error means the backend returned no usable text.
type Gateway interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
