package report

import (
	"context"

	"github.com/nguyentantai21042004/repurpose/internal/session"
)

// Exporter writes a session snapshot to disk.
type Exporter interface {
	// Export writes <name>.md and <name>.docx into outDir, copying key frame
	// images next to them, and returns the written paths.
	Export(ctx context.Context, snap session.Snapshot, outDir, name string) (Files, error)
}

// Files lists what an export produced.
type Files struct {
	Markdown string
	Docx     string
	Frames   []string
}
