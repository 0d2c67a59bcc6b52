package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/repurpose/internal/session"
)

// Export writes the markdown and docx reports
func (e *implExporter) Export(ctx context.Context, snap session.Snapshot, outDir, name string) (Files, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return Files{}, fmt.Errorf("create output dir: %w", err)
	}

	var files Files

	// Frames live in the run workspace, which is discarded with the run.
	if len(snap.Frames) > 0 {
		framesDir := filepath.Join(outDir, name+"_frames")
		if err := os.MkdirAll(framesDir, 0755); err != nil {
			return Files{}, fmt.Errorf("create frames dir: %w", err)
		}
		for _, kf := range snap.Frames {
			dst := filepath.Join(framesDir, filepath.Base(kf.Image))
			if err := copyFile(kf.Image, dst); err != nil {
				e.logger.Warn(ctx, "Failed to copy frame %s: %v", kf.Image, err)
				dst = kf.Image
			}
			files.Frames = append(files.Frames, dst)
		}
	}

	links := make([]string, len(files.Frames))
	for i, f := range files.Frames {
		if rel, err := filepath.Rel(outDir, f); err == nil {
			links[i] = filepath.ToSlash(rel)
		} else {
			links[i] = f
		}
	}
	md := Markdown(name, snap, links, time.Now())

	files.Markdown = filepath.Join(outDir, name+".md")
	if err := os.WriteFile(files.Markdown, []byte(md), 0644); err != nil {
		return Files{}, fmt.Errorf("write markdown: %w", err)
	}

	files.Docx = filepath.Join(outDir, name+".docx")
	if err := markdownToDocx(md, files.Docx); err != nil {
		return Files{}, fmt.Errorf("write docx: %w", err)
	}

	e.logger.Info(ctx, "Report written: %s, %s", files.Markdown, files.Docx)
	return files, nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}
