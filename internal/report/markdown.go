package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/repurpose/internal/enrichment"
	"github.com/nguyentantai21042004/repurpose/internal/segment"
	"github.com/nguyentantai21042004/repurpose/internal/session"
)

// Markdown renders snap as a report. frameLinks, when non-nil, replaces the
// frame image paths (used after the images were copied next to the report).
func Markdown(title string, snap session.Snapshot, frameLinks []string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n_%s_\n\n", title, now.Format("2006-01-02 15:04"))
	if snap.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n\n", snap.Source)
	}

	section(&b, enrichment.KindRefine.Title(), snap.Refined)
	for _, k := range enrichment.Triggers {
		if text := snap.Slots[k]; text != "" {
			section(&b, k.Title(), text)
		}
	}

	if len(snap.Frames) > 0 {
		b.WriteString("## Key Frames\n\n")
		for i, kf := range snap.Frames {
			img := kf.Image
			if i < len(frameLinks) {
				img = frameLinks[i]
			}
			fmt.Fprintf(&b, "![%s](%s)\n\n", segment.FormatTimestamp(kf.Timestamp), img)
			fmt.Fprintf(&b, "**%s** %s\n\n", segment.FormatTimestamp(kf.Timestamp), kf.SourceText)
		}
	}

	if len(snap.Segments) > 0 {
		b.WriteString("## Transcript\n\n")
		for _, seg := range snap.Segments {
			fmt.Fprintf(&b, "- **%s** %s\n", segment.FormatTimestamp(seg.Start), seg.Text)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func section(b *strings.Builder, heading, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "_No content._"
	}
	fmt.Fprintf(b, "## %s\n\n%s\n\n", heading, text)
}
