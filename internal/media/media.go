package media

import (
	"path/filepath"
	"strings"
)

// Kind classifies an acquired source.
type Kind int

const (
	KindUnknown Kind = iota
	KindAudio
	KindVideo
	KindSubtitle
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	case KindSubtitle:
		return "subtitle"
	default:
		return "unknown"
	}
}

// Media is a locally available copy of the submitted source.
// HasVisual is true only when a video stream was confirmed by probing.
type Media struct {
	Path      string
	Kind      Kind
	HasVisual bool
}

var extKinds = map[string]Kind{
	".mp4":  KindVideo,
	".mov":  KindVideo,
	".mkv":  KindVideo,
	".webm": KindVideo,
	".avi":  KindVideo,
	".m4v":  KindVideo,
	".mp3":  KindAudio,
	".wav":  KindAudio,
	".m4a":  KindAudio,
	".aac":  KindAudio,
	".flac": KindAudio,
	".ogg":  KindAudio,
	".opus": KindAudio,
	".srt":  KindSubtitle,
}

// KindOf classifies a path by its extension.
func KindOf(path string) Kind {
	return extKinds[strings.ToLower(filepath.Ext(path))]
}

// Supported reports whether path has an extension the pipeline can ingest.
func Supported(path string) bool {
	return KindOf(path) != KindUnknown
}
