package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNoSource    = errors.New("no link or upload given")
	ErrUnsupported = errors.New("unsupported file type")
	ErrNoDownload  = errors.New("download produced no file")
)

// Acquire resolves the submitted source to a local file
func (a *implAcquirer) Acquire(ctx context.Context, link, upload, dir string) (Media, error) {
	link = strings.TrimSpace(link)
	upload = strings.TrimSpace(upload)

	switch {
	case upload != "":
		return a.inspect(ctx, upload)
	case link != "":
		return a.download(ctx, link, dir)
	default:
		return Media{}, ErrNoSource
	}
}

func (a *implAcquirer) inspect(ctx context.Context, path string) (Media, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Media{}, fmt.Errorf("stat upload: %w", err)
	}
	if info.IsDir() {
		return Media{}, fmt.Errorf("stat upload: %s is a directory", path)
	}

	kind := KindOf(path)
	switch kind {
	case KindUnknown:
		return Media{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	case KindSubtitle, KindAudio:
		return Media{Path: path, Kind: kind}, nil
	}

	visual, err := a.hasVideoStream(ctx, path)
	if err != nil {
		// Unprobeable video is still transcribable, just without frames.
		a.logger.Warn(ctx, "Probe failed for %s, skipping frames: %v", path, err)
		visual = false
	}
	return Media{Path: path, Kind: KindVideo, HasVisual: visual}, nil
}

// hasVideoStream asks ffprobe whether the file carries at least one video stream
func (a *implAcquirer) hasVideoStream(ctx context.Context, path string) (bool, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v",
		"-show_entries", "stream=codec_type",
		"-of", "csv=p=0",
		path,
	}
	out, err := a.executor.Execute(ctx, a.cfg.FFprobePath, args...)
	if err != nil {
		return false, fmt.Errorf("ffprobe: %w", err)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "video" {
			return true, nil
		}
	}
	return false, nil
}

// download fetches the best audio track of a remote link with yt-dlp
func (a *implAcquirer) download(ctx context.Context, link, dir string) (Media, error) {
	mediaDir := filepath.Join(dir, "media")
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return Media{}, fmt.Errorf("create media dir: %w", err)
	}

	a.logger.Info(ctx, "Downloading audio: %s", link)

	// -f bestaudio/best: audio only when available
	// -x --audio-format mp3: transcode to a format every backend accepts
	// --no-playlist: a playlist link yields its single referenced item
	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--no-playlist",
		"-o", filepath.Join(mediaDir, "audio.%(ext)s"),
		link,
	}
	if _, err := a.executor.Execute(ctx, a.cfg.YtDlpPath, args...); err != nil {
		return Media{}, fmt.Errorf("yt-dlp download: %w", err)
	}

	path := filepath.Join(mediaDir, "audio.mp3")
	if _, err := os.Stat(path); err != nil {
		matches, _ := filepath.Glob(filepath.Join(mediaDir, "audio.*"))
		if len(matches) == 0 {
			return Media{}, ErrNoDownload
		}
		path = matches[0]
	}

	a.logger.Info(ctx, "Audio downloaded: %s", path)
	return Media{Path: path, Kind: KindAudio}, nil
}
