package media

import (
	"github.com/nguyentantai21042004/repurpose/internal/config"
	"github.com/nguyentantai21042004/repurpose/internal/logger"
	"github.com/nguyentantai21042004/repurpose/pkg/executor"
)

type implAcquirer struct {
	cfg      config.MediaConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Acquirer backed by yt-dlp, ffprobe and ffmpeg
func New(cfg config.MediaConfig, exec executor.Executor, log logger.Logger) Acquirer {
	if cfg.YtDlpPath == "" {
		cfg.YtDlpPath = "yt-dlp"
	}
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	return &implAcquirer{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
