package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Enrichment  EnrichmentConfig  `yaml:"enrichment"`
	Filter      FilterConfig      `yaml:"filter"`
	Frames      FramesConfig      `yaml:"frames"`
	Media       MediaConfig       `yaml:"media"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// TranscriberConfig selects the speech-to-text backend.
// Backend is "whisper-cpp" (local binary) or "openai".
type TranscriberConfig struct {
	Backend     string `yaml:"backend"`
	ModelPath   string `yaml:"model_path"`
	BinaryPath  string `yaml:"binary_path"`
	Language    string `yaml:"language"`
	Prompt      string `yaml:"prompt"`
	Threads     int    `yaml:"threads"`
	OpenAIModel string `yaml:"openai_model"`
}

// EnrichmentConfig selects the text-generation backend: "openai" or "gemini".
type EnrichmentConfig struct {
	Backend string `yaml:"backend"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type FilterConfig struct {
	Vocabulary []string `yaml:"vocabulary"`
	MaxChars   int      `yaml:"max_chars"`
	MinWords   int      `yaml:"min_words"`
}

type FramesConfig struct {
	Default int `yaml:"default"`
	Max     int `yaml:"max"`
}

type MediaConfig struct {
	YtDlpPath   string `yaml:"ytdlp_path"`
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// MetricsConfig enables the Prometheus endpoint when Listen is set (e.g. ":9464").
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// Load reads and validates the YAML configuration at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Transcriber.Backend == "" {
		c.Transcriber.Backend = "whisper-cpp"
	}
	switch c.Transcriber.Backend {
	case "whisper-cpp":
		if c.Transcriber.ModelPath == "" {
			return fmt.Errorf("transcriber.model_path is required")
		}
		if c.Transcriber.BinaryPath == "" {
			return fmt.Errorf("transcriber.binary_path is required")
		}
	case "openai":
	default:
		return fmt.Errorf("transcriber.backend %q is not supported", c.Transcriber.Backend)
	}

	if c.Enrichment.Backend == "" {
		c.Enrichment.Backend = "openai"
	}
	switch c.Enrichment.Backend {
	case "openai":
		if c.Enrichment.Model == "" {
			c.Enrichment.Model = "gpt-4.1-mini"
		}
	case "gemini":
		if c.Enrichment.Model == "" {
			c.Enrichment.Model = "gemini-2.5-flash"
		}
	default:
		return fmt.Errorf("enrichment.backend %q is not supported", c.Enrichment.Backend)
	}

	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	if c.Filter.MaxChars < 0 {
		return fmt.Errorf("filter.max_chars must not be negative")
	}
	if c.Frames.Max > 5 {
		return fmt.Errorf("frames.max must be at most 5")
	}

	if c.Transcriber.Language == "" {
		c.Transcriber.Language = "en"
	}
	if c.Transcriber.Threads == 0 {
		c.Transcriber.Threads = 8
	}
	if c.Transcriber.OpenAIModel == "" {
		c.Transcriber.OpenAIModel = "whisper-1"
	}
	if c.Filter.MaxChars == 0 {
		c.Filter.MaxChars = 3000
	}
	if c.Filter.MinWords == 0 {
		c.Filter.MinWords = 6
	}
	if c.Frames.Max == 0 {
		c.Frames.Max = 5
	}
	if c.Frames.Default == 0 {
		c.Frames.Default = 3
	}
	if c.Frames.Default > c.Frames.Max {
		c.Frames.Default = c.Frames.Max
	}
	if c.Media.YtDlpPath == "" {
		c.Media.YtDlpPath = "yt-dlp"
	}
	if c.Media.FFmpegPath == "" {
		c.Media.FFmpegPath = "ffmpeg"
	}
	if c.Media.FFprobePath == "" {
		c.Media.FFprobePath = "ffprobe"
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
