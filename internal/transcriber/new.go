package transcriber

import (
	"fmt"
	"os"

	"github.com/nguyentantai21042004/repurpose/internal/config"
	"github.com/nguyentantai21042004/repurpose/internal/logger"
	"github.com/nguyentantai21042004/repurpose/pkg/executor"
	openai "github.com/sashabaranov/go-openai"
)

type implWhisper struct {
	cfg      config.TranscriberConfig
	executor executor.Executor
	logger   logger.Logger
}

type implOpenAI struct {
	client audioClient
	model  string
	lang   string
	prompt string
	logger logger.Logger
}

// New creates the Transcriber selected by cfg.Backend
func New(cfg config.TranscriberConfig, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	switch cfg.Backend {
	case "", "whisper-cpp":
		return NewWhisper(cfg, exec, log), nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAI(openai.NewClient(apiKey), cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown transcriber backend %q", cfg.Backend)
	}
}

// NewWhisper creates a Transcriber that runs the whisper.cpp CLI
func NewWhisper(cfg config.TranscriberConfig, exec executor.Executor, log logger.Logger) Transcriber {
	return &implWhisper{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

// NewOpenAI creates a Transcriber backed by the OpenAI audio API
func NewOpenAI(client audioClient, cfg config.TranscriberConfig, log logger.Logger) Transcriber {
	model := cfg.OpenAIModel
	if model == "" {
		model = openai.Whisper1
	}
	return &implOpenAI{
		client: client,
		model:  model,
		lang:   cfg.Language,
		prompt: cfg.Prompt,
		logger: log,
	}
}
