package enrichment

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"google.golang.org/genai"

	"github.com/nguyentantai21042004/repurpose/internal/config"
	"github.com/nguyentantai21042004/repurpose/internal/logger"
)

// responder is the slice of the OpenAI Responses service the gateway uses.
type responder interface {
	New(ctx context.Context, body responses.ResponseNewParams, opts ...option.RequestOption) (*responses.Response, error)
}

type implOpenAI struct {
	client responder
	model  string
	logger logger.Logger
}

// generateFunc performs one Gemini call with a single API key.
type generateFunc func(ctx context.Context, apiKey, model, prompt string) (*genai.GenerateContentResponse, error)

type implGemini struct {
	apiKeys []string

	mu         sync.Mutex
	currentKey int

	model      string
	generate   generateFunc
	logger     logger.Logger
}

// New creates the Gateway selected by cfg.Backend. API keys are read from
// OPENAI_API_KEY or GEMINI_API_KEYS (comma separated).
func New(cfg config.EnrichmentConfig, log logger.Logger) (Gateway, error) {
	switch cfg.Backend {
	case "", "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		opts := []option.RequestOption{option.WithAPIKey(apiKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		client := oai.NewClient(opts...)
		return NewOpenAI(&client.Responses, cfg.Model, log), nil
	case "gemini":
		keys := SplitKeys(os.Getenv("GEMINI_API_KEYS"))
		if len(keys) == 0 {
			return nil, fmt.Errorf("GEMINI_API_KEYS environment variable is not set")
		}
		return NewGemini(keys, cfg.Model, log), nil
	default:
		return nil, fmt.Errorf("unknown enrichment backend %q", cfg.Backend)
	}
}

// NewOpenAI creates a Gateway over the OpenAI Responses API.
func NewOpenAI(client responder, model string, log logger.Logger) Gateway {
	if model == "" {
		model = "gpt-4.1-mini"
	}
	return &implOpenAI{
		client: client,
		model:  model,
		logger: log,
	}
}

// NewGemini creates a Gateway that rotates through the supplied Gemini API keys.
func NewGemini(apiKeys []string, model string, log logger.Logger) Gateway {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &implGemini{
		apiKeys:  apiKeys,
		model:    model,
		generate: geminiGenerate,
		logger:   log,
	}
}

// SplitKeys parses a comma separated key list, dropping blanks.
func SplitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
