package transcriber

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/repurpose/internal/segment"
	openai "github.com/sashabaranov/go-openai"
)

type audioClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// Transcribe uploads the audio and maps verbose_json segments to spans
func (o *implOpenAI) Transcribe(ctx context.Context, audioPath string) ([]segment.Span, error) {
	o.logger.Info(ctx, "Transcribing with %s: %s", o.model, audioPath)

	req := openai.AudioRequest{
		Model:    o.model,
		FilePath: audioPath,
		Prompt:   o.prompt,
		Language: o.lang,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	resp, err := o.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai transcribe: %w", err)
	}

	spans := make([]segment.Span, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		spans = append(spans, segment.Span{
			Text:  s.Text,
			Start: seconds(s.Start),
			End:   seconds(s.End),
		})
	}
	// Some models return only the full text.
	if len(spans) == 0 && resp.Text != "" {
		spans = append(spans, segment.Span{Text: resp.Text})
	}

	o.logger.Info(ctx, "Transcription completed: %d spans", len(spans))
	return spans, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
