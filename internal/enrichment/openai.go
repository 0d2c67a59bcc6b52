package enrichment

import (
	"context"
	"fmt"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// Generate sends prompt as a single Responses API input
func (o *implOpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(o.model),
		Input: responses.ResponseNewParamsInputUnion{OfString: oai.String(prompt)},
	}

	resp, err := o.client.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai responses: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		o.logger.Warn(ctx, "OpenAI returned no text output (model %s)", o.model)
	}
	return text, nil
}

// responseText prefers the aggregated output_text and falls back to the
// first output_text entry of the output list.
func responseText(resp *responses.Response) string {
	if resp == nil {
		return ""
	}
	var structured []string
	for _, item := range resp.Output {
		for _, c := range item.Content {
			if c.Type == "output_text" {
				structured = append(structured, c.Text)
			}
		}
	}
	return pickText(resp.OutputText(), structured)
}
