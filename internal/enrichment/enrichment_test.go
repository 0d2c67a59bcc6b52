package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"google.golang.org/genai"

	"github.com/nguyentantai21042004/repurpose/internal/logger"
)

func TestPrompt(t *testing.T) {
	for _, k := range append([]Kind{KindRefine}, Triggers...) {
		p, err := Prompt(k, "CONTENT-MARKER")
		if err != nil {
			t.Fatalf("Prompt(%s) error = %v", k, err)
		}
		if !strings.Contains(p, "Content:\nCONTENT-MARKER") {
			t.Errorf("Prompt(%s) does not embed the content: %q", k, p)
		}
	}
	if _, err := Prompt("summary", "x"); err == nil {
		t.Error("Prompt() should reject unknown kinds")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		want    Kind
		wantErr bool
	}{
		{"insights", KindInsights, false},
		{"linkedin", KindLinkedIn, false},
		{"refined", KindRefine, false},
		{"tiktok", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.name)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseKind(%q) = %q, %v", tt.name, got, err)
		}
	}
	if KindRefine.IsTrigger() {
		t.Error("refine must not be a trigger")
	}
	if len(Triggers) != 6 {
		t.Errorf("len(Triggers) = %d, want 6", len(Triggers))
	}
}

func TestPickText(t *testing.T) {
	tests := []struct {
		name       string
		primary    string
		structured []string
		want       string
	}{
		{"primary wins", " primary ", []string{"other"}, "primary"},
		{"first structured entry", "", []string{"", "  ", "second", "third"}, "second"},
		{"nothing", "", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickText(tt.primary, tt.structured); got != tt.want {
				t.Errorf("pickText() = %q, want %q", got, tt.want)
			}
		})
	}
}

type fakeResponder struct {
	params responses.ResponseNewParams
	resp   *responses.Response
	err    error
}

func (f *fakeResponder) New(ctx context.Context, body responses.ResponseNewParams, opts ...option.RequestOption) (*responses.Response, error) {
	f.params = body
	return f.resp, f.err
}

func decodeResponse(t *testing.T, body string) *responses.Response {
	t.Helper()
	var r responses.Response
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return &r
}

func TestOpenAIGenerate(t *testing.T) {
	f := &fakeResponder{resp: decodeResponse(t, `{"id":"resp_1","object":"response","output":[
		{"type":"message","id":"msg_1","role":"assistant","status":"completed",
		 "content":[{"type":"output_text","text":"Three insights.","annotations":[]}]}]}`)}

	gw := NewOpenAI(f, "", logger.Discard())
	got, err := gw.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "Three insights." {
		t.Errorf("Generate() = %q", got)
	}
	if string(f.params.Model) != "gpt-4.1-mini" {
		t.Errorf("model = %q", f.params.Model)
	}

	f.resp = decodeResponse(t, `{"id":"resp_2","object":"response","output":[]}`)
	if got, err := gw.Generate(context.Background(), "prompt"); err != nil || got != "" {
		t.Errorf("empty output: Generate() = %q, %v; want empty, nil", got, err)
	}

	f.err = errors.New("500 internal")
	if _, err := gw.Generate(context.Background(), "prompt"); err == nil {
		t.Error("Generate() should surface backend errors")
	}
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGeminiRotatesKeys(t *testing.T) {
	var used []string
	gw := NewGemini([]string{"k1", "k2", "k3"}, "", logger.Discard()).(*implGemini)
	gw.generate = func(ctx context.Context, key, model, prompt string) (*genai.GenerateContentResponse, error) {
		used = append(used, key)
		if key != "k3" {
			return nil, errors.New("Error 429, RESOURCE_EXHAUSTED")
		}
		return textResponse("hook one"), nil
	}

	got, err := gw.Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "hook one" {
		t.Errorf("Generate() = %q", got)
	}
	if strings.Join(used, ",") != "k1,k2,k3" {
		t.Errorf("keys used = %v", used)
	}
	if gw.currentKey != 2 {
		t.Errorf("currentKey = %d, want 2", gw.currentKey)
	}
}

func TestGeminiConcurrentGenerate(t *testing.T) {
	gw := NewGemini([]string{"k1", "k2", "k3"}, "", logger.Discard()).(*implGemini)
	gw.generate = func(ctx context.Context, key, model, prompt string) (*genai.GenerateContentResponse, error) {
		if key == "k1" {
			return nil, errors.New("Error 429, RESOURCE_EXHAUSTED")
		}
		return textResponse("ok"), nil
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := gw.Generate(context.Background(), "p"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Generate() error = %v", err)
	}
	if idx, _ := gw.key(); idx != 1 {
		t.Errorf("currentKey = %d, want 1", idx)
	}
}

func TestGeminiErrors(t *testing.T) {
	gw := NewGemini([]string{"k1", "k2"}, "gemini-2.5-flash", logger.Discard()).(*implGemini)

	gw.generate = func(context.Context, string, string, string) (*genai.GenerateContentResponse, error) {
		return nil, errors.New("quota exceeded")
	}
	if _, err := gw.Generate(context.Background(), "p"); err == nil || !strings.Contains(err.Error(), "exhausted") {
		t.Errorf("Generate() error = %v, want keys exhausted", err)
	}

	calls := 0
	gw.generate = func(context.Context, string, string, string) (*genai.GenerateContentResponse, error) {
		calls++
		return nil, errors.New("invalid argument")
	}
	if _, err := gw.Generate(context.Background(), "p"); err == nil {
		t.Error("Generate() should fail on non-quota errors")
	}
	if calls != 1 {
		t.Errorf("non-quota error retried %d times", calls)
	}
}

func TestCandidateText(t *testing.T) {
	if got := candidateText(textResponse("a", "b")); got != "ab" {
		t.Errorf("candidateText() = %q, want ab", got)
	}
	if got := candidateText(&genai.GenerateContentResponse{}); got != "" {
		t.Errorf("candidateText(no candidates) = %q", got)
	}
	if got := candidateText(nil); got != "" {
		t.Errorf("candidateText(nil) = %q", got)
	}
}

func TestSplitKeys(t *testing.T) {
	if got := SplitKeys(" a, ,b,"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("SplitKeys() = %v", got)
	}
}
