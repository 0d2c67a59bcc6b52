package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/repurpose/internal/config"
	"github.com/nguyentantai21042004/repurpose/internal/logger"
	"github.com/nguyentantai21042004/repurpose/internal/segment"
	openai "github.com/sashabaranov/go-openai"
)

type srtExecutor struct {
	args []string
	srt  string
	err  error
}

func (s *srtExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	s.args = args
	if s.err != nil {
		return "", s.err
	}
	for i, a := range args {
		if a == "--output-file" {
			return "", os.WriteFile(args[i+1]+".srt", []byte(s.srt), 0644)
		}
	}
	return "", nil
}

func (s *srtExecutor) ExecuteInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	return s.Execute(ctx, name, args...)
}

func TestWhisperTranscribe(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "audio_16k.wav")
	exec := &srtExecutor{srt: "1\n00:00:01,000 --> 00:00:03,500\nthe first step\nis measuring\n\n2\n00:00:04,000 --> 00:00:05,000\nokay\n"}
	cfg := config.TranscriberConfig{BinaryPath: "whisper-cli", ModelPath: "m.bin", Language: "en", Threads: 4}

	spans, err := NewWhisper(cfg, exec, logger.Discard()).Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	want := []segment.Span{
		{Text: "the first step is measuring", Start: time.Second, End: 3500 * time.Millisecond},
		{Text: "okay", Start: 4 * time.Second, End: 5 * time.Second},
	}
	if len(spans) != len(want) {
		t.Fatalf("got %d spans, want %d", len(spans), len(want))
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}
	if strings.Contains(strings.Join(exec.args, " "), "--prompt") {
		t.Error("empty prompt should not be passed")
	}
}

func TestWhisperTranscribeFailure(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "a.wav")
	exec := &srtExecutor{err: errors.New("model not found")}
	if _, err := NewWhisper(config.TranscriberConfig{}, exec, logger.Discard()).Transcribe(context.Background(), audio); err == nil {
		t.Fatal("Transcribe() should fail when whisper fails")
	}
}

type fakeAudioClient struct {
	req  openai.AudioRequest
	resp openai.AudioResponse
	err  error
}

func (f *fakeAudioClient) CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.req = req
	return f.resp, f.err
}

func TestOpenAITranscribe(t *testing.T) {
	client := &fakeAudioClient{}
	body := `{"text":"the key idea. okay","segments":[` +
		`{"id":0,"start":0.5,"end":2.25,"text":" the key idea."},` +
		`{"id":1,"start":2.25,"end":3,"text":" okay"}]}`
	if err := json.Unmarshal([]byte(body), &client.resp); err != nil {
		t.Fatal(err)
	}

	tr := NewOpenAI(client, config.TranscriberConfig{Language: "en"}, logger.Discard())
	spans, err := tr.Transcribe(context.Background(), "a.wav")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	want := []segment.Span{
		{Text: " the key idea.", Start: 500 * time.Millisecond, End: 2250 * time.Millisecond},
		{Text: " okay", Start: 2250 * time.Millisecond, End: 3 * time.Second},
	}
	if len(spans) != len(want) {
		t.Fatalf("got %d spans, want %d", len(spans), len(want))
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}
	if client.req.Model != openai.Whisper1 || client.req.Format != openai.AudioResponseFormatVerboseJSON {
		t.Errorf("request = %+v", client.req)
	}

	client.resp = openai.AudioResponse{Text: "hello there"}
	spans, err = tr.Transcribe(context.Background(), "a.wav")
	if err != nil || len(spans) != 1 || spans[0].Text != "hello there" {
		t.Errorf("spans = %+v, err = %v, want text fallback", spans, err)
	}

	client.err = errors.New("401")
	if _, err := tr.Transcribe(context.Background(), "a.wav"); err == nil {
		t.Error("Transcribe() should surface client errors")
	}
}

func TestSeconds(t *testing.T) {
	if got := seconds(2.25); got != 2250*time.Millisecond {
		t.Errorf("seconds(2.25) = %v", got)
	}
}

type fixedGuard string

func (g fixedGuard) Detect(string) string { return string(g) }

func TestCheckLanguage(t *testing.T) {
	spans := []segment.Span{{Text: "bonjour tout le monde"}}

	var buf bytes.Buffer
	log := logger.NewWithWriter("debug", &buf)
	if got := CheckLanguage(context.Background(), fixedGuard("fr"), log, spans, "en"); got != "fr" {
		t.Errorf("CheckLanguage() = %q, want fr", got)
	}
	if !strings.Contains(buf.String(), "WARN") {
		t.Errorf("expected a warning, log was %q", buf.String())
	}

	buf.Reset()
	CheckLanguage(context.Background(), fixedGuard("en"), log, spans, "EN")
	if strings.Contains(buf.String(), "WARN") {
		t.Errorf("unexpected warning %q", buf.String())
	}

	if got := CheckLanguage(context.Background(), nil, log, spans, "en"); got != "" {
		t.Errorf("nil guard = %q, want empty", got)
	}
}

func TestLinguaGuard(t *testing.T) {
	if testing.Short() {
		t.Skip("loads every language model")
	}
	g := NewLanguageGuard()
	text := "The most important step is to remember that every example in this lecture builds on the previous one."
	if got := g.Detect(text); got != "en" {
		t.Errorf("Detect() = %q, want en", got)
	}
	if got := g.Detect("   "); got != "" {
		t.Errorf("Detect(blank) = %q, want empty", got)
	}
}
