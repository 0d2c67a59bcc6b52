package main

import (
	"testing"

	"github.com/nguyentantai21042004/repurpose/internal/config"
	"github.com/nguyentantai21042004/repurpose/internal/enrichment"
	"github.com/nguyentantai21042004/repurpose/internal/pipeline"
)

func TestSelectTriggers(t *testing.T) {
	tests := []struct {
		name    string
		all     bool
		only    string
		want    int
		wantErr bool
	}{
		{name: "none", want: 0},
		{name: "all", all: true, want: len(enrichment.Triggers)},
		{name: "subset", only: "twitter, reel", want: 2},
		{name: "refine is not a trigger", only: "refined", wantErr: true},
		{name: "unknown", only: "tiktok", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectTriggers(tt.all, tt.only)
			if (err != nil) != tt.wantErr {
				t.Fatalf("selectTriggers() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("selectTriggers() = %v, want %d kinds", got, tt.want)
			}
		})
	}
}

func TestReportName(t *testing.T) {
	if got := reportName(pipeline.Source{Upload: "/in/My Talk.mp4"}, "abc"); got != "My Talk" {
		t.Errorf("upload name = %q", got)
	}
	if got := reportName(pipeline.Source{Link: "https://example.com/v"}, "0123456789abcdef"); got != "run-01234567" {
		t.Errorf("link name = %q", got)
	}
}

func TestMaxFrames(t *testing.T) {
	a := &app{cfg: &config.Config{Frames: config.FramesConfig{Default: 3, Max: 4}}}
	tests := map[int]int{0: 3, 2: 2, 4: 4, 9: 4}
	for in, want := range tests {
		if got := a.maxFrames(in); got != want {
			t.Errorf("maxFrames(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestKnownCommand(t *testing.T) {
	for _, name := range []string{"analyze", "watch", "tui", "mcp"} {
		if !knownCommand(name) {
			t.Errorf("knownCommand(%q) = false", name)
		}
	}
	if knownCommand("serve") {
		t.Error("knownCommand(serve) = true")
	}
}
