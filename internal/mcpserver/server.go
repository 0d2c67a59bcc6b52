// Package mcpserver exposes the session commands as MCP tools over stdio.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nguyentantai21042004/repurpose/internal/enrichment"
	"github.com/nguyentantai21042004/repurpose/internal/logger"
	"github.com/nguyentantai21042004/repurpose/internal/pipeline"
	"github.com/nguyentantai21042004/repurpose/internal/segment"
	"github.com/nguyentantai21042004/repurpose/internal/session"
)

// Server serializes tool calls onto one session machine.
type Server struct {
	mu        sync.Mutex
	machine   session.Machine
	maxFrames int
	logger    logger.Logger
	mcp       *server.MCPServer
}

// New registers every tool on a fresh MCP server.
func New(machine session.Machine, maxFrames int, version string, log logger.Logger) *Server {
	s := &Server{
		machine:   machine,
		maxFrames: maxFrames,
		logger:    log,
		mcp:       server.NewMCPServer("repurpose", version, server.WithToolCapabilities(false)),
	}

	s.mcp.AddTool(mcp.NewTool("analyze",
		mcp.WithDescription("Download or read a video/audio/subtitle source, transcribe it, keep the high-signal segments and write a refined summary. Replaces any previous analysis."),
		mcp.WithString("link", mcp.Description("Remote video link. Ignored when file is set.")),
		mcp.WithString("file", mcp.Description("Local path of a video, audio or .srt file.")),
		mcp.WithNumber("max_frames", mcp.Description("Key frames to extract from uploaded video (1-5, default 3).")),
	), s.handleAnalyze)

	for _, k := range enrichment.Triggers {
		s.mcp.AddTool(mcp.NewTool(string(k),
			mcp.WithDescription(fmt.Sprintf("Generate the %s from the refined summary of the current analysis.", k.Title())),
		), s.triggerHandler(k))
	}

	s.mcp.AddTool(mcp.NewTool("reset",
		mcp.WithDescription("Discard the current analysis and every generated output."),
	), s.handleReset)

	s.mcp.AddTool(mcp.NewTool("status",
		mcp.WithDescription("Show the current analysis: source, refined summary, generated outputs and key frames."),
	), s.handleStatus)

	return s
}

// ServeStdio blocks serving MCP over stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) dispatch(ctx context.Context, cmd session.Command) (session.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.machine.Dispatch(ctx, cmd)
	return s.machine.Snapshot(), err
}

func (s *Server) handleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := session.Analyze{
		Source: pipeline.Source{
			Link:   req.GetString("link", ""),
			Upload: req.GetString("file", ""),
		},
		MaxFrames: req.GetInt("max_frames", s.maxFrames),
	}

	snap, err := s.dispatch(ctx, cmd)
	if err != nil {
		return failure(err), nil
	}
	return mcp.NewToolResultText(renderAnalysis(snap)), nil
}

func (s *Server) triggerHandler(k enrichment.Kind) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap, err := s.dispatch(ctx, session.Enrich{Kind: k})
		if err != nil {
			return failure(err), nil
		}
		text := snap.Slots[k]
		if text == "" {
			return mcp.NewToolResultError(fmt.Sprintf("No %s could be generated. Try again.", k.Title())), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

func (s *Server) handleReset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := s.dispatch(ctx, session.Reset{}); err != nil {
		return failure(err), nil
	}
	return mcp.NewToolResultText("Session cleared."), nil
}

func (s *Server) handleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	snap := s.machine.Snapshot()
	s.mu.Unlock()

	if !snap.Analyzed {
		return mcp.NewToolResultText("Nothing analyzed yet."), nil
	}

	var b strings.Builder
	b.WriteString(renderAnalysis(snap))
	for _, k := range enrichment.Triggers {
		if text := snap.Slots[k]; text != "" {
			fmt.Fprintf(&b, "\n## %s\n\n%s\n", k.Title(), text)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func renderAnalysis(snap session.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s\n", snap.Source)
	fmt.Fprintf(&b, "Transcript segments: %d\n", len(snap.Segments))
	refined := snap.Refined
	if refined == "" {
		refined = "(empty: no high-signal content was found)"
	}
	fmt.Fprintf(&b, "\n## %s\n\n%s\n", enrichment.KindRefine.Title(), refined)
	if len(snap.Frames) > 0 {
		b.WriteString("\n## Key Frames\n\n")
		for _, kf := range snap.Frames {
			fmt.Fprintf(&b, "- %s %s\n", segment.FormatTimestamp(kf.Timestamp), kf.Image)
		}
	}
	return b.String()
}

// failure maps an error to a tool error result carrying the user-facing message.
func failure(err error) *mcp.CallToolResult {
	var f *pipeline.Failure
	if errors.As(err, &f) && f.Message != "" {
		return mcp.NewToolResultError(f.Message)
	}
	return mcp.NewToolResultError(err.Error())
}
