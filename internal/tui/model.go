// Package tui is the interactive terminal surface: one key per command, one
// command in flight at a time.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nguyentantai21042004/repurpose/internal/enrichment"
	"github.com/nguyentantai21042004/repurpose/internal/pipeline"
	"github.com/nguyentantai21042004/repurpose/internal/segment"
	"github.com/nguyentantai21042004/repurpose/internal/session"
)

// Model is the root bubbletea model.
type Model struct {
	ctx       context.Context
	machine   session.Machine
	source    pipeline.Source
	maxFrames int

	// Command state
	busy      bool
	busyLabel string
	stage     pipeline.State

	// Session view
	snap session.Snapshot
	view enrichment.Kind

	// UI state
	width  int
	height int
	scroll int

	errorMessage string
	statusText   string
}

// New creates a Model bound to machine and the source to analyze.
func New(ctx context.Context, machine session.Machine, source pipeline.Source, maxFrames int) Model {
	return Model{
		ctx:        ctx,
		machine:    machine,
		source:     source,
		maxFrames:  maxFrames,
		snap:       machine.Snapshot(),
		statusText: "Press enter to analyze",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// dispatchCmd runs cmd on the machine off the UI goroutine.
func dispatchCmd(ctx context.Context, machine session.Machine, label string, cmd session.Command) tea.Cmd {
	return func() tea.Msg {
		err := machine.Dispatch(ctx, cmd)
		return DispatchDoneMsg{Label: label, Err: err, Snapshot: machine.Snapshot()}
	}
}

// analyzeCmd runs an Analyze and closes progress once it returns.
func analyzeCmd(ctx context.Context, machine session.Machine, cmd session.Analyze, progress chan pipeline.State) tea.Cmd {
	return func() tea.Msg {
		defer close(progress)
		err := machine.Dispatch(ctx, cmd)
		return DispatchDoneMsg{Label: "Analyze", Err: err, Snapshot: machine.Snapshot()}
	}
}

// waitStageCmd waits for the next progress notification. It yields no
// message once the channel is closed.
func waitStageCmd(ch <-chan pipeline.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return StageMsg{State: s, progress: ch}
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StageMsg:
		m.stage = msg.State
		return m, waitStageCmd(msg.progress)

	case DispatchDoneMsg:
		m.busy = false
		m.busyLabel = ""
		m.snap = msg.Snapshot
		m.scroll = 0
		if msg.Err != nil {
			m.errorMessage = userMessage(msg.Err)
			m.statusText = msg.Label + " failed"
			return m, nil
		}
		m.errorMessage = ""
		m.statusText = msg.Label + " done"
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == KeyQuit || key == KeyCtrlC {
		return m, tea.Quit
	}

	switch key {
	case KeyUp, KeyK:
		if m.scroll > 0 {
			m.scroll--
		}
		return m, nil
	case KeyDown, KeyJ:
		m.scroll++
		return m, nil
	}

	if key == KeyEnter || key == KeyReset || triggerKeys[key] != "" {
		if m.busy {
			m.statusText = fmt.Sprintf("Busy with %s, please wait", m.busyLabel)
			return m, nil
		}
		m.busy = true
		m.errorMessage = ""
	}

	switch {
	case key == KeyEnter:
		m.busyLabel = "Analyze"
		m.stage = pipeline.StateIdle
		progress := make(chan pipeline.State, 8)
		cmd := session.Analyze{
			Source:    m.source,
			MaxFrames: m.maxFrames,
			OnState: func(s pipeline.State) {
				select {
				case progress <- s:
				default:
				}
			},
		}
		m.statusText = "Analyze..."
		return m, tea.Batch(analyzeCmd(m.ctx, m.machine, cmd, progress), waitStageCmd(progress))

	case key == KeyReset:
		m.busyLabel = "Reset"
		m.view = ""
		m.statusText = "Reset..."
		return m, dispatchCmd(m.ctx, m.machine, "Reset", session.Reset{})

	case triggerKeys[key] != "":
		kind := triggerKeys[key]
		m.busyLabel = kind.Title()
		m.view = kind
		m.statusText = kind.Title() + "..."
		return m, dispatchCmd(m.ctx, m.machine, kind.Title(), session.Enrich{Kind: kind})
	}

	return m, nil
}

// userMessage prefers the remediation text of a pipeline failure.
func userMessage(err error) string {
	var f *pipeline.Failure
	if errors.As(err, &f) && f.Message != "" {
		return f.Message
	}
	return err.Error()
}

// View renders the model.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	wrap := lipgloss.NewStyle().Width(width)

	var lines []string
	lines = append(lines, TitleStyle.Render("repurpose")+"  "+DimStyle.Render(m.source.String()))
	lines = append(lines, m.renderStatus())
	if m.errorMessage != "" {
		lines = append(lines, wrap.Render(ErrorStyle.Render(m.errorMessage)))
	}
	lines = append(lines, DividerStyle.Render(strings.Repeat("─", width)))

	body := m.renderBody(wrap)
	if m.scroll > 0 && m.scroll < len(body) {
		body = body[m.scroll:]
	}
	lines = append(lines, body...)

	lines = append(lines, DividerStyle.Render(strings.Repeat("─", width)))
	lines = append(lines, renderFooter())
	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	if m.busy {
		status := BusyStyle.Render("● " + m.busyLabel)
		if m.busyLabel == "Analyze" {
			status += DimStyle.Render(" (" + m.stage.String() + ")")
		}
		return status
	}
	if m.snap.Analyzed {
		return ReadyStyle.Render("● ready") + "  " + StatusStyle.Render(m.statusText)
	}
	return StatusStyle.Render(m.statusText)
}

func (m Model) renderBody(wrap lipgloss.Style) []string {
	if !m.snap.Analyzed {
		return []string{DimStyle.Render("Nothing analyzed yet.")}
	}

	var out []string
	section := func(title, text string) {
		out = append(out, "", SectionTitleStyle.Render(title))
		if strings.TrimSpace(text) == "" {
			out = append(out, DimStyle.Render("(empty)"))
			return
		}
		out = append(out, strings.Split(wrap.Render(text), "\n")...)
	}

	section(enrichment.KindRefine.Title(), m.snap.Refined)
	if m.view != "" {
		section(m.view.Title(), m.snap.Slots[m.view])
	}

	if len(m.snap.Frames) > 0 {
		out = append(out, "", SectionTitleStyle.Render("Key Frames"))
		for _, kf := range m.snap.Frames {
			out = append(out, TimestampStyle.Render(segment.FormatTimestamp(kf.Timestamp))+" "+kf.Image)
		}
	}

	out = append(out, "", DimStyle.Render(fmt.Sprintf("%d high-signal segments, digest %d chars",
		len(m.snap.Segments), len([]rune(m.snap.Digest)))))
	return out
}

func renderFooter() string {
	keys := []struct{ key, desc string }{
		{"enter", "analyze"},
		{KeyInsights, "insights"},
		{KeyMistakes, "mistakes"},
		{KeyApplication, "apply"},
		{KeyTwitter, "twitter"},
		{KeyLinkedIn, "linkedin"},
		{KeyReel, "reels"},
		{KeyReset, "reset"},
		{KeyQuit, "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, FooterKeyStyle.Render(k.key)+" "+FooterDescStyle.Render(k.desc))
	}
	return strings.Join(parts, "  ")
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, machine session.Machine, source pipeline.Source, maxFrames int) error {
	p := tea.NewProgram(New(ctx, machine, source, maxFrames), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
