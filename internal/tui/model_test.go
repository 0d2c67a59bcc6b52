package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nguyentantai21042004/repurpose/internal/enrichment"
	"github.com/nguyentantai21042004/repurpose/internal/pipeline"
	"github.com/nguyentantai21042004/repurpose/internal/session"
)

type fakeMachine struct {
	cmds []session.Command
	err  error
	snap session.Snapshot
}

func (f *fakeMachine) Dispatch(ctx context.Context, cmd session.Command) error {
	f.cmds = append(f.cmds, cmd)
	if a, ok := cmd.(session.Analyze); ok && a.OnState != nil {
		a.OnState(pipeline.StateSourceAcquired)
	}
	return f.err
}

func (f *fakeMachine) Snapshot() session.Snapshot { return f.snap }

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(m *fakeMachine) Model {
	return New(context.Background(), m, pipeline.Source{Link: "https://example.com/talk"}, 3)
}

func TestNewModel(t *testing.T) {
	m := newModel(&fakeMachine{})
	if m.busy {
		t.Error("new model should not be busy")
	}
	if !strings.Contains(m.View(), "Nothing analyzed yet.") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestTriggerKeyDispatchesEnrich(t *testing.T) {
	fm := &fakeMachine{snap: session.Snapshot{
		Analyzed: true,
		Refined:  "refined body",
		Slots:    map[enrichment.Kind]string{enrichment.KindMistakes: "three mistakes"},
	}}
	m := newModel(fm)

	updated, cmd := m.Update(keyRunes(KeyMistakes))
	model := updated.(Model)
	if !model.busy || model.view != enrichment.KindMistakes {
		t.Fatalf("busy = %v, view = %q", model.busy, model.view)
	}
	if cmd == nil {
		t.Fatal("expected a dispatch command")
	}

	msg := cmd()
	done, ok := msg.(DispatchDoneMsg)
	if !ok {
		t.Fatalf("cmd() = %T, want DispatchDoneMsg", msg)
	}
	if e, ok := fm.cmds[0].(session.Enrich); !ok || e.Kind != enrichment.KindMistakes {
		t.Errorf("dispatched %#v", fm.cmds[0])
	}

	updated, _ = model.Update(done)
	model = updated.(Model)
	if model.busy {
		t.Error("model should be idle after DispatchDoneMsg")
	}
	view := model.View()
	if !strings.Contains(view, "three mistakes") || !strings.Contains(view, "refined body") {
		t.Errorf("View() missing content:\n%s", view)
	}
}

func TestKeysIgnoredWhileBusy(t *testing.T) {
	fm := &fakeMachine{}
	m := newModel(fm)

	updated, _ := m.Update(keyRunes(KeyInsights))
	model := updated.(Model)

	updated, cmd := model.Update(keyRunes(KeyReel))
	model = updated.(Model)
	if cmd != nil {
		t.Error("second command should be refused while busy")
	}
	if !strings.Contains(model.statusText, "Busy") {
		t.Errorf("statusText = %q", model.statusText)
	}
	if model.view != enrichment.KindInsights {
		t.Errorf("view changed to %q while busy", model.view)
	}
}

func TestAnalyzeReportsFailure(t *testing.T) {
	fm := &fakeMachine{err: pipeline.NewFailure(pipeline.ClassAcquisition, pipeline.StateSourceAcquired, pipeline.MsgAcquisition, errors.New("403"))}
	m := newModel(fm)

	// Wide enough that the remediation message is not wrapped.
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	updated, cmd := sized.(Model).Update(tea.KeyMsg{Type: tea.KeyEnter})
	model := updated.(Model)
	if !model.busy || model.busyLabel != "Analyze" || cmd == nil {
		t.Fatalf("busy = %v, label = %q", model.busy, model.busyLabel)
	}

	updated, _ = model.Update(DispatchDoneMsg{Label: "Analyze", Err: fm.err})
	model = updated.(Model)
	if model.errorMessage != pipeline.MsgAcquisition {
		t.Errorf("errorMessage = %q", model.errorMessage)
	}
	if !strings.Contains(model.View(), pipeline.MsgAcquisition) {
		t.Error("View() should show the remediation message")
	}
}

func TestAnalyzeProgress(t *testing.T) {
	fm := &fakeMachine{}
	progress := make(chan pipeline.State, 8)
	cmd := session.Analyze{
		Source: pipeline.Source{Link: "x"},
		OnState: func(s pipeline.State) {
			progress <- s
		},
	}

	msg := analyzeCmd(context.Background(), fm, cmd, progress)()
	if _, ok := msg.(DispatchDoneMsg); !ok {
		t.Fatalf("analyzeCmd() = %T", msg)
	}

	stage, ok := waitStageCmd(progress)().(StageMsg)
	if !ok || stage.State != pipeline.StateSourceAcquired {
		t.Fatalf("waitStageCmd() = %#v", stage)
	}
	if next := waitStageCmd(progress)(); next != nil {
		t.Errorf("closed channel should yield nil, got %#v", next)
	}

	m := newModel(fm)
	m.busy, m.busyLabel = true, "Analyze"
	updated, _ := m.Update(stage)
	if !strings.Contains(updated.(Model).View(), "source_acquired") {
		t.Error("View() should show the current stage")
	}
}

func TestResetClearsView(t *testing.T) {
	fm := &fakeMachine{}
	m := newModel(fm)
	m.view = enrichment.KindReel

	updated, cmd := m.Update(keyRunes(KeyReset))
	if updated.(Model).view != "" {
		t.Error("reset should clear the selected view")
	}
	cmd()
	if _, ok := fm.cmds[0].(session.Reset); !ok {
		t.Errorf("dispatched %#v, want Reset", fm.cmds[0])
	}
}

func TestQuit(t *testing.T) {
	_, cmd := newModel(&fakeMachine{}).Update(keyRunes(KeyQuit))
	if cmd == nil {
		t.Fatal("q should return tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
