package tui

import (
	"github.com/nguyentantai21042004/repurpose/internal/pipeline"
	"github.com/nguyentantai21042004/repurpose/internal/session"
)

// DispatchDoneMsg is sent when a command dispatched to the machine returns.
type DispatchDoneMsg struct {
	Label    string
	Err      error
	Snapshot session.Snapshot
}

// StageMsg reports that the running Analyze entered a new state.
type StageMsg struct {
	State    pipeline.State
	progress <-chan pipeline.State
}
