package tui

import "github.com/nguyentantai21042004/repurpose/internal/enrichment"

// Key binding constants used in handleKey.
const (
	KeyQuit        = "q"
	KeyCtrlC       = "ctrl+c"
	KeyEnter       = "enter"
	KeyInsights    = "i"
	KeyMistakes    = "m"
	KeyApplication = "p"
	KeyTwitter     = "t"
	KeyLinkedIn    = "l"
	KeyReel        = "r"
	KeyReset       = "x"
	KeyUp          = "up"
	KeyDown        = "down"
	KeyK           = "k"
	KeyJ           = "j"
)

// triggerKeys maps each trigger key to its enrichment kind.
var triggerKeys = map[string]enrichment.Kind{
	KeyInsights:    enrichment.KindInsights,
	KeyMistakes:    enrichment.KindMistakes,
	KeyApplication: enrichment.KindApplication,
	KeyTwitter:     enrichment.KindTwitter,
	KeyLinkedIn:    enrichment.KindLinkedIn,
	KeyReel:        enrichment.KindReel,
}
