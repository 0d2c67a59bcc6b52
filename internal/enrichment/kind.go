package enrichment

import "fmt"

// Kind names one enrichment artifact.
type Kind string

const (
	KindRefine      Kind = "refined"
	KindInsights    Kind = "insights"
	KindMistakes    Kind = "mistakes"
	KindApplication Kind = "application"
	KindTwitter     Kind = "twitter"
	KindLinkedIn    Kind = "linkedin"
	KindReel        Kind = "reel"
)

// Triggers lists the on-demand kinds derived from the refined artifact,
// in the order they are presented.
var Triggers = []Kind{
	KindInsights,
	KindMistakes,
	KindApplication,
	KindTwitter,
	KindLinkedIn,
	KindReel,
}

// Title is the human-readable heading for k.
func (k Kind) Title() string {
	switch k {
	case KindRefine:
		return "Refined Transcript"
	case KindInsights:
		return "Key Insights"
	case KindMistakes:
		return "Common Mistakes"
	case KindApplication:
		return "Practical Application"
	case KindTwitter:
		return "Twitter/X Thread"
	case KindLinkedIn:
		return "LinkedIn Post"
	case KindReel:
		return "Reel Hooks"
	default:
		return string(k)
	}
}

// IsTrigger reports whether k is one of the on-demand trigger kinds.
func (k Kind) IsTrigger() bool {
	for _, t := range Triggers {
		if t == k {
			return true
		}
	}
	return false
}

// ParseKind maps a name such as "insights" to its Kind.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if k == KindRefine || k.IsTrigger() {
		return k, nil
	}
	return "", fmt.Errorf("unknown enrichment kind %q", name)
}
