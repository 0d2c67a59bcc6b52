package enrichment

import "strings"

// pickText returns primary when it has content, otherwise the first
// non-blank entry of the structured output, otherwise "".
func pickText(primary string, structured []string) string {
	if s := strings.TrimSpace(primary); s != "" {
		return s
	}
	for _, s := range structured {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
