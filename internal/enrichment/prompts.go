package enrichment

import "fmt"

const refinePrompt = `
You are an expert educator and thinker.

Extract only what truly matters.

RULES:
- No introductions or conclusions
- No mention of videos, transcripts, or speakers
- Focus on implications, not explanations
- Write 5–7 short paragraphs
- Each paragraph should change how the reader thinks or acts

Content:
%s
`

const insightsPrompt = `
Extract exactly 3–4 key insights.

RULES:
- One sentence per insight
- Each must explain why it matters
- Clear, concise, non-academic

Content:
%s
`

const mistakesPrompt = `
List exactly 3 common mistakes people make related to this topic.

RULES:
- Practical, real-world mistakes
- Clear language
- No academic tone

Content:
%s
`

const applicationPrompt = `
Convert the core idea into practical behavior.

RULES:
- 2–3 sentences only
- Focus on what to do differently
- Actionable, not motivational

Content:
%s
`

const twitterPrompt = `
You are an experienced professional sharing insight.

Create a Twitter/X thread.

RULES:
- 5–6 tweets
- Each tweet under 25 words
- No emojis, no hashtags
- Clear, confident, experienced tone
- First tweet highlights a common mistake or insight
- Final tweet delivers a strong takeaway

Content:
%s
`

const linkedinPrompt = `
You are writing a thoughtful LinkedIn post.

RULES:
- Calm, professional tone
- Short paragraphs
- One central idea
- End with a practical insight
- No emojis or hashtags

Content:
%s
`

const reelPrompt = `
Generate exactly 3 short hooks for reels or shorts.

RULES:
- Under 10 words each
- Highlight a mistake, cost, or surprising insight
- Direct language
- No emojis, no punctuation

Content:
%s
`

var templates = map[Kind]string{
	KindRefine:      refinePrompt,
	KindInsights:    insightsPrompt,
	KindMistakes:    mistakesPrompt,
	KindApplication: applicationPrompt,
	KindTwitter:     twitterPrompt,
	KindLinkedIn:    linkedinPrompt,
	KindReel:        reelPrompt,
}

// Prompt fills the template for k with content.
func Prompt(k Kind, content string) (string, error) {
	tmpl, ok := templates[k]
	if !ok {
		return "", fmt.Errorf("no prompt template for %q", k)
	}
	return fmt.Sprintf(tmpl, content), nil
}
