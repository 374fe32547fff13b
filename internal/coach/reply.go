package coach

import (
	"regexp"
	"strings"
)

var (
	boldRe   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	headerRe = regexp.MustCompile(`(?m)^#{1,3}\s+`)
	emojiRe  = regexp.MustCompile(`[\x{1F300}-\x{1F9FF}]{4,}`)
)

// CleanReply strips LLM output artifacts the persona forbids but the
// model occasionally emits anyway: markdown bold, markdown headers,
// and runs of four or more emoji. Replies longer than the WhatsApp
// message cap are truncated at a paragraph or sentence boundary.
func CleanReply(text string) string {
	text = boldRe.ReplaceAllString(text, "$1")
	text = headerRe.ReplaceAllString(text, "")
	text = emojiRe.ReplaceAllStringFunc(text, func(run string) string {
		r := []rune(run)
		return string(r[:3])
	})
	return strings.TrimSpace(truncateReply(text, maxReplyRunes))
}

// maxReplyRunes stays under WhatsApp's 4096-character message limit.
const maxReplyRunes = 4000

// truncateReply cuts overlong text at the last paragraph break past
// the halfway point, falling back to the last sentence end, then to a
// hard cut.
func truncateReply(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	window := string(r[:limit])
	if cut := strings.LastIndex(window, "\n\n"); cut > limit/2 {
		return window[:cut]
	}
	if cut := strings.LastIndex(window, ". "); cut > 0 {
		return window[:cut+1]
	}
	return window
}
