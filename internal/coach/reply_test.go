package coach

import (
	"strings"
	"testing"
)

func TestCleanReply_StripsMarkdown(t *testing.T) {
	in := "**Great choice!** Here's why.\n## Protein\nDal is **protein-rich**."
	out := CleanReply(in)
	if strings.Contains(out, "**") {
		t.Errorf("bold markers survived: %q", out)
	}
	if strings.Contains(out, "##") {
		t.Errorf("header markers survived: %q", out)
	}
	if !strings.Contains(out, "Great choice!") || !strings.Contains(out, "protein-rich") {
		t.Errorf("inner text lost: %q", out)
	}
}

func TestCleanReply_CapsEmojiRuns(t *testing.T) {
	out := CleanReply("Awesome 💪💪💪💪💪 keep going")
	if strings.Contains(out, "💪💪💪💪") {
		t.Errorf("emoji run not capped: %q", out)
	}
	if !strings.Contains(out, "💪💪💪") {
		t.Errorf("capped run should keep three: %q", out)
	}
	// Three or fewer stay untouched.
	if got := CleanReply("Nice 😊😊"); got != "Nice 😊😊" {
		t.Errorf("short run modified: %q", got)
	}
}

func TestCleanReply_TruncatesAtParagraph(t *testing.T) {
	para := strings.Repeat("Dal is a great source of protein. ", 80) // ~2700 chars
	in := para + "\n\n" + para
	out := CleanReply(in)
	if len([]rune(out)) > maxReplyRunes {
		t.Fatalf("output exceeds limit: %d runes", len([]rune(out)))
	}
	// The cut lands on the paragraph break past the midpoint.
	if strings.HasSuffix(out, "protein") || !strings.HasSuffix(out, ".") {
		t.Errorf("truncation did not end at a clean boundary: %q", out[len(out)-40:])
	}
}

func TestCleanReply_TruncatesAtSentence(t *testing.T) {
	// No paragraph breaks at all forces the sentence fallback.
	in := strings.Repeat("Eat more sabzi. ", 300)
	out := CleanReply(in)
	if len([]rune(out)) > maxReplyRunes {
		t.Fatalf("output exceeds limit: %d runes", len([]rune(out)))
	}
	if !strings.HasSuffix(out, ".") {
		t.Errorf("sentence truncation should end with a period: %q", out[len(out)-20:])
	}
}

func TestCleanReply_ShortPassesThrough(t *testing.T) {
	in := "Toh batao, aaj kya khaya? 😊"
	if out := CleanReply(in); out != in {
		t.Errorf("short clean reply altered: %q", out)
	}
}
