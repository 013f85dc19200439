package prompt_test

import (
	"strings"
	"testing"

	"viralflow/internal/prompt"
)

func TestParseDuration_UnknownFallsBackToMedium(t *testing.T) {
	for _, id := range []string{"", "short", "XL", "90s"} {
		if got := prompt.ParseDuration(id); got != prompt.DurationMedium {
			t.Errorf("ParseDuration(%q) = %q, want Medium", id, got)
		}
	}
}

func TestDurationGuide_WordCountsAndStructure(t *testing.T) {
	tests := []struct {
		bucket    prompt.Duration
		wordCount string
		structure string
	}{
		{prompt.DurationShort, "Approx 100-140 words (Chinese)", "Hook (3s) -> Core Value (15s) -> CTA (5s)"},
		{prompt.DurationMedium, "Approx 150-250 words (Chinese)", "User Attention Decision Path (1s-3s-10s-End)"},
		{prompt.DurationLong, "Approx 250-400 words (Chinese)", "Gold Pyramid"},
	}

	for _, tt := range tests {
		guide := tt.bucket.Guide()
		if !strings.Contains(guide, tt.wordCount) {
			t.Errorf("%s guide missing word count %q:\n%s", tt.bucket, tt.wordCount, guide)
		}
		if !strings.Contains(guide, tt.structure) {
			t.Errorf("%s guide missing structure %q:\n%s", tt.bucket, tt.structure, guide)
		}
	}
}
