package prompt_test

import (
	"strings"
	"testing"

	"viralflow/internal/prompt"
)

func TestParsePlatform_KnownIdentifiers(t *testing.T) {
	tests := []struct {
		id   string
		want prompt.Platform
	}{
		{"抖音 (Douyin)", prompt.PlatformDouyin},
		{"小红书 (Red)", prompt.PlatformRed},
		{"视频号 (WeChat)", prompt.PlatformWeChat},
		{"YouTube Shorts", prompt.PlatformShorts},
	}

	for _, tt := range tests {
		if got := prompt.ParsePlatform(tt.id); got != tt.want {
			t.Errorf("ParsePlatform(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestParsePlatform_UnknownFallsBackToDefault(t *testing.T) {
	for _, id := range []string{"", "TikTok", "bilibili", "抖音"} {
		if got := prompt.ParsePlatform(id); got != prompt.DefaultPlatform {
			t.Errorf("ParsePlatform(%q) = %q, want default %q", id, got, prompt.DefaultPlatform)
		}
	}
}

func TestPlatformStrategy_DistinctBlocks(t *testing.T) {
	seen := make(map[string]prompt.Platform)
	for _, p := range prompt.Platforms {
		s := p.Strategy()
		if s == "" {
			t.Fatalf("empty strategy for %q", p)
		}
		if prev, dup := seen[s]; dup {
			t.Errorf("platforms %q and %q share a strategy block", prev, p)
		}
		seen[s] = p
	}
}

func TestPlatformStrategy_UnknownUsesDouyinBlock(t *testing.T) {
	got := prompt.ParsePlatform("unknown-platform").Strategy()
	if !strings.Contains(got, "DOUYIN") {
		t.Errorf("fallback strategy does not mention DOUYIN:\n%s", got)
	}
}
