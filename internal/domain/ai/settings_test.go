package ai

import "testing"

func TestThresholdBlocks(t *testing.T) {
	cases := []struct {
		t     Threshold
		score float32
		want  bool
	}{
		{BlockMediumAndAbove, 0.49, false},
		{BlockMediumAndAbove, 0.5, true},
		{BlockLowAndAbove, 0.3, true},
		{BlockOnlyHigh, 0.6, false},
		{BlockOnlyHigh, 0.9, true},
		{BlockNone, 1, false},
		{Threshold("unknown"), 1, false},
	}
	for _, c := range cases {
		if got := c.t.Blocks(c.score); got != c.want {
			t.Errorf("%s.Blocks(%v): got %v, want %v", c.t, c.score, got, c.want)
		}
	}
}

func TestDefaultSafetySettingsCoverAllCategories(t *testing.T) {
	seen := map[HarmCategory]bool{}
	for _, s := range DefaultSafetySettings() {
		if s.Threshold != BlockMediumAndAbove {
			t.Errorf("%s: got %s, want %s", s.Category, s.Threshold, BlockMediumAndAbove)
		}
		seen[s.Category] = true
	}
	for _, c := range []HarmCategory{HarmHarassment, HarmHateSpeech, HarmSexuallyExplicit, HarmDangerousContent} {
		if !seen[c] {
			t.Errorf("missing category %s", c)
		}
	}
}
