package ai

// GenerationConfig holds the sampling parameters sent with every prompt.
type GenerationConfig struct {
	Temperature     float32 `yaml:"temperature"`
	TopK            int     `yaml:"topK"`
	TopP            float32 `yaml:"topP"`
	MaxOutputTokens int     `yaml:"maxOutputTokens"`
}

// DefaultGenerationConfig matches the parameters the analyzer was tuned with.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.7,
		TopK:            1,
		TopP:            1,
		MaxOutputTokens: 2048,
	}
}

// HarmCategory names a class of unsafe content.
type HarmCategory string

const (
	HarmHarassment       HarmCategory = "harassment"
	HarmHateSpeech       HarmCategory = "hate_speech"
	HarmSexuallyExplicit HarmCategory = "sexually_explicit"
	HarmDangerousContent HarmCategory = "dangerous_content"
)

// Threshold is the lowest probability band that gets blocked.
type Threshold string

const (
	BlockNone           Threshold = "BLOCK_NONE"
	BlockOnlyHigh       Threshold = "BLOCK_ONLY_HIGH"
	BlockMediumAndAbove Threshold = "BLOCK_MEDIUM_AND_ABOVE"
	BlockLowAndAbove    Threshold = "BLOCK_LOW_AND_ABOVE"
)

// Blocks reports whether a category score in [0,1] is at or above the threshold.
func (t Threshold) Blocks(score float32) bool {
	switch t {
	case BlockLowAndAbove:
		return score >= 0.25
	case BlockMediumAndAbove:
		return score >= 0.5
	case BlockOnlyHigh:
		return score >= 0.75
	default:
		return false
	}
}

// SafetySetting pairs a category with its threshold.
type SafetySetting struct {
	Category  HarmCategory `yaml:"category"`
	Threshold Threshold    `yaml:"threshold"`
}

// DefaultSafetySettings blocks medium-and-above in every category.
func DefaultSafetySettings() []SafetySetting {
	return []SafetySetting{
		{Category: HarmHarassment, Threshold: BlockMediumAndAbove},
		{Category: HarmHateSpeech, Threshold: BlockMediumAndAbove},
		{Category: HarmSexuallyExplicit, Threshold: BlockMediumAndAbove},
		{Category: HarmDangerousContent, Threshold: BlockMediumAndAbove},
	}
}
