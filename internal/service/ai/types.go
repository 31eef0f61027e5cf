package ai

// ModelPreset selects sampling settings for a call.
type ModelPreset string

const (
	PresetGenerate ModelPreset = "generate"
	PresetRepair   ModelPreset = "repair"
)

type ModelConfig struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int
}

// GenerateMetadata describes which backend answered a call.
type GenerateMetadata struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

type ProviderResult struct {
	Text  string
	Model string
}

// GetPresetConfig returns the sampling settings of a preset. Repair calls are
// deterministic.
func GetPresetConfig(preset ModelPreset) ModelConfig {
	switch preset {
	case PresetRepair:
		return ModelConfig{
			Temperature:     0,
			TopP:            1,
			MaxOutputTokens: 8192,
		}
	case PresetGenerate:
		return ModelConfig{
			Temperature:     0.35,
			TopP:            0.95,
			MaxOutputTokens: 8192,
		}
	default:
		return GetPresetConfig(PresetGenerate)
	}
}
