package project

import "github.com/hpungsan/strategist/internal/vault"

// NewSnapshot constructs a fresh default state: every nested object present,
// every array empty, no id (a project stays Unsaved until its first
// successful record-store write assigns one).
func NewSnapshot() *Snapshot {
	enhance := true
	return &Snapshot{
		ProjectName: "",
		Knowledge:   &Knowledge{},
		Spy:         &Spy{},
		Repurposing: &Repurposing{},
		KOL: &KOL{
			GeneratedImages: []string{},
		},
		Infographic: &Infographic{
			Templates:       []InfographicTemplate{},
			Presets:         []InfographicPreset{},
			PromptEnhance:   &enhance,
			GeneratedImages: []string{},
		},
		KnowledgeVault: []vault.File{},
		MediaConfig:    &MediaConfig{ImageCount: 1, VideoCount: 1},
		Calendar:       []DayPlan{},
		AdsCampaigns:   []AdCampaign{},
	}
}
