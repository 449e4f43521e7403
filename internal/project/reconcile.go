package project

import "github.com/hpungsan/strategist/internal/vault"

// Reconcile merges a loaded or imported snapshot over a freshly constructed
// default state. Fields the loaded snapshot is missing (older schema, partial
// import) are backfilled from defaults; fields it has win. Array-valued
// fields come back as empty slices, never nil, so iteration downstream needs
// no nil checks. Unknown top-level fields in loaded pass through untouched.
//
// Reconcile is pure and total: it performs no I/O and never fails for any
// well-formed input. Vault injection is a separate explicit step
// (Snapshot.ApplyVault) so this function stays storage-free.
func Reconcile(defaults, loaded *Snapshot) *Snapshot {
	if defaults == nil {
		defaults = NewSnapshot()
	}
	if loaded == nil {
		return defaults.Clone()
	}

	out := loaded.Clone()

	// Id is preserved from loaded if present, otherwise taken from defaults.
	if out.ID == "" {
		out.ID = defaults.ID
	}

	if out.Knowledge == nil {
		out.Knowledge = cloneVia(defaults.Knowledge, &Knowledge{})
	}

	if out.Spy == nil {
		out.Spy = cloneVia(defaults.Spy, &Spy{})
	}

	if out.Repurposing == nil {
		out.Repurposing = cloneVia(defaults.Repurposing, &Repurposing{})
	}

	if out.KOL == nil {
		out.KOL = cloneVia(defaults.KOL, &KOL{})
	}
	if out.KOL.GeneratedImages == nil {
		out.KOL.GeneratedImages = []string{}
	}

	if out.Infographic == nil {
		out.Infographic = cloneVia(defaults.Infographic, &Infographic{})
	}
	reconcileInfographic(defaults.Infographic, out.Infographic)

	if out.MediaConfig == nil {
		out.MediaConfig = cloneVia(defaults.MediaConfig, &MediaConfig{})
	}

	if out.KnowledgeVault == nil {
		out.KnowledgeVault = []vault.File{}
	}
	if out.Calendar == nil {
		out.Calendar = []DayPlan{}
	}
	if out.AdsCampaigns == nil {
		out.AdsCampaigns = []AdCampaign{}
	}

	if out.Strategy != nil && out.Strategy.Angles == nil {
		out.Strategy.Angles = []string{}
	}
	if out.Creative != nil {
		if out.Creative.ViralHooks == nil {
			out.Creative.ViralHooks = []string{}
		}
		if out.Creative.KOLConcepts == nil {
			out.Creative.KOLConcepts = []string{}
		}
	}
	for i := range out.Calendar {
		if d := out.Calendar[i].Details; d != nil && d.GeneratedImages == nil {
			d.GeneratedImages = []string{}
		}
	}

	return out
}

// reconcileInfographic backfills the fields the infographic workspace gained
// across schema revisions; old saves predate presets and the enhance flag.
func reconcileInfographic(def, got *Infographic) {
	if got.Templates == nil {
		got.Templates = []InfographicTemplate{}
	}
	if got.Presets == nil {
		got.Presets = []InfographicPreset{}
	}
	if got.GeneratedImages == nil {
		got.GeneratedImages = []string{}
	}
	if got.PromptEnhance == nil {
		if def != nil && def.PromptEnhance != nil {
			v := *def.PromptEnhance
			got.PromptEnhance = &v
		} else {
			v := true
			got.PromptEnhance = &v
		}
	}
}

// cloneVia deep-copies src when non-nil, else returns the given zero value.
func cloneVia[T any](src *T, zero *T) *T {
	if src == nil {
		return zero
	}
	cp := *src
	return &cp
}
