package ops

import (
	"testing"
	"time"

	"github.com/hpungsan/strategist/internal/project"
	"github.com/hpungsan/strategist/internal/storage"
	"github.com/hpungsan/strategist/internal/vault"
)

// newTestEnv returns an in-memory store and a vault repository backed by it.
func newTestEnv(t *testing.T) (*storage.MemoryStore, vault.Repository) {
	t.Helper()
	st := storage.NewMemoryStore(0)
	return st, vault.NewRepository(st, vault.DefaultFileContextChars)
}

// sampleSnapshot builds a snapshot that carries content in every layer Save
// touches: text, a strategy for the preview, and media payloads that must be
// trimmed from stored records but survive in the returned state.
func sampleSnapshot() *project.Snapshot {
	s := project.NewSnapshot()
	s.ProductInput = "organic cold brew coffee"
	s.ProjectName = "Cold Brew Launch"
	s.Strategy = &project.Strategy{
		Persona: "busy urban professionals",
		USP:     "brewed slow, delivered fast",
		Angles:  []string{"convenience", "craft"},
	}
	s.Calendar = []project.DayPlan{
		{
			Day:   1,
			Topic: "teaser",
			Details: &project.DayDetail{
				Caption:        "something is brewing",
				GeneratedImage: "data:image/png;base64,TEASER",
			},
		},
	}
	s.KOL.GeneratedImages = []string{"data:image/png;base64,KOL"}
	return s
}

// trainedVault seeds the repository with one learned file so vault-injection
// assertions have something to look for.
func trainedVault(t *testing.T, repo vault.Repository) string {
	t.Helper()
	f := vault.NewFile("brand_voice.txt", "text/plain", "Always warm, never corporate.", time.Now())
	if _, _, err := repo.Train([]vault.File{f}); err != nil {
		t.Fatalf("Train: %v", err)
	}
	context, err := repo.Context()
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	return context
}
