package ops

import (
	"github.com/hpungsan/strategist/internal/project"
	"github.com/hpungsan/strategist/internal/vault"
)

// NewProject returns a fresh unsaved snapshot with the current vault
// contents and derived context injected. Nothing is persisted: the project
// has no ID and no index entry until its first Save.
func NewProject(repo vault.Repository) *project.Snapshot {
	snap := project.NewSnapshot()
	applyCurrentVault(snap, repo)
	return snap
}
