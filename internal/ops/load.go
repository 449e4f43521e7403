package ops

import (
	"encoding/json"

	"github.com/hpungsan/strategist/internal/errors"
	"github.com/hpungsan/strategist/internal/project"
	"github.com/hpungsan/strategist/internal/storage"
	"github.com/hpungsan/strategist/internal/vault"
)

// Load returns the raw stored snapshot for id, or nil when the record is
// absent or fails to parse. Callers that need full defaults and a fresh
// vault context use Open instead.
func Load(st storage.Store, id string) *project.Snapshot {
	raw, ok, err := st.Get(RecordKey(id))
	if err != nil || !ok {
		return nil
	}
	var snap project.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil
	}
	return &snap
}

// Open loads a project for editing: the stored record is reconciled against
// a complete default snapshot, then the current vault contents and derived
// context replace whatever the record carried. Stored vault data is always
// treated as stale.
func Open(st storage.Store, repo vault.Repository, id string) (*project.Snapshot, error) {
	if id == "" {
		return nil, errors.NewInvalidRequest("project id is required")
	}

	loaded := Load(st, id)
	if loaded == nil {
		return nil, errors.NewNotFound(id)
	}

	snap := project.Reconcile(project.NewSnapshot(), loaded)
	applyCurrentVault(snap, repo)
	return snap, nil
}

// applyCurrentVault injects the live vault file list and derived context
// into the snapshot. An unreadable vault reads as empty; opening a project
// must not fail because the shared knowledge base is unavailable.
func applyCurrentVault(snap *project.Snapshot, repo vault.Repository) {
	files, err := repo.Files()
	if err != nil {
		files = []vault.File{}
	}
	context, err := repo.Context()
	if err != nil {
		context = ""
	}
	snap.ApplyVault(files, context)
}
