package ops

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hpungsan/strategist/internal/config"
	"github.com/hpungsan/strategist/internal/errors"
	"github.com/hpungsan/strategist/internal/project"
	"github.com/hpungsan/strategist/internal/storage"
	"github.com/hpungsan/strategist/internal/vault"
)

// maxImportBytes caps how much of an import file is read. Export files are
// bounded by the storage quota plus media payloads; 64 MiB is far past any
// legitimate project.
const maxImportBytes = 64 << 20

// Import reconstructs a project from exported JSON, reconciles it against
// current defaults, injects the live vault, and persists it via Save. The
// shape check runs before any store write: a rejected import leaves both the
// record store and the index untouched.
func Import(st storage.Store, repo vault.Repository, data []byte) (*project.Snapshot, error) {
	if err := checkImportShape(data); err != nil {
		return nil, err
	}

	var loaded project.Snapshot
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, errors.NewMalformedInput(fmt.Sprintf("invalid project file: %v", err))
	}

	snap := project.Reconcile(project.NewSnapshot(), &loaded)
	applyCurrentVault(snap, repo)
	return Save(st, snap)
}

// ImportFromFile validates the path and imports the file's contents.
func ImportFromFile(st storage.Store, repo vault.Repository, path string, cfg *config.Config) (*project.Snapshot, error) {
	if err := ValidatePath(path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(path)
	if err != nil {
		if _, ok := err.(*errors.StudioError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportBytes+1))
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}
	if len(data) > maxImportBytes {
		return nil, errors.NewMalformedInput("import file too large")
	}

	return Import(st, repo, data)
}

// checkImportShape rejects files that are not project exports before any
// decoding into the domain model. A valid export is a JSON object with a
// knowledge section and a non-empty string id.
func checkImportShape(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.NewMalformedInput("file is not a JSON object")
	}

	if _, ok := raw["knowledge"]; !ok {
		return errors.NewMalformedInput("not a project file: missing knowledge section")
	}

	idRaw, ok := raw["id"]
	if !ok {
		return errors.NewMalformedInput("not a project file: missing id")
	}
	var id string
	if err := json.Unmarshal(idRaw, &id); err != nil || id == "" {
		return errors.NewMalformedInput("not a project file: id must be a non-empty string")
	}

	return nil
}
