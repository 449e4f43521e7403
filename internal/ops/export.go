package ops

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/strategist/internal/config"
	"github.com/hpungsan/strategist/internal/errors"
	"github.com/hpungsan/strategist/internal/project"
)

// ExportOutput describes a completed file export.
type ExportOutput struct {
	Path       string `json:"path"`
	Bytes      int    `json:"bytes"`
	ExportedAt int64  `json:"exported_at"`
}

// Export serializes the full in-memory snapshot as indented JSON. The export
// is the un-trimmed form: media payloads are included, which is exactly why
// export is the recommended escape hatch when the storage quota is hit.
func Export(snap *project.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, errors.NewInvalidRequest("snapshot is required")
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return b, nil
}

// ExportToFile writes the snapshot export to path, or to a generated name
// under the exports directory when path is empty. The write goes to a temp
// file first and is renamed into place so a failure never clobbers an
// existing export.
func ExportToFile(snap *project.Snapshot, path string, cfg *config.Config) (*ExportOutput, error) {
	now := time.Now()

	data, err := Export(snap)
	if err != nil {
		return nil, err
	}

	exportPath := path
	if exportPath == "" {
		exportPath, err = defaultExportPath(snap, cfg, now)
		if err != nil {
			return nil, err
		}
	}

	// Validate all paths, generated defaults included: a hostile project
	// name must not steer the default path outside the exports directory.
	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	cleanup := func() {
		file.Close()
		os.Remove(tempPath)
	}
	if _, err := file.Write(data); err != nil {
		cleanup()
		return nil, errors.NewInternal(fmt.Errorf("failed to write export file: %w", err))
	}
	if err := file.Sync(); err != nil && runtime.GOOS != "windows" {
		cleanup()
		return nil, errors.NewInternal(fmt.Errorf("failed to sync export file: %w", err))
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	if err := os.Rename(tempPath, exportPath); err != nil {
		os.Remove(tempPath)
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export file: %w", err))
	}

	return &ExportOutput{
		Path:       exportPath,
		Bytes:      len(data),
		ExportedAt: now.Unix(),
	}, nil
}

// defaultExportPath builds <exports>/<name>-<timestamp>.json from the
// project's display name.
func defaultExportPath(snap *project.Snapshot, cfg *config.Config, now time.Time) (string, error) {
	dir, err := DefaultExportsDir(cfg)
	if err != nil {
		return "", err
	}
	name := SanitizeForFilename(project.DeriveName(snap, now))
	return filepath.Join(dir, fmt.Sprintf("%s-%s.json", name, now.Format("20060102-150405"))), nil
}
