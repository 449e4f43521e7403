package vault

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// DefaultSeedFiles are the well-known starter documents looked for on first
// run, matching the static assets the studio ships.
var DefaultSeedFiles = []string{
	"Marketing_Strategy_Core.txt",
	"Vietnam_Market_Insight.txt",
}

// Bootstrap pre-populates an empty vault from the seed documents in seedDir.
// Unreachable seeds are skipped with a warning; if none load, the vault
// legitimately stays empty. A non-empty vault is left untouched. Returns the
// resulting file list and whether anything was seeded.
func Bootstrap(repo Repository, seedDir string, now time.Time) ([]File, bool, error) {
	files, err := repo.Files()
	if err != nil {
		return nil, false, err
	}
	if len(files) > 0 {
		return files, false, nil
	}

	var seeded []File
	for _, name := range DefaultSeedFiles {
		data, err := os.ReadFile(filepath.Join(seedDir, name))
		if err != nil {
			log.Printf("vault: could not load seed %s: %v", name, err)
			continue
		}
		seeded = append(seeded, NewFile(name, "text/plain", string(data), now))
	}

	if len(seeded) == 0 {
		return []File{}, false, nil
	}

	if err := repo.SetFiles(seeded); err != nil {
		// Seeds stay usable in memory even when the write fails.
		return seeded, true, err
	}
	return seeded, true, nil
}
