package ops

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/strategist/internal/config"
	"github.com/hpungsan/strategist/internal/project"
)

func exportCfg(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ExportsDir = t.TempDir()
	return cfg
}

func TestExport_IsIndentedFullJSON(t *testing.T) {
	snap := sampleSnapshot()
	snap.ID = "p1"

	data, err := Export(snap)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.Contains(data, []byte("\n  ")) {
		t.Error("export should be indented for human inspection")
	}

	var back project.Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("export does not round-trip: %v", err)
	}
	// Exports carry the full state, media included.
	if back.Calendar[0].Details.GeneratedImage == "" {
		t.Error("export must include media payloads")
	}
}

func TestExportToFile_DefaultName(t *testing.T) {
	cfg := exportCfg(t)

	out, err := ExportToFile(sampleSnapshot(), "", cfg)
	if err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}
	if filepath.Dir(out.Path) != cfg.ExportsDir {
		t.Errorf("export landed in %q, want %q", filepath.Dir(out.Path), cfg.ExportsDir)
	}
	if filepath.Ext(out.Path) != ".json" {
		t.Errorf("export path %q should end in .json", out.Path)
	}

	data, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(data) != out.Bytes {
		t.Errorf("wrote %d bytes, reported %d", len(data), out.Bytes)
	}
}

func TestExportToFile_ExplicitPath(t *testing.T) {
	cfg := exportCfg(t)
	path := filepath.Join(cfg.ExportsDir, "my-project.json")

	if _, err := ExportToFile(sampleSnapshot(), path, cfg); err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestExportToFile_RejectsOutsideAllowedDirs(t *testing.T) {
	cfg := exportCfg(t)
	outside := filepath.Join(t.TempDir(), "steal.json")

	if _, err := ExportToFile(sampleSnapshot(), outside, cfg); err == nil {
		t.Error("expected rejection for path outside allowed dirs")
	}
}

func TestExportToFile_HostileNameStaysInExportsDir(t *testing.T) {
	cfg := exportCfg(t)

	snap := sampleSnapshot()
	snap.ProjectName = "../../etc/passwd"

	out, err := ExportToFile(snap, "", cfg)
	if err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}
	if filepath.Dir(out.Path) != cfg.ExportsDir {
		t.Errorf("hostile name escaped exports dir: %q", out.Path)
	}
}

func TestExportToFile_FailureKeepsExistingFile(t *testing.T) {
	cfg := exportCfg(t)
	path := filepath.Join(cfg.ExportsDir, "keep.json")
	if err := os.WriteFile(path, []byte(`{"original":true}`), 0600); err != nil {
		t.Fatal(err)
	}

	// nil snapshot fails before any file is touched
	if _, err := ExportToFile(nil, path, cfg); err == nil {
		t.Fatal("expected failure")
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != `{"original":true}` {
		t.Errorf("existing file disturbed by failed export: %q %v", data, err)
	}
}
