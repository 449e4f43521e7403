package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/strategist/internal/errors"
)

func TestImport_RoundTrip(t *testing.T) {
	st, repo := newTestEnv(t)

	snap := sampleSnapshot()
	snap.ID = "imported-id"
	data, err := Export(snap)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	got, err := Import(st, repo, data)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got.ID != "imported-id" {
		t.Errorf("import must keep the exported ID, got %q", got.ID)
	}
	if got.ProductInput != snap.ProductInput {
		t.Error("content lost across export/import")
	}
	// Import persists: the project is now loadable and listed.
	if Load(st, got.ID) == nil {
		t.Error("imported project not persisted")
	}
	if len(List(st)) != 1 {
		t.Error("imported project not indexed")
	}
}

func TestImport_RecomputesVaultContext(t *testing.T) {
	st, repo := newTestEnv(t)
	current := trainedVault(t, repo)

	snap := sampleSnapshot()
	snap.ID = "p1"
	snap.Knowledge.VaultContext = "context from the exporting machine"
	data, err := Export(snap)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	got, err := Import(st, repo, data)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got.Knowledge.VaultContext != current {
		t.Errorf("VaultContext = %q, want this machine's derived context", got.Knowledge.VaultContext)
	}
}

func TestImport_RejectsNonProjectFiles(t *testing.T) {
	cases := map[string]string{
		"not json":       `[1,2,3`,
		"array":          `[]`,
		"no knowledge":   `{"id":"x","projectName":"p"}`,
		"no id":          `{"knowledge":{},"projectName":"p"}`,
		"empty id":       `{"knowledge":{},"id":""}`,
		"non-string id":  `{"knowledge":{},"id":42}`,
		"arbitrary json": `{"config":{"theme":"dark"}}`,
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			st, repo := newTestEnv(t)
			before := st.Len()

			if _, err := Import(st, repo, []byte(data)); !errors.Is(err, errors.ErrMalformedInput) {
				t.Errorf("err = %v, want MALFORMED_INPUT", err)
			}
			if st.Len() != before {
				t.Error("rejected import must not write anything")
			}
		})
	}
}

func TestImportFromFile_RoundTrip(t *testing.T) {
	st, repo := newTestEnv(t)
	cfg := exportCfg(t)

	snap := sampleSnapshot()
	snap.ID = "file-id"
	out, err := ExportToFile(snap, "", cfg)
	if err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}

	got, err := ImportFromFile(st, repo, out.Path, cfg)
	if err != nil {
		t.Fatalf("ImportFromFile: %v", err)
	}
	if got.ID != "file-id" {
		t.Errorf("ID = %q", got.ID)
	}
}

func TestImportFromFile_MissingFile(t *testing.T) {
	st, repo := newTestEnv(t)
	cfg := exportCfg(t)

	path := filepath.Join(cfg.ExportsDir, "absent.json")
	if _, err := ImportFromFile(st, repo, path, cfg); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestImportFromFile_RejectsWrongExtension(t *testing.T) {
	st, repo := newTestEnv(t)
	cfg := exportCfg(t)

	path := filepath.Join(cfg.ExportsDir, "project.txt")
	if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportFromFile(st, repo, path, cfg); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
