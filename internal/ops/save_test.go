package ops

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/hpungsan/strategist/internal/errors"
	"github.com/hpungsan/strategist/internal/project"
	"github.com/hpungsan/strategist/internal/storage"
)

func TestSave_AssignsIDAndTimestamp(t *testing.T) {
	st, _ := newTestEnv(t)

	saved, err := Save(st, sampleSnapshot())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" {
		t.Error("first save must assign an ID")
	}
	if saved.LastSaved == 0 {
		t.Error("LastSaved not set")
	}
	if saved.ProjectName != "Cold Brew Launch" {
		t.Errorf("ProjectName = %q", saved.ProjectName)
	}
}

func TestSave_IDIsStable(t *testing.T) {
	st, _ := newTestEnv(t)

	first, err := Save(st, sampleSnapshot())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := Save(st, first)
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("ID changed across saves: %q -> %q", first.ID, second.ID)
	}
}

func TestSave_StoredRecordIsTrimmed(t *testing.T) {
	st, _ := newTestEnv(t)

	saved, err := Save(st, sampleSnapshot())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	// The caller keeps the media.
	if saved.Calendar[0].Details.GeneratedImage == "" {
		t.Error("returned snapshot must keep media payloads")
	}

	// The stored record does not.
	raw, ok, err := st.Get(RecordKey(saved.ID))
	if err != nil || !ok {
		t.Fatalf("record not stored: ok=%v err=%v", ok, err)
	}
	var stored project.Snapshot
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("unmarshal stored record: %v", err)
	}
	if stored.Calendar[0].Details.GeneratedImage != "" {
		t.Error("stored record must not carry generated media")
	}
	if len(stored.KOL.GeneratedImages) != 0 {
		t.Error("stored record must not carry generated KOL photos")
	}
	if stored.Calendar[0].Details.Caption != "something is brewing" {
		t.Error("stored record lost text content")
	}
}

func TestSave_IndexEntry(t *testing.T) {
	st, _ := newTestEnv(t)

	saved, err := Save(st, sampleSnapshot())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	index := List(st)
	if len(index) != 1 {
		t.Fatalf("index has %d entries, want 1", len(index))
	}
	entry := index[0]
	if entry.ID != saved.ID || entry.Name != saved.ProjectName || entry.LastSaved != saved.LastSaved {
		t.Errorf("index entry %+v does not match saved snapshot", entry)
	}
	if entry.Preview != "brewed slow, delivered fast" {
		t.Errorf("Preview = %q", entry.Preview)
	}
}

func TestSave_DoubleSaveKeepsSingleEntry(t *testing.T) {
	st, _ := newTestEnv(t)

	saved, err := Save(st, sampleSnapshot())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	saved.ProjectName = "Renamed"
	if _, err := Save(st, saved); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	index := List(st)
	if len(index) != 1 {
		t.Fatalf("index has %d entries after double save, want 1", len(index))
	}
	if index[0].Name != "Renamed" {
		t.Errorf("index entry not updated: %+v", index[0])
	}
}

func TestSave_NewProjectsPrepend(t *testing.T) {
	st, _ := newTestEnv(t)

	for i := 0; i < 3; i++ {
		s := sampleSnapshot()
		s.ProjectName = fmt.Sprintf("Project %d", i)
		if _, err := Save(st, s); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	index := List(st)
	if len(index) != 3 {
		t.Fatalf("index has %d entries, want 3", len(index))
	}
	if index[0].Name != "Project 2" || index[2].Name != "Project 0" {
		t.Errorf("most recent project should list first: %+v", index)
	}
}

func TestSave_UpdatePreservesIndexPosition(t *testing.T) {
	st, _ := newTestEnv(t)

	var ids []string
	for i := 0; i < 3; i++ {
		s := sampleSnapshot()
		s.ProjectName = fmt.Sprintf("Project %d", i)
		saved, err := Save(st, s)
		if err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
		ids = append(ids, saved.ID)
	}

	// Re-save the oldest; it must stay in place, not jump to the front.
	oldest := Load(st, ids[0])
	oldest.ProjectName = "Oldest Updated"
	if _, err := Save(st, oldest); err != nil {
		t.Fatalf("re-save: %v", err)
	}

	index := List(st)
	if index[2].ID != ids[0] || index[2].Name != "Oldest Updated" {
		t.Errorf("updated entry moved: %+v", index)
	}
}

func TestSave_RecordWriteFailureLeavesIndexUntouched(t *testing.T) {
	st, _ := newTestEnv(t)

	if _, err := Save(st, sampleSnapshot()); err != nil {
		t.Fatalf("seed Save: %v", err)
	}
	before := List(st)

	st.FailNextSet(errors.NewTransientWrite(fmt.Errorf("disk full")))
	if _, err := Save(st, sampleSnapshot()); err == nil {
		t.Fatal("expected save failure")
	}

	after := List(st)
	if len(after) != len(before) {
		t.Errorf("index changed after failed record write: %d -> %d entries", len(before), len(after))
	}
}

func TestSave_QuotaFailureLeavesOtherRecordsIntact(t *testing.T) {
	st := storage.NewMemoryStore(4096)

	small := project.NewSnapshot()
	small.ProductInput = "small project"
	saved, err := Save(st, small)
	if err != nil {
		t.Fatalf("Save small: %v", err)
	}

	big := project.NewSnapshot()
	big.ProductInput = "big project"
	big.Knowledge.UploadedKnowledge = string(make([]byte, 8192))
	if _, err := Save(st, big); !errors.Is(err, errors.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want QUOTA_EXCEEDED", err)
	}

	if Load(st, saved.ID) == nil {
		t.Error("existing record lost after quota failure")
	}
	index := List(st)
	if len(index) != 1 || index[0].ID != saved.ID {
		t.Errorf("index corrupted after quota failure: %+v", index)
	}
}

func TestSave_DateStampedFallbackName(t *testing.T) {
	st, _ := newTestEnv(t)

	snap := project.NewSnapshot()
	snap.Strategy = &project.Strategy{USP: "content with no name or product"}

	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	saved, err := saveAt(st, snap, at)
	if err != nil {
		t.Fatalf("saveAt: %v", err)
	}
	if saved.ProjectName != "Project 2026-03-14" {
		t.Errorf("ProjectName = %q", saved.ProjectName)
	}
	if saved.LastSaved != at.UnixMilli() {
		t.Errorf("LastSaved = %d, want %d", saved.LastSaved, at.UnixMilli())
	}
}

func TestSave_NilSnapshot(t *testing.T) {
	st, _ := newTestEnv(t)
	if _, err := Save(st, nil); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
