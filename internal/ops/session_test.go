package ops

import (
	"testing"
)

func TestSession_RoundTrip(t *testing.T) {
	st, _ := newTestEnv(t)

	snap := sampleSnapshot()
	if err := WriteSession(st, snap); err != nil {
		t.Fatalf("WriteSession: %v", err)
	}

	got := ReadSession(st)
	if got == nil {
		t.Fatal("session slot empty after write")
	}
	if got.ProductInput != snap.ProductInput || got.ProjectName != snap.ProjectName {
		t.Errorf("session content mismatch: %+v", got)
	}
	// Session writes are trimmed like record writes.
	if got.Calendar[0].Details.GeneratedImage != "" {
		t.Error("session slot must not carry generated media")
	}
}

func TestSession_KeepsUnsavedWork(t *testing.T) {
	st, _ := newTestEnv(t)

	// An unnamed, never-saved project still autosaves.
	snap := sampleSnapshot()
	snap.ID = ""
	if err := WriteSession(st, snap); err != nil {
		t.Fatalf("WriteSession: %v", err)
	}

	got := ReadSession(st)
	if got == nil || got.ID != "" {
		t.Errorf("unsaved session must round-trip without an ID: %+v", got)
	}
	if len(List(st)) != 0 {
		t.Error("session writes must not touch the index")
	}
}

func TestSession_AbsentReturnsNil(t *testing.T) {
	st, _ := newTestEnv(t)
	if ReadSession(st) != nil {
		t.Error("absent session should read as nil")
	}
}

func TestSession_CorruptReturnsNil(t *testing.T) {
	st, _ := newTestEnv(t)
	if err := st.Set(SessionKey, "not json"); err != nil {
		t.Fatal(err)
	}
	if ReadSession(st) != nil {
		t.Error("corrupt session should read as nil")
	}
}

func TestSession_Clear(t *testing.T) {
	st, _ := newTestEnv(t)

	if err := WriteSession(st, sampleSnapshot()); err != nil {
		t.Fatalf("WriteSession: %v", err)
	}
	if err := ClearSession(st); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	if ReadSession(st) != nil {
		t.Error("session survived clear")
	}
}
