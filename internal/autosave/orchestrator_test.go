package autosave

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hpungsan/strategist/internal/errors"
	"github.com/hpungsan/strategist/internal/ops"
	"github.com/hpungsan/strategist/internal/project"
	"github.com/hpungsan/strategist/internal/storage"
)

// editableSnapshot is a mutex-guarded snapshot holder standing in for the
// application's in-memory state.
type editableSnapshot struct {
	mu   sync.Mutex
	snap *project.Snapshot
}

func newEditable() *editableSnapshot {
	return &editableSnapshot{snap: project.NewSnapshot()}
}

func (e *editableSnapshot) edit(fn func(*project.Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.snap)
}

func (e *editableSnapshot) source() *project.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap.Clone()
}

func TestOrchestrator_WritesAfterQuietPeriod(t *testing.T) {
	st := storage.NewMemoryStore(0)
	state := newEditable()
	state.edit(func(s *project.Snapshot) { s.ProductInput = "artisan soap" })

	o := New(Options{Store: st, Delay: 30 * time.Millisecond, Source: state.source})
	defer o.Stop()

	o.Change()

	waitFor(t, 500*time.Millisecond, func() bool {
		return ops.ReadSession(st) != nil
	})

	session := ops.ReadSession(st)
	if session.ProductInput != "artisan soap" {
		t.Errorf("session = %+v", session)
	}
	if len(ops.List(st)) != 1 {
		t.Errorf("content-bearing snapshot should also hit the record store")
	}
}

func TestOrchestrator_CoalescesRapidChanges(t *testing.T) {
	st := storage.NewMemoryStore(0)
	state := newEditable()
	state.edit(func(s *project.Snapshot) { s.ProductInput = "soap" })

	var saves int32
	o := New(Options{
		Store:   st,
		Delay:   50 * time.Millisecond,
		Source:  state.source,
		OnSaved: func(*project.Snapshot) { atomic.AddInt32(&saves, 1) },
	})
	defer o.Stop()

	for i := 0; i < 10; i++ {
		o.Change()
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(250 * time.Millisecond)
	if got := atomic.LoadInt32(&saves); got != 1 {
		t.Errorf("got %d saves for 10 rapid changes, want 1", got)
	}
}

func TestOrchestrator_EmptySnapshotOnlyWritesSession(t *testing.T) {
	st := storage.NewMemoryStore(0)
	state := newEditable() // pristine, HasContent() == false

	o := New(Options{Store: st, Delay: 20 * time.Millisecond, Source: state.source})
	defer o.Stop()

	o.Change()
	waitFor(t, 500*time.Millisecond, func() bool {
		return ops.ReadSession(st) != nil
	})

	if len(ops.List(st)) != 0 {
		t.Error("pristine snapshot must not create a project record")
	}
}

func TestOrchestrator_FlushIsImmediate(t *testing.T) {
	st := storage.NewMemoryStore(0)
	state := newEditable()
	state.edit(func(s *project.Snapshot) { s.ProductInput = "soap" })

	o := New(Options{Store: st, Delay: time.Hour, Source: state.source})
	defer o.Stop()

	o.Change()
	if ops.ReadSession(st) != nil {
		t.Fatal("nothing should be written before the delay")
	}

	o.Flush()

	if ops.ReadSession(st) == nil {
		t.Error("flush must write synchronously")
	}
	if o.State() != StateIdle {
		t.Errorf("state = %v after flush, want IDLE", o.State())
	}
}

func TestOrchestrator_FlushWithoutPendingIsNoOp(t *testing.T) {
	st := storage.NewMemoryStore(0)
	state := newEditable()
	state.edit(func(s *project.Snapshot) { s.ProductInput = "soap" })

	o := New(Options{Store: st, Delay: time.Hour, Source: state.source})
	defer o.Stop()

	o.Flush()
	if ops.ReadSession(st) != nil {
		t.Error("flush with no pending changes must write nothing")
	}
}

func TestOrchestrator_AdoptsAssignedID(t *testing.T) {
	st := storage.NewMemoryStore(0)
	state := newEditable()
	state.edit(func(s *project.Snapshot) { s.ProductInput = "soap" })

	o := New(Options{
		Store:  st,
		Delay:  time.Hour,
		Source: state.source,
		OnSaved: func(saved *project.Snapshot) {
			state.edit(func(s *project.Snapshot) {
				s.ID = saved.ID
				s.ProjectName = saved.ProjectName
				s.LastSaved = saved.LastSaved
			})
		},
	})
	defer o.Stop()

	o.Change()
	o.Flush()

	firstID := state.source().ID
	if firstID == "" {
		t.Fatal("first autosave should write the assigned ID back")
	}

	// A second cycle reuses the ID instead of minting a new project.
	o.Change()
	o.Flush()

	if got := state.source().ID; got != firstID {
		t.Errorf("ID changed across autosaves: %q -> %q", firstID, got)
	}
	if entries := ops.List(st); len(entries) != 1 {
		t.Errorf("%d index entries after two autosaves of one project", len(entries))
	}
}

func TestOrchestrator_WriteFailureIsReportedNotFatal(t *testing.T) {
	st := storage.NewMemoryStore(0)
	state := newEditable()
	state.edit(func(s *project.Snapshot) { s.ProductInput = "soap" })

	var notices int32
	o := New(Options{
		Store:    st,
		Delay:    time.Hour,
		Source:   state.source,
		OnNotice: func(error) { atomic.AddInt32(&notices, 1) },
	})
	defer o.Stop()

	st.FailNextSet(errors.NewTransientWrite(fmt.Errorf("disk full")))
	o.Change()
	o.Flush()

	if atomic.LoadInt32(&notices) == 0 {
		t.Error("write failure should surface through OnNotice")
	}
	if o.State() != StateIdle {
		t.Errorf("state = %v after failed cycle, want IDLE", o.State())
	}

	// The next cycle works again.
	o.Change()
	o.Flush()
	if ops.ReadSession(st) == nil {
		t.Error("orchestrator should recover after a failed write")
	}
}

func TestOrchestrator_SourcePanicIsContained(t *testing.T) {
	st := storage.NewMemoryStore(0)

	var notices int32
	o := New(Options{
		Store:    st,
		Delay:    time.Hour,
		Source:   func() *project.Snapshot { panic("boom") },
		OnNotice: func(error) { atomic.AddInt32(&notices, 1) },
	})
	defer o.Stop()

	o.Change()
	o.Flush() // must not panic through

	if atomic.LoadInt32(&notices) == 0 {
		t.Error("panic should be reported through OnNotice")
	}
	if o.State() != StateIdle {
		t.Errorf("state = %v, want IDLE", o.State())
	}
}

func TestOrchestrator_StopCancelsPending(t *testing.T) {
	st := storage.NewMemoryStore(0)
	state := newEditable()
	state.edit(func(s *project.Snapshot) { s.ProductInput = "soap" })

	o := New(Options{Store: st, Delay: 20 * time.Millisecond, Source: state.source})

	o.Change()
	o.Stop()

	time.Sleep(100 * time.Millisecond)
	if ops.ReadSession(st) != nil {
		t.Error("stopped orchestrator must not write")
	}
	// Changes after Stop are ignored.
	o.Change()
	if o.State() != StateIdle {
		t.Error("Change after Stop should be a no-op")
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateIdle, "IDLE"},
		{StatePendingWrite, "PENDING_WRITE"},
		{StateWriting, "WRITING"},
		{State(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if tt.state.String() != tt.expected {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, tt.state.String(), tt.expected)
		}
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}
