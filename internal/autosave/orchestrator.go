// Package autosave debounces edit notifications into periodic storage
// writes: every quiet period ends with a session-slot write, and named or
// content-bearing work is additionally promoted to the record store.
package autosave

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hpungsan/strategist/internal/ops"
	"github.com/hpungsan/strategist/internal/project"
	"github.com/hpungsan/strategist/internal/storage"
)

// DefaultDelay is the quiet period after the last change before a write.
const DefaultDelay = 3 * time.Second

// State is the orchestrator's write cycle position.
type State int

const (
	StateIdle         State = iota // no pending changes
	StatePendingWrite              // changes seen, timer armed
	StateWriting                   // write in progress
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StatePendingWrite:
		return "PENDING_WRITE"
	case StateWriting:
		return "WRITING"
	default:
		return "UNKNOWN"
	}
}

// Options configures an Orchestrator.
type Options struct {
	Store storage.Store

	// Delay is the debounce window; DefaultDelay when zero.
	Delay time.Duration

	// Source returns the current snapshot at write time. Called from the
	// timer goroutine; it must return a consistent copy.
	Source func() *project.Snapshot

	// OnSaved, when set, receives the saved snapshot after a record-store
	// write so the caller can adopt the assigned ID and derived name.
	OnSaved func(*project.Snapshot)

	// OnNotice, when set, receives write failures. Autosave never
	// propagates errors to its caller; a failed cycle is retried on the
	// next change.
	OnNotice func(error)
}

// Orchestrator coalesces rapid Change notifications into one write per
// quiet period. All failures are reported through OnNotice and swallowed;
// nothing escapes the timer goroutine.
type Orchestrator struct {
	opts Options

	mu      sync.Mutex
	state   State
	timer   *time.Timer
	stopped bool
}

// New creates an Orchestrator. Source and Store are required.
func New(opts Options) *Orchestrator {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	return &Orchestrator{opts: opts}
}

// Change notes that the snapshot changed and (re)arms the write timer.
// Rapid calls coalesce: only the quiet period after the last one fires.
func (o *Orchestrator) Change() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stopped {
		return
	}
	o.state = StatePendingWrite
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.opts.Delay, o.fire)
}

// Flush performs any pending write immediately and synchronously.
func (o *Orchestrator) Flush() {
	o.mu.Lock()
	if o.timer != nil {
		o.timer.Stop()
	}
	o.mu.Unlock()

	o.fire()
}

// Stop cancels any pending write. It does not flush; call Flush first when
// the pending state matters.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopped = true
	if o.timer != nil {
		o.timer.Stop()
	}
	o.state = StateIdle
}

// State returns the current cycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// fire runs one write cycle. It runs on the timer goroutine, so it recovers
// from panics itself; a crashing autosave must not take the process down.
func (o *Orchestrator) fire() {
	defer func() {
		if r := recover(); r != nil {
			o.notice(fmt.Errorf("autosave panic: %v", r))
			o.mu.Lock()
			if o.state == StateWriting {
				o.state = StateIdle
			}
			o.mu.Unlock()
		}
	}()

	o.mu.Lock()
	if o.state != StatePendingWrite || o.stopped {
		o.mu.Unlock()
		return
	}
	o.state = StateWriting
	o.mu.Unlock()

	snap := o.opts.Source()
	if snap != nil {
		// The session slot always tracks the latest state, named or not.
		if err := ops.WriteSession(o.opts.Store, snap); err != nil {
			o.notice(fmt.Errorf("session autosave: %w", err))
		}

		// Only content-bearing work earns a record-store entry; saving
		// pristine snapshots would litter the index with empty projects.
		if snap.HasContent() {
			saved, err := ops.Save(o.opts.Store, snap)
			if err != nil {
				o.notice(fmt.Errorf("project autosave: %w", err))
			} else if o.opts.OnSaved != nil {
				o.opts.OnSaved(saved)
			}
		}
	}

	o.mu.Lock()
	// A Change that arrived mid-write re-armed the timer and set
	// PENDING_WRITE; that cycle must still run, so only a clean write
	// returns to idle.
	if o.state == StateWriting {
		o.state = StateIdle
	}
	o.mu.Unlock()
}

func (o *Orchestrator) notice(err error) {
	if o.opts.OnNotice != nil {
		o.opts.OnNotice(err)
		return
	}
	log.Printf("autosave: %v", err)
}
