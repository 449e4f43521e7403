package ops

import (
	"encoding/json"
	"time"

	"github.com/hpungsan/strategist/internal/errors"
	"github.com/hpungsan/strategist/internal/ident"
	"github.com/hpungsan/strategist/internal/project"
	"github.com/hpungsan/strategist/internal/storage"
)

// Save persists a snapshot to the record store and updates the metadata
// index. The returned snapshot is the full in-memory state (media payloads
// included) with the assigned ID, derived name, and save timestamp; the
// stored record is the trimmed form.
//
// The record write happens before the index write: a failure between the two
// leaves an orphaned record, never a dangling index entry pointing at
// nothing.
func Save(st storage.Store, snap *project.Snapshot) (*project.Snapshot, error) {
	return saveAt(st, snap, time.Now())
}

func saveAt(st storage.Store, snap *project.Snapshot, now time.Time) (*project.Snapshot, error) {
	if snap == nil {
		return nil, errors.NewInvalidRequest("snapshot is required")
	}

	out := snap.Clone()
	if out.ID == "" {
		out.ID = ident.New()
	}
	out.ProjectName = project.DeriveName(out, now)
	out.LastSaved = now.UnixMilli()

	record, err := json.Marshal(project.Trim(out))
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := st.Set(RecordKey(out.ID), string(record)); err != nil {
		return nil, err
	}

	entry := project.Metadata{
		ID:        out.ID,
		Name:      out.ProjectName,
		LastSaved: out.LastSaved,
		Preview:   project.Preview(out),
	}
	if err := writeIndex(st, upsertIndex(readIndex(st), entry)); err != nil {
		return nil, err
	}

	return out, nil
}
