package ops

import (
	"encoding/json"

	"github.com/hpungsan/strategist/internal/errors"
	"github.com/hpungsan/strategist/internal/project"
	"github.com/hpungsan/strategist/internal/storage"
)

// WriteSession overwrites the session autosave slot with the trimmed
// snapshot. The session slot captures unnamed work too, so unlike Save it
// assigns no ID and touches no index.
func WriteSession(st storage.Store, snap *project.Snapshot) error {
	if snap == nil {
		return errors.NewInvalidRequest("snapshot is required")
	}
	b, err := json.Marshal(project.Trim(snap))
	if err != nil {
		return errors.NewInternal(err)
	}
	return st.Set(SessionKey, string(b))
}

// ReadSession returns the autosaved session snapshot, or nil when the slot
// is absent or fails to parse. Session recovery is best-effort; a corrupt
// slot means starting fresh, not an error dialog.
func ReadSession(st storage.Store) *project.Snapshot {
	raw, ok, err := st.Get(SessionKey)
	if err != nil || !ok {
		return nil
	}
	var snap project.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil
	}
	return &snap
}

// ClearSession removes the session autosave slot.
func ClearSession(st storage.Store) error {
	return st.Delete(SessionKey)
}
