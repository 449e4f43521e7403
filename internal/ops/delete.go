package ops

import (
	"github.com/hpungsan/strategist/internal/errors"
	"github.com/hpungsan/strategist/internal/storage"
)

// Delete removes a project record and its index entry. Deleting a missing
// project is a no-op. The record goes first so a failure between the two
// writes leaves an index entry for a gone record, which the next Delete or
// Save of that ID cleans up, rather than an orphaned record.
func Delete(st storage.Store, id string) error {
	if id == "" {
		return errors.NewInvalidRequest("project id is required")
	}

	if err := st.Delete(RecordKey(id)); err != nil {
		return err
	}

	index := readIndex(st)
	kept := index[:0]
	for _, entry := range index {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(index) {
		return nil // id was not listed, nothing to rewrite
	}
	return writeIndex(st, kept)
}
