package ops

import (
	"encoding/json"

	"github.com/hpungsan/strategist/internal/project"
	"github.com/hpungsan/strategist/internal/storage"
)

// readIndex returns the metadata index, empty when the slot is absent or
// fails to parse. A corrupt index is recoverable state, not an error: the
// next save rewrites it.
func readIndex(st storage.Store) []project.Metadata {
	raw, ok, err := st.Get(IndexKey)
	if err != nil || !ok {
		return []project.Metadata{}
	}
	var index []project.Metadata
	if err := json.Unmarshal([]byte(raw), &index); err != nil {
		return []project.Metadata{}
	}
	if index == nil {
		return []project.Metadata{}
	}
	return index
}

// writeIndex overwrites the index slot.
func writeIndex(st storage.Store, index []project.Metadata) error {
	b, err := json.Marshal(index)
	if err != nil {
		return err
	}
	return st.Set(IndexKey, string(b))
}

// upsertIndex returns the index with entry applied: an existing entry with
// the same ID is replaced in place, a new one is prepended so recent work
// lists first.
func upsertIndex(index []project.Metadata, entry project.Metadata) []project.Metadata {
	for i := range index {
		if index[i].ID == entry.ID {
			index[i] = entry
			return index
		}
	}
	return append([]project.Metadata{entry}, index...)
}
