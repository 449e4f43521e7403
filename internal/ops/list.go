package ops

import (
	"github.com/hpungsan/strategist/internal/project"
	"github.com/hpungsan/strategist/internal/storage"
)

// List returns the metadata index, most recently created first. Listing
// never fails: a missing or corrupt index reads as empty.
func List(st storage.Store) []project.Metadata {
	return readIndex(st)
}
