// Package ops implements the studio's persistence operations: project
// record save/load/list/delete, the session autosave slot, export/import,
// and the API-key slot. Every operation goes through the storage.Store
// abstraction so the same code runs against SQLite and the in-memory fake.
package ops

// Slot-key layout. The prefixes are load-bearing: Keys(RecordKeyPrefix) is
// how orphaned records are found, and external tooling reads these slots by
// name, so they must not change between releases.
const (
	// SessionKey holds the trimmed snapshot of whatever the user is
	// currently working on, named or not.
	SessionKey = "AI_MARKETING_AUTOSAVE_DATA"

	// RecordKeyPrefix prefixes one slot per named project.
	RecordKeyPrefix = "ai_strategist_proj_"

	// IndexKey holds the metadata index for fast listing.
	IndexKey = "ai_strategist_index"

	// APIKeyKey holds the Gemini credential as a raw string.
	APIKeyKey = "GEMINI_API_KEY"
)

// RecordKey returns the slot key for a project record.
func RecordKey(id string) string {
	return RecordKeyPrefix + id
}
