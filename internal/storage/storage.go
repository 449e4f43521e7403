// Package storage provides the keyed slot store that backs all persistence:
// JSON-encoded text values under string keys, the same shape as the browser
// storage the studio originally targeted.
package storage

// Store is a keyed slot store. Values are JSON-encoded text.
//
// Get reports ok=false for a missing key; it never treats absence as an
// error. Set may fail with a QUOTA_EXCEEDED StudioError when the write would
// push total usage past the configured byte quota; any other failure is a
// TRANSIENT_WRITE. Delete of a missing key is a no-op.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
}

// DefaultQuotaBytes mirrors the ~5 MiB budget of the browser storage the
// layout was designed around.
const DefaultQuotaBytes int64 = 5 << 20
