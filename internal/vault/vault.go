// Package vault implements the global knowledge vault: a single shared
// storage slot of reference documents used across all projects, plus the
// derived context blob rebuilt from it.
package vault

import (
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/strategist/internal/storage"
)

// SlotKey is the storage key of the global vault. Shared across all
// projects; one logical writer assumed (last write wins across tabs).
const SlotKey = "AI_STRATEGIST_GLOBAL_VAULT"

// Status is the training state of a knowledge file.
type Status string

const (
	StatusPending Status = "pending"
	StatusLearned Status = "learned"
	StatusError   Status = "error"
)

// File is one knowledge document in the vault. Content holds extracted text
// or a base64 payload for images.
type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"` // MIME type or extension
	Size         int64  `json:"size"`
	Content      string `json:"content"`
	Preview      string `json:"preview,omitempty"`
	Description  string `json:"description,omitempty"`
	LastModified int64  `json:"lastModified"`
	Status       Status `json:"status,omitempty"`
}

// Repository is the injected vault dependency. Implementations persist to a
// single slot; the in-memory storage fake gives tests a backend-free vault.
type Repository interface {
	// Files returns the vault contents; empty when the slot is absent or
	// fails to parse.
	Files() ([]File, error)

	// SetFiles overwrites the vault slot. A quota failure is reported
	// distinctly but callers keep working with the in-memory list.
	SetFiles(files []File) error

	// Train marks every file as learned, rebuilds the derived context, and
	// persists the file list. The updated files and context are returned
	// even when persistence fails, so the caller can continue in memory.
	Train(files []File) ([]File, string, error)

	// Context rebuilds the derived context blob from the current vault.
	Context() (string, error)
}

// StorageRepository is the Store-backed Repository.
type StorageRepository struct {
	st           storage.Store
	maxFileChars int
}

// NewRepository creates a vault repository over the given store.
// maxFileChars bounds each file's contribution to the derived context;
// 0 applies DefaultFileContextChars.
func NewRepository(st storage.Store, maxFileChars int) *StorageRepository {
	if maxFileChars <= 0 {
		maxFileChars = DefaultFileContextChars
	}
	return &StorageRepository{st: st, maxFileChars: maxFileChars}
}

// Files implements Repository.
func (r *StorageRepository) Files() ([]File, error) {
	raw, ok, err := r.st.Get(SlotKey)
	if err != nil {
		return []File{}, err
	}
	if !ok {
		return []File{}, nil
	}

	var files []File
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		// Corrupt vault reads as empty, not fatal.
		return []File{}, nil
	}
	if files == nil {
		files = []File{}
	}
	return files, nil
}

// SetFiles implements Repository.
func (r *StorageRepository) SetFiles(files []File) error {
	if files == nil {
		files = []File{}
	}
	raw, err := json.Marshal(files)
	if err != nil {
		return err
	}
	return r.st.Set(SlotKey, string(raw))
}

// Train implements Repository.
func (r *StorageRepository) Train(files []File) ([]File, string, error) {
	trained := make([]File, len(files))
	copy(trained, files)
	for i := range trained {
		trained[i].Status = StatusLearned
	}

	context := BuildContext(trained, r.maxFileChars)
	err := r.SetFiles(trained)
	return trained, context, err
}

// Context implements Repository.
func (r *StorageRepository) Context() (string, error) {
	files, err := r.Files()
	if err != nil {
		return "", err
	}
	return BuildContext(files, r.maxFileChars), nil
}

// File ids use ULIDs over a plain pseudo-random source; the tool carries no
// secure-random dependency.
var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// NewFileID returns a new vault file identifier.
func NewFileID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// NewFile builds a vault entry for freshly provided text content.
func NewFile(name, mimeType, content string, now time.Time) File {
	if mimeType == "" {
		mimeType = "text/plain"
	}
	return File{
		ID:           NewFileID(),
		Name:         name,
		Type:         mimeType,
		Size:         int64(len(content)),
		Content:      content,
		LastModified: now.UnixMilli(),
		Status:       StatusPending,
	}
}
