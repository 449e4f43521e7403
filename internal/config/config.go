// Package config loads the studio configuration from baseDir/config.json,
// merging file values over built-in defaults.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/strategist/internal/storage"
	"github.com/hpungsan/strategist/internal/vault"
)

// Config holds application configuration.
type Config struct {
	// StorageQuotaBytes is the byte budget for the slot store. 0 means the
	// built-in ~5 MiB default.
	StorageQuotaBytes int64 `json:"storage_quota_bytes,omitempty"`

	// AutosaveDebounceMS is the quiet period after the last change before
	// the autosave orchestrator writes, in milliseconds.
	AutosaveDebounceMS int `json:"autosave_debounce_ms,omitempty"`

	// FileContextMaxChars caps how many characters of each vault file are
	// folded into the derived knowledge context.
	FileContextMaxChars int `json:"file_context_max_chars,omitempty"`

	// SeedKnowledgeDir is a directory of seed documents loaded into the
	// vault on first run. Empty disables seeding.
	SeedKnowledgeDir string `json:"seed_knowledge_dir,omitempty"`

	// ExportsDir overrides the default export directory (~/.strategist/exports).
	ExportsDir string `json:"exports_dir,omitempty"`

	// AllowedPaths is an allowlist of directories for import/export files.
	// Paths outside the exports directory require either being in this list
	// or AllowUnsafePaths=true. Relative paths are ignored.
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for import/export.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits open database connections. If set to 1, all
	// database access is serialized. 0 means the sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits idle database connections. 0 means the sql.DB
	// default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		StorageQuotaBytes:   storage.DefaultQuotaBytes,
		AutosaveDebounceMS:  3000,
		FileContextMaxChars: vault.DefaultFileContextChars,
	}
}

// Load loads configuration from baseDir/config.json. Returns default config
// if the file doesn't exist. The baseDir parameter allows tests to use
// t.TempDir() instead of ~/.strategist.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path. Returns a
// zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge combines base and overlay configs. Overlay values take precedence
// for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.StorageQuotaBytes = overlay.StorageQuotaBytes
	if result.StorageQuotaBytes == 0 {
		result.StorageQuotaBytes = base.StorageQuotaBytes
	}

	result.AutosaveDebounceMS = overlay.AutosaveDebounceMS
	if result.AutosaveDebounceMS == 0 {
		result.AutosaveDebounceMS = base.AutosaveDebounceMS
	}

	result.FileContextMaxChars = overlay.FileContextMaxChars
	if result.FileContextMaxChars == 0 {
		result.FileContextMaxChars = base.FileContextMaxChars
	}

	result.SeedKnowledgeDir = overlay.SeedKnowledgeDir
	if result.SeedKnowledgeDir == "" {
		result.SeedKnowledgeDir = base.SeedKnowledgeDir
	}

	result.ExportsDir = overlay.ExportsDir
	if result.ExportsDir == "" {
		result.ExportsDir = base.ExportsDir
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
