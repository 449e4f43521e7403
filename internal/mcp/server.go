// Package mcp exposes the studio's persistence operations as MCP tools over
// stdio, so agent clients can save, load, and train alongside the CLI.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/strategist/internal/config"
	"github.com/hpungsan/strategist/internal/storage"
	"github.com/hpungsan/strategist/internal/vault"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"project_save": {
		def:     projectSaveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSave },
	},
	"project_load": {
		def:     projectOpenToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleOpen },
	},
	"project_list": {
		def:     projectListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"project_delete": {
		def:     projectDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"project_new": {
		def:     projectNewToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNew },
	},
	"project_export": {
		def:     projectExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"project_import": {
		def:     projectImportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleImport },
	},
	"session_read": {
		def:     sessionReadToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSessionRead },
	},
	"vault_list": {
		def:     vaultListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleVaultList },
	},
	"vault_train": {
		def:     vaultTrainToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleVaultTrain },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with studio tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(st storage.Store, repo vault.Repository, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"strategist",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(st, repo, cfg)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(st storage.Store, repo vault.Repository, cfg *config.Config, version string) error {
	s := NewServer(st, repo, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
