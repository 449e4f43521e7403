package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/strategist/internal/config"
	"github.com/hpungsan/strategist/internal/errors"
	"github.com/hpungsan/strategist/internal/ops"
	"github.com/hpungsan/strategist/internal/project"
	"github.com/hpungsan/strategist/internal/storage"
	"github.com/hpungsan/strategist/internal/vault"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	st   storage.Store
	repo vault.Repository
	cfg  *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st storage.Store, repo vault.Repository, cfg *config.Config) *Handlers {
	return &Handlers{st: st, repo: repo, cfg: cfg}
}

// Request types for each tool

// SaveRequest represents the arguments for project_save.
type SaveRequest struct {
	Snapshot json.RawMessage `json:"snapshot"`
}

// OpenRequest represents the arguments for project_load.
type OpenRequest struct {
	ID string `json:"id"`
}

// DeleteRequest represents the arguments for project_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// ExportRequest represents the arguments for project_export.
type ExportRequest struct {
	ID   string `json:"id"`
	Path string `json:"path,omitempty"`
}

// ImportRequest represents the arguments for project_import.
type ImportRequest struct {
	Path string `json:"path"`
}

// TrainRequest represents the arguments for vault_train.
type TrainRequest struct {
	Files []TrainFile `json:"files"`
}

// TrainFile is one document in a vault_train request.
type TrainFile struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Content string `json:"content"`
}

// Handler implementations

// HandleSave handles the project_save tool call.
func (h *Handlers) HandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	if len(input.Snapshot) == 0 {
		return errorResult(errors.NewInvalidRequest("snapshot is required")), nil
	}

	var snap project.Snapshot
	if err := json.Unmarshal(input.Snapshot, &snap); err != nil {
		return errorResult(errors.NewMalformedInput("snapshot is not a valid project object")), nil
	}

	saved, err := ops.Save(h.st, &snap)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(saved)
}

// HandleOpen handles the project_load tool call.
func (h *Handlers) HandleOpen(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[OpenRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	snap, err := ops.Open(h.st, h.repo, input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(snap)
}

// HandleList handles the project_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(map[string]any{"projects": ops.List(h.st)})
}

// HandleDelete handles the project_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	if err := ops.Delete(h.st, input.ID); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"deleted": input.ID})
}

// HandleNew handles the project_new tool call.
func (h *Handlers) HandleNew(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.NewProject(h.repo))
}

// HandleExport handles the project_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	snap, err := ops.Open(h.st, h.repo, input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := ops.ExportToFile(snap, input.Path, h.cfg)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleImport handles the project_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	snap, err := ops.ImportFromFile(h.st, h.repo, input.Path, h.cfg)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(snap)
}

// HandleSessionRead handles the session_read tool call.
func (h *Handlers) HandleSessionRead(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := ops.ReadSession(h.st)
	if snap == nil {
		return successResult(map[string]any{"session": nil})
	}
	return successResult(map[string]any{"session": snap})
}

// HandleVaultList handles the vault_list tool call.
func (h *Handlers) HandleVaultList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := h.repo.Files()
	if err != nil {
		return errorResult(err), nil
	}
	// Content payloads can be huge; the listing carries metadata only.
	summaries := make([]map[string]any, 0, len(files))
	for _, f := range files {
		summaries = append(summaries, map[string]any{
			"id":           f.ID,
			"name":         f.Name,
			"type":         f.Type,
			"size":         f.Size,
			"status":       f.Status,
			"lastModified": f.LastModified,
		})
	}
	return successResult(map[string]any{"files": summaries})
}

// HandleVaultTrain handles the vault_train tool call.
func (h *Handlers) HandleVaultTrain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TrainRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	if len(input.Files) == 0 {
		return errorResult(errors.NewInvalidRequest("files is required")), nil
	}

	existing, err := h.repo.Files()
	if err != nil {
		return errorResult(err), nil
	}

	now := time.Now()
	for _, f := range input.Files {
		if f.Name == "" || f.Content == "" {
			return errorResult(errors.NewInvalidRequest("each file needs a name and content")), nil
		}
		existing = append(existing, vault.NewFile(f.Name, f.Type, f.Content, now))
	}

	trained, context, err := h.repo.Train(existing)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"trained":       len(trained),
		"context_chars": len(context),
	})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.StudioError); ok {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
