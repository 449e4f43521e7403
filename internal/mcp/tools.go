package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. Descriptions are what an MCP client shows the model, so
// they spell out argument shapes and the persistence side effects.

var projectSaveToolDef = mcp.NewTool("project_save",
	mcp.WithDescription("Persist a project snapshot. Assigns an ID on first save, derives the display name, strips regenerable media from the stored record, and updates the project index. Returns the saved snapshot."),
	mcp.WithObject("snapshot",
		mcp.Required(),
		mcp.Description("Full project snapshot object. An existing 'id' updates that project; no 'id' creates one."),
	),
)

var projectOpenToolDef = mcp.NewTool("project_load",
	mcp.WithDescription("Load a project by ID. Missing sections are backfilled with defaults and the knowledge-vault context is recomputed from the current vault."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Project ID as listed by project_list."),
	),
)

var projectListToolDef = mcp.NewTool("project_list",
	mcp.WithDescription("List saved projects: id, name, last-saved timestamp, and a one-line preview. Most recently created first."),
)

var projectDeleteToolDef = mcp.NewTool("project_delete",
	mcp.WithDescription("Delete a project record and its index entry. Deleting a missing project succeeds silently."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Project ID to delete."),
	),
)

var projectNewToolDef = mcp.NewTool("project_new",
	mcp.WithDescription("Return a fresh unsaved project snapshot with the current knowledge vault injected. Nothing is persisted until project_save."),
)

var projectExportToolDef = mcp.NewTool("project_export",
	mcp.WithDescription("Export a saved project to a JSON file. Defaults to a generated name in the exports directory."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Project ID to export."),
	),
	mcp.WithString("path",
		mcp.Description("Optional target path; must end in .json and live directly in an allowed directory."),
	),
)

var projectImportToolDef = mcp.NewTool("project_import",
	mcp.WithDescription("Import a project from an exported JSON file. The file must carry a knowledge section and a non-empty id; the vault context is recomputed on this machine and the project is saved."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the exported .json file."),
	),
)

var sessionReadToolDef = mcp.NewTool("session_read",
	mcp.WithDescription("Read the autosaved session snapshot, if any. The session slot holds the latest in-progress work, named or not."),
)

var vaultListToolDef = mcp.NewTool("vault_list",
	mcp.WithDescription("List the global knowledge vault files with their training status."),
)

var vaultTrainToolDef = mcp.NewTool("vault_train",
	mcp.WithDescription("Add documents to the global knowledge vault, mark them learned, and rebuild the derived context shared by every project."),
	mcp.WithArray("files",
		mcp.Required(),
		mcp.Description("Documents to train on: objects with 'name', 'type' (MIME), and 'content' (text, or base64 for images)."),
	),
)
