package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/strategist/internal/config"
	"github.com/hpungsan/strategist/internal/errors"
	"github.com/hpungsan/strategist/internal/ops"
	"github.com/hpungsan/strategist/internal/project"
	"github.com/hpungsan/strategist/internal/storage"
	"github.com/hpungsan/strategist/internal/vault"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(st storage.Store, repo vault.Repository, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "strategist",
		Usage:   "Marketing project store",
		Version: Version,
		Commands: []*cli.Command{
			newCmd(st, repo),
			saveCmd(st),
			openCmd(st, repo),
			showCmd(st),
			listCmd(st),
			deleteCmd(st),
			sessionCmd(st),
			exportCmd(st, repo, cfg),
			importCmd(st, repo, cfg),
			vaultCmd(repo),
			apikeyCmd(st),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// newCmd creates the new command.
func newCmd(st storage.Store, repo vault.Repository) *cli.Command {
	return &cli.Command{
		Name:  "new",
		Usage: "Start a fresh unsaved project (replaces the session slot)",
		Action: func(c *cli.Context) error {
			snap := ops.NewProject(repo)
			// Best-effort: the fresh state becomes the working session, but
			// a failed write must not block starting over.
			if err := ops.WriteSession(st, snap); err != nil {
				fmt.Fprintf(os.Stderr, "warning: session init: %v\n", err)
			}
			return outputJSON(snap)
		},
	}
}

// showCmd creates the show command.
func showCmd(st storage.Store) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print the raw stored record for a project (no defaults, no vault refresh)",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			snap := ops.Load(st, c.Args().First())
			if snap == nil {
				return outputError(errors.NewNotFound(c.Args().First()))
			}
			return outputJSON(snap)
		},
	}
}

// saveCmd creates the save command.
func saveCmd(st storage.Store) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Save a project snapshot (reads snapshot JSON from stdin)",
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("snapshot JSON must be piped via stdin"))
			}
			data, err := readStdin()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			var snap project.Snapshot
			if err := json.Unmarshal([]byte(data), &snap); err != nil {
				return outputError(errors.NewMalformedInput(fmt.Sprintf("invalid snapshot JSON: %v", err)))
			}

			saved, err := ops.Save(st, &snap)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(saved)
		},
	}
}

// openCmd creates the open command.
func openCmd(st storage.Store, repo vault.Repository) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Load a project by ID with defaults and a fresh vault context",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			snap, err := ops.Open(st, repo, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(snap)
		},
	}
}

// listCmd creates the list command.
func listCmd(st storage.Store) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List saved projects",
		Action: func(c *cli.Context) error {
			return outputJSON(map[string]any{"projects": ops.List(st)})
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(st storage.Store) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a project record and its index entry",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if err := ops.Delete(st, id); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"deleted": id})
		},
	}
}

// sessionCmd creates the session command.
func sessionCmd(st storage.Store) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Show the autosaved session snapshot",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "clear", Usage: "Clear the session slot instead of printing it"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("clear") {
				if err := ops.ClearSession(st); err != nil {
					return outputError(err)
				}
				return outputJSON(map[string]any{"cleared": true})
			}
			snap := ops.ReadSession(st)
			if snap == nil {
				return outputJSON(map[string]any{"session": nil})
			}
			return outputJSON(map[string]any{"session": snap})
		},
	}
}

// exportCmd creates the export command.
func exportCmd(st storage.Store, repo vault.Repository, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a project to a JSON file",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Target path (.json, in an allowed directory)"},
		},
		Action: func(c *cli.Context) error {
			snap, err := ops.Open(st, repo, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			out, err := ops.ExportToFile(snap, c.String("path"), cfg)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

// importCmd creates the import command.
func importCmd(st storage.Store, repo vault.Repository, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import a project from an exported JSON file",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			snap, err := ops.ImportFromFile(st, repo, c.Args().First(), cfg)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(snap)
		},
	}
}

// vaultCmd creates the vault command group.
func vaultCmd(repo vault.Repository) *cli.Command {
	return &cli.Command{
		Name:  "vault",
		Usage: "Manage the global knowledge vault",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List vault files with their training status",
				Action: func(c *cli.Context) error {
					files, err := repo.Files()
					if err != nil {
						return outputError(err)
					}
					type entry struct {
						ID           string       `json:"id"`
						Name         string       `json:"name"`
						Type         string       `json:"type"`
						Size         int64        `json:"size"`
						Status       vault.Status `json:"status"`
						LastModified int64        `json:"lastModified"`
					}
					entries := make([]entry, 0, len(files))
					for _, f := range files {
						entries = append(entries, entry{f.ID, f.Name, f.Type, f.Size, f.Status, f.LastModified})
					}
					return outputJSON(map[string]any{"files": entries})
				},
			},
			{
				Name:      "add",
				Usage:     "Add a document to the vault as pending (train to learn it)",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if path == "" {
						return outputError(errors.NewInvalidRequest("file path is required"))
					}
					data, err := os.ReadFile(path)
					if err != nil {
						return outputError(errors.NewInvalidRequest(fmt.Sprintf("cannot read %s: %v", path, err)))
					}

					files, err := repo.Files()
					if err != nil {
						return outputError(err)
					}
					mimeType := mime.TypeByExtension(filepath.Ext(path))
					if mimeType == "" {
						mimeType = "text/plain"
					}
					f := vault.NewFile(filepath.Base(path), mimeType, string(data), time.Now())
					if err := repo.SetFiles(append(files, f)); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"added": f.Name, "id": f.ID, "status": f.Status})
				},
			},
			{
				Name:  "train",
				Usage: "Mark all vault files learned and rebuild the derived context",
				Action: func(c *cli.Context) error {
					files, err := repo.Files()
					if err != nil {
						return outputError(err)
					}
					trained, context, err := repo.Train(files)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{
						"trained":       len(trained),
						"context_chars": len(context),
					})
				},
			},
		},
	}
}

// apikeyCmd creates the apikey command group.
func apikeyCmd(st storage.Store) *cli.Command {
	return &cli.Command{
		Name:  "apikey",
		Usage: "Manage the stored Gemini API key",
		Subcommands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Show whether a key is stored",
				Action: func(c *cli.Context) error {
					key, ok, err := ops.GetAPIKey(st)
					if err != nil {
						return outputError(err)
					}
					if !ok {
						return outputJSON(map[string]any{"set": false})
					}
					// Never echo the full credential.
					return outputJSON(map[string]any{"set": true, "suffix": keySuffix(key)})
				},
			},
			{
				Name:      "set",
				Usage:     "Store the API key (pass as argument or pipe via stdin)",
				ArgsUsage: "[key]",
				Action: func(c *cli.Context) error {
					key := c.Args().First()
					if key == "" && stdinHasData() {
						var err error
						key, err = readStdin()
						if err != nil {
							return outputError(errors.NewInternal(err))
						}
					}
					if err := ops.SetAPIKey(st, key); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"set": true})
				},
			},
			{
				Name:  "clear",
				Usage: "Remove the stored API key",
				Action: func(c *cli.Context) error {
					if err := ops.ClearAPIKey(st); err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"cleared": true})
				},
			},
		},
	}
}

// keySuffix returns the last few characters of a credential for display.
func keySuffix(key string) string {
	const show = 4
	if len(key) <= show {
		return strings.Repeat("*", len(key))
	}
	return "..." + key[len(key)-show:]
}

// outputJSON writes indented JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := err.(*errors.StudioError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
