package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hpungsan/strategist/internal/config"
	"github.com/hpungsan/strategist/internal/mcp"
	"github.com/hpungsan/strategist/internal/storage"
	"github.com/hpungsan/strategist/internal/vault"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"new": true, "save": true, "open": true, "show": true, "list": true, "delete": true,
	"session": true, "export": true, "import": true,
	"vault": true, "apikey": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___ _____ ___    _ _____ ___ ___ ___ ___ _____
  / __|_   _| _ \  /_\_   _| __/ __|_ _/ __|_   _|
  \__ \ | | |   / / _ \| | | _| (_ || |\__ \ | |
  |___/ |_| |_|_\/_/ \_\_| |___\___|___|___/ |_|

  Marketing project store

  Usage: strategist <command> [options]
         strategist --help

  MCP server mode requires piped input.`)
}

func main() {
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// --help/--version need no storage
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".strategist")

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	st, err := storage.Open(baseDir, cfg.StorageQuotaBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()
	st.SetPoolLimits(cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)

	repo := vault.NewRepository(st, cfg.FileContextMaxChars)
	if cfg.SeedKnowledgeDir != "" {
		if _, seeded, err := vault.Bootstrap(repo, cfg.SeedKnowledgeDir, time.Now()); err != nil {
			log.Printf("warning: vault bootstrap: %v", err)
		} else if seeded {
			log.Printf("seeded knowledge vault from %s", cfg.SeedKnowledgeDir)
		}
	}

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log.Printf("warning: unknown disabled tools in config: %v", unknown)
	}

	if isCLIMode() {
		app := newCLIApp(st, repo, cfg)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'strategist --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(st, repo, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
