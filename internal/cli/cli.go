// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for docsight.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdDocuments
	CmdConfig
	CmdStatus
	CmdDoctor
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool // Output in JSON format
	Plain   bool // Disable markdown rendering and colors
	Strict  bool // Treat recoverable stream anomalies as fatal

	// Overrides
	ServiceURL string // --service overrides config service.url

	// Command-specific
	Query      string
	File       string
	ConfigKey  string
	ConfigVal  string
	Subcommand string
	DocIDs     []string // --docs doc1,doc2 restricts the query scope

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `docsight - terminal client for visual document analysis

Docsight asks questions about uploaded documents and streams back
answers grounded in page-image citations.

Usage:
  docsight                     Start the TUI (default)
  docsight ask "question"      Ask a single question
  docsight chat                Interactive question loop
  docsight documents, docs     Document management
  docsight status, s           Show service and registry status
  docsight config [show|get|set|path]  Configuration
  docsight doctor              Run health checks
  docsight version             Show version
  docsight help                Show this help

Document Commands:
  docsight docs list                List documents known to the service
  docsight docs upload <file>       Upload a document for analysis
  docsight docs delete <id>         Delete a document from the service
    --confirm                       Skip the confirmation prompt
  docsight docs sync                Reconcile the local registry

Ask Options:
  docsight ask "question" --docs doc1,doc2   Restrict to specific documents
  docsight ask "question" --save-images DIR  Save citation page images
  docsight ask "question" --json             Structured output

Config Commands:
  docsight config show              Show all settings
  docsight config get <key>         Show one setting (dot notation)
  docsight config set <key> <val>   Change a setting
  docsight config path              Show the config file location
  docsight config keys              List available keys

Global Flags:
  -q, --quiet     Suppress status lines on stderr
  -v, --verbose   Debug output
  --json          Output in JSON format
  --plain         Disable markdown rendering and colors
  --strict        Fail the stream on malformed events
  --service URL   Override the service endpoint

Examples:
  docsight                                  Start the TUI
  docsight ask "What does page 3 claim?"    One-shot question
  docsight ask "Summarize" --docs q3-report Scope to one document
  docsight docs upload ./q3-report.pdf      Upload for analysis
  docsight config set service.url http://analyzer:8000
  docsight doctor                           Check connectivity and config

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("docsight version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsedArgs := parseGlobalFlags(args)

	// No remaining args: default to the TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "documents", "docs", "doc":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdDocuments, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "doctor":
		for _, arg := range remaining {
			if arg == "--fix" {
				parsedArgs.Subcommand = "fix"
			}
		}
		return CmdDoctor, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command: treat the whole line as a question
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		parseAskArgs(&parsedArgs, parsedArgs.Raw)
		if parsedArgs.Query != "" {
			return CmdAsk, parsedArgs
		}
		return CmdTUI, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--plain":
			parsedArgs.Plain = true
		case "--strict":
			parsedArgs.Strict = true
		case "--service":
			if i+1 < len(args) {
				i++
				parsedArgs.ServiceURL = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--service=") {
				parsedArgs.ServiceURL = strings.TrimPrefix(arg, "--service=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "--docs", "-d":
			if i+1 < len(remaining) {
				i++
				args.DocIDs = splitDocIDs(remaining[i])
			}
		case "--save-images":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--docs=") {
				args.DocIDs = splitDocIDs(strings.TrimPrefix(arg, "--docs="))
			} else if strings.HasPrefix(arg, "--save-images=") {
				args.File = strings.TrimPrefix(arg, "--save-images=")
			} else if !strings.HasPrefix(arg, "-") {
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// splitDocIDs parses a comma-separated document ID list.
func splitDocIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) {
	if err := HandleAskCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleChat handles the "chat" command.
func HandleChat(args Args) {
	if err := HandleChatCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		resp := NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		})
		resp.Print()
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
