// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution for docsight.
//
// This package implements every non-TUI entry point of the docsight client:
// one-shot questions, the line-based chat REPL, document management, status,
// configuration, and diagnostics. All commands share the same streaming
// client as the TUI, so the answer semantics are identical in both modes.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments with global and command-specific flags
//   - JSONResponse: Envelope for machine-readable output (--json)
//
// # Usage
//
// Parse and execute commands:
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    cli.HandleAsk(args)
//	case cli.CmdChat:
//	    cli.HandleChat(args)
//	// ... other commands
//	}
//
// # Commands Overview
//
//   - ask: Ask one question and stream the answer to stdout
//   - chat: Interactive line-based chat session
//   - docs: List, upload, delete, and sync documents
//   - status: Service and registry status display
//   - config: Configuration management
//   - doctor: Health checks and diagnostics
//
// # Output Modes
//
// Human output renders markdown when stdout is a TTY and falls back to raw
// token streaming when piped or with --plain. Every command supports --json
// for scripting; JSON always goes to stdout and status chatter to stderr.
package cli
