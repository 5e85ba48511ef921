// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package main provides the docsight interactive installer - a guided setup
experience for new users.

# Overview

The installer is a terminal-based TUI application built with Bubble Tea that
guides users through the docsight setup process. It provides both an
interactive TUI mode and a text-based mode for copy/paste friendly
installation.

# Features

  - System requirements checking (OS, terminal, service, network, disk space)
  - Document-analysis service detection and setup guidance
  - Service endpoint selection
  - Configuration file generation (~/.docsight/config.toml)
  - Binary download from GitHub releases

# Building

Build the installer binary:

	go build -o docsight-installer ./cmd/installer

Or build with version information:

	go build -ldflags "-X main.version=1.0.0" -o docsight-installer ./cmd/installer

# Command Line Options

	--text, -t     Run in text mode (copy/paste friendly, no TUI)
	--help, -h     Show help information
	--version, -v  Show version number

# Files Created

The installer creates the following directory structure:

	~/.docsight/
	    config.toml      # Main configuration file
	    citations/       # Exported citation page images
	    logs/            # Application logs

	~/.local/bin/
	    docsight         # Main docsight binary (or docsight.exe on Windows)

# Architecture

The installer consists of three main components:

  - main.go: Entry point, CLI argument parsing, text mode implementation
  - installer.go: TUI installer model with phases (welcome, checks, setup, complete)
  - welcome.go: First-run welcome screen with interactive tutorial tips

The TUI uses a phase-based state machine:

  - PhaseWelcome: Introduction and feature overview
  - PhaseSystemCheck: Verifies system requirements
  - PhaseServiceSetup: Guides service setup if none was found
  - PhaseEndpointSelect: Service endpoint selection
  - PhaseConfigSetup: Creates configuration files, downloads the binary
  - PhaseComplete: Success screen with launch option

# Dependencies

  - github.com/charmbracelet/bubbletea - TUI framework
  - github.com/charmbracelet/bubbles - TUI components (spinner, progress)
  - github.com/charmbracelet/lipgloss - Terminal styling
*/
package main
