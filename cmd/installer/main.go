// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main provides the docsight installer - a guided setup experience.
package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const version = "1.0.0"

func main() {
	// Check for --text flag for copy/paste friendly output
	for _, arg := range os.Args[1:] {
		if arg == "--text" || arg == "-t" || arg == "--simple" {
			runTextInstaller()
			return
		}
		if arg == "--help" || arg == "-h" {
			printHelp()
			return
		}
		if arg == "--version" || arg == "-v" {
			fmt.Printf("docsight installer v%s\n", version)
			return
		}
	}

	// Check if running in a terminal
	if !isTerminal() {
		fmt.Println("The docsight installer requires an interactive terminal.")
		fmt.Println("Run with --text for a simple text-based install.")
		os.Exit(1)
	}

	// Mouse capture disabled to allow terminal text selection/copy
	p := tea.NewProgram(
		NewInstaller(),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running installer: %v\n", err)
		os.Exit(1)
	}
}

// printHelp shows usage information
func printHelp() {
	fmt.Println(`docsight installer v` + version + `

Usage: docsight-installer [OPTIONS]

Options:
  --text, -t     Run in text mode (copy/paste friendly)
  --help, -h     Show this help
  --version, -v  Show version

The default mode is an interactive TUI installer with animations.
Use --text for a simple text-based installer that's easy to copy/paste.`)
}

// isTerminal checks if we're running in an interactive terminal
func isTerminal() bool {
	if runtime.GOOS == "windows" {
		return true // Windows terminal detection is complex, assume yes
	}

	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// =============================================================================
// TEXT MODE INSTALLER (Copy/Paste Friendly)
// =============================================================================

func runTextInstaller() {
	reader := bufio.NewReader(os.Stdin)

	// Header
	fmt.Println()
	fmt.Println("================================================================================")
	fmt.Println("                             DOCSIGHT INSTALLER")
	fmt.Println("                       See what your documents say")
	fmt.Println("================================================================================")
	fmt.Println()

	// Welcome
	fmt.Println("This installer will:")
	fmt.Println("  [1] Check your system requirements")
	fmt.Println("  [2] Find your document-analysis service")
	fmt.Println("  [3] Create your configuration")
	fmt.Println()
	fmt.Print("Press Enter to continue (or 'q' to quit): ")
	input, _ := reader.ReadString('\n')
	if strings.TrimSpace(input) == "q" {
		fmt.Println("Installation cancelled.")
		return
	}

	fmt.Println()
	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Println("                           SYSTEM REQUIREMENTS CHECK")
	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Println()

	// OS Check
	fmt.Printf("  [OK] Operating System: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	// Service Check
	serviceFound := false
	client := &http.Client{Timeout: 3 * time.Second}
	if resp, err := client.Get(defaultServiceURL + "/documents"); err != nil {
		fmt.Printf("  [!!] Analysis Service: No service at %s\n", defaultServiceURL)
		fmt.Println("       -> Start the document-analysis service before asking questions")
	} else {
		resp.Body.Close()
		fmt.Printf("  [OK] Analysis Service: Running at %s\n", defaultServiceURL)
		serviceFound = true
	}

	// Disk Check
	homeDir, _ := os.UserHomeDir()
	if free, err := getFreeDiskSpace(homeDir); err == nil {
		fmt.Printf("  [OK] Disk Space: %d GB free\n", free/(1024*1024*1024))
	} else {
		fmt.Println("  [!!] Disk Space: Could not check")
	}

	fmt.Println()

	// Service Setup guidance
	if !serviceFound {
		fmt.Println("--------------------------------------------------------------------------------")
		fmt.Println("                              SERVICE SETUP")
		fmt.Println("--------------------------------------------------------------------------------")
		fmt.Println()
		fmt.Println("docsight needs a running document-analysis service.")
		fmt.Println()
		fmt.Printf("If you run the service locally, docsight will find it at %s\n", defaultServiceURL)
		fmt.Println("For a shared service, set the endpoint after installation:")
		fmt.Println()
		fmt.Println("    docsight config set service.url <url>")
		fmt.Println()
		fmt.Print("Press Enter to continue: ")
		reader.ReadString('\n')
		fmt.Println()
	}

	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Println("                            CREATING CONFIGURATION")
	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Println()

	configDir := filepath.Join(homeDir, ".docsight")
	configFile := filepath.Join(configDir, "config.toml")

	dirs := []string{
		configDir,
		filepath.Join(configDir, "citations"),
		filepath.Join(configDir, "logs"),
	}
	for _, dir := range dirs {
		os.MkdirAll(dir, 0755)
	}

	fmt.Printf("  [OK] Created directory: %s\n", configDir)

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		inst := NewInstaller()
		os.WriteFile(configFile, []byte(inst.generateConfig()), 0600)
		fmt.Printf("  [OK] Created config: %s\n", configFile)
	} else {
		fmt.Printf("  [!!] Config already exists: %s\n", configFile)
	}

	// Done!
	fmt.Println()
	fmt.Println("================================================================================")
	fmt.Println("                         INSTALLATION COMPLETE!")
	fmt.Println("================================================================================")
	fmt.Println()
	fmt.Println("What you got:")
	fmt.Println("  * Live answers         - Streamed token by token")
	fmt.Println("  * Page citations       - Every claim links to a page")
	fmt.Println("  * Image export         - Save cited pages to disk")
	fmt.Println("  * 30fps streaming      - Buttery smooth UI")
	fmt.Println("  * Offline registry     - Document list without net")
	fmt.Println()
	fmt.Println("To start docsight, run:")
	fmt.Println()
	fmt.Println("    docsight")
	fmt.Println()
	fmt.Println("Quick tips:")
	fmt.Println("    docsight ask \"...\"       - One-shot question")
	fmt.Println("    docsight docs upload f    - Upload a document")
	fmt.Println("    Ctrl+S                    - Save citation images")
	fmt.Println()
	fmt.Print("Press Enter to exit (or 'l' to launch docsight now): ")
	input, _ = reader.ReadString('\n')
	if strings.TrimSpace(input) == "l" {
		fmt.Println("\nLaunching docsight...")
		launchDocsightText()
	}
	fmt.Println()
	fmt.Println("Happy reading!")
}

// launchDocsightText launches docsight from text mode
func launchDocsightText() {
	homeDir, _ := os.UserHomeDir()
	binPath := filepath.Join(homeDir, ".local", "bin", "docsight")
	if runtime.GOOS == "windows" {
		binPath += ".exe"
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		if _, err := exec.LookPath("wt"); err == nil {
			cmd = exec.Command("wt", "new-tab", "--title", "docsight", binPath)
		} else {
			cmd = exec.Command("cmd", "/C", "start", "docsight", "cmd", "/K", binPath)
		}
	case "darwin":
		script := fmt.Sprintf(`tell application "Terminal"
			activate
			do script "%s"
		end tell`, binPath)
		cmd = exec.Command("osascript", "-e", script)
	default:
		terminals := []string{"gnome-terminal", "konsole", "xfce4-terminal", "xterm"}
		for _, term := range terminals {
			if _, err := exec.LookPath(term); err == nil {
				cmd = exec.Command(term, "-e", binPath)
				break
			}
		}
	}

	if cmd != nil {
		_ = cmd.Start()
	}
}
