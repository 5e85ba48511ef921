// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	// Colors
	brandPrimary   = lipgloss.Color("#7C3AED") // Purple
	brandSecondary = lipgloss.Color("#06B6D4") // Cyan
	brandAccent    = lipgloss.Color("#10B981") // Emerald
	brandWarning   = lipgloss.Color("#F59E0B") // Amber
	brandError     = lipgloss.Color("#EF4444") // Red
	textMuted      = lipgloss.Color("#6B7280") // Gray

	// Styles
	titleStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(textMuted).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(brandAccent).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(brandError).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(brandWarning)

	dimStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(brandSecondary).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(brandAccent).
			Bold(true)

	unselectedStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brandPrimary).
			Padding(1, 2).
			Width(60)
)

const logo = `
     _                _       _     _
  __| | ___   ___ ___(_) __ _| |__ | |_
 / _' |/ _ \ / __/ __| |/ _' | '_ \| __|
| (_| | (_) | (__\__ \ | (_| | | | | |_
 \__,_|\___/ \___|___/_|\__, |_| |_|\__|
                        |___/
`

const tagline = "See what your documents say."

// =============================================================================
// INSTALLER MODEL
// =============================================================================

// Phase represents the current installation phase
type Phase int

const (
	PhaseWelcome Phase = iota
	PhaseSystemCheck
	PhaseServiceSetup
	PhaseEndpointSelect
	PhaseConfigSetup
	PhaseComplete
)

// CheckResult represents a system check result
type CheckResult struct {
	Name    string
	Status  string // "pass", "fail", "warn", "checking"
	Message string
	Fix     string
}

// Installer is the main installer model
type Installer struct {
	phase            Phase
	width            int
	height           int
	spinner          spinner.Model
	progress         progress.Model
	checks           []CheckResult
	currentCheck     int
	serviceFound     bool
	endpointSelected int
	endpoints        []string
	configPath       string
	installPath      string
	error            string

	// Animation state
	typingText   string
	typingTarget string
	typingIndex  int

	// Completion screen
	launchSelected bool // true = "Launch docsight now", false = "Close"
}

// defaultServiceURL is probed during the system check and offered first
// in the endpoint list.
const defaultServiceURL = "http://localhost:8000"

// NewInstaller creates a new installer instance
func NewInstaller() *Installer {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(brandPrimary)

	p := progress.New(progress.WithDefaultGradient())

	homeDir, _ := os.UserHomeDir()

	return &Installer{
		phase:    PhaseWelcome,
		spinner:  s,
		progress: p,
		checks: []CheckResult{
			{Name: "Operating System", Status: "checking"},
			{Name: "Terminal", Status: "checking"},
			{Name: "Analysis Service", Status: "checking"},
			{Name: "Network Access", Status: "checking"},
			{Name: "Disk Space", Status: "checking"},
		},
		endpoints: []string{
			defaultServiceURL + " (local service)",
			"http://127.0.0.1:8000 (local, IPv4 only)",
			"Configure later with: docsight config set service.url <url>",
		},
		configPath:     filepath.Join(homeDir, ".docsight"),
		installPath:    filepath.Join(homeDir, ".local", "bin"),
		launchSelected: true,
	}
}

// Init initializes the installer
func (i *Installer) Init() tea.Cmd {
	return tea.Batch(
		i.spinner.Tick,
		i.typeWriter(logo, 5*time.Millisecond),
	)
}

// =============================================================================
// UPDATE
// =============================================================================

// typeWriterMsg updates the typing animation
type typeWriterMsg struct {
	target string
	index  int
}

// checkCompleteMsg signals a check is complete
type checkCompleteMsg struct {
	index  int
	result CheckResult
}

// installCompleteMsg signals installation is complete
type installCompleteMsg struct {
	success bool
	error   string
}

// Update handles messages
func (i *Installer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return i.handleKey(msg)

	case tea.WindowSizeMsg:
		i.width = msg.Width
		i.height = msg.Height
		// Clamp progress bar width to a reasonable range
		progressWidth := msg.Width - 20
		if progressWidth < 20 {
			progressWidth = 20
		}
		if progressWidth > 100 {
			progressWidth = 100
		}
		i.progress.Width = progressWidth

		boxWidth := msg.Width - 16
		if boxWidth < 40 {
			boxWidth = 40
		}
		if boxWidth > 70 {
			boxWidth = 70
		}
		boxStyle = boxStyle.Width(boxWidth)

		return i, i.spinner.Tick

	case spinner.TickMsg:
		var cmd tea.Cmd
		i.spinner, cmd = i.spinner.Update(msg)
		return i, cmd

	case progress.FrameMsg:
		var cmd tea.Cmd
		progressModel, cmd := i.progress.Update(msg)
		i.progress = progressModel.(progress.Model)
		return i, cmd

	case typeWriterMsg:
		if msg.target == i.typingTarget && msg.index <= len(msg.target) {
			i.typingText = msg.target[:msg.index]
			i.typingIndex = msg.index
			if msg.index < len(msg.target) {
				return i, i.typeWriterTick(msg.target, msg.index+1, 5*time.Millisecond)
			}
		}
		return i, nil

	case checkCompleteMsg:
		i.checks[msg.index] = msg.result
		i.currentCheck++
		if i.currentCheck < len(i.checks) {
			return i, i.runCheck(i.currentCheck)
		}
		// All checks complete
		i.serviceFound = i.checks[2].Status == "pass"
		return i, nil

	case installCompleteMsg:
		if msg.success {
			i.phase = PhaseComplete
		} else {
			i.error = msg.error
		}
		return i, nil
	}

	return i, nil
}

// handleKey processes key presses
func (i *Installer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return i, tea.Quit

	case "enter", " ":
		return i.handleSelect()

	case "up", "k":
		if i.phase == PhaseEndpointSelect && i.endpointSelected > 0 {
			i.endpointSelected--
		}
		if i.phase == PhaseComplete {
			i.launchSelected = true
		}
		return i, nil

	case "down", "j":
		if i.phase == PhaseEndpointSelect && i.endpointSelected < len(i.endpoints)-1 {
			i.endpointSelected++
		}
		if i.phase == PhaseComplete {
			i.launchSelected = false
		}
		return i, nil

	case "tab":
		if i.phase == PhaseComplete {
			i.launchSelected = !i.launchSelected
		}
		return i, nil
	}

	return i, nil
}

// handleSelect processes selection/enter
func (i *Installer) handleSelect() (tea.Model, tea.Cmd) {
	switch i.phase {
	case PhaseWelcome:
		i.phase = PhaseSystemCheck
		return i, i.runCheck(0)

	case PhaseSystemCheck:
		if i.currentCheck >= len(i.checks) {
			if i.serviceFound {
				i.phase = PhaseEndpointSelect
			} else {
				i.phase = PhaseServiceSetup
			}
		}
		return i, nil

	case PhaseServiceSetup:
		i.phase = PhaseEndpointSelect
		return i, nil

	case PhaseEndpointSelect:
		i.phase = PhaseConfigSetup
		return i, i.runInstall()

	case PhaseConfigSetup:
		// Wait for install to complete
		return i, nil

	case PhaseComplete:
		if i.launchSelected {
			return i, i.launchDocsight()
		}
		return i, tea.Quit
	}

	return i, nil
}

// =============================================================================
// COMMANDS
// =============================================================================

// typeWriter starts a typing animation
func (i *Installer) typeWriter(text string, delay time.Duration) tea.Cmd {
	i.typingTarget = text
	i.typingIndex = 0
	i.typingText = ""
	return i.typeWriterTick(text, 1, delay)
}

// typeWriterTick sends the next typewriter tick
func (i *Installer) typeWriterTick(target string, index int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return typeWriterMsg{target: target, index: index}
	})
}

// runCheck runs a system check
func (i *Installer) runCheck(index int) tea.Cmd {
	return func() tea.Msg {
		result := i.checks[index]
		result.Status = "checking"

		switch index {
		case 0:
			result = i.checkOS()
		case 1:
			result = i.checkTerminal()
		case 2:
			result = i.checkService()
		case 3:
			result = i.checkNetwork()
		case 4:
			result = i.checkDisk()
		}

		time.Sleep(300 * time.Millisecond) // Pace the reveal for readability
		return checkCompleteMsg{index: index, result: result}
	}
}

// System checks
func (i *Installer) checkOS() CheckResult {
	os := runtime.GOOS
	arch := runtime.GOARCH
	return CheckResult{
		Name:    "Operating System",
		Status:  "pass",
		Message: fmt.Sprintf("%s/%s", os, arch),
	}
}

func (i *Installer) checkTerminal() CheckResult {
	term := os.Getenv("TERM")
	if term == "" || term == "dumb" {
		return CheckResult{
			Name:    "Terminal",
			Status:  "warn",
			Message: "No color support detected",
			Fix:     "Use a modern terminal emulator for the full interface",
		}
	}
	return CheckResult{
		Name:    "Terminal",
		Status:  "pass",
		Message: term,
	}
}

func (i *Installer) checkService() CheckResult {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(defaultServiceURL + "/documents")
	if err != nil {
		return CheckResult{
			Name:    "Analysis Service",
			Status:  "fail",
			Message: "No service at " + defaultServiceURL,
			Fix:     "Start the document-analysis service, or point docsight at a remote one",
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CheckResult{
			Name:    "Analysis Service",
			Status:  "warn",
			Message: fmt.Sprintf("Service answered HTTP %d", resp.StatusCode),
		}
	}

	var listing struct {
		Documents []json.RawMessage `json:"documents"`
	}
	json.NewDecoder(resp.Body).Decode(&listing)
	return CheckResult{
		Name:    "Analysis Service",
		Status:  "pass",
		Message: fmt.Sprintf("Running with %d documents", len(listing.Documents)),
	}
}

func (i *Installer) checkNetwork() CheckResult {
	// Needed only for downloading the binary from GitHub releases
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Head("https://api.github.com")
	if err != nil {
		return CheckResult{
			Name:    "Network Access",
			Status:  "warn",
			Message: "Limited connectivity (binary download unavailable)",
		}
	}
	resp.Body.Close()
	return CheckResult{
		Name:    "Network Access",
		Status:  "pass",
		Message: "Connected",
	}
}

func (i *Installer) checkDisk() CheckResult {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return CheckResult{
			Name:    "Disk Space",
			Status:  "warn",
			Message: "Could not determine home directory",
		}
	}

	free, err := getFreeDiskSpace(homeDir)
	if err != nil {
		return CheckResult{
			Name:    "Disk Space",
			Status:  "warn",
			Message: "Could not check free space",
		}
	}

	// Citation image exports are the main disk consumer; 100 MB is plenty.
	const required = 100 * 1024 * 1024
	if free < required {
		return CheckResult{
			Name:    "Disk Space",
			Status:  "warn",
			Message: fmt.Sprintf("Only %d MB free", free/(1024*1024)),
			Fix:     "Free some space before exporting citation images",
		}
	}
	return CheckResult{
		Name:    "Disk Space",
		Status:  "pass",
		Message: fmt.Sprintf("%d GB free", free/(1024*1024*1024)),
	}
}

// =============================================================================
// DOCSIGHT BINARY DOWNLOAD
// =============================================================================

// GitHubRelease represents a GitHub release response
type GitHubRelease struct {
	TagName string        `json:"tag_name"`
	Assets  []GitHubAsset `json:"assets"`
}

// GitHubAsset represents a release asset
type GitHubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// checkDocsightBinary checks if the docsight binary exists
func (i *Installer) checkDocsightBinary() bool {
	binPath := filepath.Join(i.installPath, "docsight")
	if runtime.GOOS == "windows" {
		binPath += ".exe"
	}
	_, err := os.Stat(binPath)
	return err == nil
}

// downloadDocsightBinary downloads the docsight binary from GitHub releases
func (i *Installer) downloadDocsightBinary() error {
	const repoOwner = "jeranaias"
	const repoName = "docsight-tui"

	goos := runtime.GOOS
	goarch := runtime.GOARCH

	// Map Go architecture names to common release names
	archName := goarch
	switch goarch {
	case "amd64":
		archName = "x86_64"
	case "arm64":
		archName = "arm64"
	case "386":
		archName = "i386"
	}

	osName := goos
	switch goos {
	case "darwin":
		osName = "Darwin"
	case "linux":
		osName = "Linux"
	case "windows":
		osName = "Windows"
	}

	releaseURL := fmt.Sprintf("https://api.github.com/repos/%s/%s/releases/latest", repoOwner, repoName)
	resp, err := http.Get(releaseURL)
	if err != nil {
		return fmt.Errorf("failed to fetch release info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch release info: HTTP %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return fmt.Errorf("failed to parse release info: %w", err)
	}

	// Find the asset for this platform, e.g. docsight_Linux_x86_64.tar.gz
	var assetURL string
	var assetName string
	for _, asset := range release.Assets {
		if strings.Contains(asset.Name, osName) && strings.Contains(asset.Name, archName) {
			assetURL = asset.BrowserDownloadURL
			assetName = asset.Name
			break
		}
	}

	if assetURL == "" {
		return fmt.Errorf("no release found for %s/%s", osName, archName)
	}

	assetResp, err := http.Get(assetURL)
	if err != nil {
		return fmt.Errorf("failed to download binary: %w", err)
	}
	defer assetResp.Body.Close()

	if assetResp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download binary: HTTP %d", assetResp.StatusCode)
	}

	tmpFile, err := os.CreateTemp("", "docsight-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmpFile, assetResp.Body); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to save download: %w", err)
	}
	tmpFile.Close()

	if err := os.MkdirAll(i.installPath, 0755); err != nil {
		return fmt.Errorf("failed to create install directory: %w", err)
	}

	if strings.HasSuffix(assetName, ".zip") {
		if err := extractZip(tmpPath, i.installPath); err != nil {
			return fmt.Errorf("failed to extract zip: %w", err)
		}
	} else if strings.HasSuffix(assetName, ".tar.gz") || strings.HasSuffix(assetName, ".tgz") {
		if err := extractTarGz(tmpPath, i.installPath); err != nil {
			return fmt.Errorf("failed to extract tar.gz: %w", err)
		}
	} else {
		// Direct binary - just copy it
		binPath := filepath.Join(i.installPath, "docsight")
		if runtime.GOOS == "windows" {
			binPath += ".exe"
		}
		if err := copyFile(tmpPath, binPath); err != nil {
			return fmt.Errorf("failed to copy binary: %w", err)
		}
		os.Chmod(binPath, 0755)
	}

	return nil
}

// extractZip extracts the docsight binary from a zip archive
func extractZip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := filepath.Base(f.Name)
		if name != "docsight" && name != "docsight.exe" {
			continue
		}

		destPath := filepath.Join(dest, name)

		rc, err := f.Open()
		if err != nil {
			return err
		}

		outFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
		if err != nil {
			rc.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

// extractTarGz extracts the docsight binary from a tar.gz archive
func extractTarGz(src, dest string) error {
	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	gzr, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		name := filepath.Base(header.Name)
		if name != "docsight" && name != "docsight.exe" {
			continue
		}

		destPath := filepath.Join(dest, name)

		outFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
		if err != nil {
			return err
		}

		if _, err := io.Copy(outFile, tr); err != nil {
			outFile.Close()
			return err
		}
		outFile.Close()
	}

	return nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	return err
}

// runInstall performs the actual installation
func (i *Installer) runInstall() tea.Cmd {
	return func() tea.Msg {
		// Download the docsight binary if not present. Non-fatal: the
		// user can build from source or download manually.
		if !i.checkDocsightBinary() {
			_ = i.downloadDocsightBinary()
		}

		// Create config directory
		if err := os.MkdirAll(i.configPath, 0755); err != nil {
			return installCompleteMsg{success: false, error: err.Error()}
		}

		// Create default config
		configFile := filepath.Join(i.configPath, "config.toml")
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			config := i.generateConfig()
			if err := os.WriteFile(configFile, []byte(config), 0600); err != nil {
				return installCompleteMsg{success: false, error: err.Error()}
			}
		}

		// Create data directories
		dirs := []string{
			filepath.Join(i.configPath, "citations"),
			filepath.Join(i.configPath, "logs"),
		}
		for _, dir := range dirs {
			os.MkdirAll(dir, 0755)
		}

		time.Sleep(500 * time.Millisecond) // Visual feedback
		return installCompleteMsg{success: true}
	}
}

// generateConfig creates the default configuration
func (i *Installer) generateConfig() string {
	serviceURL := defaultServiceURL
	if i.endpointSelected == 1 {
		serviceURL = "http://127.0.0.1:8000"
	}

	return fmt.Sprintf(`# docsight Configuration
# Generated by the docsight installer

[service]
# Document-analysis service endpoint
url = "%s"

# Timeout for non-streaming requests, in seconds
request_timeout_secs = 30

[query]
# Fail streams on unrecognized event types instead of skipping them
strict_events = false

[store]
# Keep a local registry of uploaded documents for offline listings
enabled = true

[ui]
# Theme (dark/light)
theme = "dark"

# Show the service's progress updates while a question is analyzed
show_status = true

# Show the service's reasoning commentary above streaming answers
show_reasoning = true

# Where exported citation page images are written
citation_dir = "%s"

[logging]
# Write stream-level debug logs
debug = false
`, serviceURL, filepath.ToSlash(filepath.Join(i.configPath, "citations")))
}

// launchDocsight opens a terminal and runs docsight
func (i *Installer) launchDocsight() tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd

		binPath := filepath.Join(i.installPath, "docsight")
		if runtime.GOOS == "windows" {
			binPath += ".exe"
		}

		switch runtime.GOOS {
		case "windows":
			// Try Windows Terminal first (wt), fallback to cmd
			if _, err := exec.LookPath("wt"); err == nil {
				cmd = exec.Command("wt", "new-tab", "--title", "docsight", binPath)
			} else {
				cmd = exec.Command("cmd", "/C", "start", "docsight", "cmd", "/K", binPath)
			}

		case "darwin":
			script := fmt.Sprintf(`
				tell application "Terminal"
					activate
					do script "%s"
				end tell
			`, binPath)
			cmd = exec.Command("osascript", "-e", script)

		default:
			// Linux: Try common terminal emulators
			terminals := []struct {
				name string
				args []string
			}{
				{"gnome-terminal", []string{"--", binPath}},
				{"konsole", []string{"-e", binPath}},
				{"xfce4-terminal", []string{"-e", binPath}},
				{"xterm", []string{"-e", binPath}},
				{"alacritty", []string{"-e", binPath}},
				{"kitty", []string{binPath}},
			}

			for _, term := range terminals {
				if _, err := exec.LookPath(term.name); err == nil {
					cmd = exec.Command(term.name, term.args...)
					break
				}
			}

			if cmd == nil {
				cmd = exec.Command(binPath)
			}
		}

		_ = cmd.Start()

		return tea.Quit()
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the installer
func (i *Installer) View() string {
	switch i.phase {
	case PhaseWelcome:
		return i.viewWelcome()
	case PhaseSystemCheck:
		return i.viewSystemCheck()
	case PhaseServiceSetup:
		return i.viewServiceSetup()
	case PhaseEndpointSelect:
		return i.viewEndpointSelect()
	case PhaseConfigSetup:
		return i.viewConfigSetup()
	case PhaseComplete:
		return i.viewComplete()
	}
	return ""
}

func (i *Installer) viewWelcome() string {
	var s strings.Builder

	// Logo with typing effect
	logoStyle := lipgloss.NewStyle().Foreground(brandPrimary).Bold(true)
	if i.typingTarget == logo {
		s.WriteString(logoStyle.Render(i.typingText))
	} else {
		s.WriteString(logoStyle.Render(logo))
	}

	s.WriteString("\n")
	s.WriteString(subtitleStyle.Render("    " + tagline))
	s.WriteString("\n\n")

	s.WriteString(dimStyle.Render(fmt.Sprintf("    Version %s", version)))
	s.WriteString("\n\n")

	welcomeText := `
Welcome to the docsight installer!

This installer will:

  * Check your system requirements
  * Find your document-analysis service
  * Create your configuration
  * Install the docsight binary

`
	s.WriteString(boxStyle.Render(welcomeText))
	s.WriteString("\n\n")

	s.WriteString(highlightStyle.Render("  Press ENTER to begin"))
	s.WriteString(dimStyle.Render("  |  Press Q to quit"))

	return i.center(s.String())
}

func (i *Installer) viewSystemCheck() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("  System Requirements Check"))
	s.WriteString("\n\n")

	for idx, check := range i.checks {
		var icon, status string
		var style lipgloss.Style

		switch check.Status {
		case "checking":
			if idx == i.currentCheck {
				icon = i.spinner.View()
			} else {
				icon = "[ ]"
			}
			status = "Checking..."
			style = dimStyle
		case "pass":
			icon = "[OK]"
			status = check.Message
			style = successStyle
		case "fail":
			icon = "[FAIL]"
			status = check.Message
			style = errorStyle
		case "warn":
			icon = "[!!]"
			status = check.Message
			style = warningStyle
		}

		s.WriteString(fmt.Sprintf("  %s %s", style.Render(icon), check.Name))
		s.WriteString(dimStyle.Render(fmt.Sprintf(" - %s", status)))
		s.WriteString("\n")

		if check.Fix != "" {
			s.WriteString(dimStyle.Render(fmt.Sprintf("      -> %s", check.Fix)))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")

	if i.currentCheck >= len(i.checks) {
		allPass := true
		for _, check := range i.checks {
			if check.Status == "fail" {
				allPass = false
				break
			}
		}

		if allPass {
			s.WriteString(successStyle.Render("  All checks passed!"))
			s.WriteString("\n\n")
			s.WriteString(highlightStyle.Render("  Press ENTER to continue"))
		} else {
			s.WriteString(warningStyle.Render("  Some checks need attention"))
			s.WriteString("\n\n")
			s.WriteString(highlightStyle.Render("  Press ENTER to continue anyway"))
		}
	}

	return i.center(s.String())
}

func (i *Installer) viewServiceSetup() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("  Analysis Service Not Found"))
	s.WriteString("\n\n")

	content := `
docsight needs a running document-analysis service.

If you run the service locally, start it and docsight
will find it at:

  ` + highlightStyle.Render(defaultServiceURL) + `

If your team hosts a shared service, you can point
docsight at it after installation:

  ` + highlightStyle.Render("docsight config set service.url <url>") + `

Then press ENTER to continue.
`

	s.WriteString(boxStyle.Render(content))
	s.WriteString("\n\n")
	s.WriteString(highlightStyle.Render("  Press ENTER to continue"))

	return i.center(s.String())
}

func (i *Installer) viewEndpointSelect() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Choose Your Service Endpoint"))
	s.WriteString("\n\n")

	s.WriteString(dimStyle.Render("Where does the analysis service run?"))
	s.WriteString("\n\n")

	for idx, endpoint := range i.endpoints {
		cursor := "  "
		style := unselectedStyle
		if idx == i.endpointSelected {
			cursor = "> "
			style = selectedStyle
		}
		s.WriteString(style.Render(fmt.Sprintf("  %s%s", cursor, endpoint)))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(dimStyle.Render("Use ↑/↓ to select, ENTER to confirm"))

	return i.center(s.String())
}

func (i *Installer) viewConfigSetup() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("  Setting Up docsight"))
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("  %s Creating configuration...\n", i.spinner.View()))
	s.WriteString(dimStyle.Render(fmt.Sprintf("     %s/config.toml\n\n", i.configPath)))

	if !i.checkDocsightBinary() {
		s.WriteString(fmt.Sprintf("  %s Downloading docsight binary...\n", i.spinner.View()))
		s.WriteString(dimStyle.Render("     From the latest GitHub release\n"))
	}

	if i.error != "" {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("  " + i.error))
	}

	return i.center(s.String())
}

func (i *Installer) viewComplete() string {
	var s strings.Builder

	successArt := `
    +------------------------------------------+
    |                                          |
    |      *** Installation Complete! ***      |
    |                                          |
    +------------------------------------------+
`
	s.WriteString(successStyle.Render(successArt))
	s.WriteString("\n")

	highlights := `
  +-----------------------------------------------------+
  |  What you just got:                                 |
  |                                                     |
  |  * Live answers         Streamed token by token     |
  |  * Page citations       Every claim links to a page |
  |  * Image export         Save cited pages to disk    |
  |  * 30fps streaming      Buttery smooth UI           |
  |  * Offline registry     Document list without net   |
  +-----------------------------------------------------+
`
	s.WriteString(dimStyle.Render(highlights))
	s.WriteString("\n")

	// Two options with selection indicator
	s.WriteString("  Choose your next step:\n\n")

	launch := "  Launch docsight now"
	if i.launchSelected {
		s.WriteString(selectedStyle.Render("  > " + launch))
		s.WriteString(highlightStyle.Render("  <- Opens a new terminal with docsight"))
	} else {
		s.WriteString(unselectedStyle.Render("    " + launch))
	}
	s.WriteString("\n\n")

	closeText := "  Close installer"
	if !i.launchSelected {
		s.WriteString(selectedStyle.Render("  > " + closeText))
		s.WriteString(dimStyle.Render("  <- You can run 'docsight' anytime"))
	} else {
		s.WriteString(unselectedStyle.Render("    " + closeText))
	}
	s.WriteString("\n\n")

	s.WriteString(dimStyle.Render("  Up/Down or Tab to select  |  Enter to confirm"))
	s.WriteString("\n\n")

	s.WriteString(dimStyle.Render(fmt.Sprintf("  Config: %s", filepath.Join(i.configPath, "config.toml"))))

	return i.center(s.String())
}

// center centers content on screen
func (i *Installer) center(content string) string {
	if i.width == 0 || i.height == 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	height := len(lines)

	topPadding := (i.height - height) / 3
	if topPadding < 0 {
		topPadding = 0
	}

	var s strings.Builder
	for j := 0; j < topPadding; j++ {
		s.WriteString("\n")
	}
	s.WriteString(content)

	return s.String()
}
