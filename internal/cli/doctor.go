// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Doctor command implementation for docsight.
//
// Command: doctor [subcommand]
// Short:   Run health checks and diagnostics
//
// Subcommands:
//   (default)           Run all health checks
//   fix                 Run checks and attempt auto-fixes
//
// Health Checks Performed:
//   1. Config Valid       - Configuration file loads and validates
//   2. Service URL        - A service endpoint is configured
//   3. Service Reachable  - The analysis service answers requests
//   4. Registry Writable  - The local document registry opens
//   5. Citation Dir       - Citation images can be written
//
// Exit Codes:
//   0   All checks passed
//   1   One or more checks failed
package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docsight-tui/internal/config"
	"github.com/jeranaias/docsight-tui/internal/docquery"
	"github.com/jeranaias/docsight-tui/internal/docstore"
)

// =============================================================================
// DOCTOR STYLES
// =============================================================================

var (
	doctorTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				MarginBottom(1)

	checkPassStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	checkWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	checkFailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	checkMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	fixStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true).
			PaddingLeft(2)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// =============================================================================
// HEALTH CHECK TYPES
// =============================================================================

// CheckStatus represents the status of a health check.
type CheckStatus int

const (
	// CheckPass indicates the check passed successfully.
	CheckPass CheckStatus = iota
	// CheckWarn indicates the check passed with warnings.
	CheckWarn
	// CheckFail indicates the check failed.
	CheckFail
)

// String returns the status as a lowercase string.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarn:
		return "warn"
	case CheckFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns the styled status symbol for terminal display.
func (s CheckStatus) Symbol() string {
	switch s {
	case CheckPass:
		return checkPassStyle.Render("[OK]")
	case CheckWarn:
		return checkWarnStyle.Render("[WARN]")
	case CheckFail:
		return checkFailStyle.Render("[FAIL]")
	default:
		return "[?]"
	}
}

// HealthCheck is one diagnostic result with an optional fix action.
type HealthCheck struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string       // Human-readable fix suggestion
	fixFunc func() error // Auto-fix, when one is safe to run
}

// Render formats the check for terminal display.
func (c *HealthCheck) Render() string {
	line := fmt.Sprintf("%s %s: %s",
		c.Status.Symbol(),
		checkMsgStyle.Render(c.Name),
		c.Message)
	if c.Fix != "" && c.Status != CheckPass {
		line += "\n" + fixStyle.Render("fix: "+c.Fix)
	}
	return line
}

// =============================================================================
// COMMAND HANDLER
// =============================================================================

// HandleDoctor runs all health checks and reports results.
func HandleDoctor(args Args) error {
	applyFixes := args.Subcommand == "fix"

	checks := runAllChecks()

	if applyFixes {
		for _, check := range checks {
			if check.Status == CheckPass || check.fixFunc == nil {
				continue
			}
			if err := check.fixFunc(); err != nil {
				check.Message += " (fix failed: " + err.Error() + ")"
				continue
			}
			check.Status = CheckPass
			check.Message += " (fixed)"
			check.Fix = ""
		}
	}

	var passed, warned, failed int
	for _, check := range checks {
		switch check.Status {
		case CheckPass:
			passed++
		case CheckWarn:
			warned++
		case CheckFail:
			failed++
		}
	}

	if args.JSON {
		return handleDoctorJSON(checks, passed, warned, failed)
	}

	fmt.Println(doctorTitleStyle.Render("docsight doctor"))
	for _, check := range checks {
		fmt.Println(check.Render())
	}
	fmt.Println()
	fmt.Println(summaryStyle.Render(fmt.Sprintf(
		"%d passed, %d warnings, %d failed", passed, warned, failed)))

	if failed > 0 {
		os.Exit(ExitGeneralError)
	}
	return nil
}

// handleDoctorJSON emits the check results as JSON.
func handleDoctorJSON(checks []*HealthCheck, passed, warned, failed int) error {
	data := DoctorData{
		Summary: DoctorSummary{
			Passed:  passed,
			Warned:  warned,
			Failed:  failed,
			Healthy: failed == 0,
		},
	}
	for _, check := range checks {
		data.Checks = append(data.Checks, DoctorCheck{
			Name:    check.Name,
			Status:  check.Status.String(),
			Message: check.Message,
			Fix:     check.Fix,
		})
	}
	if err := NewJSONResponse("doctor", data).Print(); err != nil {
		return err
	}
	if failed > 0 {
		os.Exit(ExitGeneralError)
	}
	return nil
}

// =============================================================================
// HEALTH CHECKS
// =============================================================================

// runAllChecks executes every health check in order. Later checks reuse
// the config from the first one when it loads.
func runAllChecks() []*HealthCheck {
	configCheck, cfg := checkConfigValid()

	checks := []*HealthCheck{configCheck}
	if cfg == nil {
		cfg = config.Default()
	}
	checks = append(checks,
		checkServiceURL(cfg),
		checkServiceReachable(cfg),
		checkRegistryWritable(cfg),
		checkCitationDirWritable(cfg),
	)
	return checks
}

// checkConfigValid verifies the configuration loads and validates.
func checkConfigValid() (*HealthCheck, *config.Config) {
	check := &HealthCheck{Name: "Config Valid"}

	cfg, err := config.Load()
	if err != nil {
		check.Status = CheckFail
		check.Message = "configuration failed to load: " + err.Error()
		check.Fix = "delete the config file and rerun; docsight recreates defaults"
		return check, nil
	}
	if err := cfg.Validate(); err != nil {
		check.Status = CheckFail
		check.Message = "configuration is invalid: " + err.Error()
		check.Fix = "docsight config set <key> <value> to correct the named field"
		return check, cfg
	}

	path, _ := config.ConfigPath()
	check.Status = CheckPass
	check.Message = "loaded " + path
	return check, cfg
}

// checkServiceURL verifies a plausible service endpoint is configured.
func checkServiceURL(cfg *config.Config) *HealthCheck {
	check := &HealthCheck{Name: "Service URL"}

	if cfg.Service.URL == "" {
		check.Status = CheckFail
		check.Message = "no service endpoint configured"
		check.Fix = "docsight config set service.url http://localhost:8000"
		return check
	}
	parsed, err := url.Parse(cfg.Service.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		check.Status = CheckFail
		check.Message = "service.url is not a valid URL: " + cfg.Service.URL
		check.Fix = "docsight config set service.url http://localhost:8000"
		return check
	}

	check.Status = CheckPass
	check.Message = cfg.Service.URL
	return check
}

// checkServiceReachable performs a real request against the service.
func checkServiceReachable(cfg *config.Config) *HealthCheck {
	check := &HealthCheck{Name: "Service Reachable"}

	api := docquery.NewAPI(cfg.Service.URL)
	ctx, cancel := apiContext(cfg)
	defer cancel()

	docs, err := api.ListDocuments(ctx)
	if err != nil {
		check.Status = CheckFail
		check.Message = "service did not answer: " + err.Error()
		check.Fix = "check that the analysis service is running and the URL is correct"
		return check
	}

	check.Status = CheckPass
	check.Message = fmt.Sprintf("answered with %d documents", len(docs))
	return check
}

// checkRegistryWritable verifies the local document registry opens.
func checkRegistryWritable(cfg *config.Config) *HealthCheck {
	check := &HealthCheck{Name: "Registry Writable"}

	if !cfg.Store.Enabled {
		check.Status = CheckWarn
		check.Message = "local registry disabled; document listings need the service"
		check.Fix = "docsight config set store.enabled true"
		return check
	}

	path, err := cfg.StorePath()
	if err != nil {
		check.Status = CheckFail
		check.Message = "cannot resolve registry path: " + err.Error()
		return check
	}
	check.fixFunc = func() error {
		return os.MkdirAll(filepath.Dir(path), 0755)
	}

	store, err := docstore.Open(path)
	if err != nil {
		check.Status = CheckFail
		check.Message = "registry failed to open: " + err.Error()
		check.Fix = "ensure " + filepath.Dir(path) + " exists and is writable"
		return check
	}
	store.Close()

	check.Status = CheckPass
	check.Message = path
	return check
}

// checkCitationDirWritable verifies citation images can be exported.
func checkCitationDirWritable(cfg *config.Config) *HealthCheck {
	check := &HealthCheck{Name: "Citation Dir"}

	dir := cfg.UI.CitationDir
	if dir == "" {
		check.Status = CheckPass
		check.Message = "using temp dir " + os.TempDir()
		return check
	}
	check.fixFunc = func() error {
		return os.MkdirAll(dir, 0755)
	}

	info, err := os.Stat(dir)
	if err != nil {
		check.Status = CheckWarn
		check.Message = dir + " does not exist"
		check.Fix = "mkdir -p " + dir
		return check
	}
	if !info.IsDir() {
		check.Status = CheckFail
		check.Message = dir + " is not a directory"
		check.Fix = "docsight config set ui.citation_dir <directory>"
		return check
	}

	// Probe with a real write; permission bits lie on some filesystems.
	probe := filepath.Join(dir, ".docsight-probe")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		check.Status = CheckFail
		check.Message = dir + " is not writable"
		check.Fix = "fix permissions on " + dir
		return check
	}
	os.Remove(probe)

	check.Status = CheckPass
	check.Message = dir
	return check
}
