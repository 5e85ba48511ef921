// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output support for scripting and automation.
//
// Every command accepts --json and emits this standardized envelope so
// shell pipelines can consume docsight output without scraping text.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONResponse is the standardized response format for all CLI commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Error:     nil,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      nil,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print outputs the JSON response to stdout.
// Human-readable messages should go to stderr when JSON mode is enabled.
func (r *JSONResponse) Print() error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// StderrPrint prints a message to stderr (for human-readable output in JSON mode).
func StderrPrint(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// StderrPrintln prints a line to stderr.
func StderrPrintln(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}

// CitationData represents one page citation in JSON output.
// Image payloads are omitted; use --save-images to export them.
type CitationData struct {
	DocumentID string  `json:"document_id"`
	Page       int     `json:"page"`
	Score      float64 `json:"score"`
	HasImage   bool    `json:"has_image"`
}

// AskData represents the data returned by the ask command.
type AskData struct {
	Response    string         `json:"response"`
	Citations   []CitationData `json:"citations,omitempty"`
	TokenCount  int            `json:"token_count"`
	TTFTMs      int64          `json:"ttft_ms"`
	DurationMs  int64          `json:"duration_ms"`
	DocumentIDs []string       `json:"document_ids,omitempty"`
	SavedImages []string       `json:"saved_images,omitempty"`
}

// DocumentData represents one document in JSON output.
type DocumentData struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Pages      int    `json:"pages"`
	UploadedAt string `json:"uploaded_at,omitempty"`
}

// DocumentListData represents the data returned by documents list.
type DocumentListData struct {
	Documents []DocumentData `json:"documents"`
	Count     int            `json:"count"`
	Source    string         `json:"source"` // "service" or "registry"
}

// StatusData represents the data returned by the status command.
type StatusData struct {
	Service   StatusServiceInfo  `json:"service"`
	Documents StatusDocumentInfo `json:"documents"`
	Config    StatusConfigInfo   `json:"config"`
}

// StatusServiceInfo contains service connectivity information.
type StatusServiceInfo struct {
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// StatusDocumentInfo contains document counts.
type StatusDocumentInfo struct {
	ServiceCount  int  `json:"service_count"`
	RegistryCount int  `json:"registry_count"`
	InSync        bool `json:"in_sync"`
}

// StatusConfigInfo contains configuration summary.
type StatusConfigInfo struct {
	Path         string `json:"path"`
	StrictEvents bool   `json:"strict_events"`
	DebugLogging bool   `json:"debug_logging"`
}

// DoctorData represents the data returned by the doctor command.
type DoctorData struct {
	Checks  []DoctorCheck `json:"checks"`
	Summary DoctorSummary `json:"summary"`
}

// DoctorCheck represents a single health check result.
type DoctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "pass", "warn", "fail"
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`
}

// DoctorSummary contains the summary of health checks.
type DoctorSummary struct {
	Passed  int  `json:"passed"`
	Warned  int  `json:"warned"`
	Failed  int  `json:"failed"`
	Healthy bool `json:"healthy"`
}
