// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"testing"
)

// =============================================================================
// GLOBAL FLAG PARSING
// =============================================================================

func TestParseGlobalFlags(t *testing.T) {
	remaining, args := parseGlobalFlags([]string{
		"--json", "-v", "--service", "http://analyzer:8000", "ask", "what changed",
	})

	if !args.JSON {
		t.Error("expected JSON flag to be set")
	}
	if !args.Verbose {
		t.Error("expected Verbose flag to be set")
	}
	if args.ServiceURL != "http://analyzer:8000" {
		t.Errorf("ServiceURL = %q, want http://analyzer:8000", args.ServiceURL)
	}
	if len(remaining) != 2 || remaining[0] != "ask" {
		t.Errorf("remaining = %v, want [ask, what changed]", remaining)
	}
}

func TestParseGlobalFlagsServiceEquals(t *testing.T) {
	_, args := parseGlobalFlags([]string{"--service=http://localhost:9000"})
	if args.ServiceURL != "http://localhost:9000" {
		t.Errorf("ServiceURL = %q", args.ServiceURL)
	}
}

func TestParseGlobalFlagsPlainAndStrict(t *testing.T) {
	_, args := parseGlobalFlags([]string{"--plain", "--strict", "-q"})
	if !args.Plain || !args.Strict || !args.Quiet {
		t.Errorf("flags = %+v, want Plain, Strict and Quiet set", args)
	}
}

// =============================================================================
// ASK ARGUMENT PARSING
// =============================================================================

func TestParseAskArgsQuery(t *testing.T) {
	var args Args
	parseAskArgs(&args, []string{"what", "does", "section", "3", "say"})

	if args.Query != "what does section 3 say" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseAskArgsDocScope(t *testing.T) {
	var args Args
	parseAskArgs(&args, []string{"--docs", "rpt1,rpt2", "summarize"})

	if len(args.DocIDs) != 2 || args.DocIDs[0] != "rpt1" || args.DocIDs[1] != "rpt2" {
		t.Errorf("DocIDs = %v", args.DocIDs)
	}
	if args.Query != "summarize" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseAskArgsDocsEquals(t *testing.T) {
	var args Args
	parseAskArgs(&args, []string{"--docs=a, b ,", "question"})

	if len(args.DocIDs) != 2 || args.DocIDs[0] != "a" || args.DocIDs[1] != "b" {
		t.Errorf("DocIDs = %v", args.DocIDs)
	}
}

func TestParseAskArgsSaveImages(t *testing.T) {
	var args Args
	parseAskArgs(&args, []string{"--save-images", "/tmp/cites", "show", "the", "chart"})

	if args.File != "/tmp/cites" {
		t.Errorf("File = %q", args.File)
	}
	if args.Query != "show the chart" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestSplitDocIDs(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"a,b,c", 3},
		{"a", 1},
		{"", 0},
		{" , ,", 0},
		{"a,,b", 2},
	}
	for _, tt := range tests {
		if got := splitDocIDs(tt.input); len(got) != tt.want {
			t.Errorf("splitDocIDs(%q) = %v, want %d ids", tt.input, got, tt.want)
		}
	}
}

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParserSubcommandAndFlags(t *testing.T) {
	p := NewArgParser([]string{"upload", "report.pdf", "--confirm"})

	if p.Subcommand() != "upload" {
		t.Errorf("Subcommand = %q", p.Subcommand())
	}
	if p.Positional(1) != "report.pdf" {
		t.Errorf("Positional(1) = %q", p.Positional(1))
	}
	if !p.BoolFlag("confirm") {
		t.Error("expected --confirm to parse as a bool flag")
	}
}

func TestArgParserFlagValues(t *testing.T) {
	p := NewArgParser([]string{"list", "--limit", "25", "--format=json"})

	if got := p.FlagIntOrDefault("limit", 10); got != 25 {
		t.Errorf("FlagIntOrDefault = %d", got)
	}
	if got := p.Flag("format"); got != "json" {
		t.Errorf("Flag(format) = %q", got)
	}
	if got := p.FlagOrDefault("missing", "fallback"); got != "fallback" {
		t.Errorf("FlagOrDefault = %q", got)
	}
}

func TestParseBoolString(t *testing.T) {
	truthy := []string{"true", "yes", "on", "1", "TRUE"}
	for _, s := range truthy {
		v, err := ParseBoolString(s)
		if err != nil || !v {
			t.Errorf("ParseBoolString(%q) = %v, %v; want true", s, v, err)
		}
	}

	falsy := []string{"false", "no", "off", "0"}
	for _, s := range falsy {
		v, err := ParseBoolString(s)
		if err != nil || v {
			t.Errorf("ParseBoolString(%q) = %v, %v; want false", s, v, err)
		}
	}

	if _, err := ParseBoolString("maybe"); err == nil {
		t.Error("expected error for unparseable bool")
	}
}

// =============================================================================
// ERROR HANDLING
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", NewValidationError("field", "v", "bad"), ExitUsageError},
		{"not found", NewNotFoundError("document", "rpt9"), ExitNotFoundError},
		{"generic", errors.New("something broke"), ExitGeneralError},
		{"timeout text", errors.New("request timed out"), ExitTimeoutError},
		{"network text", errors.New("connection refused"), ExitNetworkError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationErrorWithExample("service.url", "ftp://x", "unsupported scheme",
		"docsight config set service.url http://localhost:8000")

	if !IsValidationError(err) {
		t.Error("expected a validation error")
	}
	msg := err.Error()
	if msg == "" {
		t.Fatal("empty error message")
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("config key", "ui.nope")
	if !IsNotFoundError(err) {
		t.Error("expected a not-found error")
	}
}

// =============================================================================
// SCORE FORMATTING
// =============================================================================

func TestClampScore(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.857, 0.857},
		{0, 0},
		{1, 1},
		{-0.2, 0},
		{1.7, 1},
	}
	for _, tt := range tests {
		if got := clampScore(tt.in); got != tt.want {
			t.Errorf("clampScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
