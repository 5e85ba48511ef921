// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat interface.
// Messages are organized into the following categories:
//   - Turn lifecycle: turn start, status, reasoning, citations, tokens,
//     completion, cancellation, and errors
//   - Documents: listing and citation image export results
//   - UI State: errors and configuration reloads
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import (
	"time"

	"github.com/jeranaias/docsight-tui/internal/config"
	"github.com/jeranaias/docsight-tui/internal/docquery"
	"github.com/jeranaias/docsight-tui/internal/model"
)

// =============================================================================
// TURN LIFECYCLE MESSAGES
// =============================================================================

// TurnStartMsg signals that a query turn has begun streaming.
type TurnStartMsg struct {
	MessageID string
	StartTime time.Time
}

// TurnStatusMsg delivers a transient status update from the service.
// Each status replaces the previous one.
type TurnStatusMsg struct {
	MessageID string
	Status    string
}

// TurnReasoningMsg delivers a transient reasoning update from the service.
// Each reasoning update replaces the previous one.
type TurnReasoningMsg struct {
	MessageID string
	Reasoning string
}

// TurnTokenMsg delivers a new answer token from the stream.
type TurnTokenMsg struct {
	MessageID string
	Token     string
	IsFirst   bool // True if this is the first token
}

// TurnCitationMsg delivers a page citation from the stream.
type TurnCitationMsg struct {
	MessageID string
	Citation  docquery.Citation
}

// TurnCompleteMsg signals that the turn finished successfully.
type TurnCompleteMsg struct {
	MessageID string
	Document  *docquery.DocumentInfo
	Stats     *model.Statistics
}

// TurnErrorMsg signals a terminal error during the turn.
type TurnErrorMsg struct {
	MessageID string
	Error     error
}

// TurnCanceledMsg signals that the user stopped the turn. Partial output
// stays visible; this is not an error.
type TurnCanceledMsg struct {
	MessageID string
}

// StreamTickMsg drives the streaming render loop.
type StreamTickMsg struct {
	Time time.Time
}

// =============================================================================
// DOCUMENT MESSAGES
// =============================================================================

// DocumentsLoadedMsg delivers the service's document listing.
type DocumentsLoadedMsg struct {
	Documents []docquery.DocumentInfo
	Error     error
}

// CitationImagesSavedMsg confirms citation images were written to disk.
type CitationImagesSavedMsg struct {
	Paths []string
	Error error
}

// =============================================================================
// UI STATE MESSAGES
// =============================================================================

// ErrorMsg displays an error to the user.
type ErrorMsg struct {
	Title   string
	Message string
}

// DismissErrorMsg clears the displayed error.
type DismissErrorMsg struct{}

// ConfigReloadedMsg carries a freshly loaded configuration after the config
// file changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}
