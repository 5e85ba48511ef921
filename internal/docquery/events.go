// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docquery

import "time"

// =============================================================================
// EVENT KINDS
// =============================================================================

// EventKind identifies the application-level meaning of an SSE frame.
type EventKind string

const (
	EventStatus    EventKind = "status"    // progress label, overwrites
	EventReasoning EventKind = "reasoning" // latest explanation fragment, overwrites
	EventCitation  EventKind = "citation"  // visual citation, appends
	EventToken     EventKind = "token"     // answer text, accumulates
	EventError     EventKind = "error"     // terminal server-reported failure
	EventDone      EventKind = "done"      // terminal completion
)

// Frame is one complete SSE unit as produced by the Parser: an event-kind
// line and a data line. Frames are transient; they are dispatched and
// discarded, never retained.
type Frame struct {
	Event string
	Data  string
}

// =============================================================================
// PAYLOAD TYPES
// =============================================================================

// Citation is a visual citation emitted by the retrieval stage: one page of
// one document, with a relevance score and a base64-encoded raster image of
// the page. Citations are immutable once constructed. Identity is
// (DocumentID, Page), but the service may legitimately repeat a citation and
// repeats are kept.
type Citation struct {
	Page        int     `json:"page"`
	Score       float64 `json:"score"`
	ImageBase64 string  `json:"image_base64"`
	DocumentID  string  `json:"document_id"`
}

// DocumentInfo describes one document known to the service. It doubles as
// the optional payload of a done frame (uploads finish with the finalized
// document descriptor) and as an entry in the /documents listing.
type DocumentInfo struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Pages      int       `json:"pages,omitempty"`
	UploadedAt time.Time `json:"uploaded_at,omitempty"`
}

// =============================================================================
// STREAM STATE
// =============================================================================

// StreamState is the single source of truth for one in-flight or completed
// turn. It is owned by exactly one stream; only that stream's dispatch loop
// mutates it. IsLoading and IsComplete are never simultaneously true, and
// once IsComplete or a terminal Err is set no further mutation occurs for
// that turn.
type StreamState struct {
	IsLoading  bool
	IsComplete bool

	// Err holds the terminal error message, empty while healthy.
	// Cancellation never populates it.
	Err string

	// Status and Reasoning hold the LATEST value only; successive frames
	// overwrite rather than append.
	Status    string
	Reasoning string

	// Citations is append-only, in arrival order, duplicates kept.
	Citations []Citation

	// Tokens is the accumulated answer text; the only cumulative text field.
	Tokens string
}

// terminal reports whether the turn has reached a terminal state
// (completed or errored). A merely-stopped stream is not terminal.
func (st *StreamState) terminal() bool {
	return st.IsComplete || st.Err != ""
}

// =============================================================================
// CALLBACKS
// =============================================================================

// Handlers holds the optional per-kind callbacks supplied by the caller.
// Nil entries are skipped. Callbacks are invoked from the streaming
// goroutine, strictly in event-arrival order, never concurrently.
type Handlers struct {
	OnStatus    func(status string)
	OnReasoning func(reasoning string)
	OnCitation  func(c Citation)
	OnToken     func(token string)
	OnComplete  func(doc *DocumentInfo) // doc is nil for a payload-less done
	OnError     func(msg string)
}
