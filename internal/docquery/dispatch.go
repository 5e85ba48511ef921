// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docquery

import (
	"encoding/json"
	"strings"
)

// DISPATCH: Typed event table. One entry per known kind, each holding the
// state-mutation rule and the caller notification for that kind.

// =============================================================================
// DISPATCH TABLE
// =============================================================================

// handlerFunc applies one event to the stream state. The Streamer mutex is
// held on entry; the returned closure (possibly nil) is the caller
// notification, invoked after the mutex is released.
type handlerFunc func(s *Streamer, data string) func()

// eventHandlers keys the per-kind contract explicitly instead of branching:
// status and reasoning overwrite, citations and tokens append, error and
// done are terminal. Kinds absent from the table are ignored, which is the
// forward-compatibility policy for unknown events.
var eventHandlers = map[EventKind]handlerFunc{
	EventStatus: func(s *Streamer, data string) func() {
		status := decodeText(data)
		s.state.Status = status
		if cb := s.handlers.OnStatus; cb != nil {
			return func() { cb(status) }
		}
		return nil
	},

	EventReasoning: func(s *Streamer, data string) func() {
		reasoning := decodeText(data)
		s.state.Reasoning = reasoning
		if cb := s.handlers.OnReasoning; cb != nil {
			return func() { cb(reasoning) }
		}
		return nil
	},

	EventCitation: func(s *Streamer, data string) func() {
		var c Citation
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			// Malformed citation payloads are dropped, not fatal.
			s.logf("dropping malformed citation payload: %v", err)
			if s.strict {
				return s.failLocked(KindBackend, "malformed citation payload")
			}
			return nil
		}
		s.state.Citations = append(s.state.Citations, c)
		if cb := s.handlers.OnCitation; cb != nil {
			return func() { cb(c) }
		}
		return nil
	},

	EventToken: func(s *Streamer, data string) func() {
		token := decodeText(data)
		s.state.Tokens += token
		if cb := s.handlers.OnToken; cb != nil {
			return func() { cb(token) }
		}
		return nil
	},

	EventError: func(s *Streamer, data string) func() {
		// A server-reported error is a normal terminal event. It ends the
		// turn through the same path as a transport failure and leaves
		// IsComplete false.
		return s.failLocked(KindBackend, decodeText(data))
	},

	EventDone: func(s *Streamer, data string) func() {
		var doc *DocumentInfo
		if strings.TrimSpace(data) != "" {
			var d DocumentInfo
			if err := json.Unmarshal([]byte(data), &d); err == nil {
				doc = &d
			} else {
				// An undecodable done payload still completes the turn.
				s.logf("ignoring undecodable done payload: %v", err)
			}
		}
		s.state.IsLoading = false
		s.state.IsComplete = true
		if cb := s.handlers.OnComplete; cb != nil {
			return func() { cb(doc) }
		}
		return nil
	},
}

// =============================================================================
// DISPATCH
// =============================================================================

// dispatch applies one framed event to the state owned by generation gen.
// Frames from a superseded or stopped stream never mutate current state,
// and a terminal state accepts no further events.
func (s *Streamer) dispatch(gen int, f Frame) {
	s.mu.Lock()

	if gen != s.gen || s.halted || s.state.terminal() {
		s.mu.Unlock()
		return
	}

	h, known := eventHandlers[EventKind(f.Event)]
	if !known {
		var notify func()
		if s.strict {
			notify = s.failLocked(KindBackend, "unknown event kind: "+f.Event)
		}
		s.mu.Unlock()
		if notify != nil {
			notify()
		}
		return
	}

	notify := h(s, f.Data)
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// decodeText interprets raw frame data that is expected to be a string.
// The wire does not distinguish JSON payloads from plain scalars
// structurally, so JSON is attempted first and the raw text is the
// fallback. A failed parse is recovered here and never surfaces.
func decodeText(data string) string {
	var s string
	if err := json.Unmarshal([]byte(data), &s); err == nil {
		return s
	}
	return data
}
