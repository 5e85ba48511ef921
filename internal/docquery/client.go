// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docquery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// STREAMING: single-flight stream controller with cooperative cancellation.

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// readChunkSize is the buffer handed to each body read. Chunk
	// boundaries are content-agnostic; the parser owns reassembly.
	readChunkSize = 4 * 1024

	// DefaultRequestTimeout bounds the non-streaming API calls (api.go).
	// Streaming requests carry no timeout; they are context-controlled,
	// and a stream that never emits done stays loading until the caller
	// cancels or the transport fails.
	DefaultRequestTimeout = 30 * time.Second
)

var (
	// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
	// Shared client for streaming requests - no timeout, context-controlled.
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	// sharedAPIClient serves the short non-streaming calls.
	sharedAPIClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: DefaultRequestTimeout,
	}
)

// =============================================================================
// STREAMER
// =============================================================================

// Streamer manages at most one outstanding document-analysis stream.
// Starting a new stream always supersedes (cancels) the previous one;
// the two never run concurrently against the same state.
//
// All exported methods are safe for concurrent use. State mutation happens
// only in the dispatch loop of the current generation; a generation counter
// keeps late-arriving frames from a stale stream away from current state.
type Streamer struct {
	mu       sync.Mutex
	cancel   context.CancelFunc
	gen      int
	halted   bool
	state    StreamState
	handlers Handlers

	// strict turns silently-dropped conditions (malformed citations,
	// unknown event kinds) into terminal errors. Off by default; intended
	// for tests and service development.
	strict bool

	logger *log.Logger
}

// NewStreamer creates a streamer with the given callbacks. All callbacks
// are optional.
func NewStreamer(handlers Handlers) *Streamer {
	return &Streamer{handlers: handlers}
}

// WithStrict enables strict dispatch. See Streamer.strict.
func (s *Streamer) WithStrict(strict bool) *Streamer {
	s.strict = strict
	return s
}

// SetStrict changes strict dispatch after construction, e.g. when the
// configuration is reloaded. Safe to call while a stream is active; the
// change applies from the next dispatched frame.
func (s *Streamer) SetStrict(strict bool) {
	s.mu.Lock()
	s.strict = strict
	s.mu.Unlock()
}

// WithLogger sets the destination for recovered-condition logging
// (malformed citations, undecodable done payloads). Nil silences it.
func (s *Streamer) WithLogger(l *log.Logger) *Streamer {
	s.logger = l
	return s
}

// State returns a snapshot of the current turn's state. The citations
// slice is copied so the caller can hold the snapshot across dispatches.
func (s *Streamer) State() StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state
	if len(s.state.Citations) > 0 {
		snap.Citations = make([]Citation, len(s.state.Citations))
		copy(snap.Citations, s.state.Citations)
	}
	return snap
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// StartStream opens a stream against endpoint with the given request body
// and blocks until the turn reaches a terminal state: completed, errored,
// or cancelled.
//
// Any previously active stream is cancelled and its resources released
// before the new one begins; state is reset fresh for the new turn.
//
// The return value mirrors the error surface of the state: nil on
// completion AND on cancellation (cancellation is not an error), a
// *StreamError otherwise. Terminal errors are also delivered through
// OnError, so callers should consume one mechanism, not both.
func (s *Streamer) StartStream(ctx context.Context, endpoint string, body RequestBody) error {
	contentType, reader, err := body.Encode()
	if err != nil {
		return &StreamError{Kind: KindRequest, Message: fmt.Sprintf("failed to encode request: %v", err)}
	}

	// Supersede: cancel the prior stream before initializing new state.
	// The generation bump makes any frames still in flight from the old
	// loop no-ops, so full termination need not be awaited.
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	gen := s.gen
	s.halted = false
	s.state = StreamState{IsLoading: true}

	streamCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(streamCtx, http.MethodPost, endpoint, reader)
	if err != nil {
		return s.fail(gen, KindRequest, fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := sharedStreamingClient.Do(req)
	if err != nil {
		if isCanceled(err) {
			return s.swallowCancel(gen)
		}
		return s.fail(gen, KindTransport, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.fail(gen, KindRequest, requestErrorMessage(resp))
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return s.fail(gen, KindProtocol, "empty body")
	}

	return s.readLoop(gen, resp.Body)
}

// readLoop feeds the response body chunk-by-chunk to a fresh parser and
// dispatches each completed frame in order. It returns when the body is
// exhausted, the turn goes terminal, or the read fails.
func (s *Streamer) readLoop(gen int, body io.Reader) error {
	parser := NewParser()
	buf := make([]byte, readChunkSize)

	for {
		n, err := body.Read(buf)
		if n > 0 {
			for _, f := range parser.Feed(buf[:n]) {
				s.dispatch(gen, f)
			}
			if msg, terminal := s.terminalError(gen); terminal {
				if msg == "" {
					return nil // done frame
				}
				return &StreamError{Kind: KindBackend, Message: msg}
			}
		}

		if err != nil {
			if err == io.EOF {
				return s.complete(gen)
			}
			if isCanceled(err) {
				return s.swallowCancel(gen)
			}
			return s.fail(gen, KindTransport, fmt.Sprintf("stream read failed: %v", err))
		}
	}
}

// StopStream cancels the active stream, if any. Idempotent and safe to
// call with no stream running. It clears IsLoading and touches nothing
// else - not IsComplete, not tokens, not citations. Secondary errors from
// the cancellation itself are swallowed by the read loop.
func (s *Streamer) StopStream() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.halted = true
	s.state.IsLoading = false
}

// Reset restores the state to its initial empty form. It does not affect
// an in-flight network operation; call StopStream first if one is active.
func (s *Streamer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StreamState{}
}

// =============================================================================
// TERMINAL TRANSITIONS
// =============================================================================

// complete marks body exhaustion: loading ends and the turn is complete,
// unless a terminal error already fired. A done frame reports completion
// through OnComplete; plain EOF does not re-signal it.
func (s *Streamer) complete(gen int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.halted || s.state.terminal() {
		return nil
	}
	s.state.IsLoading = false
	s.state.IsComplete = true
	return nil
}

// swallowCancel records caller-initiated cancellation: loading stops, no
// error is surfaced, and the turn stays incomplete.
func (s *Streamer) swallowCancel(gen int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen == s.gen && !s.state.terminal() {
		s.state.IsLoading = false
	}
	return nil
}

// fail applies a terminal error and notifies OnError, unless the stream
// was superseded or stopped in the meantime. The error is returned either
// way so direct callers still observe it.
func (s *Streamer) fail(gen int, kind ErrorKind, msg string) error {
	s.mu.Lock()
	var notify func()
	if gen == s.gen && !s.halted && !s.state.terminal() {
		notify = s.failLocked(kind, msg)
	}
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
	return &StreamError{Kind: kind, Message: msg}
}

// failLocked performs the terminal-error state transition. Caller holds
// the mutex; the returned closure is the deferred OnError notification.
func (s *Streamer) failLocked(kind ErrorKind, msg string) func() {
	s.state.Err = msg
	s.state.IsLoading = false
	// IsComplete deliberately stays false: an errored turn never
	// completed.
	s.logf("stream %s error: %s", kind, msg)

	if cb := s.handlers.OnError; cb != nil {
		return func() { cb(msg) }
	}
	return nil
}

// terminalError reports whether the current generation has gone terminal,
// and with which error message ("" means completed).
func (s *Streamer) terminalError(gen int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return "", true // superseded; stop reading
	}
	return s.state.Err, s.state.terminal()
}

// =============================================================================
// HELPERS
// =============================================================================

// isCanceled reports whether err is the distinct "operation was cancelled"
// condition, as opposed to a network failure.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func (s *Streamer) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
