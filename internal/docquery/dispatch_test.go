// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docquery

import (
	"io"
	"log"
	"reflect"
	"strings"
	"testing"
)

// =============================================================================
// DISPATCH TESTS
// =============================================================================

// startedStreamer returns a streamer in the state StartStream establishes
// before its read loop, so frames can be dispatched directly.
func startedStreamer(h Handlers) (*Streamer, int) {
	s := NewStreamer(h)
	s.logger = log.New(io.Discard, "", 0)
	s.gen = 1
	s.state = StreamState{IsLoading: true}
	return s, s.gen
}

func TestDispatchTokensAccumulate(t *testing.T) {
	var seen []string
	s, gen := startedStreamer(Handlers{
		OnToken: func(tok string) { seen = append(seen, tok) },
	})

	for _, tok := range []string{`"Hel"`, `"lo "`, `"world"`} {
		s.dispatch(gen, Frame{Event: "token", Data: tok})
	}

	if got := s.State().Tokens; got != "Hello world" {
		t.Errorf("Tokens = %q, want %q", got, "Hello world")
	}
	if !reflect.DeepEqual(seen, []string{"Hel", "lo ", "world"}) {
		t.Errorf("OnToken calls = %v", seen)
	}
}

func TestDispatchStatusAndReasoningOverwrite(t *testing.T) {
	s, gen := startedStreamer(Handlers{})

	s.dispatch(gen, Frame{Event: "status", Data: `"searching"`})
	s.dispatch(gen, Frame{Event: "status", Data: `"ranking pages"`})
	s.dispatch(gen, Frame{Event: "reasoning", Data: `"page 3 first"`})
	s.dispatch(gen, Frame{Event: "reasoning", Data: `"page 3, then 7"`})

	state := s.State()
	if state.Status != "ranking pages" {
		t.Errorf("Status = %q, want last value only", state.Status)
	}
	if state.Reasoning != "page 3, then 7" {
		t.Errorf("Reasoning = %q, want last value only", state.Reasoning)
	}
}

func TestDispatchPlainTextPayloadFallback(t *testing.T) {
	// Payloads that are not valid JSON are taken verbatim.
	s, gen := startedStreamer(Handlers{})
	s.dispatch(gen, Frame{Event: "status", Data: "plain words"})
	if got := s.State().Status; got != "plain words" {
		t.Errorf("Status = %q, want raw payload", got)
	}
}

func TestDispatchCitationsAppend(t *testing.T) {
	var received []Citation
	s, gen := startedStreamer(Handlers{
		OnCitation: func(c Citation) { received = append(received, c) },
	})

	payload := `{"page":3,"score":0.82,"image_base64":"aGk=","document_id":"doc1"}`
	s.dispatch(gen, Frame{Event: "citation", Data: payload})
	s.dispatch(gen, Frame{Event: "citation", Data: payload})

	state := s.State()
	if len(state.Citations) != 2 {
		t.Fatalf("Expected 2 citations (duplicates kept), got %d", len(state.Citations))
	}
	if state.Citations[0].Page != 3 || state.Citations[0].Score != 0.82 {
		t.Errorf("Citation fields wrong: %+v", state.Citations[0])
	}
	if len(received) != 2 {
		t.Errorf("Expected 2 OnCitation calls, got %d", len(received))
	}
}

func TestDispatchMalformedCitationDropped(t *testing.T) {
	var logBuf strings.Builder
	s, gen := startedStreamer(Handlers{
		OnError: func(string) { t.Error("OnError must not fire for a malformed citation") },
	})
	s.logger = log.New(&logBuf, "", 0)

	s.dispatch(gen, Frame{Event: "citation", Data: "not-an-object"})
	s.dispatch(gen, Frame{Event: "token", Data: `"still going"`})

	state := s.State()
	if len(state.Citations) != 0 {
		t.Errorf("Malformed citation must not be appended, got %d", len(state.Citations))
	}
	if state.Err != "" {
		t.Errorf("Malformed citation must not be terminal, Err = %q", state.Err)
	}
	if state.Tokens != "still going" {
		t.Errorf("Stream must continue after dropped citation, Tokens = %q", state.Tokens)
	}
	if !strings.Contains(logBuf.String(), "malformed citation") {
		t.Errorf("Drop not logged: %q", logBuf.String())
	}
}

func TestDispatchErrorFrameTerminal(t *testing.T) {
	var errMsg string
	s, gen := startedStreamer(Handlers{
		OnError: func(msg string) { errMsg = msg },
	})

	s.dispatch(gen, Frame{Event: "token", Data: `"partial"`})
	s.dispatch(gen, Frame{Event: "error", Data: `"index unavailable"`})
	s.dispatch(gen, Frame{Event: "token", Data: `" after"`})

	state := s.State()
	if state.Err != "index unavailable" {
		t.Errorf("Err = %q", state.Err)
	}
	if state.IsLoading {
		t.Error("IsLoading must clear on error")
	}
	if state.IsComplete {
		t.Error("An errored turn is not complete")
	}
	if state.Tokens != "partial" {
		t.Errorf("Frames after terminal error must be ignored, Tokens = %q", state.Tokens)
	}
	if errMsg != "index unavailable" {
		t.Errorf("OnError got %q", errMsg)
	}
}

func TestDispatchDoneWithPayload(t *testing.T) {
	var completed *DocumentInfo
	var calls int
	s, gen := startedStreamer(Handlers{
		OnComplete: func(doc *DocumentInfo) { completed = doc; calls++ },
	})

	s.dispatch(gen, Frame{Event: "done", Data: `{"id":"doc9","filename":"report.pdf","pages":12}`})

	state := s.State()
	if state.IsLoading || !state.IsComplete {
		t.Errorf("Done must end loading and complete: %+v", state)
	}
	if calls != 1 {
		t.Fatalf("OnComplete calls = %d", calls)
	}
	if completed == nil || completed.ID != "doc9" || completed.Pages != 12 {
		t.Errorf("Done payload not forwarded: %+v", completed)
	}
}

func TestDispatchDoneWithoutPayload(t *testing.T) {
	var calls int
	var completed *DocumentInfo
	s, gen := startedStreamer(Handlers{
		OnComplete: func(doc *DocumentInfo) { completed = doc; calls++ },
	})

	s.dispatch(gen, Frame{Event: "done", Data: ""})

	if calls != 1 {
		t.Fatalf("OnComplete calls = %d", calls)
	}
	if completed != nil {
		t.Errorf("Empty done payload must forward nil, got %+v", completed)
	}
	if !s.State().IsComplete {
		t.Error("Empty done must still complete the turn")
	}
}

func TestDispatchDoneUndecodablePayloadStillCompletes(t *testing.T) {
	s, gen := startedStreamer(Handlers{})
	s.dispatch(gen, Frame{Event: "done", Data: "not json"})

	state := s.State()
	if !state.IsComplete || state.Err != "" {
		t.Errorf("Undecodable done payload must complete cleanly: %+v", state)
	}
}

func TestDispatchUnknownKindIgnored(t *testing.T) {
	s, gen := startedStreamer(Handlers{})

	s.dispatch(gen, Frame{Event: "heartbeat", Data: "{}"})
	s.dispatch(gen, Frame{Event: "token", Data: `"ok"`})

	state := s.State()
	if state.Err != "" {
		t.Errorf("Unknown kind must not error, Err = %q", state.Err)
	}
	if state.Tokens != "ok" {
		t.Errorf("Stream must continue past unknown kind, Tokens = %q", state.Tokens)
	}
}

func TestDispatchStrictMode(t *testing.T) {
	t.Run("unknown_kind_fatal", func(t *testing.T) {
		s, gen := startedStreamer(Handlers{})
		s.WithStrict(true)
		s.dispatch(gen, Frame{Event: "heartbeat", Data: "{}"})
		if state := s.State(); state.Err == "" || state.IsLoading {
			t.Errorf("Strict mode must fail on unknown kind: %+v", state)
		}
	})

	t.Run("malformed_citation_fatal", func(t *testing.T) {
		s, gen := startedStreamer(Handlers{})
		s.WithStrict(true)
		s.dispatch(gen, Frame{Event: "citation", Data: "not-an-object"})
		if state := s.State(); state.Err == "" {
			t.Errorf("Strict mode must fail on malformed citation: %+v", state)
		}
	})

	t.Run("set_strict_applies_mid_stream", func(t *testing.T) {
		s, gen := startedStreamer(Handlers{})
		s.dispatch(gen, Frame{Event: "heartbeat", Data: "{}"})
		if state := s.State(); state.Err != "" {
			t.Fatalf("Lenient mode must tolerate unknown kinds: %+v", state)
		}

		s.SetStrict(true)
		s.dispatch(gen, Frame{Event: "heartbeat", Data: "{}"})
		if state := s.State(); state.Err == "" {
			t.Errorf("SetStrict must take effect on later frames: %+v", state)
		}
	})
}

func TestDispatchStaleGenerationIgnored(t *testing.T) {
	s, gen := startedStreamer(Handlers{
		OnToken: func(string) { t.Error("Stale frame must not notify") },
	})
	s.gen++ // simulate supersession by a newer stream

	s.dispatch(gen, Frame{Event: "token", Data: `"stale"`})

	if got := s.State().Tokens; got != "" {
		t.Errorf("Stale frame mutated state: %q", got)
	}
}

func TestDispatchHaltedStreamIgnored(t *testing.T) {
	s, gen := startedStreamer(Handlers{})
	s.StopStream()

	s.dispatch(gen, Frame{Event: "token", Data: `"late"`})

	state := s.State()
	if state.Tokens != "" {
		t.Errorf("Halted stream accepted a frame: %q", state.Tokens)
	}
	if state.IsLoading {
		t.Error("StopStream must clear IsLoading")
	}
	if state.IsComplete {
		t.Error("StopStream must not mark the turn complete")
	}
}

func TestStateSnapshotIsolation(t *testing.T) {
	s, gen := startedStreamer(Handlers{})
	s.dispatch(gen, Frame{Event: "citation", Data: `{"page":1,"score":0.5}`})

	snap := s.State()
	s.dispatch(gen, Frame{Event: "citation", Data: `{"page":2,"score":0.6}`})

	if len(snap.Citations) != 1 {
		t.Errorf("Snapshot must not grow with later dispatches: %d", len(snap.Citations))
	}
}

func TestReset(t *testing.T) {
	s, gen := startedStreamer(Handlers{})
	s.dispatch(gen, Frame{Event: "token", Data: `"text"`})
	s.dispatch(gen, Frame{Event: "done", Data: ""})

	s.Reset()

	if state := s.State(); !reflect.DeepEqual(state, StreamState{}) {
		t.Errorf("Reset left residual state: %+v", state)
	}
}
