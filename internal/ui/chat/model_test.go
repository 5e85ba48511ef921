// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docsight-tui/internal/config"
	"github.com/jeranaias/docsight-tui/internal/docquery"
	"github.com/jeranaias/docsight-tui/internal/ui/styles"
)

func newTestModel() Model {
	cfg := config.Default()
	cfg.Service.URL = "http://localhost:9999"
	return New(styles.NewTheme(), cfg)
}

// startTestTurn puts the model into a streaming turn without launching the
// returned commands, so no network activity happens.
func startTestTurn(t *testing.T, m Model, question string) Model {
	t.Helper()
	updated, _ := m.startTurn(question)
	return updated.(Model)
}

func TestNewModel(t *testing.T) {
	m := newTestModel()

	if m.GetState() != StateReady {
		t.Errorf("expected StateReady, got %v", m.GetState())
	}
	if !m.GetConversation().IsEmpty() {
		t.Error("new model should have an empty conversation")
	}
	if m.streamer == nil {
		t.Error("streamer should be initialized")
	}
}

func TestStartTurnRecordsMessages(t *testing.T) {
	m := newTestModel()
	m = startTestTurn(t, m, "what does page 3 say?")

	if m.GetState() != StateStreaming {
		t.Errorf("expected StateStreaming, got %v", m.GetState())
	}

	conv := m.GetConversation()
	if conv.MessageCount() != 2 {
		t.Fatalf("expected user + assistant messages, got %d", conv.MessageCount())
	}
	if conv.Messages[0].Content != "what does page 3 say?" {
		t.Errorf("user message content wrong: %q", conv.Messages[0].Content)
	}
	if !conv.Messages[1].IsStreaming {
		t.Error("assistant message should be streaming")
	}
	if m.streamingMsgID != conv.Messages[1].ID {
		t.Error("streamingMsgID should track the assistant message")
	}
	if m.sink.target() != conv.Messages[1].ID {
		t.Error("sink target should track the assistant message")
	}
}

func TestTokenThenTickAppendsContent(t *testing.T) {
	m := newTestModel()
	m = startTestTurn(t, m, "summarize")

	updated, _ := m.Update(TurnTokenMsg{MessageID: m.streamingMsgID, Token: "The report "})
	m = updated.(Model)
	updated, _ = m.Update(TurnTokenMsg{MessageID: m.streamingMsgID, Token: "says..."})
	m = updated.(Model)

	// The tick drains the buffer into the conversation
	updated, _ = m.Update(StreamTickMsg{})
	m = updated.(Model)

	got := m.GetConversation().GetLastMessage().GetDisplayContent()
	if got != "The report says..." {
		t.Errorf("expected buffered tokens appended, got %q", got)
	}
}

func TestStatusAndReasoningOverwrite(t *testing.T) {
	m := newTestModel()
	m = startTestTurn(t, m, "analyze")
	id := m.streamingMsgID

	updated, _ := m.Update(TurnStatusMsg{MessageID: id, Status: "Scanning pages"})
	m = updated.(Model)
	updated, _ = m.Update(TurnStatusMsg{MessageID: id, Status: "Ranking matches"})
	m = updated.(Model)

	msg := m.GetConversation().GetMessageByID(id)
	if msg.Status != "Ranking matches" {
		t.Errorf("status should overwrite, got %q", msg.Status)
	}

	updated, _ = m.Update(TurnReasoningMsg{MessageID: id, Reasoning: "Page 3 mentions revenue"})
	m = updated.(Model)
	msg = m.GetConversation().GetMessageByID(id)
	if msg.Reasoning != "Page 3 mentions revenue" {
		t.Errorf("reasoning not set, got %q", msg.Reasoning)
	}
}

func TestCitationAccumulates(t *testing.T) {
	m := newTestModel()
	m = startTestTurn(t, m, "cite sources")
	id := m.streamingMsgID

	cit := docquery.Citation{DocumentID: "doc1", Page: 3, Score: 0.91}
	updated, _ := m.Update(TurnCitationMsg{MessageID: id, Citation: cit})
	m = updated.(Model)
	updated, _ = m.Update(TurnCitationMsg{MessageID: id, Citation: docquery.Citation{DocumentID: "doc2", Page: 7, Score: 0.44}})
	m = updated.(Model)

	msg := m.GetConversation().GetMessageByID(id)
	if len(msg.Citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(msg.Citations))
	}
	if m.citations.Count() != 2 {
		t.Errorf("citation strip should track the turn, got %d", m.citations.Count())
	}
}

func TestTurnCompleteFinalizes(t *testing.T) {
	m := newTestModel()
	m = startTestTurn(t, m, "done?")
	id := m.streamingMsgID

	updated, _ := m.Update(TurnTokenMsg{MessageID: id, Token: "Yes."})
	m = updated.(Model)
	updated, _ = m.Update(TurnCompleteMsg{MessageID: id})
	m = updated.(Model)

	if m.GetState() != StateReady {
		t.Errorf("expected StateReady after completion, got %v", m.GetState())
	}

	msg := m.GetConversation().GetMessageByID(id)
	if msg.IsStreaming {
		t.Error("message should be finalized")
	}
	if msg.Content != "Yes." {
		t.Errorf("pending tokens should flush on completion, got %q", msg.Content)
	}
	if msg.TokenCount != 1 {
		t.Errorf("expected token count 1, got %d", msg.TokenCount)
	}
}

func TestTurnErrorKeepsPartialContent(t *testing.T) {
	m := newTestModel()
	m = startTestTurn(t, m, "fail")
	id := m.streamingMsgID

	updated, _ := m.Update(TurnTokenMsg{MessageID: id, Token: "partial"})
	m = updated.(Model)
	updated, _ = m.Update(TurnErrorMsg{
		MessageID: id,
		Error:     &docquery.StreamError{Kind: docquery.KindBackend, Message: "analysis failed"},
	})
	m = updated.(Model)

	if m.GetState() != StateError {
		t.Errorf("expected StateError, got %v", m.GetState())
	}
	if m.lastError == nil {
		t.Fatal("lastError should be set")
	}

	msg := m.GetConversation().GetMessageByID(id)
	if msg.Content != "partial" {
		t.Errorf("partial content should survive the error, got %q", msg.Content)
	}
	if msg.Err == "" {
		t.Error("message should carry the error")
	}
}

func TestSupersededTurnEventsIgnored(t *testing.T) {
	m := newTestModel()
	m = startTestTurn(t, m, "current turn")

	updated, _ := m.Update(TurnTokenMsg{MessageID: "stale-id", Token: "ghost"})
	m = updated.(Model)
	updated, _ = m.Update(StreamTickMsg{})
	m = updated.(Model)

	got := m.GetConversation().GetLastMessage().GetDisplayContent()
	if got != "" {
		t.Errorf("stale turn tokens should be dropped, got %q", got)
	}

	updated, _ = m.Update(TurnErrorMsg{MessageID: "stale-id", Error: &docquery.StreamError{Kind: docquery.KindBackend, Message: "old"}})
	m = updated.(Model)
	if m.GetState() != StateStreaming {
		t.Error("stale error should not change turn state")
	}
}

func TestCancelKeepsPartialOutput(t *testing.T) {
	m := newTestModel()
	m = startTestTurn(t, m, "stop me")
	id := m.streamingMsgID

	updated, _ := m.Update(TurnTokenMsg{MessageID: id, Token: "half an answ"})
	m = updated.(Model)
	updated, _ = m.Update(TurnCanceledMsg{MessageID: id})
	m = updated.(Model)

	if m.GetState() != StateReady {
		t.Errorf("expected StateReady after cancel, got %v", m.GetState())
	}

	msg := m.GetConversation().GetMessageByID(id)
	if msg.GetDisplayContent() != "half an answ" {
		t.Errorf("cancel should keep partial output, got %q", msg.GetDisplayContent())
	}
}

func TestEscRoutesThroughCancelMsg(t *testing.T) {
	m := newTestModel()
	m = startTestTurn(t, m, "stop me")
	id := m.streamingMsgID

	updated, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("Esc during streaming should produce a command")
	}

	msg, ok := cmd().(TurnCanceledMsg)
	if !ok {
		t.Fatalf("expected TurnCanceledMsg, got %T", cmd())
	}
	if msg.MessageID != id {
		t.Errorf("cancel should target the streaming message, got %q", msg.MessageID)
	}

	updated, _ = m.Update(msg)
	m = updated.(Model)
	if m.GetState() != StateReady {
		t.Errorf("expected StateReady after cancel, got %v", m.GetState())
	}
}

func TestStaleCancelIgnored(t *testing.T) {
	m := newTestModel()
	m = startTestTurn(t, m, "current turn")

	updated, _ := m.Update(TurnCanceledMsg{MessageID: "stale-id"})
	m = updated.(Model)
	if m.GetState() != StateStreaming {
		t.Error("cancel for a superseded turn should not stop the current one")
	}
}

func TestAnnounceTurn(t *testing.T) {
	msg, ok := announceTurn("msg-1")().(TurnStartMsg)
	if !ok {
		t.Fatal("announceTurn should emit a TurnStartMsg")
	}
	if msg.MessageID != "msg-1" {
		t.Errorf("MessageID = %q, want msg-1", msg.MessageID)
	}
	if msg.StartTime.IsZero() {
		t.Error("StartTime should be set")
	}

	// A start announcement from a superseded turn changes nothing.
	m := newTestModel()
	m = startTestTurn(t, m, "q")
	updated, _ := m.Update(TurnStartMsg{MessageID: "stale-id"})
	m = updated.(Model)
	if m.GetState() != StateStreaming {
		t.Error("stale turn start should be ignored")
	}
}

func TestConfigReloadAppliesNewService(t *testing.T) {
	m := newTestModel()

	cfg := config.Default()
	cfg.Service.URL = "http://localhost:9100"
	cfg.Query.StrictEvents = true
	cfg.UI.CitationDir = "/tmp/docsight-cites"

	updated, cmd := m.Update(ConfigReloadedMsg{Config: cfg})
	m = updated.(Model)

	if m.api.BaseURL() != "http://localhost:9100" {
		t.Errorf("api should follow the reloaded URL, got %q", m.api.BaseURL())
	}
	if m.citationDir != "/tmp/docsight-cites" {
		t.Errorf("citation dir should follow the reload, got %q", m.citationDir)
	}
	if cmd == nil {
		t.Error("reload should trigger a document refresh")
	}
}

func TestSubmitIgnoredWhileStreaming(t *testing.T) {
	m := newTestModel()
	m = startTestTurn(t, m, "first")

	m.input.SetValue("second question")
	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.GetConversation().MessageCount() != 2 {
		t.Errorf("submit during streaming should be ignored, got %d messages",
			m.GetConversation().MessageCount())
	}
}

func TestDismissError(t *testing.T) {
	m := newTestModel()
	m.lastError = &ErrorMsg{Title: "Query failed", Message: "boom"}
	m.state = StateError

	updated, _ := m.Update(DismissErrorMsg{})
	m = updated.(Model)

	if m.lastError != nil {
		t.Error("error should be dismissed")
	}
	if m.GetState() != StateReady {
		t.Errorf("expected StateReady, got %v", m.GetState())
	}
}

func TestClearConversation(t *testing.T) {
	m := newTestModel()
	m.conversation.AddUserMessage("q1")
	m.conversation.AddSystemMessage("note")

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = updated.(Model)

	if !m.GetConversation().IsEmpty() {
		t.Error("conversation should be cleared")
	}
}

func TestDocumentsLoadedUpdatesStatus(t *testing.T) {
	m := newTestModel()

	docs := []docquery.DocumentInfo{
		{ID: "doc1", Filename: "report.pdf"},
		{ID: "doc2", Filename: "notes.pdf"},
	}
	updated, _ := m.Update(DocumentsLoadedMsg{Documents: docs})
	m = updated.(Model)

	if len(m.knownDocs) != 2 {
		t.Errorf("expected 2 known documents, got %d", len(m.knownDocs))
	}
}

func TestSetDocumentScope(t *testing.T) {
	m := newTestModel()
	m.SetDocumentScope([]string{"doc1", "doc2"})

	m = startTestTurn(t, m, "scoped question")
	assistant := m.GetConversation().GetLastMessage()
	if len(assistant.DocumentIDs) != 2 {
		t.Errorf("turn should carry the document scope, got %v", assistant.DocumentIDs)
	}
}

func TestResizeUpdatesLayout(t *testing.T) {
	m := newTestModel()

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	if m.width != 120 || m.height != 40 {
		t.Errorf("expected 120x40, got %dx%d", m.width, m.height)
	}
	if m.viewport.Width != 120 {
		t.Errorf("viewport width should follow the terminal, got %d", m.viewport.Width)
	}

	view := m.View()
	if view == "" {
		t.Error("view should render after resize")
	}
}
