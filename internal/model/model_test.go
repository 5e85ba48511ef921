// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/docsight-tui/internal/docquery"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_StreamingLifecycle(t *testing.T) {
	msg := NewAssistantMessage()

	if !msg.IsStreaming {
		t.Fatal("New assistant message should be streaming")
	}

	msg.SetStatus("searching")
	msg.SetReasoning("page 3 looks relevant")
	msg.AppendToken("The answer")
	msg.AppendToken(" is 42.")
	msg.AddCitation(docquery.Citation{Page: 3, Score: 0.82, DocumentID: "doc1"})

	if got := msg.GetDisplayContent(); got != "The answer is 42." {
		t.Errorf("GetDisplayContent() = %q during streaming", got)
	}
	if msg.Status != "searching" {
		t.Errorf("Status = %q", msg.Status)
	}

	stats := NewStatistics()
	stats.RecordToken()
	stats.RecordToken()
	stats.Finalize()
	msg.FinalizeStream(stats)

	if msg.IsStreaming {
		t.Error("FinalizeStream should end streaming")
	}
	if msg.Content != "The answer is 42." {
		t.Errorf("Content = %q after finalize", msg.Content)
	}
	if msg.Status != "" || msg.Reasoning != "" {
		t.Error("Transient status and reasoning should clear on finalize")
	}
	if !msg.HasCitations() || msg.Citations[0].Page != 3 {
		t.Errorf("Citations lost on finalize: %+v", msg.Citations)
	}
	if msg.TokenCount != 2 {
		t.Errorf("TokenCount = %d", msg.TokenCount)
	}
}

func TestMessage_FailStreamKeepsPartialContent(t *testing.T) {
	msg := NewAssistantMessage()
	msg.AppendToken("partial answer")

	msg.FailStream("index unavailable")

	if msg.IsStreaming {
		t.Error("FailStream should end streaming")
	}
	if msg.Content != "partial answer" {
		t.Errorf("Partial content lost: %q", msg.Content)
	}
	if msg.Err != "index unavailable" {
		t.Errorf("Err = %q", msg.Err)
	}
}

func TestMessage_AppendIgnoredAfterFinalize(t *testing.T) {
	msg := NewAssistantMessage()
	msg.AppendToken("done")
	msg.FinalizeStream(nil)

	msg.AppendToken(" extra")
	if msg.Content != "done" {
		t.Errorf("Append after finalize mutated content: %q", msg.Content)
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("short")
	if got := msg.Preview(50); got != "short" {
		t.Errorf("Preview of short message = %q", got)
	}

	long := NewUserMessage(strings.Repeat("界", 100))
	preview := msg.Preview(10)
	if len([]rune(preview)) > 10 {
		t.Errorf("Preview too long: %d runes", len([]rune(preview)))
	}
	longPreview := long.Preview(10)
	if !strings.HasSuffix(longPreview, "...") {
		t.Errorf("Truncated preview should end with ellipsis: %q", longPreview)
	}
}

func TestMessage_UniqueIDs(t *testing.T) {
	a := NewUserMessage("a")
	b := NewUserMessage("b")
	if a.ID == b.ID {
		t.Error("Messages should have unique IDs")
	}
	if a.ID == "" {
		t.Error("Message ID should not be empty")
	}
}

// =============================================================================
// STATISTICS TESTS
// =============================================================================

func TestStatistics_FirstTokenRecordedOnce(t *testing.T) {
	stats := NewStatistics()
	stats.RecordToken()
	first := stats.FirstTokenTime

	time.Sleep(time.Millisecond)
	stats.RecordToken()

	if !stats.FirstTokenTime.Equal(first) {
		t.Error("FirstTokenTime should not move after first token")
	}
	if stats.TokenCount != 2 {
		t.Errorf("TokenCount = %d", stats.TokenCount)
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_TurnFlow(t *testing.T) {
	conv := NewConversation()

	conv.AddUserMessage("what changed in Q3?")
	asst := conv.AddAssistantMessage()

	conv.AppendToLast("Revenue")
	conv.AppendToLast(" grew 12%.")
	conv.CiteOnLast(docquery.Citation{Page: 7, Score: 0.9})
	conv.FinalizeLast(nil)

	if conv.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d", conv.MessageCount())
	}
	if asst.Content != "Revenue grew 12%." {
		t.Errorf("Assistant content = %q", asst.Content)
	}
	if len(conv.AllCitations()) != 1 {
		t.Errorf("AllCitations = %d", len(conv.AllCitations()))
	}
	if conv.GetLastAssistantMessage() != asst {
		t.Error("GetLastAssistantMessage mismatch")
	}
}

func TestConversation_FailLast(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("q")
	conv.AddAssistantMessage()
	conv.AppendToLast("part")

	conv.FailLast("stream read failed")

	last := conv.GetLastMessage()
	if last.IsStreaming {
		t.Error("FailLast should end streaming")
	}
	if last.Err != "stream read failed" {
		t.Errorf("Err = %q", last.Err)
	}
	if last.Content != "part" {
		t.Errorf("Partial content lost: %q", last.Content)
	}
}

func TestConversation_TitleFromFirstUserMessage(t *testing.T) {
	conv := NewConversation()
	conv.AddSystemMessage("connected")
	conv.AddUserMessage("summarize the audit findings")
	conv.AddUserMessage("second question")

	if conv.Title != "summarize the audit findings" {
		t.Errorf("Title = %q", conv.Title)
	}
}

func TestConversation_DocumentScopeCopiedToTurn(t *testing.T) {
	conv := NewConversation()
	conv.DocumentIDs = []string{"doc1", "doc2"}

	asst := conv.AddAssistantMessage()
	conv.DocumentIDs[0] = "mutated"

	if asst.DocumentIDs[0] != "doc1" {
		t.Error("Turn document scope should be a copy, not an alias")
	}
}

func TestConversation_PruneOldMessages(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < MaxMessages+25; i++ {
		conv.AddUserMessage("m")
	}
	if conv.MessageCount() != MaxMessages {
		t.Errorf("MessageCount = %d, want %d", conv.MessageCount(), MaxMessages)
	}
}

func TestConversation_RemoveMessage(t *testing.T) {
	conv := NewConversation()
	msg := conv.AddUserMessage("target")
	conv.AddUserMessage("other")

	if !conv.RemoveMessage(msg.ID) {
		t.Fatal("RemoveMessage should find the message")
	}
	if conv.GetMessageByID(msg.ID) != nil {
		t.Error("Removed message still retrievable")
	}
	if conv.RemoveMessage("no-such-id") {
		t.Error("RemoveMessage of unknown ID should return false")
	}
}

func TestConversation_ClearHistory(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("a")
	conv.ClearHistory()

	if !conv.IsEmpty() {
		t.Error("ClearHistory should leave an empty conversation")
	}
}
