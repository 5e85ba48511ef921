// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat conversations, streamed turns, and citations.
//
// # Key Types
//
//   - Conversation: Container for a chat session with messages and metadata
//   - Message: Single message with role, content, citations, and turn state
//   - Statistics: Timing and token counts for one streamed turn
//   - Role: Message role enumeration (user, assistant, system)
//
// # Usage
//
// Create a new conversation:
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("what changed in Q3?")
//	msg := conv.AddAssistantMessage()
//	msg.AppendToken("Revenue grew 12%.")
//	msg.FinalizeStream(nil)
package model
