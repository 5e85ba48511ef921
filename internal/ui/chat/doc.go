// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive chat view.
//
// The view is a Bubble Tea model composed of a transcript viewport, a text
// input, and the status bar. A turn starts when the user submits a question:
// the docquery streamer runs on its own goroutine and its callbacks are
// relayed into the update loop as Turn* messages through the program's Send
// function. Token messages are batched by StreamingBuffer and drained by a
// 30fps tick so rendering stays smooth under fast streams.
//
// Files:
//   - model.go: the Model, turn lifecycle, and stream-to-loop bridge
//   - view.go: transcript, input, and overlay rendering
//   - messages.go: the Bubble Tea message vocabulary
//   - streaming.go: token batching and the render tick
//   - keys.go: key bindings
package chat
