// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package docquery implements the streaming client for the document-analysis
// service.
//
// The service answers queries and processes uploads over a long-lived HTTP
// response encoded as Server-Sent Events. This package reconstructs discrete
// events from the arbitrarily-fragmented byte stream, applies them to a
// per-turn StreamState, and notifies the caller through optional per-kind
// callbacks.
//
// Three pieces collaborate:
//
//   - Streamer (client.go) owns the lifecycle of at most one active stream:
//     start, stop, reset, cancellation. Starting a new stream always cancels
//     the previous one first.
//   - Parser (parser.go) is a pure framing layer: it turns raw byte chunks
//     into complete SSE frames, holding partial frames (and partial UTF-8
//     runes) across chunk boundaries.
//   - The dispatch table (dispatch.go) interprets each framed event and
//     performs the matching state transition.
//
// Cancellation is categorically not an error: stopping a stream clears the
// loading flag and nothing else.
package docquery
