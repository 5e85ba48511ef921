// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docquery

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// ErrorKind classifies terminal stream failures. The caller-visible surface
// is deliberately a single message string (StreamState.Err / OnError); the
// kind tag exists for logging and tests and does not widen that contract.
type ErrorKind int

const (
	// KindTransport: the request could not be sent or the connection
	// failed before or during streaming.
	KindTransport ErrorKind = iota

	// KindRequest: the server answered with a non-success status before
	// streaming began.
	KindRequest

	// KindProtocol: the response succeeded but its body is absent or
	// unreadable.
	KindProtocol

	// KindBackend: the server itself emitted an error frame. Treated as a
	// normal terminal event, surfaced through the same path as transport
	// failures.
	KindBackend
)

// String returns a short label for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRequest:
		return "request"
	case KindProtocol:
		return "protocol"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// StreamError is a terminal stream failure.
type StreamError struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return e.Message
}

// errMaxBodySample caps how much of an error response body is read when
// extracting a server-supplied message.
const errMaxBodySample = 64 * 1024

// serverErrorBody matches the two error envelopes the service emits:
// a FastAPI-style {"detail": "..."} and a nested {"error": {"message"}}.
type serverErrorBody struct {
	Detail string `json:"detail"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

// requestErrorMessage extracts the server-supplied message from a
// non-success response, falling back to a generic status-code message.
func requestErrorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errMaxBodySample))

	var parsed serverErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Detail != "" {
			return parsed.Detail
		}
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}
	}
	return fmt.Sprintf("request failed with status %d", resp.StatusCode)
}
