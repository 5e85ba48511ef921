// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docquery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
)

// =============================================================================
// REQUEST BODIES
// =============================================================================

// RequestBody is the payload handed to StartStream: either a
// JSON-serializable query or a structured multipart upload.
type RequestBody interface {
	// Encode produces the request content type and body reader.
	Encode() (contentType string, body io.Reader, err error)
}

// QueryRequest asks a question about previously uploaded documents.
// An empty DocumentIDs list queries across all of them.
type QueryRequest struct {
	Query       string   `json:"query"`
	DocumentIDs []string `json:"document_ids,omitempty"`
}

// Encode implements RequestBody.
func (r QueryRequest) Encode() (string, io.Reader, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal query: %w", err)
	}
	return "application/json", bytes.NewReader(payload), nil
}

// UploadRequest submits one document for analysis as a multipart form.
// The service streams indexing progress back over the same response.
type UploadRequest struct {
	// Filename names the form part; only its base name is sent.
	Filename string

	// Content is the document bytes. Read fully during Encode.
	Content io.Reader
}

// Encode implements RequestBody. The multipart body is buffered in memory;
// documents are page-imaged server-side and stay well under buffer
// concerns at typical sizes.
func (r UploadRequest) Encode() (string, io.Reader, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(r.Filename))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r.Content); err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", r.Filename, err)
	}
	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return w.FormDataContentType(), &buf, nil
}
