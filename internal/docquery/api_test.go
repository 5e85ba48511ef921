// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docquery

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/documents", r.URL.Path)
		fmt.Fprint(w, `{"documents":[{"id":"doc1","filename":"report.pdf","pages":12},{"id":"doc2","filename":"notes.pdf","pages":3}]}`)
	}))
	defer server.Close()

	docs, err := NewAPI(server.URL).ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc1", docs[0].ID)
	assert.Equal(t, "notes.pdf", docs[1].Filename)
	assert.Equal(t, 3, docs[1].Pages)
}

func TestListDocumentsRequestError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"detail":"index warming up"}`)
	}))
	defer server.Close()

	_, err := NewAPI(server.URL).ListDocuments(context.Background())
	var se *StreamError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindRequest, se.Kind)
	assert.Equal(t, "index warming up", se.Message)
}

func TestDeleteDocument(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := NewAPI(server.URL).DeleteDocument(context.Background(), "doc7")
	require.NoError(t, err)
	assert.Equal(t, "/documents/doc7", gotPath)
}

func TestAPITrimsTrailingSlash(t *testing.T) {
	api := NewAPI("http://localhost:8000/")
	assert.Equal(t, "http://localhost:8000/query", api.QueryEndpoint())
	assert.Equal(t, "http://localhost:8000/upload", api.UploadEndpoint())
}

func TestQueryRequestEncode(t *testing.T) {
	contentType, body, err := QueryRequest{
		Query:       "what changed?",
		DocumentIDs: []string{"doc1"},
	}.Encode()
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	payload, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"what changed?","document_ids":["doc1"]}`, string(payload))
}

func TestQueryRequestEncodeOmitsEmptyIDs(t *testing.T) {
	_, body, err := QueryRequest{Query: "q"}.Encode()
	require.NoError(t, err)
	payload, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"q"}`, string(payload))
}

func TestUploadRequestEncode(t *testing.T) {
	contentType, body, err := UploadRequest{
		Filename: "/tmp/scans/report.pdf",
		Content:  strings.NewReader("%PDF-1.4 fake"),
	}.Encode()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(body, params["boundary"])
	part, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "file", part.FormName())
	assert.Equal(t, "report.pdf", part.FileName(), "only the base name is sent")

	content, err := io.ReadAll(part)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(content))

	_, err = reader.NextPart()
	assert.Equal(t, io.EOF, err, "exactly one part")
}
