// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docquery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Non-streaming calls against the document-analysis service. These share
// the pooled API client and a plain request/response shape; everything
// streaming lives in client.go.

// MaxResponseSize caps non-streaming response bodies.
const MaxResponseSize = 10 * 1024 * 1024

// API performs the service's plain HTTP operations.
type API struct {
	baseURL string
}

// NewAPI creates an API client for the service at baseURL.
func NewAPI(baseURL string) *API {
	return &API{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// BaseURL returns the service base URL the client was built with.
func (a *API) BaseURL() string { return a.baseURL }

// QueryEndpoint returns the streaming query endpoint for StartStream.
func (a *API) QueryEndpoint() string { return a.baseURL + "/query" }

// UploadEndpoint returns the streaming upload endpoint for StartStream.
func (a *API) UploadEndpoint() string { return a.baseURL + "/upload" }

// ListDocuments retrieves the documents known to the service.
func (a *API) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/documents", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := sharedAPIClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StreamError{Kind: KindRequest, Message: requestErrorMessage(resp)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var listing struct {
		Documents []DocumentInfo `json:"documents"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("failed to parse documents response: %w", err)
	}
	return listing.Documents, nil
}

// DeleteDocument removes one document from the service.
func (a *API) DeleteDocument(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, a.baseURL+"/documents/"+id, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := sharedAPIClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return &StreamError{Kind: KindRequest, Message: requestErrorMessage(resp)}
	}
	return nil
}
