// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/docsight-tui/internal/docquery"
	"github.com/jeranaias/docsight-tui/internal/ui/styles"
)

func newTestStrip() CitationStrip {
	return NewCitationStrip(styles.NewTheme())
}

func TestCitationStripEmpty(t *testing.T) {
	strip := newTestStrip()
	if strip.View() != "" {
		t.Error("Empty strip should render nothing")
	}
	if strip.Count() != 0 {
		t.Error("Empty strip count should be zero")
	}
}

func TestCitationStripRendersChips(t *testing.T) {
	strip := newTestStrip()
	strip.SetWidth(80)
	strip.Add(docquery.Citation{DocumentID: "doc1", Page: 12, Score: 0.86})
	strip.Add(docquery.Citation{DocumentID: "doc1", Page: 3, Score: 0.41})

	view := strip.View()
	if !strings.Contains(view, "p.12") || !strings.Contains(view, "p.3") {
		t.Errorf("Strip should show page numbers: %q", view)
	}
	if !strings.Contains(view, "86%") || !strings.Contains(view, "41%") {
		t.Errorf("Strip should show scores: %q", view)
	}
	if !strings.Contains(view, "Sources:") {
		t.Errorf("Strip should carry the Sources label: %q", view)
	}
}

func TestCitationStripKeepsDuplicates(t *testing.T) {
	strip := newTestStrip()
	cit := docquery.Citation{DocumentID: "doc1", Page: 5, Score: 0.9}
	strip.Add(cit)
	strip.Add(cit)

	if strip.Count() != 2 {
		t.Errorf("Duplicate citations should be kept, count = %d", strip.Count())
	}
}

func TestCitationStripClear(t *testing.T) {
	strip := newTestStrip()
	strip.Add(docquery.Citation{Page: 1})
	strip.Clear()

	if strip.Count() != 0 || strip.View() != "" {
		t.Error("Clear should remove all citations")
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.0, "0%"},
		{0.5, "50%"},
		{0.855, "86%"},
		{1.0, "100%"},
		{1.7, "100%"},
		{-0.2, "0%"},
	}

	for _, tt := range tests {
		if got := formatScore(tt.score); got != tt.want {
			t.Errorf("formatScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("fake png bytes")
	cit := docquery.Citation{
		DocumentID:  "doc1",
		Page:        4,
		ImageBase64: base64.StdEncoding.EncodeToString(payload),
	}

	path, err := SaveImage(cit, dir)
	if err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if filepath.Base(path) != "doc1-page-4.png" {
		t.Errorf("Unexpected filename: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading saved image failed: %v", err)
	}
	if string(data) != string(payload) {
		t.Error("Saved image bytes do not match payload")
	}
}

func TestSaveImageNoData(t *testing.T) {
	_, err := SaveImage(docquery.Citation{Page: 1}, t.TempDir())
	if err == nil {
		t.Error("SaveImage should fail when the citation has no image data")
	}
}

func TestSaveImageBadBase64(t *testing.T) {
	cit := docquery.Citation{Page: 1, ImageBase64: "not!!base64"}
	if _, err := SaveImage(cit, t.TempDir()); err == nil {
		t.Error("SaveImage should fail on invalid base64")
	}
}

func TestSaveAllImagesSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	strip := newTestStrip()
	strip.Add(docquery.Citation{DocumentID: "a", Page: 1,
		ImageBase64: base64.StdEncoding.EncodeToString([]byte("x"))})
	strip.Add(docquery.Citation{DocumentID: "b", Page: 2}) // no image

	paths, err := strip.SaveAllImages(dir)
	if err != nil {
		t.Fatalf("SaveAllImages failed: %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("Expected 1 saved image, got %d", len(paths))
	}
}
