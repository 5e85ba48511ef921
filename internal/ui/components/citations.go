// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the docsight TUI.
package components

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docsight-tui/internal/docquery"
	"github.com/jeranaias/docsight-tui/internal/ui/styles"
	"github.com/jeranaias/docsight-tui/internal/util"
)

// =============================================================================
// CITATION STRIP COMPONENT
// =============================================================================

// StrongScoreThreshold separates strong citations from weak ones visually.
const StrongScoreThreshold = 0.7

// CitationStrip renders the page citations attached to an answer as a row
// of chips. Terminals cannot display the page images inline, so each chip
// shows the page number and relevance score, and the images can be exported
// to disk with SaveImage.
type CitationStrip struct {
	citations []docquery.Citation
	width     int
	theme     *styles.Theme
}

// NewCitationStrip creates an empty citation strip.
func NewCitationStrip(theme *styles.Theme) CitationStrip {
	return CitationStrip{theme: theme}
}

// SetCitations replaces the displayed citations.
func (c *CitationStrip) SetCitations(citations []docquery.Citation) {
	c.citations = citations
}

// Add appends one citation to the strip. Duplicates are kept, matching the
// order the service emitted them.
func (c *CitationStrip) Add(citation docquery.Citation) {
	c.citations = append(c.citations, citation)
}

// Clear removes all citations.
func (c *CitationStrip) Clear() {
	c.citations = nil
}

// Count returns the number of citations in the strip.
func (c *CitationStrip) Count() int {
	return len(c.citations)
}

// SetWidth updates the available width for wrapping.
func (c *CitationStrip) SetWidth(width int) {
	c.width = width
}

// View renders the citation chips, wrapping to the available width.
func (c CitationStrip) View() string {
	if len(c.citations) == 0 {
		return ""
	}

	label := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("Sources: ")

	chips := make([]string, 0, len(c.citations))
	for _, cit := range c.citations {
		chips = append(chips, c.renderChip(cit))
	}

	width := c.width
	if width <= 0 {
		width = 80
	}

	// Wrap chips into rows that fit the width
	var rows []string
	var row string
	for _, chip := range chips {
		candidate := chip
		if row != "" {
			candidate = row + " " + chip
		}
		if lipgloss.Width(candidate) > width && row != "" {
			rows = append(rows, row)
			row = chip
			continue
		}
		row = candidate
	}
	if row != "" {
		rows = append(rows, row)
	}

	return label + "\n" + strings.Join(rows, "\n")
}

// renderChip renders one citation as a chip: "doc3 p.12 86%".
func (c CitationStrip) renderChip(cit docquery.Citation) string {
	scoreStyle := c.theme.CitationScore
	if cit.Score < StrongScoreThreshold {
		scoreStyle = c.theme.CitationWeak
	}

	doc := cit.DocumentID
	if doc != "" {
		doc = util.TruncateRunesNoEllipsis(doc, 8) + " "
	}

	text := doc + "p." + util.IntToString(cit.Page) + " " +
		scoreStyle.Render(formatScore(cit.Score))
	return c.theme.CitationChip.Render(text)
}

// formatScore renders a 0.0-1.0 relevance score as a percentage.
func formatScore(score float64) string {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return util.IntToString(int(score*100+0.5)) + "%"
}

// =============================================================================
// IMAGE EXPORT
// =============================================================================

// SaveImage decodes a citation's page image and writes it to dir. The
// filename encodes the document and page so repeated saves are stable:
// <document>-page-<n>.png. Returns the written path.
func SaveImage(cit docquery.Citation, dir string) (string, error) {
	if cit.ImageBase64 == "" {
		return "", fmt.Errorf("citation for page %d has no image data", cit.Page)
	}

	data, err := base64.StdEncoding.DecodeString(cit.ImageBase64)
	if err != nil {
		return "", fmt.Errorf("failed to decode citation image: %w", err)
	}

	doc := cit.DocumentID
	if doc == "" {
		doc = "document"
	}
	name := doc + "-page-" + util.IntToString(cit.Page) + ".png"
	path := filepath.Join(dir, name)

	// RELIABILITY: atomic write so a crash cannot leave a truncated image
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write citation image: %w", err)
	}
	return path, nil
}

// SaveAllImages writes every citation image in the strip to dir, skipping
// citations without image payloads. Returns the written paths.
func (c CitationStrip) SaveAllImages(dir string) ([]string, error) {
	var paths []string
	for _, cit := range c.citations {
		if cit.ImageBase64 == "" {
			continue
		}
		path, err := SaveImage(cit, dir)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
