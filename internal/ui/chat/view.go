// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docsight-tui/internal/model"
	"github.com/jeranaias/docsight-tui/internal/ui/styles"
	"github.com/jeranaias/docsight-tui/internal/util"
)

// =============================================================================
// MAIN VIEW
// =============================================================================

// View renders the chat view.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.header.View())
	sections = append(sections, m.viewport.View())

	if strip := m.citations.View(); strip != "" {
		sections = append(sections, strip)
	}

	if m.lastError != nil {
		sections = append(sections, m.renderError())
	}

	sections = append(sections, m.renderInput())

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, m.statusBar.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// updateViewport re-renders the conversation into the viewport.
func (m *Model) updateViewport() {
	m.viewport.SetContent(m.renderMessages())
}

// renderMessages renders the full conversation transcript.
func (m *Model) renderMessages() string {
	if m.conversation.IsEmpty() {
		hint := m.theme.WelcomeInfo.Render("Ask a question about your uploaded documents to get started.")
		return lipgloss.NewStyle().Padding(1, 2).Render(hint)
	}

	var b strings.Builder
	for i, msg := range m.conversation.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		switch msg.Role {
		case model.RoleUser:
			b.WriteString(m.renderUserMessage(msg))
		case model.RoleAssistant:
			b.WriteString(m.renderAssistantMessage(msg))
		case model.RoleSystem:
			b.WriteString(m.renderSystemMessage(msg))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderUserMessage renders a user question, right-aligned.
func (m *Model) renderUserMessage(msg *model.Message) string {
	width := m.bubbleWidth()
	bubble := m.theme.UserBubble.MaxWidth(width).Render(msg.Content)
	label := m.theme.ShortcutDesc.Render(msg.Role.DisplayName())
	block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
	return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, block)
}

// renderAssistantMessage renders an answer. Streaming messages show raw
// partial text with the progress indicator; completed ones get markdown.
func (m *Model) renderAssistantMessage(msg *model.Message) string {
	width := m.bubbleWidth()

	var body string
	if msg.IsStreaming {
		body = msg.GetDisplayContent()
		if body == "" && msg.Status == "" && msg.Reasoning == "" {
			body = m.indicator.View()
		}
	} else {
		body = m.renderMarkdown(msg.Content)
	}

	var parts []string
	parts = append(parts, m.theme.ShortcutDesc.Render(msg.Role.DisplayName()))

	if msg.IsStreaming {
		// Transient turn state rides above the partial answer
		if msg.Status != "" {
			parts = append(parts, m.theme.StatusLine.Render(msg.Status))
		}
		if msg.Reasoning != "" {
			parts = append(parts, m.theme.ReasoningLine.Render(util.TruncateWidth(msg.Reasoning, width)))
		}
	}

	if body != "" {
		parts = append(parts, m.theme.AssistantBubble.MaxWidth(width).Render(body))
	}

	if !msg.IsStreaming && msg.HasCitations() {
		parts = append(parts, m.renderCitationSummary(msg))
	}

	if msg.Err != "" {
		parts = append(parts, styles.RenderError(msg.Err))
	}

	if !msg.IsStreaming && msg.TokenCount > 0 {
		parts = append(parts, m.renderStats(msg))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderSystemMessage renders a system notice, centered.
func (m *Model) renderSystemMessage(msg *model.Message) string {
	bubble := m.theme.SystemBubble.MaxWidth(m.bubbleWidth()).Render(msg.Content)
	return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Center, bubble)
}

// renderCitationSummary renders one line naming the pages an answer cited.
func (m *Model) renderCitationSummary(msg *model.Message) string {
	var chips []string
	for _, cit := range msg.Citations {
		chip := util.TruncateRunes(cit.DocumentID, 8) + " p." + util.IntToString(cit.Page)
		chips = append(chips, m.theme.CitationChip.Render(chip))
	}
	label := m.theme.ShortcutDesc.Render("cited: ")
	return label + strings.Join(chips, " ")
}

// renderStats renders the per-turn timing line.
func (m *Model) renderStats(msg *model.Message) string {
	stats := util.IntToString(msg.TokenCount) + " tokens"
	if msg.TTFT > 0 {
		stats += "  first token " + msg.TTFT.Round(time.Millisecond).String()
	}
	if msg.TotalDuration > 0 {
		stats += "  total " + msg.TotalDuration.Round(time.Millisecond).String()
	}
	return m.theme.StatsBar.Render(stats)
}

// bubbleWidth returns the max content width for message bubbles.
func (m *Model) bubbleWidth() int {
	width := m.viewport.Width - 8
	if width < 20 {
		width = 20
	}
	return width
}

// =============================================================================
// INPUT AND OVERLAYS
// =============================================================================

// renderInput renders the input area.
func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

// renderError renders the error box.
func (m Model) renderError() string {
	title := m.theme.ErrorTitle.Render(m.lastError.Title)
	body := m.theme.ErrorMessage.Render(m.lastError.Message)
	hint := m.theme.ShortcutDesc.Render("Press Esc to dismiss")
	content := lipgloss.JoinVertical(lipgloss.Left, title, body, hint)
	return m.theme.ErrorBox.MaxWidth(m.width - 4).Render(content)
}

// renderHelp renders the expanded key binding help.
func (m Model) renderHelp() string {
	var lines []string
	for _, group := range m.keyMap.FullHelp() {
		var entries []string
		for _, binding := range group {
			entries = append(entries,
				m.theme.ShortcutKey.Render(binding.Help().Key)+" "+
					m.theme.ShortcutDesc.Render(binding.Help().Desc))
		}
		lines = append(lines, strings.Join(entries, "   "))
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(lines, "\n"))
}

// =============================================================================
// MARKDOWN
// =============================================================================

// rebuildMarkdown recreates the glamour renderer for the current width.
// A nil renderer means answers fall back to plain text.
func (m *Model) rebuildMarkdown() {
	wrap := m.bubbleWidth() - 4
	if wrap < 20 {
		wrap = 20
	}
	if wrap > 100 {
		wrap = 100
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.markdown = nil
		return
	}
	m.markdown = renderer
}

// renderMarkdown renders answer markdown, falling back to the raw text.
func (m *Model) renderMarkdown(content string) string {
	if m.markdown == nil {
		return content
	}
	out, err := m.markdown.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
