// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/docsight-tui/internal/config"
	"github.com/jeranaias/docsight-tui/internal/docquery"
	"github.com/jeranaias/docsight-tui/internal/model"
	"github.com/jeranaias/docsight-tui/internal/ui/components"
	"github.com/jeranaias/docsight-tui/internal/ui/styles"
	"github.com/jeranaias/docsight-tui/internal/util"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateStreaming              // Receiving a streamed answer
	StateError                  // Showing an error
)

// =============================================================================
// MESSAGE SINK
// =============================================================================

// msgSink relays stream callbacks into the Bubble Tea loop. The callbacks
// run on the stream goroutine; the program's Send function is the only
// safe bridge back to Update. The sink also tracks which assistant message
// the active turn is writing into.
type msgSink struct {
	mu    sync.Mutex
	send  func(tea.Msg)
	msgID string
}

func (s *msgSink) post(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (s *msgSink) setTarget(id string) {
	s.mu.Lock()
	s.msgID = id
	s.mu.Unlock()
}

func (s *msgSink) target() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msgID
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation
	conversation *model.Conversation

	// Current streaming turn
	streamingMsgID string
	streamingStats *model.Statistics
	firstTokenSeen bool

	// Streaming optimization
	streamingBuffer *StreamingBuffer

	// Document-analysis service
	streamer *docquery.Streamer
	api      *docquery.API
	sink     *msgSink

	// Known documents (service listing) and the current query scope
	knownDocs []docquery.DocumentInfo

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	indicator components.AnalysisIndicator
	header    *components.Header
	statusBar *components.StatusBar
	citations components.CitationStrip

	// Key bindings
	keyMap KeyMap

	// Error state
	lastError *ErrorMsg

	// Help overlay
	showHelp bool

	// Markdown rendering for completed answers
	markdown *glamour.TermRenderer

	// Where citation page images get saved
	citationDir string

	// Temporary status message for the status bar area
	statusMsg string
}

// New creates a new chat model wired to the given service endpoint.
func New(theme *styles.Theme, cfg *config.Config) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your documents..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sink := &msgSink{}

	m := Model{
		state:           StateReady,
		theme:           theme,
		conversation:    model.NewConversation(),
		streamingBuffer: NewStreamingBuffer(),
		api:             docquery.NewAPI(cfg.Service.URL),
		sink:            sink,
		viewport:        vp,
		input:           ti,
		indicator:       components.NewAnalysisIndicator(),
		header:          components.NewHeader(theme),
		statusBar:       components.NewStatusBar(theme),
		citations:       components.NewCitationStrip(theme),
		keyMap:          DefaultKeyMap(),
		citationDir:     resolveCitationDir(cfg),
	}

	m.header.SetServiceURL(cfg.Service.URL)
	m.statusBar.SetService(cfg.Service.URL, false)
	m.rebuildMarkdown()

	handlers := docquery.Handlers{
		OnStatus: func(status string) {
			sink.post(TurnStatusMsg{MessageID: sink.target(), Status: status})
		},
		OnReasoning: func(reasoning string) {
			sink.post(TurnReasoningMsg{MessageID: sink.target(), Reasoning: reasoning})
		},
		OnToken: func(token string) {
			sink.post(TurnTokenMsg{MessageID: sink.target(), Token: token})
		},
		OnCitation: func(c docquery.Citation) {
			sink.post(TurnCitationMsg{MessageID: sink.target(), Citation: c})
		},
		OnComplete: func(doc *docquery.DocumentInfo) {
			sink.post(TurnCompleteMsg{MessageID: sink.target(), Document: doc})
		},
		OnError: func(msg string) {
			sink.post(TurnErrorMsg{MessageID: sink.target(), Error: &docquery.StreamError{Kind: docquery.KindBackend, Message: msg}})
		},
	}

	streamer := docquery.NewStreamer(handlers).WithStrict(cfg.Query.StrictEvents)
	if cfg.Logging.Debug {
		if path, err := cfg.LogFilePath(); err == nil {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600); err == nil {
				streamer = streamer.WithLogger(log.New(f, "docsight ", log.LstdFlags))
			}
		}
	}
	m.streamer = streamer

	return m
}

// SetSend installs the Bubble Tea program's Send function so stream
// callbacks can reach the update loop. Must be called before the first
// turn starts.
func (m *Model) SetSend(send func(tea.Msg)) {
	m.sink.mu.Lock()
	m.sink.send = send
	m.sink.mu.Unlock()
}

// resolveCitationDir picks the directory for exported citation images.
func resolveCitationDir(cfg *config.Config) string {
	if cfg.UI.CitationDir != "" {
		return cfg.UI.CitationDir
	}
	return os.TempDir()
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the chat model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadDocumentsCmd())
}

// Update handles messages for the chat model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)

	case TurnStartMsg:
		return m.handleTurnStart(msg)
	case TurnStatusMsg:
		return m.handleTurnStatus(msg)
	case TurnReasoningMsg:
		return m.handleTurnReasoning(msg)
	case TurnTokenMsg:
		return m.handleTurnToken(msg)
	case TurnCitationMsg:
		return m.handleTurnCitation(msg)
	case TurnCompleteMsg:
		return m.handleTurnComplete(msg)
	case TurnErrorMsg:
		return m.handleTurnError(msg)
	case TurnCanceledMsg:
		return m.handleTurnCanceled(msg)
	case StreamTickMsg:
		return m.handleStreamTick(msg)

	case DocumentsLoadedMsg:
		return m.handleDocumentsLoaded(msg)
	case CitationImagesSavedMsg:
		if msg.Error != nil {
			m.statusMsg = "image export failed: " + msg.Error.Error()
		} else if len(msg.Paths) > 0 {
			m.statusMsg = "saved " + util.IntToString(len(msg.Paths)) + " page image(s) to " + m.citationDir
		} else {
			m.statusMsg = "no citation images to save"
		}
		return m, nil

	case ErrorMsg:
		m.lastError = &msg
		m.state = StateError
		return m, nil
	case DismissErrorMsg:
		m.lastError = nil
		if m.state == StateError {
			m.state = StateReady
		}
		return m, nil

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)
	}

	// Forward everything else to the focused components
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.indicator, cmd = m.indicator.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY AND RESIZE HANDLING
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	headerHeight := 4
	inputHeight := 3
	statusHeight := 1
	m.viewport.Width = msg.Width
	m.viewport.Height = msg.Height - headerHeight - inputHeight - statusHeight
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}

	m.input.Width = msg.Width - 4
	m.header.SetWidth(msg.Width)
	m.statusBar.SetWidth(msg.Width)
	m.citations.SetWidth(msg.Width - 4)
	m.rebuildMarkdown()
	m.updateViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keyMap.Quit):
		m.streamer.StopStream()
		return m, tea.Quit

	case keyMatches(msg, m.keyMap.Cancel):
		if m.state == StateStreaming {
			// Routed as a message so cancellation shares the turn-id
			// supersession guard with every other turn event.
			id := m.streamingMsgID
			return m, func() tea.Msg { return TurnCanceledMsg{MessageID: id} }
		}
		if m.lastError != nil {
			m.lastError = nil
			m.state = StateReady
			return m, nil
		}
		m.input.SetValue("")
		return m, nil

	case keyMatches(msg, m.keyMap.Submit):
		question := m.input.Value()
		if question == "" || m.state == StateStreaming {
			return m, nil
		}
		m.input.SetValue("")
		return m.startTurn(question)

	case keyMatches(msg, m.keyMap.Clear):
		m.conversation.ClearHistory()
		m.citations.Clear()
		m.updateViewport()
		return m, nil

	case keyMatches(msg, m.keyMap.Documents):
		m.statusMsg = "refreshing documents..."
		return m, m.loadDocumentsCmd()

	case keyMatches(msg, m.keyMap.SaveImages):
		return m, m.saveImagesCmd()

	case keyMatches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case keyMatches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case keyMatches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	case keyMatches(msg, m.keyMap.Home):
		m.viewport.GotoTop()
		return m, nil
	case keyMatches(msg, m.keyMap.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// TURN LIFECYCLE
// =============================================================================

// startTurn submits a question: records the user message, creates the
// assistant placeholder, and launches the stream.
func (m Model) startTurn(question string) (tea.Model, tea.Cmd) {
	m.conversation.AddUserMessage(question)
	assistant := m.conversation.AddAssistantMessage()

	m.streamingMsgID = assistant.ID
	m.streamingStats = model.NewStatistics()
	m.firstTokenSeen = false
	m.streamingBuffer.Reset()
	m.citations.Clear()
	m.state = StateStreaming
	m.statusMsg = ""
	m.statusBar.SetStatus(components.StatusAnalyzing)
	m.sink.setTarget(assistant.ID)
	m.updateViewport()

	req := docquery.QueryRequest{
		Query:       question,
		DocumentIDs: append([]string(nil), m.conversation.DocumentIDs...),
	}

	streamer := m.streamer
	endpoint := m.api.QueryEndpoint()
	startCmd := func() tea.Msg {
		// Blocks until the turn goes terminal. Events arrive through the
		// handler callbacks; the error surface is consumed there too.
		streamer.StartStream(context.Background(), endpoint, req)
		return nil
	}

	return m, tea.Batch(m.indicator.Start(), announceTurn(assistant.ID), startCmd, streamTickCmd())
}

// announceTurn emits the TurnStartMsg for a freshly created assistant
// message, so interested views can react to the turn beginning.
func announceTurn(msgID string) tea.Cmd {
	start := time.Now()
	return func() tea.Msg {
		return TurnStartMsg{MessageID: msgID, StartTime: start}
	}
}

// stopTurn cancels the in-flight turn. Partial output is kept.
func (m Model) stopTurn() (tea.Model, tea.Cmd) {
	m.streamer.StopStream()
	m.flushPending()

	m.indicator.Stop()
	m.state = StateReady
	m.statusBar.SetStatus(components.StatusReady)
	m.statusMsg = "stopped"

	if msg := m.conversation.GetMessageByID(m.streamingMsgID); msg != nil {
		msg.SetStatus("")
		msg.SetReasoning("")
		msg.IsStreaming = false
	}
	m.updateViewport()
	return m, nil
}

func (m Model) handleTurnStart(msg TurnStartMsg) (tea.Model, tea.Cmd) {
	if !m.isCurrentTurn(msg.MessageID) {
		return m, nil
	}
	m.statusBar.SetStatus(components.StatusAnalyzing)
	return m, nil
}

func (m Model) handleTurnStatus(msg TurnStatusMsg) (tea.Model, tea.Cmd) {
	if !m.isCurrentTurn(msg.MessageID) {
		return m, nil
	}
	if target := m.conversation.GetMessageByID(msg.MessageID); target != nil {
		target.SetStatus(msg.Status)
	}
	m.indicator.SetDetail(msg.Status)
	m.updateViewport()
	return m, nil
}

func (m Model) handleTurnReasoning(msg TurnReasoningMsg) (tea.Model, tea.Cmd) {
	if !m.isCurrentTurn(msg.MessageID) {
		return m, nil
	}
	if target := m.conversation.GetMessageByID(msg.MessageID); target != nil {
		target.SetReasoning(msg.Reasoning)
	}
	m.updateViewport()
	return m, nil
}

func (m Model) handleTurnToken(msg TurnTokenMsg) (tea.Model, tea.Cmd) {
	if !m.isCurrentTurn(msg.MessageID) {
		return m, nil
	}

	if !m.firstTokenSeen {
		m.firstTokenSeen = true
		if m.streamingStats != nil {
			m.streamingStats.RecordFirstToken()
		}
		m.statusBar.SetStatus(components.StatusStreaming)
	}
	if m.streamingStats != nil {
		m.streamingStats.RecordToken()
	}

	// Batch: the tick loop flushes into the conversation
	m.streamingBuffer.Write(msg.Token)
	return m, nil
}

func (m Model) handleTurnCitation(msg TurnCitationMsg) (tea.Model, tea.Cmd) {
	if !m.isCurrentTurn(msg.MessageID) {
		return m, nil
	}
	if target := m.conversation.GetMessageByID(msg.MessageID); target != nil {
		target.AddCitation(msg.Citation)
	}
	m.citations.Add(msg.Citation)
	m.updateViewport()
	return m, nil
}

func (m Model) handleStreamTick(msg StreamTickMsg) (tea.Model, tea.Cmd) {
	if m.state != StateStreaming {
		return m, nil
	}
	if content, ok := m.streamingBuffer.Flush(); ok {
		m.conversation.AppendToLast(content)
		m.updateViewport()
		m.viewport.GotoBottom()
	}
	return m, streamTickCmd()
}

func (m Model) handleTurnComplete(msg TurnCompleteMsg) (tea.Model, tea.Cmd) {
	if !m.isCurrentTurn(msg.MessageID) {
		return m, nil
	}
	m.flushPending()

	if m.streamingStats != nil {
		m.streamingStats.Finalize()
	}
	m.conversation.FinalizeLast(m.streamingStats)

	m.indicator.Stop()
	m.state = StateReady
	m.statusBar.SetStatus(components.StatusReady)
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleTurnError(msg TurnErrorMsg) (tea.Model, tea.Cmd) {
	if !m.isCurrentTurn(msg.MessageID) {
		return m, nil
	}
	m.flushPending()

	errText := "stream failed"
	if msg.Error != nil {
		errText = msg.Error.Error()
	}
	m.conversation.FailLast(errText)

	m.indicator.Stop()
	m.state = StateError
	m.lastError = &ErrorMsg{Title: "Query failed", Message: errText}
	m.statusBar.SetStatus(components.StatusError)
	m.updateViewport()
	return m, nil
}

func (m Model) handleTurnCanceled(msg TurnCanceledMsg) (tea.Model, tea.Cmd) {
	if !m.isCurrentTurn(msg.MessageID) {
		return m, nil
	}
	return m.stopTurn()
}

// flushPending force-drains the token buffer into the conversation.
func (m *Model) flushPending() {
	if content, ok := m.streamingBuffer.ForceFlush(); ok {
		m.conversation.AppendToLast(content)
	}
}

// isCurrentTurn guards against messages from a superseded turn.
func (m *Model) isCurrentTurn(msgID string) bool {
	return msgID != "" && msgID == m.streamingMsgID
}

// handleConfigReloaded applies a config file change mid-session. The new
// service URL and strictness take effect from the next turn; an in-flight
// stream keeps the connection it started with.
func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	cfg := msg.Config
	if cfg == nil {
		return m, nil
	}

	m.api = docquery.NewAPI(cfg.Service.URL)
	m.streamer.SetStrict(cfg.Query.StrictEvents)
	m.citationDir = resolveCitationDir(cfg)
	m.header.SetServiceURL(cfg.Service.URL)
	m.statusMsg = "configuration reloaded"

	// Re-list documents against the (possibly new) endpoint; the result
	// also refreshes the status bar's connectivity indicator.
	return m, m.loadDocumentsCmd()
}

// =============================================================================
// DOCUMENT HANDLING
// =============================================================================

func (m Model) handleDocumentsLoaded(msg DocumentsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Error != nil {
		m.statusBar.SetService(m.api.BaseURL(), false)
		m.statusMsg = "document listing failed: " + msg.Error.Error()
		return m, nil
	}

	m.knownDocs = msg.Documents
	m.statusBar.SetService(m.api.BaseURL(), true)
	m.statusBar.SetDocScope(len(m.conversation.DocumentIDs), len(msg.Documents))
	m.header.SetDocCount(len(msg.Documents))
	m.statusMsg = ""
	return m, nil
}

// loadDocumentsCmd fetches the service's document listing.
func (m Model) loadDocumentsCmd() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		docs, err := api.ListDocuments(ctx)
		return DocumentsLoadedMsg{Documents: docs, Error: err}
	}
}

// saveImagesCmd exports the last answer's citation images to disk.
func (m Model) saveImagesCmd() tea.Cmd {
	strip := m.citations
	dir := m.citationDir
	return func() tea.Msg {
		paths, err := strip.SaveAllImages(dir)
		return CitationImagesSavedMsg{Paths: paths, Error: err}
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// GetConversation returns the current conversation.
func (m *Model) GetConversation() *model.Conversation {
	return m.conversation
}

// GetState returns the chat state.
func (m *Model) GetState() State {
	return m.state
}

// SetDocumentScope restricts queries to the given document IDs.
func (m *Model) SetDocumentScope(ids []string) {
	m.conversation.DocumentIDs = append([]string(nil), ids...)
	m.statusBar.SetDocScope(len(ids), len(m.knownDocs))
}

// keyMatches reports whether the key message matches the binding.
func keyMatches(msg tea.KeyMsg, binding key.Binding) bool {
	return key.Matches(msg, binding)
}
