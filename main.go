// docsight TUI - A terminal client for visual document analysis.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docsight-tui/internal/cli"
	"github.com/jeranaias/docsight-tui/internal/config"
	"github.com/jeranaias/docsight-tui/internal/ui/chat"
	"github.com/jeranaias/docsight-tui/internal/ui/components"
	"github.com/jeranaias/docsight-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async streaming
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdDocuments:
		if err := cli.HandleDocuments(args); err != nil {
			os.Exit(cli.GetExitCode(err))
		}
	case cli.CmdStatus:
		if err := cli.HandleStatus(args); err != nil {
			os.Exit(cli.GetExitCode(err))
		}
	case cli.CmdConfig:
		if err := cli.HandleConfig(args); err != nil {
			os.Exit(cli.GetExitCode(err))
		}
	case cli.CmdDoctor:
		if err := cli.HandleDoctor(args); err != nil {
			os.Exit(cli.GetExitCode(err))
		}
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		cli.PrintUsage()
		os.Exit(cli.ExitUsageError)
	}
}

// runTUI starts the full-screen chat interface.
func runTUI(args cli.Args) {
	// Without a real terminal (or with --plain) the alt-screen TUI is
	// useless; the line-based REPL covers the same ground.
	if args.Plain || !cli.IsTTY() {
		cli.HandleChat(args)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(cli.ExitConfigError)
	}
	if args.ServiceURL != "" {
		cfg.Service.URL = args.ServiceURL
	}
	if args.Strict {
		cfg.Query.StrictEvents = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitConfigError)
	}

	theme := styles.NewTheme()
	m := NewModel(theme, cfg, args)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// The stream goroutine posts turn events through this reference.
	programMu.Lock()
	programRef = p
	programMu.Unlock()
	m.chatModel.SetSend(func(msg tea.Msg) {
		programMu.Lock()
		ref := programRef
		programMu.Unlock()
		if ref != nil {
			ref.Send(msg)
		}
	})

	// Config edits on disk take effect without restarting the TUI.
	// Command-line overrides keep precedence across reloads.
	watcher, err := config.NewWatcher(func(updated *config.Config) {
		if args.ServiceURL != "" {
			updated.Service.URL = args.ServiceURL
		}
		if args.Strict {
			updated.Query.StrictEvents = true
		}
		programMu.Lock()
		ref := programRef
		programMu.Unlock()
		if ref != nil {
			ref.Send(chat.ConfigReloadedMsg{Config: updated})
		}
	})
	if err == nil {
		if watchErr := watcher.Watch(); watchErr != nil {
			watcher.Close()
		} else {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running docsight: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// State represents the current application state.
type State int

const (
	// StateWelcome shows the startup screen until the first keypress.
	StateWelcome State = iota
	// StateChat is the main conversation view.
	StateChat
)

// Model is the top-level Bubble Tea model. It owns the welcome screen and
// hands everything else to the chat model.
type Model struct {
	state State

	theme *styles.Theme

	width  int
	height int

	chatModel chat.Model
	welcome   components.Welcome

	config *config.Config
}

// NewModel creates the application model.
func NewModel(theme *styles.Theme, cfg *config.Config, args cli.Args) *Model {
	welcome := components.NewWelcome(theme)
	welcome.SetVersion(Version)
	welcome.SetServiceURL(cfg.Service.URL)

	chatModel := chat.New(theme, cfg)
	if len(args.DocIDs) > 0 {
		chatModel.SetDocumentScope(args.DocIDs)
	}

	return &Model{
		state:     StateWelcome,
		theme:     theme,
		chatModel: chatModel,
		welcome:   welcome,
		config:    cfg,
	}
}

// Init initializes the application.
func (m *Model) Init() tea.Cmd {
	return m.chatModel.Init()
}

// Update routes messages by state. Stream events always reach the chat
// model so a turn started before the welcome screen dismisses is not lost.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.welcome.SetSize(msg.Width, msg.Height)
		return m.forwardToChat(msg)

	case chat.DocumentsLoadedMsg:
		m.welcome.SetDocCount(len(msg.Documents))
		return m.forwardToChat(msg)

	case tea.KeyMsg:
		if m.state == StateWelcome {
			switch msg.Type {
			case tea.KeyCtrlC:
				return m, tea.Quit
			default:
				// Any other key dismisses the welcome screen
				m.state = StateChat
				return m, nil
			}
		}
		return m.forwardToChat(msg)
	}

	return m.forwardToChat(msg)
}

// forwardToChat delegates a message to the chat model.
func (m *Model) forwardToChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.chatModel.Update(msg)
	if cm, ok := updated.(chat.Model); ok {
		m.chatModel = cm
	}
	return m, cmd
}

// View renders the current state.
func (m *Model) View() string {
	if m.state == StateWelcome {
		return m.welcome.View()
	}
	return m.chatModel.View()
}
