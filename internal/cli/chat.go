// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive question loop for docsight.
//
// A lightweight line-based alternative to the full TUI: readline editing
// and history via liner, streamed answers rendered as markdown. Useful
// over slow links or inside terminal multiplexers where the TUI is
// too heavy.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/docsight-tui/internal/config"
	"github.com/jeranaias/docsight-tui/internal/util"
)

// historyFileName is stored under the docsight config directory.
const historyFileName = "chat_history"

// chatCommands are the slash commands offered by tab completion.
var chatCommands = []string{"/docs", "/scope", "/clear", "/help", "/quit"}

// HandleChatCommand runs the interactive question loop.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	cfg, err := loadCLIConfig(args)
	if err != nil {
		return err
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		var matches []string
		for _, cmd := range chatCommands {
			if strings.HasPrefix(cmd, prefix) {
				matches = append(matches, cmd)
			}
		}
		return matches
	})

	historyPath := loadChatHistory(line)
	defer saveChatHistory(line, historyPath)

	fmt.Println(TitleStyle.Render("docsight chat"))
	fmt.Println(DimStyle.Render("Service: " + cfg.Service.URL))
	fmt.Println(DimStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Println()

	// Active document scope; empty queries everything
	var scope []string

	for {
		input, err := line.Prompt("docsight> ")
		if err == liner.ErrPromptAborted || err != nil {
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := handleChatSlashCommand(cfg, args, input, &scope); quit {
				return nil
			}
			continue
		}

		result, err := runStreamedQuery(cfg, args, input, scope, false)
		if err != nil {
			fmt.Printf("%s %v\n\n", ErrorStyle.Render("[ERROR]"), err)
			continue
		}

		fmt.Println(renderMarkdown(result.Answer))
		printCitationSummary(result.Citations, args.Quiet)
		fmt.Println()
	}
}

// handleChatSlashCommand executes a slash command. Returns true to quit.
func handleChatSlashCommand(cfg *config.Config, args Args, input string, scope *[]string) bool {
	fields := strings.Fields(input)

	switch fields[0] {
	case "/quit", "/exit", "/q":
		return true

	case "/help", "/h":
		fmt.Println(SectionStyle.Render("Commands"))
		fmt.Println("  /docs            List documents on the service")
		fmt.Println("  /scope [id ...]  Restrict questions to documents (no args clears)")
		fmt.Println("  /clear           Clear the screen")
		fmt.Println("  /quit            Exit")
		fmt.Println()

	case "/docs":
		if err := documentsList(cfg, args); err != nil {
			fmt.Printf("%s %v\n", ErrorStyle.Render("[ERROR]"), err)
		}
		fmt.Println()

	case "/scope":
		*scope = fields[1:]
		if len(*scope) == 0 {
			fmt.Println(DimStyle.Render("Scope cleared; querying all documents."))
		} else {
			fmt.Println(DimStyle.Render("Scoped to " + util.IntToString(len(*scope)) + " document(s): " + strings.Join(*scope, ", ")))
		}
		fmt.Println()

	case "/clear":
		// ANSI clear screen and home
		fmt.Print("\033[2J\033[H")

	default:
		fmt.Println(DimStyle.Render("Unknown command. Type /help for commands."))
		fmt.Println()
	}
	return false
}

// loadChatHistory reads readline history from the config directory.
// Returns the history path for saving on exit.
func loadChatHistory(line *liner.State) string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, historyFileName)
	if f, err := os.Open(path); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	return path
}

// saveChatHistory writes readline history back out. Best effort.
func saveChatHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
