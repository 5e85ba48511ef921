// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command: one screen answering "can I ask questions
// right now, and about what".
package cli

import (
	"fmt"

	"github.com/jeranaias/docsight-tui/internal/config"
	"github.com/jeranaias/docsight-tui/internal/docquery"
	"github.com/jeranaias/docsight-tui/internal/util"
)

// HandleStatus handles the status command.
func HandleStatus(args Args) error {
	cfg, err := loadCLIConfig(args)
	if err != nil {
		return HandleError(err, args.JSON)
	}

	data := collectStatus(cfg)

	if args.JSON {
		return NewJSONResponse("status", data).Print()
	}

	renderStatusScreen(cfg, data)
	return nil
}

// collectStatus gathers service and registry state.
func collectStatus(cfg *config.Config) StatusData {
	data := StatusData{
		Service: StatusServiceInfo{URL: cfg.Service.URL},
	}

	path, _ := config.ConfigPath()
	data.Config = StatusConfigInfo{
		Path:         path,
		StrictEvents: cfg.Query.StrictEvents,
		DebugLogging: cfg.Logging.Debug,
	}

	api := docquery.NewAPI(cfg.Service.URL)
	ctx, cancel := apiContext(cfg)
	defer cancel()

	docs, err := api.ListDocuments(ctx)
	if err != nil {
		data.Service.Reachable = false
		data.Service.Error = err.Error()
	} else {
		data.Service.Reachable = true
		data.Documents.ServiceCount = len(docs)
	}

	if cfg.Store.Enabled {
		if store, storeErr := openStore(cfg); storeErr == nil {
			if n, countErr := store.Count(ctx); countErr == nil {
				data.Documents.RegistryCount = n
			}
			store.Close()
		}
	}
	data.Documents.InSync = data.Service.Reachable &&
		data.Documents.ServiceCount == data.Documents.RegistryCount

	return data
}

// renderStatusScreen prints the human-readable status display.
func renderStatusScreen(cfg *config.Config, data StatusData) {
	fmt.Println(TitleStyle.Render("docsight status"))

	fmt.Println(SectionStyle.Render("Service"))
	fmt.Printf("  %s %s\n", RenderLabel("Endpoint"), ValueStyle.Render(data.Service.URL))
	if data.Service.Reachable {
		fmt.Printf("  %s %s\n", RenderLabel("Connection"), RenderStatus("ok"))
		fmt.Printf("  %s %s\n", RenderLabel("Documents"),
			ValueStyle.Render(util.IntToString(data.Documents.ServiceCount)))
	} else {
		fmt.Printf("  %s %s %s\n", RenderLabel("Connection"), RenderStatus("fail"),
			DimStyle.Render(data.Service.Error))
	}

	if cfg.Store.Enabled {
		fmt.Println(SectionStyle.Render("Local registry"))
		fmt.Printf("  %s %s\n", RenderLabel("Documents"),
			ValueStyle.Render(util.IntToString(data.Documents.RegistryCount)))
		if data.Service.Reachable && !data.Documents.InSync {
			fmt.Printf("  %s %s\n", RenderLabel("State"),
				WarningStyle.Render("out of sync (run: docsight docs sync)"))
		}
	}

	fmt.Println(SectionStyle.Render("Configuration"))
	fmt.Printf("  %s %s\n", RenderLabel("File"), DimStyle.Render(data.Config.Path))
	fmt.Printf("  %s %v\n", RenderLabel("Strict events"), data.Config.StrictEvents)
	fmt.Printf("  %s %v\n", RenderLabel("Debug logging"), data.Config.DebugLogging)
	fmt.Println()
}
