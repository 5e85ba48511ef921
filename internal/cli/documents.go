// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// documents.go - Document management commands for docsight.
//
// Documents live on the analysis service; the local SQLite registry mirrors
// the listing so IDs are available offline and across restarts.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/docsight-tui/internal/config"
	"github.com/jeranaias/docsight-tui/internal/docquery"
	"github.com/jeranaias/docsight-tui/internal/docstore"
	"github.com/jeranaias/docsight-tui/internal/util"
)

// HandleDocuments dispatches the documents subcommands.
func HandleDocuments(args Args) error {
	parser := NewArgParser(args.Raw)

	cfg, err := loadCLIConfig(args)
	if err != nil {
		return HandleError(err, args.JSON)
	}

	switch parser.Subcommand() {
	case "", "list", "ls", "l":
		return HandleError(documentsList(cfg, args), args.JSON)
	case "upload", "add":
		return HandleError(documentsUpload(cfg, args, parser), args.JSON)
	case "delete", "rm", "remove":
		return HandleError(documentsDelete(cfg, args, parser), args.JSON)
	case "sync":
		return HandleError(documentsSync(cfg, args), args.JSON)
	default:
		return HandleError(NewValidationErrorWithExample(
			"subcommand", parser.Subcommand(), "unknown documents subcommand",
			"docsight docs [list|upload|delete|sync]"), args.JSON)
	}
}

// =============================================================================
// LIST
// =============================================================================

// documentsList shows the service's document listing, falling back to the
// local registry when the service is unreachable.
func documentsList(cfg *config.Config, args Args) error {
	api := docquery.NewAPI(cfg.Service.URL)

	ctx, cancel := apiContext(cfg)
	defer cancel()

	source := "service"
	docs, err := api.ListDocuments(ctx)
	if err != nil {
		// Offline fallback: show what the registry remembers
		if !cfg.Store.Enabled {
			return WrapError(err, "service unreachable and local registry disabled")
		}
		store, storeErr := openStore(cfg)
		if storeErr != nil {
			return WrapError(err, "service unreachable")
		}
		defer store.Close()

		docs, storeErr = store.List(ctx)
		if storeErr != nil {
			return WrapError(err, "service unreachable")
		}
		source = "registry"
		if !args.JSON && !args.Quiet {
			fmt.Fprintf(os.Stderr, "%s service unreachable, showing local registry\n",
				WarningStyle.Render("[!]"))
		}
	} else if cfg.Store.Enabled {
		// Keep the registry current while we have a fresh listing
		if store, storeErr := openStore(cfg); storeErr == nil {
			store.Sync(ctx, docs)
			store.Close()
		}
	}

	if args.JSON {
		return printDocumentsJSON(docs, source)
	}

	if len(docs) == 0 {
		fmt.Println(DimStyle.Render("No documents uploaded yet."))
		fmt.Println(DimStyle.Render("Upload one with: docsight docs upload <file>"))
		return nil
	}

	fmt.Println(TitleStyle.Render("Documents"))
	for _, doc := range docs {
		pages := ""
		if doc.Pages > 0 {
			pages = DimStyle.Render(" (" + util.IntToString(doc.Pages) + " pages)")
		}
		uploaded := ""
		if !doc.UploadedAt.IsZero() {
			uploaded = DimStyle.Render("  " + doc.UploadedAt.Format("2006-01-02 15:04"))
		}
		fmt.Printf("  %s  %s%s%s\n",
			HighlightStyle.Render(doc.ID),
			ValueStyle.Render(doc.Filename),
			pages, uploaded)
	}
	fmt.Println()
	fmt.Println(DimStyle.Render(util.IntToString(len(docs)) + " document(s), from " + source))
	return nil
}

func printDocumentsJSON(docs []docquery.DocumentInfo, source string) error {
	data := DocumentListData{Count: len(docs), Source: source}
	for _, doc := range docs {
		d := DocumentData{ID: doc.ID, Filename: doc.Filename, Pages: doc.Pages}
		if !doc.UploadedAt.IsZero() {
			d.UploadedAt = doc.UploadedAt.UTC().Format(time.RFC3339)
		}
		data.Documents = append(data.Documents, d)
	}
	return NewJSONResponse("documents list", data).Print()
}

// =============================================================================
// UPLOAD
// =============================================================================

// documentsUpload streams one file to the service and records the finished
// document in the local registry.
func documentsUpload(cfg *config.Config, args Args, parser *ArgParser) error {
	path := parser.Positional(1)
	if path == "" {
		return ErrMissingArgument("file", "docsight docs upload ./q3-report.pdf")
	}

	f, err := os.Open(path)
	if err != nil {
		return WrapError(err, "failed to open document")
	}
	defer f.Close()

	showProgress := !args.Quiet && !args.JSON && IsStderrTTY()
	var uploaded *docquery.DocumentInfo

	handlers := docquery.Handlers{
		OnStatus: func(status string) {
			if showProgress {
				fmt.Fprintf(os.Stderr, "%s %s\n", InfoStyle.Render("[i]"), status)
			}
		},
		OnReasoning: func(string) {},
		OnToken:     func(string) {},
		OnCitation:  func(docquery.Citation) {},
		OnComplete: func(doc *docquery.DocumentInfo) {
			uploaded = doc
		},
		OnError: func(string) {},
	}

	streamer := docquery.NewStreamer(handlers).WithStrict(cfg.Query.StrictEvents)
	api := docquery.NewAPI(cfg.Service.URL)

	req := docquery.UploadRequest{Filename: filepath.Base(path), Content: f}
	if err := streamer.StartStream(context.Background(), api.UploadEndpoint(), req); err != nil {
		return WrapError(err, "upload failed")
	}

	if uploaded == nil {
		// Service finished without a descriptor; nothing to register
		if !args.JSON {
			fmt.Printf("%s uploaded %s\n", SuccessStyle.Render("[+]"), filepath.Base(path))
		}
		return nil
	}

	if cfg.Store.Enabled {
		if store, storeErr := openStore(cfg); storeErr == nil {
			ctx, cancel := apiContext(cfg)
			store.Record(ctx, *uploaded)
			cancel()
			store.Close()
		}
	}

	if args.JSON {
		return NewJSONResponse("documents upload", DocumentData{
			ID:       uploaded.ID,
			Filename: uploaded.Filename,
			Pages:    uploaded.Pages,
		}).Print()
	}

	fmt.Printf("%s uploaded %s as %s (%s pages)\n",
		SuccessStyle.Render("[+]"),
		ValueStyle.Render(uploaded.Filename),
		HighlightStyle.Render(uploaded.ID),
		util.IntToString(uploaded.Pages))
	return nil
}

// =============================================================================
// DELETE
// =============================================================================

// documentsDelete removes a document from the service and the registry.
func documentsDelete(cfg *config.Config, args Args, parser *ArgParser) error {
	id := parser.Positional(1)
	if id == "" {
		return ErrMissingArgument("document id", "docsight docs delete q3-report --confirm")
	}

	if !parser.BoolFlag("confirm") {
		confirmed, err := confirmPrompt(fmt.Sprintf("Delete document %q from the service?", id))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println(DimStyle.Render("Cancelled."))
			return nil
		}
	}

	api := docquery.NewAPI(cfg.Service.URL)
	ctx, cancel := apiContext(cfg)
	defer cancel()

	if err := api.DeleteDocument(ctx, id); err != nil {
		return WrapError(err, "delete failed")
	}

	if cfg.Store.Enabled {
		if store, storeErr := openStore(cfg); storeErr == nil {
			store.Remove(ctx, id)
			store.Close()
		}
	}

	if args.JSON {
		return NewJSONResponse("documents delete", map[string]string{"id": id}).Print()
	}
	fmt.Printf("%s deleted %s\n", SuccessStyle.Render("[+]"), id)
	return nil
}

// =============================================================================
// SYNC
// =============================================================================

// documentsSync reconciles the local registry against the service listing.
func documentsSync(cfg *config.Config, args Args) error {
	if !cfg.Store.Enabled {
		return NewValidationError("store.enabled", "false", "local registry is disabled")
	}

	api := docquery.NewAPI(cfg.Service.URL)
	ctx, cancel := apiContext(cfg)
	defer cancel()

	docs, err := api.ListDocuments(ctx)
	if err != nil {
		return WrapError(err, "failed to list documents")
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Sync(ctx, docs); err != nil {
		return WrapError(err, "sync failed")
	}

	if args.JSON {
		return NewJSONResponse("documents sync", map[string]int{"count": len(docs)}).Print()
	}
	fmt.Printf("%s registry synced, %s document(s)\n",
		SuccessStyle.Render("[+]"), util.IntToString(len(docs)))
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// openStore opens the local document registry.
func openStore(cfg *config.Config) (*docstore.Store, error) {
	path, err := cfg.StorePath()
	if err != nil {
		return nil, WrapError(err, "failed to resolve registry path")
	}
	store, err := docstore.Open(path)
	if err != nil {
		return nil, WrapError(err, "failed to open document registry")
	}
	return store, nil
}

// apiContext returns a context bounded by the configured request timeout.
func apiContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.Service.RequestTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// confirmPrompt asks a yes/no question on the terminal.
func confirmPrompt(question string) (bool, error) {
	if err := RequiresTTY("confirm"); err != nil {
		return false, err
	}

	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, WrapError(err, "failed to read confirmation")
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
