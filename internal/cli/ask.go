// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command for docsight.
//
// Streams one answer from the analysis service and prints it. When stdout
// is a terminal the finished answer is rendered as markdown; when piped,
// tokens are written raw as they arrive so downstream tools see output
// immediately.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/docsight-tui/internal/config"
	"github.com/jeranaias/docsight-tui/internal/docquery"
	"github.com/jeranaias/docsight-tui/internal/model"
	"github.com/jeranaias/docsight-tui/internal/ui/components"
	"github.com/jeranaias/docsight-tui/internal/util"
)

// markdownRenderer renders answer markdown for terminal display.
// Nil if initialization failed; falls back to plain text.
var markdownRenderer *glamour.TermRenderer

func init() {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		markdownRenderer = renderer
	}
}

// renderMarkdown renders markdown content for terminal display.
// Falls back to plain text if the renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// =============================================================================
// STREAM RESULT
// =============================================================================

// streamResult collects everything one streamed turn produced.
type streamResult struct {
	Answer    string
	Citations []docquery.Citation
	Stats     *model.Statistics
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAskCommand handles the ask command: one question, one streamed
// answer, exit.
func HandleAskCommand(args Args) error {
	if strings.TrimSpace(args.Query) == "" {
		return ErrMissingArgument("question", `docsight ask "What does page 3 claim?"`)
	}

	cfg, err := loadCLIConfig(args)
	if err != nil {
		return err
	}

	// Raw token streaming when output is piped or markdown is off
	liveTokens := !args.JSON && (args.Plain || !IsStdoutTTY())

	result, err := runStreamedQuery(cfg, args, args.Query, args.DocIDs, liveTokens)
	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("ask", err).Print()
		}
		return err
	}

	var saved []string
	if args.File != "" {
		saved, err = saveCitationImages(result.Citations, args.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", WarningStyle.Render("[!]"), err)
		}
	}

	if args.JSON {
		return printAskJSON(args, result, saved)
	}

	if liveTokens {
		// Tokens already went to stdout; close the line
		fmt.Println()
	} else {
		fmt.Println(renderMarkdown(result.Answer))
	}

	printCitationSummary(result.Citations, args.Quiet)
	printTurnStats(result.Stats, args.Quiet)

	for _, path := range saved {
		fmt.Fprintf(os.Stderr, "%s saved %s\n", SuccessStyle.Render("[+]"), path)
	}
	return nil
}

// loadCLIConfig loads the configuration and applies command-line overrides.
func loadCLIConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapError(err, "failed to load configuration")
	}
	if args.ServiceURL != "" {
		cfg.Service.URL = strings.TrimSuffix(args.ServiceURL, "/")
	}
	if args.Strict {
		cfg.Query.StrictEvents = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runStreamedQuery runs one turn against the service and blocks until it
// goes terminal. Status and reasoning lines go to stderr; when liveTokens
// is set, answer tokens are written to stdout as they arrive.
func runStreamedQuery(cfg *config.Config, args Args, question string, docIDs []string, liveTokens bool) (*streamResult, error) {
	var answer strings.Builder
	var citations []docquery.Citation
	stats := model.NewStatistics()

	showProgress := !args.Quiet && IsStderrTTY()

	handlers := docquery.Handlers{
		OnStatus: func(status string) {
			if showProgress {
				fmt.Fprintf(os.Stderr, "%s %s\n", InfoStyle.Render("[i]"), status)
			}
		},
		OnReasoning: func(reasoning string) {
			if showProgress && args.Verbose {
				fmt.Fprintf(os.Stderr, "%s %s\n", DimStyle.Render("..."), DimStyle.Render(reasoning))
			}
		},
		OnToken: func(token string) {
			stats.RecordToken()
			answer.WriteString(token)
			if liveTokens {
				fmt.Print(token)
			}
		},
		OnCitation: func(c docquery.Citation) {
			citations = append(citations, c)
			if showProgress {
				fmt.Fprintf(os.Stderr, "%s cited %s p.%d (%.0f%%)\n",
					CitationStyle.Render("[*]"), c.DocumentID, c.Page, c.Score*100)
			}
		},
		OnComplete: func(doc *docquery.DocumentInfo) {},
		OnError:    func(msg string) {},
	}

	streamer := docquery.NewStreamer(handlers).WithStrict(cfg.Query.StrictEvents)
	api := docquery.NewAPI(cfg.Service.URL)

	// Streams are open-ended; only Ctrl+C or a terminal frame ends them
	req := docquery.QueryRequest{Query: question, DocumentIDs: docIDs}
	if err := streamer.StartStream(context.Background(), api.QueryEndpoint(), req); err != nil {
		return nil, err
	}

	stats.Finalize()
	touchQueriedDocs(cfg, docIDs)

	return &streamResult{
		Answer:    answer.String(),
		Citations: citations,
		Stats:     stats,
	}, nil
}

// touchQueriedDocs records query usage in the local registry. Registry
// failures never fail the query.
func touchQueriedDocs(cfg *config.Config, docIDs []string) {
	if len(docIDs) == 0 || !cfg.Store.Enabled {
		return
	}
	store, err := openStore(cfg)
	if err != nil {
		return
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, id := range docIDs {
		store.TouchQueried(ctx, id)
	}
}

// saveCitationImages exports citation page images to dir.
func saveCitationImages(citations []docquery.Citation, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, WrapError(err, "failed to create image directory")
	}

	var paths []string
	for _, cit := range citations {
		if cit.ImageBase64 == "" {
			continue
		}
		path, err := components.SaveImage(cit, dir)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// printCitationSummary prints the cited pages after an answer.
func printCitationSummary(citations []docquery.Citation, quiet bool) {
	if quiet || len(citations) == 0 {
		return
	}

	fmt.Println()
	fmt.Println(DimStyle.Render("Sources:"))
	for _, cit := range citations {
		line := fmt.Sprintf("  %s p.%d", cit.DocumentID, cit.Page)
		score := fmt.Sprintf(" (%.0f%% match)", clampScore(cit.Score)*100)
		fmt.Println(CitationStyle.Render(line) + DimStyle.Render(score))
	}
}

// printTurnStats prints timing information to stderr.
func printTurnStats(stats *model.Statistics, quiet bool) {
	if quiet || stats == nil || stats.TokenCount == 0 || !IsStderrTTY() {
		return
	}
	fmt.Fprintf(os.Stderr, "\n%s\n", DimStyle.Render(fmt.Sprintf(
		"%s tokens in %s (first token %s)",
		util.IntToString(stats.TokenCount),
		stats.TotalDuration.Round(time.Millisecond),
		stats.TTFT.Round(time.Millisecond),
	)))
}

// printAskJSON emits the structured ask result.
func printAskJSON(args Args, result *streamResult, saved []string) error {
	data := AskData{
		Response:    result.Answer,
		TokenCount:  result.Stats.TokenCount,
		TTFTMs:      result.Stats.TTFT.Milliseconds(),
		DurationMs:  result.Stats.TotalDuration.Milliseconds(),
		DocumentIDs: args.DocIDs,
		SavedImages: saved,
	}
	for _, cit := range result.Citations {
		data.Citations = append(data.Citations, CitationData{
			DocumentID: cit.DocumentID,
			Page:       cit.Page,
			Score:      cit.Score,
			HasImage:   cit.ImageBase64 != "",
		})
	}
	return NewJSONResponse("ask", data).Print()
}

// clampScore bounds a relevance score to [0, 1].
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
