// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable UI components for the docsight
// TUI.
//
// Each component follows the Bubble Tea pattern where applicable: a model
// struct, an Update method that consumes tea.Msg values, and a View method
// that renders to a string. Purely presentational components (Header,
// StatusBar, CitationStrip) only expose setters and View.
//
// # Components
//
//   - Header: top application bar with brand, service endpoint, and
//     document scope.
//   - StatusBar: bottom bar with connectivity, document counts, turn
//     status, and keyboard shortcuts. Responsive to terminal width.
//   - Welcome: the startup screen shown before the first question.
//   - Spinner, AnalysisIndicator: loading animations for in-flight turns.
//   - CitationStrip: renders page citations as chips and exports their
//     page images to disk.
//
// All components take the shared *styles.Theme so colors stay consistent
// across the application.
package components
