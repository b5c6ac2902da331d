// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has three routes, mirroring the catalog controllers:
//  1. welcome : entry point; opens the login and registration overlays
//  2. movies : the catalog, with favorite toggling and genre/director/synopsis dialogs
//  3. profile : the current user and their favorites
//
// Controllers talk to the TUI through a [Host], which implements the dialog, notice and navigation
// host interfaces by posting messages on a buffered channel. The (view) [Model] re-arms a
// waitForEvent command after every message, the same way a long-running task streams progress.
//
// [RenderDialog] renders a dialog as a bordered lipgloss panel; the CLI uses it to print dialogs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
