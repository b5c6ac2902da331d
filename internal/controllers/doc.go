// Package controllers holds the presentation controllers shared by the TUI and the CLI.
//
//   - [CatalogController] : movie list, favorites, detail dialogs
//   - [NavigationController] : route changes and logout
//   - [WelcomeController] : login and registration overlays
//
// Controllers never draw anything. They call out to host interfaces ([Gateway], [DialogHost],
// [Notifier], [Navigator], [SessionStore]) which the ui package implements for the terminal UI
// and the cmd package implements for one-shot commands.
//
// Mutations are never applied optimistically: a successful add/remove is followed by a full reload
// of both the catalog and the favorites, so the view always reflects server state. Concurrent
// mutations are not deduplicated; each runs its own mutation and reload.
package controllers
