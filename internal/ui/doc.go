// Package ui implements dossier's terminal interface on Bubble Tea.
//
// # Views
//
// Two views share the screen, switched with tab or 1/2:
//
//   - Browse: the paginated catalog. Moving the cursor near the end of the
//     list, or pressing m, fetches the next page. Typing in the search box
//     replaces pagination with a single name query.
//   - Favorites: every character in the favorites set, resolved one by one.
//     Searching here queries the catalog by name and keeps only favorites.
//
// Each view owns its own favorites copy, search debouncer and detail
// overlay (see pane). Entering a view flushes the other view's pending
// favorites write and reloads its own copy from storage.
//
// # Concurrency
//
// All state changes happen in Update. Network requests, debounce timers and
// animation frames run as tea.Cmd and report back through paneMsg, which
// carries the view that issued them. Controllers tag their requests, so
// results that were overtaken by a reset or a newer search are dropped.
//
// # Input routing
//
// Keys go to the help modal first, then to a focused search box, then to
// an open detail panel, and only then to the list. The detail panel
// captures input from the moment it starts opening until its exit
// animation finishes.
//
// # Themes
//
// T cycles themes; the choice is saved through the prefs package.
package ui
