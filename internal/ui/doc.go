// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for catalog administration:
//  1. [LoginView] : Authenticate (or register) against the catalog API
//  2. [GridView] : Browse the movie listing with debounced search, filters, and pagination
//  3. [DetailView] : Inspect a single movie's metrics and rating ring
//  4. [FormView] : Create or edit a movie with validation feedback per field
//  5. [ConfirmView] : Confirm deletion
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via typed message structs.
// Listing fetches are debounced and sequence-stamped so stale responses never overwrite newer state.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
