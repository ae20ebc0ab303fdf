package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/mvx/internal/shared"
)

// Option is one selectable entry in a [MultiSelect].
type Option struct {
	Value string
	Label string
}

// MultiSelect is a searchable multi-selection control.
//
// Selected values keep their selection order: toggling an already selected
// value removes it, toggling a new one appends it. The search query filters
// visible options by case-insensitive substring match on the label and is
// recomputed on every keystroke without debouncing.
type MultiSelect struct {
	title    string
	options  []Option
	selected []string
	query    string
	visible  []int
	cursor   int
	disabled bool
}

// NewMultiSelect creates an empty control with the given title.
func NewMultiSelect(title string) *MultiSelect {
	return &MultiSelect{title: title, visible: []int{}}
}

// SetOptions replaces the option list. Selected values that no longer exist
// are dropped; the rest keep their order.
func (ms *MultiSelect) SetOptions(options []Option) {
	ms.options = options

	byValue := make(map[string]bool, len(options))
	for _, o := range options {
		byValue[o.Value] = true
	}
	kept := ms.selected[:0]
	for _, v := range ms.selected {
		if byValue[v] {
			kept = append(kept, v)
		}
	}
	ms.selected = kept

	ms.applyFilter()
}

// SetSelected replaces the selection, preserving the given order.
func (ms *MultiSelect) SetSelected(values []string) {
	ms.selected = append([]string(nil), values...)
}

// SetDisabled marks the control unusable, e.g. when its options failed to load.
func (ms *MultiSelect) SetDisabled(disabled bool) {
	ms.disabled = disabled
}

// Disabled reports whether the control accepts input.
func (ms *MultiSelect) Disabled() bool { return ms.disabled }

// Filter sets the search query and recomputes visible options immediately.
func (ms *MultiSelect) Filter(query string) {
	ms.query = query
	ms.applyFilter()
}

// Query returns the current search query.
func (ms *MultiSelect) Query() string { return ms.query }

func (ms *MultiSelect) applyFilter() {
	needle := shared.FoldSearch(ms.query)
	ms.visible = ms.visible[:0]
	for i, o := range ms.options {
		if needle == "" || strings.Contains(shared.FoldSearch(o.Label), needle) {
			ms.visible = append(ms.visible, i)
		}
	}
	if ms.cursor >= len(ms.visible) {
		ms.cursor = 0
	}
}

// Toggle flips the selection state of a value. Unknown values are ignored.
func (ms *MultiSelect) Toggle(value string) {
	if ms.disabled {
		return
	}

	known := false
	for _, o := range ms.options {
		if o.Value == value {
			known = true
			break
		}
	}
	if !known {
		return
	}

	for i, v := range ms.selected {
		if v == value {
			ms.selected = append(ms.selected[:i], ms.selected[i+1:]...)
			return
		}
	}
	ms.selected = append(ms.selected, value)
}

// ToggleCursor toggles the option under the cursor.
func (ms *MultiSelect) ToggleCursor() {
	if ms.disabled || len(ms.visible) == 0 {
		return
	}
	ms.Toggle(ms.options[ms.visible[ms.cursor]].Value)
}

// CursorUp moves the cursor up within the visible options.
func (ms *MultiSelect) CursorUp() {
	if ms.cursor > 0 {
		ms.cursor--
	}
}

// CursorDown moves the cursor down within the visible options.
func (ms *MultiSelect) CursorDown() {
	if ms.cursor < len(ms.visible)-1 {
		ms.cursor++
	}
}

// Selected returns the selected values in selection order.
func (ms *MultiSelect) Selected() []string {
	return append([]string(nil), ms.selected...)
}

// SelectedLabels returns the labels of the selected values in selection order.
func (ms *MultiSelect) SelectedLabels() []string {
	byValue := make(map[string]string, len(ms.options))
	for _, o := range ms.options {
		byValue[o.Value] = o.Label
	}

	labels := make([]string, 0, len(ms.selected))
	for _, v := range ms.selected {
		if label, ok := byValue[v]; ok {
			labels = append(labels, label)
		}
	}
	return labels
}

// View renders the control: title, query, and visible options with markers.
func (ms *MultiSelect) View() string {
	var b strings.Builder

	title := ms.title
	if ms.disabled {
		title += " (unavailable)"
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	if ms.disabled {
		b.WriteString(styles.err.Render("failed to load options"))
		return b.String()
	}

	if ms.query != "" {
		fmt.Fprintf(&b, "search: %s\n", ms.query)
	}

	if len(ms.visible) == 0 {
		b.WriteString(styles.help.Render("no matches"))
		return b.String()
	}

	selectedSet := make(map[string]bool, len(ms.selected))
	for _, v := range ms.selected {
		selectedSet[v] = true
	}

	for pos, idx := range ms.visible {
		opt := ms.options[idx]

		cursor := "  "
		if pos == ms.cursor {
			cursor = "> "
		}
		marker := "[ ]"
		if selectedSet[opt.Value] {
			marker = "[x]"
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, marker, opt.Label)
	}

	return b.String()
}
