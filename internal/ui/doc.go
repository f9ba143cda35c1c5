// Package ui renders games, lists and task progress for the terminal with lipgloss styles.
//
// Output is plain text with styling applied by a [Palette]; lipgloss strips colors when the
// writer is not a terminal, so the same renderers serve pipes and tests.
package ui
