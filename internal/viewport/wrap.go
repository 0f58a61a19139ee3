// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/viewport/wrap.go
// Summary: Width-driven line wrapping for the shell pane.
// Usage: Called by the layout engine once per logical line on every render.
// Notes: Not word-aware; a line is cut at the first rune that would overflow.

package viewport

import "github.com/mattn/go-runewidth"

// Engine measures and lays out text for a fixed-width viewport. The zero value
// is not usable; call New or use the package-level helpers.
type Engine struct {
	cond *runewidth.Condition
}

// Options configures width measurement.
type Options struct {
	// EastAsianWide treats East Asian ambiguous-width runes as two cells.
	EastAsianWide bool
}

// New returns an engine measuring runes according to opts. The result does
// not depend on the process locale.
func New(opts Options) *Engine {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = opts.EastAsianWide
	return &Engine{cond: cond}
}

var defaultEngine = New(Options{})

// Default returns the engine used by the package-level helpers.
func Default() *Engine { return defaultEngine }

// RuneWidth returns the number of cells r occupies. Control and unmeasurable
// runes are zero width.
func (e *Engine) RuneWidth(r rune) int {
	w := e.cond.RuneWidth(r)
	if w < 0 {
		return 0
	}
	return w
}

// StringWidth sums the cell widths of every rune in s.
func (e *Engine) StringWidth(s string) int {
	total := 0
	for _, r := range s {
		total += e.RuneWidth(r)
	}
	return total
}

// Wrap splits line into visual lines no wider than width cells. It always
// returns at least one line; width <= 0 yields a single empty line. A rune
// wider than width closes the current line, even an empty one, and then
// overflows a line of its own.
func (e *Engine) Wrap(line string, width int) []string {
	if width <= 0 {
		return []string{""}
	}

	var out []string
	start, used := 0, 0
	for i, r := range line {
		w := e.RuneWidth(r)
		if used+w > width {
			out = append(out, line[start:i])
			start, used = i, 0
		}
		used += w
	}
	return append(out, line[start:])
}

// Wrap wraps line using the default engine.
func Wrap(line string, width int) []string {
	return defaultEngine.Wrap(line, width)
}

// StringWidth measures s using the default engine.
func StringWidth(s string) int {
	return defaultEngine.StringWidth(s)
}
