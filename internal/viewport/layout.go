// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/viewport/layout.go
// Summary: Composes wrapped output history and the input line into a viewport.
// Usage: Called once per render by the shell pane before cursor mapping.
// Notes: Scroll is recomputed from scratch on every call and always pins the bottom.

package viewport

// Frame is the result of laying out one render pass.
type Frame struct {
	// Visible holds at most Height visual lines, top to bottom.
	Visible []string
	// ScrollOffset is the number of visual lines hidden above the viewport.
	ScrollOffset int
	// InputStart is the index of the first visual line of the input.
	InputStart int
	// Total counts every visual line, hidden or not.
	Total int
	// Width and Height echo the viewport the frame was laid out for.
	Width, Height int
}

// Layout wraps output followed by input and selects the lines that fit in a
// width x height viewport, scrolled so the input stays visible.
func (e *Engine) Layout(output []string, input string, width, height int) Frame {
	lines := make([]string, 0, len(output)+1)
	for _, line := range output {
		lines = append(lines, e.Wrap(line, width)...)
	}
	inputStart := len(lines)
	lines = append(lines, e.Wrap(input, width)...)

	if height < 0 {
		height = 0
	}
	total := len(lines)
	scroll := total - height
	if scroll < 0 {
		scroll = 0
	}

	end := scroll + height
	if end > total {
		end = total
	}

	return Frame{
		Visible:      lines[scroll:end],
		ScrollOffset: scroll,
		InputStart:   inputStart,
		Total:        total,
		Width:        width,
		Height:       height,
	}
}

// Layout lays out a frame using the default engine.
func Layout(output []string, input string, width, height int) Frame {
	return defaultEngine.Layout(output, input, width, height)
}
