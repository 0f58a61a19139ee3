// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/viewport/cursor.go
// Summary: Maps a rune offset in the input buffer to a viewport cell.
// Usage: Called after Layout with the frame's scroll offset and input start.

package viewport

// CursorRequest describes where the caret sits in the input line.
type CursorRequest struct {
	PromptWidth  int
	Input        string
	Offset       int // rune index into Input
	Width        int
	InputStart   int
	ScrollOffset int
	Height       int
}

// Cursor is the mapped caret location. Row and Column are relative to the
// viewport's top-left and are not clamped; only Position reports a cell that
// is safe to draw at.
type Cursor struct {
	DisplayColumn  int
	RowWithinInput int
	AbsoluteRow    int
	Row            int
	Column         int
	Visible        bool
}

// Position returns the viewport-relative cell of the caret, or ok=false when
// it falls outside the viewport.
func (c Cursor) Position() (x, y int, ok bool) {
	if !c.Visible {
		return 0, 0, false
	}
	return c.Column, c.Row, true
}

// Translate returns the caret position offset by the viewport origin.
func (c Cursor) Translate(originX, originY int) (x, y int, ok bool) {
	x, y, ok = c.Position()
	if !ok {
		return 0, 0, false
	}
	return originX + x, originY + y, true
}

// MapCursor computes the caret location for req. Offsets past the end of the
// input are treated as end-of-input.
func (e *Engine) MapCursor(req CursorRequest) Cursor {
	col := req.PromptWidth
	n := 0
	for _, r := range req.Input {
		if n >= req.Offset {
			break
		}
		col += e.RuneWidth(r)
		n++
	}

	c := Cursor{DisplayColumn: col}
	if req.Width <= 0 {
		return c
	}

	c.RowWithinInput = col / req.Width
	c.Column = col % req.Width
	c.AbsoluteRow = req.InputStart + c.RowWithinInput
	c.Row = c.AbsoluteRow - req.ScrollOffset
	c.Visible = c.Row >= 0 && c.Row < req.Height
	return c
}

// MapCursor maps a caret using the default engine.
func MapCursor(req CursorRequest) Cursor {
	return defaultEngine.MapCursor(req)
}

// Cursor maps the caret for a frame produced by Layout.
func (f Frame) Cursor(e *Engine, promptWidth int, input string, offset int) Cursor {
	if e == nil {
		e = defaultEngine
	}
	return e.MapCursor(CursorRequest{
		PromptWidth:  promptWidth,
		Input:        input,
		Offset:       offset,
		Width:        f.Width,
		InputStart:   f.InputStart,
		ScrollOffset: f.ScrollOffset,
		Height:       f.Height,
	})
}
