// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelshell/render.go
// Summary: Draws the bordered terminal pane and places the text cursor.

package texelshell

import (
	"strings"

	"github.com/framegrace/texelshell/internal/viewport"
	"github.com/framegrace/texelshell/texel"
	"github.com/gdamore/tcell/v2"
)

const paneTitle = " Terminal "

// renderTerminal lays out snap inside area and draws it on surface. The cursor
// is hidden whenever the caret scrolls out of the viewport.
func renderTerminal(surface texel.Surface, area texel.Rect, snap Snapshot, eng *viewport.Engine, borderStyle, textStyle tcell.Style) {
	drawBorder(surface, area, borderStyle)

	inner := area.Inset(1)
	frame := eng.Layout(snap.Output, snap.Prompt+snap.Input, inner.W, inner.H)
	surface.DrawText(inner, frame.Visible, textStyle)

	cur := frame.Cursor(eng, eng.StringWidth(snap.Prompt), snap.Input, snap.Cursor)
	if x, y, ok := cur.Translate(inner.X, inner.Y); ok {
		surface.SetCursor(x, y)
	} else {
		surface.HideCursor()
	}
}

func drawBorder(surface texel.Surface, r texel.Rect, style tcell.Style) {
	if r.W < 2 || r.H < 2 {
		return
	}

	top := []rune("┌" + strings.Repeat("─", r.W-2) + "┐")
	if title := []rune(paneTitle); len(title) <= r.W-2 {
		copy(top[1:], title)
	}
	bottom := "└" + strings.Repeat("─", r.W-2) + "┘"
	surface.DrawText(texel.Rect{X: r.X, Y: r.Y, W: r.W, H: 1}, []string{string(top)}, style)
	surface.DrawText(texel.Rect{X: r.X, Y: r.Y + r.H - 1, W: r.W, H: 1}, []string{bottom}, style)

	sides := make([]string, r.H-2)
	for i := range sides {
		sides[i] = "│"
	}
	surface.DrawText(texel.Rect{X: r.X, Y: r.Y + 1, W: 1, H: r.H - 2}, sides, style)
	surface.DrawText(texel.Rect{X: r.X + r.W - 1, Y: r.Y + 1, W: 1, H: r.H - 2}, sides, style)
}
