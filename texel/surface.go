// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/surface.go
// Summary: Narrow drawing surface used by app renderers.
// Usage: Renderers draw text blocks into a rect and place the cursor; CellSurface
// backs this with a [][]Cell buffer handed to the host.

package texel

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Rect is a rectangle in cell coordinates.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Inset shrinks r by n cells on every side, never below zero size.
func (r Rect) Inset(n int) Rect {
	out := Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Surface is what renderers draw on.
type Surface interface {
	// DrawText paints lines top to bottom starting at r's top-left, one line
	// per row, clipped to r.
	DrawText(r Rect, lines []string, style tcell.Style)
	SetCursor(x, y int)
	HideCursor()
}

// CellSurface is a Surface backed by a cell buffer.
type CellSurface struct {
	buf       [][]Cell
	w, h      int
	cursorX   int
	cursorY   int
	cursorOn  bool
	runeWidth func(rune) int
}

// NewCellSurface allocates a w x h buffer filled with blanks in style.
// measure reports rune cell widths; nil uses go-runewidth defaults.
func NewCellSurface(w, h int, style tcell.Style, measure func(rune) int) *CellSurface {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if measure == nil {
		measure = runewidth.RuneWidth
	}
	s := &CellSurface{w: w, h: h, runeWidth: measure}
	s.buf = make([][]Cell, h)
	for y := range s.buf {
		s.buf[y] = make([]Cell, w)
	}
	s.Fill(Rect{W: w, H: h}, style)
	return s
}

// Fill paints blanks over r.
func (s *CellSurface) Fill(r Rect, style tcell.Style) {
	s.each(r, func(c *Cell) {
		*c = Cell{Ch: ' ', Style: style}
	})
}

// SetCell writes a single rune at (x, y) if it is on the buffer.
func (s *CellSurface) SetCell(x, y int, ch rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.buf[y][x] = Cell{Ch: ch, Style: style}
}

func (s *CellSurface) each(r Rect, fn func(c *Cell)) {
	for y := r.Y; y < r.Y+r.H; y++ {
		if y < 0 || y >= s.h {
			continue
		}
		for x := r.X; x < r.X+r.W; x++ {
			if x < 0 || x >= s.w {
				continue
			}
			fn(&s.buf[y][x])
		}
	}
}

// DrawText implements Surface. Zero-width runes become combining marks on the
// preceding cell; a wide rune that would straddle the right edge is dropped.
func (s *CellSurface) DrawText(r Rect, lines []string, style tcell.Style) {
	for i, line := range lines {
		if i >= r.H {
			return
		}
		y := r.Y + i
		if y < 0 || y >= s.h {
			continue
		}
		x := r.X
		last := -1
		for _, ch := range line {
			w := s.runeWidth(ch)
			if w == 0 {
				if last >= 0 {
					s.buf[y][last].Comb = append(s.buf[y][last].Comb, ch)
				}
				continue
			}
			if x+w > r.X+r.W || x+w > s.w {
				break
			}
			if x >= 0 {
				s.buf[y][x] = Cell{Ch: ch, Style: style}
				last = x
				for k := 1; k < w; k++ {
					s.buf[y][x+k] = Cell{Ch: 0, Style: style}
				}
			}
			x += w
		}
	}
}

// SetCursor implements Surface.
func (s *CellSurface) SetCursor(x, y int) {
	s.cursorX, s.cursorY, s.cursorOn = x, y, true
}

// HideCursor implements Surface.
func (s *CellSurface) HideCursor() {
	s.cursorOn = false
}

// Cursor returns the last cursor placement.
func (s *CellSurface) Cursor() (x, y int, ok bool) {
	return s.cursorX, s.cursorY, s.cursorOn
}

// Buffer returns the underlying cells.
func (s *CellSurface) Buffer() [][]Cell {
	return s.buf
}
