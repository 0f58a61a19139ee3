// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/driver_tcell.go
// Summary: Adapts a tcell.Screen to the ScreenDriver interface.
// Usage: Used by the host loop to paint app buffers and place the cursor.

package texel

import "github.com/gdamore/tcell/v2"

// TcellScreenDriver adapts a tcell.Screen to the ScreenDriver interface.
type TcellScreenDriver struct {
	screen tcell.Screen
}

// NewTcellScreenDriver wraps the provided screen.
func NewTcellScreenDriver(screen tcell.Screen) *TcellScreenDriver {
	return &TcellScreenDriver{screen: screen}
}

func (d *TcellScreenDriver) Init() error {
	return d.screen.Init()
}

func (d *TcellScreenDriver) Fini() {
	d.screen.Fini()
}

func (d *TcellScreenDriver) Size() (int, int) {
	return d.screen.Size()
}

func (d *TcellScreenDriver) SetStyle(style tcell.Style) {
	d.screen.SetStyle(style)
}

func (d *TcellScreenDriver) Clear() {
	d.screen.Clear()
}

func (d *TcellScreenDriver) ShowCursor(x, y int) {
	d.screen.ShowCursor(x, y)
}

func (d *TcellScreenDriver) HideCursor() {
	d.screen.HideCursor()
}

func (d *TcellScreenDriver) Show() {
	d.screen.Show()
}

func (d *TcellScreenDriver) PollEvent() tcell.Event {
	return d.screen.PollEvent()
}

func (d *TcellScreenDriver) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	d.screen.SetContent(x, y, mainc, combc, style)
}

func (d *TcellScreenDriver) GetContent(x, y int) (rune, []rune, tcell.Style, int) {
	return d.screen.GetContent(x, y)
}

// Blit copies buf onto the screen starting at the top-left corner.
// Continuation cells of wide runes are skipped so the wide rune survives.
func (d *TcellScreenDriver) Blit(buf [][]Cell) {
	for y, row := range buf {
		for x, cell := range row {
			if cell.Ch == 0 {
				continue
			}
			d.screen.SetContent(x, y, cell.Ch, cell.Comb, cell.Style)
		}
	}
}

// Underlying exposes the wrapped tcell.Screen for code paths that still need
// direct access.
func (d *TcellScreenDriver) Underlying() tcell.Screen {
	return d.screen
}
