// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/app.go
// Summary: App contract and cell type shared by hosts and apps.
// Usage: Apps render into [][]Cell; hosts copy cells onto a ScreenDriver.

package texel

import "github.com/gdamore/tcell/v2"

// Cell is one terminal cell. A wide rune occupies its cell and the next one;
// the right half is a continuation cell with Ch == 0.
type Cell struct {
	Ch    rune
	Comb  []rune
	Style tcell.Style
}

// App is anything a host can run, size, draw and feed keys to.
type App interface {
	Run() error
	Stop()
	Resize(cols, rows int)
	Render() [][]Cell
	GetTitle() string
	HandleKey(ev *tcell.EventKey)
	SetRefreshNotifier(refreshChan chan<- bool)
}

// CursorProvider is implemented by apps that want the host to show a text
// cursor. ok=false asks the host to hide it.
type CursorProvider interface {
	Cursor() (x, y int, ok bool)
}

// PasteHandler receives bracketed paste payloads.
type PasteHandler interface {
	HandlePaste(data []byte)
}
