// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/runtime_interfaces.go
// Summary: Interfaces separating apps from the screen they are drawn on.

package texel

import "github.com/gdamore/tcell/v2"

// ScreenDriver abstracts the rendering surface used by the host loop. It mirrors
// the subset of tcell.Screen functionality required today.
type ScreenDriver interface {
	Init() error
	Fini()
	Size() (int, int)
	SetStyle(style tcell.Style)
	Clear()
	ShowCursor(x, y int)
	HideCursor()
	Show()
	PollEvent() tcell.Event
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	GetContent(x, y int) (rune, []rune, tcell.Style, int)
}

// EventRouter exposes the subset of dispatcher behaviour apps rely on.
type EventRouter interface {
	Subscribe(listener Listener)
	Unsubscribe(listener Listener)
	Broadcast(event Event)
}
