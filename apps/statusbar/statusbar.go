// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/statusbar/statusbar.go
// Summary: One-row status bar showing the shell mode and working directory.
// Usage: Composed by the shell app below its terminal pane; fed by EventStateUpdate.

package statusbar

import (
	"sync"

	"github.com/framegrace/texelshell/config"
	"github.com/framegrace/texelshell/internal/viewport"
	"github.com/framegrace/texelshell/texel"
	"github.com/gdamore/tcell/v2"
)

const runningLabel = " running "

// StatusBarApp displays shell state information.
type StatusBarApp struct {
	width, height int
	mu            sync.RWMutex
	refreshChan   chan<- bool
	stop          chan struct{}
	stopOnce      sync.Once

	state  texel.StatePayload
	engine *viewport.Engine

	modeColors map[texel.Mode]tcell.Color
	dirColor   tcell.Color
}

// New creates a new StatusBarApp using colours from the statusbar app config.
// Text is measured with eng, normally the host's engine; nil uses the default.
func New(eng *viewport.Engine) *StatusBarApp {
	if eng == nil {
		eng = viewport.Default()
	}
	cfg := config.App("statusbar")
	return &StatusBarApp{
		stop:   make(chan struct{}),
		engine: eng,
		modeColors: map[texel.Mode]tcell.Color{
			texel.ModeNormal:     tcell.GetColor(cfg.GetString("statusbar", "normal_color", "aqua")),
			texel.ModeNavigation: tcell.GetColor(cfg.GetString("statusbar", "navigation_color", "olive")),
			texel.ModeShortcut:   tcell.GetColor(cfg.GetString("statusbar", "shortcut_color", "purple")),
		},
		dirColor: tcell.GetColor(cfg.GetString("statusbar", "dir_color", "gray")),
	}
}

func (a *StatusBarApp) SetRefreshNotifier(refreshChan chan<- bool) {
	a.refreshChan = refreshChan
}

func (a *StatusBarApp) Run() error {
	<-a.stop
	return nil
}

func (a *StatusBarApp) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

func (a *StatusBarApp) Resize(cols, rows int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.width, a.height = cols, rows
}

func (a *StatusBarApp) GetTitle() string {
	return "Status Bar"
}

func (a *StatusBarApp) HandleKey(ev *tcell.EventKey) {}

// OnEvent handles state updates broadcast by the shell.
func (a *StatusBarApp) OnEvent(event texel.Event) {
	if event.Type != texel.EventStateUpdate {
		return
	}
	payload, ok := event.Payload.(texel.StatePayload)
	if !ok {
		return
	}
	a.mu.Lock()
	a.state = payload
	a.mu.Unlock()
}

func (a *StatusBarApp) Render() [][]texel.Cell {
	a.mu.RLock()
	defer a.mu.RUnlock()

	styleBase := tcell.StyleDefault
	s := texel.NewCellSurface(a.width, a.height, styleBase, a.engine.RuneWidth)
	if a.height == 0 || a.width == 0 {
		return s.Buffer()
	}

	badgeStyle := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(a.modeColors[a.state.Mode])
	dirStyle := tcell.StyleDefault.Foreground(a.dirColor)

	var detail string
	switch a.state.Mode {
	case texel.ModeNormal:
	case texel.ModeNavigation:
		if a.state.Detail != "" {
			detail = " -> " + a.state.Detail
		}
	case texel.ModeShortcut:
		if a.state.Detail != "" {
			detail = " [" + a.state.Detail + "]"
		}
	}

	rightCol := a.width
	if a.state.Running {
		rightCol = a.width - a.engine.StringWidth(runningLabel)
		if rightCol > 0 {
			s.DrawText(texel.Rect{X: rightCol, W: a.width - rightCol, H: 1}, []string{runningLabel}, badgeStyle.Reverse(true))
		} else {
			rightCol = a.width
		}
	}

	col := 0
	for _, seg := range []struct {
		text  string
		style tcell.Style
	}{
		{" " + a.state.Mode.String() + " ", badgeStyle.Bold(true)},
		{" ", styleBase},
		{a.state.CurrentDir, dirStyle},
		{detail, styleBase},
	} {
		if col >= rightCol {
			break
		}
		s.DrawText(texel.Rect{X: col, W: rightCol - col, H: 1}, []string{seg.text}, seg.style)
		col += a.engine.StringWidth(seg.text)
	}

	return s.Buffer()
}
