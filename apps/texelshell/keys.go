// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelshell/keys.go
// Summary: Key handling for the prompt line, navigation list and shortcut modes.

package texelshell

import (
	"os"
	"sort"
	"strings"

	"github.com/framegrace/texelshell/texel"
	"github.com/gdamore/tcell/v2"
)

// HandleKey applies a key to the session. Side effects that must not run under
// the session lock (history database work, writes to a running command) are
// queued and run after it is released.
func (s *Shell) HandleKey(ev *tcell.EventKey) {
	s.mu.Lock()
	var after []func()
	switch s.sess.mode {
	case texel.ModeNormal:
		after = s.handleNormalKeyLocked(ev)
	case texel.ModeNavigation:
		after = s.handleNavigationKeyLocked(ev)
	case texel.ModeShortcut:
		after = s.handleShortcutKeyLocked(ev)
	}
	s.mu.Unlock()

	for _, fn := range after {
		fn()
	}
	s.publishState()
	s.requestRefresh()
}

// HandlePaste inserts pasted text; each newline submits the line so far.
func (s *Shell) HandlePaste(data []byte) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		s.mu.Lock()
		s.sess.insert([]rune(strings.ReplaceAll(line, "\r", "")))
		var after []func()
		if i < len(lines)-1 {
			after = s.submitLocked()
		}
		s.mu.Unlock()
		for _, fn := range after {
			fn()
		}
	}
	s.publishState()
	s.requestRefresh()
}

func (s *Shell) handleNormalKeyLocked(ev *tcell.EventKey) []func() {
	sess := s.sess
	switch ev.Key() {
	case tcell.KeyRune:
		sess.insert([]rune{ev.Rune()})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		sess.backspace()
	case tcell.KeyDelete:
		sess.deleteForward()
	case tcell.KeyLeft:
		sess.move(-1)
	case tcell.KeyRight:
		sess.move(1)
	case tcell.KeyHome, tcell.KeyCtrlA:
		sess.move(-len(sess.input))
	case tcell.KeyEnd, tcell.KeyCtrlE:
		sess.move(len(sess.input))
	case tcell.KeyCtrlU:
		sess.killToStart()
	case tcell.KeyUp:
		sess.historyPrev()
	case tcell.KeyDown:
		sess.historyNext()
	case tcell.KeyCtrlL:
		sess.clearOutput()
	case tcell.KeyCtrlN:
		s.enterNavigationLocked()
	case tcell.KeyCtrlG:
		if len(s.shortcuts) > 0 {
			sess.mode = texel.ModeShortcut
		}
	case tcell.KeyEnter:
		return s.submitLocked()
	}
	return nil
}

func (s *Shell) enterNavigationLocked() {
	entries := []string{".."}
	dirents, err := os.ReadDir(s.sess.dir)
	if err != nil {
		s.sess.appendLine("texelshell: " + err.Error())
	}
	var names []string
	for _, d := range dirents {
		if d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
			names = append(names, d.Name())
		}
	}
	sort.Strings(names)
	s.sess.navEntries = append(entries, names...)
	s.sess.navSel = 0
	s.sess.mode = texel.ModeNavigation
}

func (s *Shell) handleNavigationKeyLocked(ev *tcell.EventKey) []func() {
	sess := s.sess
	switch ev.Key() {
	case tcell.KeyUp:
		if sess.navSel > 0 {
			sess.navSel--
		}
	case tcell.KeyDown:
		if sess.navSel < len(sess.navEntries)-1 {
			sess.navSel++
		}
	case tcell.KeyEnter:
		if sess.navSel < len(sess.navEntries) {
			s.changeDirLocked(sess.navEntries[sess.navSel])
		}
		s.leaveModeLocked()
	case tcell.KeyEscape, tcell.KeyCtrlN:
		s.leaveModeLocked()
	}
	return nil
}

func (s *Shell) handleShortcutKeyLocked(ev *tcell.EventKey) []func() {
	if ev.Key() == tcell.KeyRune {
		if target, ok := s.shortcuts[string(ev.Rune())]; ok {
			s.changeDirLocked(target)
		}
	}
	s.leaveModeLocked()
	return nil
}

func (s *Shell) leaveModeLocked() {
	s.sess.mode = texel.ModeNormal
	s.sess.navEntries = nil
	s.sess.navSel = 0
}
