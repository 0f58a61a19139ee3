// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelshell/shell.go
// Summary: Interactive shell app: a wrapped output pane, a prompt line and a status bar.
// Usage: Registered with the devshell host as "texelshell".
// Notes: Key handling mutates the session under mu; Render only reads a snapshot.

package texelshell

import (
	"context"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/framegrace/texelshell/apps/statusbar"
	"github.com/framegrace/texelshell/config"
	"github.com/framegrace/texelshell/internal/viewport"
	"github.com/framegrace/texelshell/texel"
	"github.com/gdamore/tcell/v2"
)

const appName = "texelshell"

// Options overrides configuration for a shell instance.
type Options struct {
	Title     string
	Shell     string // command interpreter; empty uses config
	Dir       string // starting directory; empty uses the process cwd
	History   *HistoryStore
	NoHistory bool // skip opening the configured history database
}

// Shell is the texel.App implementation.
type Shell struct {
	title string
	shell string

	mu   sync.Mutex
	sess *session
	job  *job

	width, height int

	engine      *viewport.Engine
	borderStyle tcell.Style
	textStyle   tcell.Style
	shortcuts   map[string]string

	history      *HistoryStore
	ownsHistory  bool
	historyLimit int

	dispatcher texel.EventRouter
	status     *statusbar.StatusBarApp
	children   texel.LocalAppLifecycle

	renderMu sync.Mutex
	cursorX  int
	cursorY  int
	cursorOn bool

	refreshChan chan<- bool
	stop        chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// New creates a shell app configured from the texelshell app config.
func New(opts Options) *Shell {
	cfg := config.App(appName)

	dir := opts.Dir
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		} else {
			dir = "/"
		}
	}
	home, _ := os.UserHomeDir()

	shellPath := opts.Shell
	if shellPath == "" {
		shellPath = cfg.GetString("texelshell", "shell", "/bin/sh")
	}
	title := opts.Title
	if title == "" {
		title = "Terminal"
	}

	eng := viewport.New(viewport.Options{
		EastAsianWide: cfg.GetBool("texelshell", "east_asian_wide", false),
	})

	s := &Shell{
		title: title,
		shell: shellPath,
		sess: newSession(dir, home,
			cfg.GetString("texelshell", "prompt", "{dir} > "),
			cfg.GetInt("texelshell", "max_output_lines", 10000), eng),
		engine:       eng,
		borderStyle:  tcell.StyleDefault.Foreground(tcell.GetColor(cfg.GetString("texelshell", "border_color", "darkgray"))),
		textStyle:    tcell.StyleDefault,
		shortcuts:    cfg.GetStringMap("texelshell.shortcuts"),
		historyLimit: cfg.GetInt("texelshell.history", "limit", 500),
		dispatcher:   texel.NewEventDispatcher(),
		status:       statusbar.New(eng),
		stop:         make(chan struct{}),
	}
	s.dispatcher.Subscribe(s.status)

	switch {
	case opts.History != nil:
		s.history = opts.History
	case !opts.NoHistory && cfg.GetBool("texelshell.history", "enabled", true):
		s.history, s.ownsHistory = openConfiguredHistory(cfg)
	}
	s.loadHistory()
	s.publishState()
	return s
}

func openConfiguredHistory(cfg config.Config) (*HistoryStore, bool) {
	path, err := config.DataPath(appName, cfg.GetString("texelshell.history", "path", "history.db"))
	if err != nil {
		log.Printf("Shell: Cannot resolve history path: %v", err)
		return nil, false
	}
	store, err := OpenHistory(path)
	if err != nil {
		log.Printf("Shell: History disabled: %v", err)
		return nil, false
	}
	return store, true
}

func (s *Shell) loadHistory() {
	if s.history == nil {
		return
	}
	entries, err := s.history.Recent(context.Background(), s.historyLimit)
	if err != nil {
		log.Printf("Shell: Failed to load history: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.sess.recordHistory(e.Command)
	}
}

func (s *Shell) SetRefreshNotifier(refreshChan chan<- bool) {
	s.refreshChan = refreshChan
	s.status.SetRefreshNotifier(refreshChan)
}

func (s *Shell) requestRefresh() {
	if s.refreshChan == nil {
		return
	}
	select {
	case s.refreshChan <- true:
	default:
	}
}

// Run blocks until Stop is called.
func (s *Shell) Run() error {
	s.children.StartApp(s.status)
	<-s.stop
	return nil
}

// Stop terminates any running command and releases the history database.
func (s *Shell) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.mu.Lock()
		j := s.job
		s.mu.Unlock()
		if j != nil {
			j.kill()
		}
		s.wg.Wait()
		s.children.StopApp(s.status)
		s.children.Wait()
		if s.ownsHistory && s.history != nil {
			if err := s.history.Close(); err != nil {
				log.Printf("Shell: Failed to close history: %v", err)
			}
		}
	})
}

func (s *Shell) Resize(cols, rows int) {
	s.mu.Lock()
	s.width, s.height = cols, rows
	j := s.job
	inner := s.viewportRectLocked()
	s.mu.Unlock()

	s.status.Resize(cols, 1)
	if j != nil {
		j.resize(inner.W, inner.H)
	}
}

func (s *Shell) GetTitle() string {
	return s.title
}

// terminalRectLocked is the bordered terminal pane; the status bar takes the
// last row when there is room for it.
func (s *Shell) terminalRectLocked() texel.Rect {
	h := s.height
	if h >= 3 {
		h--
	}
	return texel.Rect{W: s.width, H: h}
}

func (s *Shell) viewportRectLocked() texel.Rect {
	return s.terminalRectLocked().Inset(1)
}

// Snapshot returns a copy of the state the next render would draw.
func (s *Shell) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.snapshot(s.job != nil)
}

func (s *Shell) Render() [][]texel.Cell {
	s.mu.Lock()
	snap := s.sess.snapshot(s.job != nil)
	width, height := s.width, s.height
	area := s.terminalRectLocked()
	s.mu.Unlock()

	surface := texel.NewCellSurface(width, height, s.textStyle, s.engine.RuneWidth)
	renderTerminal(surface, area, snap, s.engine, s.borderStyle, s.textStyle)

	if area.H < height {
		statusRow := s.status.Render()
		if len(statusRow) > 0 {
			buf := surface.Buffer()
			copy(buf[height-1], statusRow[0])
		}
	}

	s.renderMu.Lock()
	s.cursorX, s.cursorY, s.cursorOn = surface.Cursor()
	s.renderMu.Unlock()

	return surface.Buffer()
}

// Cursor reports where the last render placed the text cursor.
func (s *Shell) Cursor() (x, y int, ok bool) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	return s.cursorX, s.cursorY, s.cursorOn
}

// publishState pushes mode and directory to listeners such as the status bar.
func (s *Shell) publishState() {
	s.mu.Lock()
	payload := texel.StatePayload{
		Mode:       s.sess.mode,
		CurrentDir: s.sess.displayDir(),
		Title:      s.title,
		Running:    s.job != nil,
		Detail:     s.modeDetailLocked(),
	}
	s.mu.Unlock()
	s.dispatcher.Broadcast(texel.Event{Type: texel.EventStateUpdate, Payload: payload})
}

func (s *Shell) modeDetailLocked() string {
	switch s.sess.mode {
	case texel.ModeNavigation:
		if s.sess.navSel < len(s.sess.navEntries) {
			return s.sess.navEntries[s.sess.navSel]
		}
	case texel.ModeShortcut:
		keys := make([]string, 0, len(s.shortcuts))
		for k := range s.shortcuts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return strings.Join(keys, " ")
	}
	return ""
}

// Subscribe registers an extra listener for state updates.
func (s *Shell) Subscribe(l texel.Listener) {
	s.dispatcher.Subscribe(l)
}
