// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package texelshell

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/framegrace/texelshell/config"
	"github.com/framegrace/texelshell/texel"
	"github.com/gdamore/tcell/v2"
)

type stateRecorder struct {
	mu   sync.Mutex
	last texel.StatePayload
}

func (r *stateRecorder) OnEvent(ev texel.Event) {
	if p, ok := ev.Payload.(texel.StatePayload); ok {
		r.mu.Lock()
		r.last = p
		r.mu.Unlock()
	}
}

func (r *stateRecorder) payload() texel.StatePayload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func newTestShell(t *testing.T, dir string, shortcuts map[string]interface{}, opts Options) *Shell {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	cfg := config.Config{
		"texelshell": map[string]interface{}{
			"prompt":           "$ ",
			"max_output_lines": float64(100),
			"shell":            "/bin/sh",
		},
		"texelshell.history": map[string]interface{}{
			"enabled": false,
		},
	}
	if shortcuts != nil {
		cfg["texelshell.shortcuts"] = shortcuts
	}
	config.SetApp(appName, cfg)

	opts.Dir = dir
	s := New(opts)
	s.Resize(20, 6)
	t.Cleanup(s.Stop)
	return s
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func typeText(s *Shell, text string) {
	for _, r := range text {
		s.HandleKey(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func rowText(row []texel.Cell) string {
	var sb strings.Builder
	for _, c := range row {
		if c.Ch == 0 {
			continue
		}
		sb.WriteRune(c.Ch)
	}
	return sb.String()
}

func TestRenderDrawsPaneAndCursor(t *testing.T) {
	s := newTestShell(t, t.TempDir(), nil, Options{})

	buf := s.Render()
	if len(buf) != 6 || len(buf[0]) != 20 {
		t.Fatalf("unexpected buffer size %dx%d", len(buf[0]), len(buf))
	}
	if top := rowText(buf[0]); !strings.HasPrefix(top, "┌ Terminal ─") || !strings.HasSuffix(top, "┐") {
		t.Fatalf("unexpected top border %q", top)
	}
	if bottom := rowText(buf[4]); !strings.HasPrefix(bottom, "└") {
		t.Fatalf("unexpected bottom border %q", bottom)
	}
	if row := rowText(buf[1]); !strings.HasPrefix(row, "│$ ") || !strings.HasSuffix(row, "│") {
		t.Fatalf("unexpected prompt row %q", row)
	}
	if status := rowText(buf[5]); !strings.Contains(status, "NORMAL") {
		t.Fatalf("status row missing mode: %q", status)
	}

	x, y, ok := s.Cursor()
	if !ok || x != 3 || y != 1 {
		t.Fatalf("cursor = (%d,%d,%v), want (3,1,true)", x, y, ok)
	}

	typeText(s, "ls")
	s.Render()
	if x, y, ok := s.Cursor(); !ok || x != 5 || y != 1 {
		t.Fatalf("cursor after typing = (%d,%d,%v), want (5,1,true)", x, y, ok)
	}
	s.HandleKey(key(tcell.KeyBackspace2))
	if snap := s.Snapshot(); snap.Input != "l" || snap.Cursor != 1 {
		t.Fatalf("backspace: input %q cursor %d", snap.Input, snap.Cursor)
	}
}

func TestRenderScrollsToPrompt(t *testing.T) {
	s := newTestShell(t, t.TempDir(), nil, Options{})
	s.mu.Lock()
	for i := 0; i < 10; i++ {
		s.sess.appendLine("line")
	}
	s.mu.Unlock()

	buf := s.Render()
	// Inner viewport is three rows; the prompt is the last of them.
	if row := rowText(buf[3]); !strings.HasPrefix(row, "│$ ") {
		t.Fatalf("expected prompt on last viewport row, got %q", row)
	}
	if x, y, ok := s.Cursor(); !ok || x != 3 || y != 3 {
		t.Fatalf("cursor = (%d,%d,%v), want (3,3,true)", x, y, ok)
	}
}

func TestRenderTinyPaneHidesCursor(t *testing.T) {
	s := newTestShell(t, t.TempDir(), nil, Options{})
	s.Resize(2, 2)
	buf := s.Render()
	if len(buf) != 2 {
		t.Fatalf("unexpected buffer height %d", len(buf))
	}
	if _, _, ok := s.Cursor(); ok {
		t.Fatalf("cursor should be hidden when the pane has no interior")
	}
}

func TestBuiltinCdAndClear(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	s := newTestShell(t, dir, nil, Options{})
	rec := &stateRecorder{}
	s.Subscribe(rec)

	typeText(s, "cd sub")
	s.HandleKey(key(tcell.KeyEnter))

	snap := s.Snapshot()
	if snap.Dir != sub {
		t.Fatalf("cd: dir %q, want %q", snap.Dir, sub)
	}
	if len(snap.Output) != 1 || snap.Output[0] != "$ cd sub" {
		t.Fatalf("cd: output %q", snap.Output)
	}
	if got := rec.payload().CurrentDir; got != sub {
		t.Fatalf("status payload dir %q, want %q", got, sub)
	}

	typeText(s, "cd nowhere")
	s.HandleKey(key(tcell.KeyEnter))
	snap = s.Snapshot()
	if last := snap.Output[len(snap.Output)-1]; !strings.HasPrefix(last, "texelshell: cd:") {
		t.Fatalf("expected cd error, got %q", last)
	}

	typeText(s, "clear")
	s.HandleKey(key(tcell.KeyEnter))
	if snap := s.Snapshot(); len(snap.Output) != 0 {
		t.Fatalf("clear left output %q", snap.Output)
	}
}

func TestNavigationMode(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"beta", "alpha", ".hidden"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	s := newTestShell(t, dir, nil, Options{})
	rec := &stateRecorder{}
	s.Subscribe(rec)

	s.HandleKey(key(tcell.KeyCtrlN))
	p := rec.payload()
	if p.Mode != texel.ModeNavigation || p.Detail != ".." {
		t.Fatalf("expected NAV on '..', got %v %q", p.Mode, p.Detail)
	}

	s.HandleKey(key(tcell.KeyDown))
	if got := rec.payload().Detail; got != "alpha" {
		t.Fatalf("expected alpha selected, got %q", got)
	}
	s.HandleKey(key(tcell.KeyEnter))

	snap := s.Snapshot()
	if snap.Mode != texel.ModeNormal {
		t.Fatalf("expected NORMAL after choosing, got %v", snap.Mode)
	}
	if snap.Dir != filepath.Join(dir, "alpha") {
		t.Fatalf("unexpected dir %q", snap.Dir)
	}

	s.HandleKey(key(tcell.KeyCtrlN))
	s.HandleKey(key(tcell.KeyEscape))
	if snap := s.Snapshot(); snap.Mode != texel.ModeNormal || snap.Dir != filepath.Join(dir, "alpha") {
		t.Fatalf("escape should leave NAV without moving, got %v %q", snap.Mode, snap.Dir)
	}
}

func TestShortcutMode(t *testing.T) {
	dir := t.TempDir()
	target := t.TempDir()
	s := newTestShell(t, dir, map[string]interface{}{"t": target, "x": "/definitely/missing"}, Options{})
	rec := &stateRecorder{}
	s.Subscribe(rec)

	s.HandleKey(key(tcell.KeyCtrlG))
	if p := rec.payload(); p.Mode != texel.ModeShortcut || p.Detail != "t x" {
		t.Fatalf("expected GOTO with keys, got %v %q", p.Mode, p.Detail)
	}
	typeText(s, "t")
	if snap := s.Snapshot(); snap.Mode != texel.ModeNormal || snap.Dir != target {
		t.Fatalf("shortcut: mode %v dir %q", snap.Mode, snap.Dir)
	}

	s.HandleKey(key(tcell.KeyCtrlG))
	typeText(s, "q")
	if snap := s.Snapshot(); snap.Mode != texel.ModeNormal || snap.Dir != target {
		t.Fatalf("unknown shortcut should only leave the mode, got %v %q", snap.Mode, snap.Dir)
	}
}

func TestShortcutModeNeedsShortcuts(t *testing.T) {
	s := newTestShell(t, t.TempDir(), map[string]interface{}{}, Options{})
	s.HandleKey(key(tcell.KeyCtrlG))
	if snap := s.Snapshot(); snap.Mode != texel.ModeNormal {
		t.Fatalf("expected to stay NORMAL without shortcuts, got %v", snap.Mode)
	}
}

func TestHistoryStoreRecallAndAppend(t *testing.T) {
	store := openTestHistory(t)
	if err := store.Append(context.Background(), "make", "/"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	s := newTestShell(t, t.TempDir(), nil, Options{History: store})

	s.HandleKey(key(tcell.KeyUp))
	if snap := s.Snapshot(); snap.Input != "make" {
		t.Fatalf("expected recalled command, got %q", snap.Input)
	}
	s.HandleKey(key(tcell.KeyCtrlU))

	typeText(s, "clear")
	s.HandleKey(key(tcell.KeyEnter))
	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 || entries[1].Command != "clear" {
		t.Fatalf("submitted command not stored: %+v", entries)
	}

	typeText(s, "history mak")
	s.HandleKey(key(tcell.KeyEnter))
	snap := s.Snapshot()
	if last := snap.Output[len(snap.Output)-1]; !strings.HasSuffix(last, "history mak") {
		t.Fatalf("history search should include the command just run, got %q", snap.Output)
	}
}

// historyListing returns the commands printed after the echoed prompt line.
func historyListing(t *testing.T, s *Shell, line string) []string {
	t.Helper()
	typeText(s, "clear")
	s.HandleKey(key(tcell.KeyEnter))
	typeText(s, line)
	s.HandleKey(key(tcell.KeyEnter))

	snap := s.Snapshot()
	if len(snap.Output) == 0 || snap.Output[0] != "$ "+line {
		t.Fatalf("unexpected output %q", snap.Output)
	}
	var cmds []string
	for _, l := range snap.Output[1:] {
		fields := strings.SplitN(strings.TrimSpace(l), "  ", 2)
		if len(fields) != 2 {
			t.Fatalf("malformed history line %q", l)
		}
		cmds = append(cmds, fields[1])
	}
	return cmds
}

func TestHistoryBuiltinListsOldestFirst(t *testing.T) {
	seed := []string{"go build", "ls", "go test"}
	tests := []struct {
		name  string
		store bool
	}{
		{"sqlite", true},
		{"in memory", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts Options
			if tt.store {
				opts.History = openTestHistory(t)
			}
			s := newTestShell(t, t.TempDir(), nil, opts)
			for _, cmd := range seed {
				s.mu.Lock()
				s.sess.recordHistory(cmd)
				s.mu.Unlock()
				if opts.History != nil {
					if err := opts.History.Append(context.Background(), cmd, "/"); err != nil {
						t.Fatalf("Append: %v", err)
					}
				}
			}

			got := historyListing(t, s, "history go")
			want := []string{"go build", "go test", "history go"}
			if strings.Join(got, "|") != strings.Join(want, "|") {
				t.Fatalf("history go = %q, want %q", got, want)
			}

			got = historyListing(t, s, "history")
			if n := len(got); n == 0 || got[n-1] != "history" || got[0] != "go build" {
				t.Fatalf("history = %q, want oldest first ending in the command just run", got)
			}
		})
	}
}

func TestRunningCommandReadsInputAndReportsFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty not available")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
	s := newTestShell(t, t.TempDir(), nil, Options{})
	rec := &stateRecorder{}
	s.Subscribe(rec)

	typeText(s, "read x; echo got$x; exit 3")
	s.HandleKey(key(tcell.KeyEnter))
	if !rec.payload().Running {
		t.Fatalf("expected Running to be published once the command starts")
	}

	typeText(s, "abc")
	s.HandleKey(key(tcell.KeyEnter))

	want := []string{"$ read x; echo got$x; exit 3", "abc", "gotabc", "texelshell: exit status 3"}
	deadline := time.Now().Add(5 * time.Second)
	for {
		snap := s.Snapshot()
		if !snap.Running {
			if strings.Join(snap.Output, "|") != strings.Join(want, "|") {
				t.Fatalf("output = %q, want %q", snap.Output, want)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("command did not finish, output %q", snap.Output)
		}
		time.Sleep(10 * time.Millisecond)
	}
	for rec.payload().Running {
		if time.Now().After(deadline) {
			t.Fatalf("expected Running to be cleared when the command exits")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPasteSubmitsLines(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "a"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	s := newTestShell(t, dir, nil, Options{})

	s.HandlePaste([]byte("cd a\r\nech"))
	snap := s.Snapshot()
	if snap.Dir != filepath.Join(dir, "a") {
		t.Fatalf("pasted line not submitted, dir %q", snap.Dir)
	}
	if snap.Input != "ech" {
		t.Fatalf("expected trailing text to stay in the prompt, got %q", snap.Input)
	}
}

func TestCommandOutputStreamsIntoPane(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pty not available")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
	s := newTestShell(t, t.TempDir(), nil, Options{})

	typeText(s, "echo hello")
	s.HandleKey(key(tcell.KeyEnter))

	deadline := time.Now().Add(5 * time.Second)
	for {
		snap := s.Snapshot()
		if !snap.Running && len(snap.Output) >= 2 {
			if snap.Output[0] != "$ echo hello" || snap.Output[1] != "hello" {
				t.Fatalf("unexpected output %q", snap.Output)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("command did not finish, output %q", snap.Output)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
