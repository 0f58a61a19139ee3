// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelshell/commands.go
// Summary: Submitting the prompt line: builtins and commands run in a PTY.
// Notes: Output is split into lines as it arrives; escape sequences are not interpreted.

package texelshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/creack/pty"
)

var errNotDir = errors.New("not a directory")

// job is a command running in a PTY.
type job struct {
	cmd  *exec.Cmd
	pty  *os.File
	once sync.Once
}

func (j *job) write(line string) {
	if _, err := io.WriteString(j.pty, line+"\n"); err != nil {
		log.Printf("Shell: Failed to write to command: %v", err)
	}
}

func (j *job) resize(cols, rows int) {
	if err := pty.Setsize(j.pty, winsize(cols, rows)); err != nil {
		log.Printf("Shell: Failed to resize pty: %v", err)
	}
}

func (j *job) kill() {
	j.once.Do(func() {
		if j.cmd.Process != nil {
			_ = j.cmd.Process.Kill()
		}
	})
}

func winsize(cols, rows int) *pty.Winsize {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}
}

// submitLocked consumes the prompt line. While a command runs the line is sent
// to its stdin instead.
func (s *Shell) submitLocked() []func() {
	sess := s.sess
	prompt := sess.prompt()
	line := sess.takeInput()

	if s.job != nil {
		j := s.job
		return []func(){func() { j.write(line) }}
	}

	sess.appendLine(prompt + line)
	cmd := strings.TrimSpace(line)
	if cmd == "" {
		return nil
	}
	sess.recordHistory(cmd)

	var after []func()
	if s.history != nil {
		store, dir := s.history, sess.dir
		after = append(after, func() {
			if err := store.Append(context.Background(), cmd, dir); err != nil {
				log.Printf("Shell: %v", err)
			}
		})
	}

	if handled, more := s.runBuiltinLocked(cmd); handled {
		return append(after, more...)
	}
	s.startLocked(cmd)
	return after
}

// runBuiltinLocked runs cmd if it is a builtin. Work that must not hold the
// session lock is returned for the caller to run afterwards.
func (s *Shell) runBuiltinLocked(cmd string) (bool, []func()) {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case "cd":
		target := ""
		if len(fields) > 1 {
			target = strings.Join(fields[1:], " ")
		}
		s.changeDirLocked(target)
	case "clear":
		s.sess.clearOutput()
	case "history":
		query := strings.TrimSpace(strings.TrimPrefix(cmd, "history"))
		if s.history == nil {
			s.printMemoryHistoryLocked(query)
			return true, nil
		}
		store := s.history
		return true, []func(){func() { s.printStoredHistory(store, query) }}
	default:
		return false, nil
	}
	return true, nil
}

func (s *Shell) changeDirLocked(target string) {
	dir, err := s.sess.resolveDir(target)
	if err != nil {
		s.sess.appendLine(fmt.Sprintf("texelshell: cd: %v", err))
		return
	}
	s.sess.dir = dir
}

const historyShown = 20

// printStoredHistory lists matching commands from store, oldest first. It
// runs without the session lock and falls back to the in-memory list when the
// query fails.
func (s *Shell) printStoredHistory(store *HistoryStore, query string) {
	var (
		entries []HistoryEntry
		err     error
	)
	if query == "" {
		entries, err = store.Recent(context.Background(), historyShown)
	} else {
		entries, err = store.Search(context.Background(), query, historyShown)
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		log.Printf("Shell: %v", err)
		s.printMemoryHistoryLocked(query)
		return
	}
	for _, e := range entries {
		s.sess.appendLine(fmt.Sprintf("%5d  %s", e.ID, e.Command))
	}
}

// printMemoryHistoryLocked lists the session's history, which already holds
// the history command being run.
func (s *Shell) printMemoryHistoryLocked(query string) {
	var matches []int
	for i, cmd := range s.sess.history {
		if query == "" || strings.Contains(cmd, query) {
			matches = append(matches, i)
		}
	}
	if len(matches) > historyShown {
		matches = matches[len(matches)-historyShown:]
	}
	for _, i := range matches {
		s.sess.appendLine(fmt.Sprintf("%5d  %s", i+1, s.sess.history[i]))
	}
}

func (s *Shell) startLocked(line string) {
	inner := s.viewportRectLocked()

	cmd := exec.Command(s.shell, "-c", line)
	cmd.Dir = s.sess.dir
	cmd.Env = append(os.Environ(),
		"TERM=dumb",
		"COLUMNS="+strconv.Itoa(inner.W),
		"LINES="+strconv.Itoa(inner.H),
	)

	f, err := pty.StartWithSize(cmd, winsize(inner.W, inner.H))
	if err != nil {
		log.Printf("Shell: Failed to start %q: %v", line, err)
		s.sess.appendLine("texelshell: " + err.Error())
		return
	}

	j := &job{cmd: cmd, pty: f}
	s.job = j
	s.wg.Add(1)
	go s.pump(j)
}

// pump copies command output into the session until the command exits.
func (s *Shell) pump(j *job) {
	defer s.wg.Done()

	buf := make([]byte, 4096)
	var pending []byte
	for {
		n, err := j.pty.Read(buf)
		if n > 0 {
			var text []byte
			text, pending = splitUTF8(append(pending, buf[:n]...))
			s.mu.Lock()
			s.sess.appendChunk(string(text))
			s.mu.Unlock()
			s.requestRefresh()
		}
		if err != nil {
			break
		}
	}
	if len(pending) > 0 {
		s.mu.Lock()
		s.sess.appendChunk(string(pending))
		s.mu.Unlock()
	}

	waitErr := j.cmd.Wait()
	j.pty.Close()

	s.mu.Lock()
	if waitErr != nil {
		s.sess.appendLine("texelshell: " + waitErr.Error())
	}
	s.job = nil
	s.mu.Unlock()

	s.publishState()
	s.requestRefresh()
}

// splitUTF8 holds back a trailing partial rune so it is not decoded before the
// rest of its bytes arrive.
func splitUTF8(b []byte) (complete, rest []byte) {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if utf8.FullRune(b[i:]) {
			return b, nil
		}
		return b[:i], append([]byte(nil), b[i:]...)
	}
	return b, nil
}
