// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/texelshell/state.go
// Summary: Mutable shell session state and the read-only snapshot taken per render.
// Notes: session is not synchronised; the app guards it with its own mutex.

package texelshell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/framegrace/texelshell/internal/viewport"
	"github.com/framegrace/texelshell/texel"
)

const tabStop = 8

// Snapshot is an immutable copy of everything a render pass reads.
type Snapshot struct {
	Output  []string
	Prompt  string
	Input   string
	Cursor  int // rune offset into Input
	Mode    texel.Mode
	Dir     string
	Running bool
}

type session struct {
	engine *viewport.Engine

	output    []string
	openLine  bool // last output line is still receiving text
	maxOutput int

	input  []rune
	cursor int

	mode texel.Mode
	dir  string
	home string

	promptTemplate string

	history []string
	histPos int
	draft   []rune

	navEntries []string
	navSel     int
}

// newSession creates a session measuring text with eng; nil uses the default
// engine.
func newSession(dir, home, promptTemplate string, maxOutput int, eng *viewport.Engine) *session {
	if eng == nil {
		eng = viewport.Default()
	}
	return &session{
		engine:         eng,
		dir:            dir,
		home:           home,
		promptTemplate: promptTemplate,
		maxOutput:      maxOutput,
	}
}

func (s *session) snapshot(running bool) Snapshot {
	out := make([]string, len(s.output))
	copy(out, s.output)
	return Snapshot{
		Output:  out,
		Prompt:  s.prompt(),
		Input:   string(s.input),
		Cursor:  s.cursor,
		Mode:    s.mode,
		Dir:     s.displayDir(),
		Running: running,
	}
}

// displayDir shortens the home directory to "~".
func (s *session) displayDir() string {
	if s.home == "" {
		return s.dir
	}
	if s.dir == s.home {
		return "~"
	}
	if rel, err := filepath.Rel(s.home, s.dir); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.Join("~", rel)
	}
	return s.dir
}

func (s *session) prompt() string {
	return strings.ReplaceAll(s.promptTemplate, "{dir}", s.displayDir())
}

// appendLine adds a complete line to the output, closing any open line.
func (s *session) appendLine(line string) {
	s.openLine = false
	s.output = append(s.output, expandTabs(line, 0, s.engine.RuneWidth))
	s.trim()
}

// appendChunk feeds raw command output. Text after the last newline stays open
// and is extended by the next chunk.
func (s *session) appendChunk(text string) {
	if text == "" {
		return
	}
	text = strings.ReplaceAll(text, "\r", "")
	parts := strings.Split(text, "\n")
	for i, part := range parts {
		if i == 0 && s.openLine && len(s.output) > 0 {
			n := len(s.output) - 1
			s.output[n] += expandTabs(part, s.engine.StringWidth(s.output[n]), s.engine.RuneWidth)
		} else if i < len(parts)-1 || part != "" {
			s.output = append(s.output, expandTabs(part, 0, s.engine.RuneWidth))
		}
	}
	s.openLine = parts[len(parts)-1] != ""
	s.trim()
}

func (s *session) trim() {
	if s.maxOutput <= 0 || len(s.output) <= s.maxOutput {
		return
	}
	drop := len(s.output) - s.maxOutput
	s.output = append(s.output[:0], s.output[drop:]...)
}

func (s *session) clearOutput() {
	s.output = nil
	s.openLine = false
}

// expandTabs replaces tabs with spaces up to the next tab stop, counting
// columns from startCol with runeWidth.
func expandTabs(line string, startCol int, runeWidth func(rune) int) string {
	if !strings.ContainsRune(line, '\t') {
		return line
	}
	var sb strings.Builder
	col := startCol
	for _, r := range line {
		if r == '\t' {
			n := tabStop - col%tabStop
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runeWidth(r)
	}
	return sb.String()
}

func (s *session) insert(text []rune) {
	if len(text) == 0 {
		return
	}
	out := make([]rune, 0, len(s.input)+len(text))
	out = append(out, s.input[:s.cursor]...)
	out = append(out, text...)
	out = append(out, s.input[s.cursor:]...)
	s.input = out
	s.cursor += len(text)
}

func (s *session) backspace() {
	if s.cursor == 0 {
		return
	}
	s.input = append(s.input[:s.cursor-1], s.input[s.cursor:]...)
	s.cursor--
}

func (s *session) deleteForward() {
	if s.cursor >= len(s.input) {
		return
	}
	s.input = append(s.input[:s.cursor], s.input[s.cursor+1:]...)
}

func (s *session) killToStart() {
	s.input = append([]rune(nil), s.input[s.cursor:]...)
	s.cursor = 0
}

func (s *session) move(delta int) {
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor > len(s.input) {
		s.cursor = len(s.input)
	}
}

func (s *session) setInput(text []rune) {
	s.input = append([]rune(nil), text...)
	s.cursor = len(s.input)
}

// takeInput returns the current input and resets the line editor.
func (s *session) takeInput() string {
	line := string(s.input)
	s.input = nil
	s.cursor = 0
	s.histPos = len(s.history)
	s.draft = nil
	return line
}

func (s *session) recordHistory(cmd string) {
	if n := len(s.history); n > 0 && s.history[n-1] == cmd {
		s.histPos = len(s.history)
		return
	}
	s.history = append(s.history, cmd)
	s.histPos = len(s.history)
}

func (s *session) historyPrev() {
	if s.histPos == 0 {
		return
	}
	if s.histPos == len(s.history) {
		s.draft = append([]rune(nil), s.input...)
	}
	s.histPos--
	s.setInput([]rune(s.history[s.histPos]))
}

func (s *session) historyNext() {
	if s.histPos >= len(s.history) {
		return
	}
	s.histPos++
	if s.histPos == len(s.history) {
		s.setInput(s.draft)
		s.draft = nil
		return
	}
	s.setInput([]rune(s.history[s.histPos]))
}

// resolveDir turns a cd argument into an absolute directory.
func (s *session) resolveDir(arg string) (string, error) {
	switch {
	case arg == "" || arg == "~":
		arg = s.home
	case strings.HasPrefix(arg, "~/"):
		arg = filepath.Join(s.home, arg[2:])
	case !filepath.IsAbs(arg):
		arg = filepath.Join(s.dir, arg)
	}
	arg = filepath.Clean(arg)
	info, err := os.Stat(arg)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", &os.PathError{Op: "cd", Path: arg, Err: errNotDir}
	}
	return arg, nil
}
