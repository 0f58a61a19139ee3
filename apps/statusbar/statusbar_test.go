// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package statusbar

import (
	"strings"
	"testing"
	"time"

	"github.com/framegrace/texelshell/internal/viewport"
	"github.com/framegrace/texelshell/texel"
)

func rowString(row []texel.Cell) string {
	var sb strings.Builder
	for _, c := range row {
		if c.Ch == 0 {
			continue
		}
		sb.WriteRune(c.Ch)
	}
	return sb.String()
}

func newTestBar(t *testing.T, w int) *StatusBarApp {
	t.Helper()
	return newTestBarWithEngine(t, w, nil)
}

func newTestBarWithEngine(t *testing.T, w int, eng *viewport.Engine) *StatusBarApp {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	app := New(eng)
	app.Resize(w, 1)
	return app
}

func TestStatusBarRendersEachMode(t *testing.T) {
	tests := []struct {
		payload texel.StatePayload
		want    string
	}{
		{texel.StatePayload{Mode: texel.ModeNormal, CurrentDir: "~/src"}, " NORMAL  ~/src"},
		{texel.StatePayload{Mode: texel.ModeNavigation, CurrentDir: "~", Detail: "docs"}, " NAV  ~ -> docs"},
		{texel.StatePayload{Mode: texel.ModeShortcut, CurrentDir: "/", Detail: "h r"}, " GOTO  / [h r]"},
	}

	for _, tt := range tests {
		app := newTestBar(t, 40)
		app.OnEvent(texel.Event{Type: texel.EventStateUpdate, Payload: tt.payload})

		buf := app.Render()
		if len(buf) != 1 || len(buf[0]) != 40 {
			t.Fatalf("unexpected buffer dimensions: %dx%d", len(buf), len(buf[0]))
		}
		if got := strings.TrimRight(rowString(buf[0]), " "); got != tt.want {
			t.Fatalf("mode %v: got %q, want %q", tt.payload.Mode, got, tt.want)
		}
	}
}

func TestStatusBarRunningMarker(t *testing.T) {
	app := newTestBar(t, 30)
	app.OnEvent(texel.Event{Type: texel.EventStateUpdate, Payload: texel.StatePayload{
		Mode:       texel.ModeNormal,
		CurrentDir: "/a/very/long/directory/that/does/not/fit",
		Running:    true,
	}})

	got := rowString(app.Render()[0])
	if !strings.HasSuffix(got, runningLabel) {
		t.Fatalf("expected running marker at the right edge, got %q", got)
	}
}

func TestStatusBarMeasuresWithEngine(t *testing.T) {
	payload := texel.StatePayload{Mode: texel.ModeNavigation, CurrentDir: "§§", Detail: "docs"}
	tests := []struct {
		name string
		eng  *viewport.Engine
		dash int
	}{
		{"narrow", viewport.New(viewport.Options{}), 9},
		{"east asian wide", viewport.New(viewport.Options{EastAsianWide: true}), 11},
	}
	for _, tt := range tests {
		app := newTestBarWithEngine(t, 30, tt.eng)
		app.OnEvent(texel.Event{Type: texel.EventStateUpdate, Payload: payload})
		row := app.Render()[0]
		if row[6].Ch != '§' {
			t.Fatalf("%s: expected directory at column 6, got %q", tt.name, row[6].Ch)
		}
		if row[tt.dash].Ch != '-' {
			t.Fatalf("%s: expected detail arrow at column %d, got %q", tt.name, tt.dash, rowString(row))
		}
	}
}

func TestStatusBarZeroSize(t *testing.T) {
	app := newTestBar(t, 0)
	app.Resize(0, 0)
	if buf := app.Render(); len(buf) != 0 {
		t.Fatalf("expected empty buffer, got %d rows", len(buf))
	}

	go func() {
		_ = app.Run()
	}()
	time.Sleep(10 * time.Millisecond)
	app.Stop()
	app.Stop()
}
