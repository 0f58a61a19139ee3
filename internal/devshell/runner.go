// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/devshell/runner.go
// Summary: Runs a single texel.App full-screen on the local terminal.
// Usage: cmd/texelshell calls RunApp("texelshell", args).

package devshell

import (
	"fmt"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelshell/apps/texelshell"
	"github.com/framegrace/texelshell/texel"
)

// Builder constructs a texel.App, optionally using CLI args.
type Builder func(args []string) (texel.App, error)

var registry = map[string]Builder{
	"texelshell": func(args []string) (texel.App, error) {
		return texelshell.New(texelshell.Options{Shell: strings.Join(args, " ")}), nil
	},
}

var screenFactory = tcell.NewScreen

// SetScreenFactory overrides the screen factory used by Run. Passing nil restores the default.
func SetScreenFactory(factory func() (tcell.Screen, error)) {
	if factory == nil {
		screenFactory = tcell.NewScreen
		return
	}
	screenFactory = factory
}

// Run executes the provided builder inside a local tcell screen.
func Run(builder Builder, args []string) error {
	app, err := builder(args)
	if err != nil {
		return err
	}

	screen, err := screenFactory()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	driver := texel.NewTcellScreenDriver(screen)
	if err := driver.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer driver.Fini()
	driver.Clear()
	screen.EnablePaste()
	defer screen.DisablePaste()

	width, height := driver.Size()
	app.Resize(width, height)
	refreshCh := make(chan bool, 1)
	app.SetRefreshNotifier(refreshCh)

	cursor, _ := app.(texel.CursorProvider)
	draw := func() {
		driver.Clear()
		if buffer := app.Render(); buffer != nil {
			driver.Blit(buffer)
		}
		if cursor != nil {
			if x, y, ok := cursor.Cursor(); ok {
				driver.ShowCursor(x, y)
			} else {
				driver.HideCursor()
			}
		}
		driver.Show()
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- app.Run()
	}()
	defer app.Stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-refreshCh:
				if err := screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
					log.Printf("Devshell: Dropped refresh: %v", err)
				}
			case <-done:
				return
			}
		}
	}()

	draw()

	var pasteBuffer []byte
	var inPaste bool

	for {
		select {
		case err := <-runErr:
			return err
		default:
		}

		ev := driver.PollEvent()
		switch tev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			draw()
		case *tcell.EventResize:
			w, h := tev.Size()
			app.Resize(w, h)
			screen.Sync()
			draw()
		case *tcell.EventPaste:
			if tev.Start() {
				inPaste = true
				pasteBuffer = nil
			} else if tev.End() {
				inPaste = false
				if ph, ok := app.(texel.PasteHandler); ok && len(pasteBuffer) > 0 {
					ph.HandlePaste(pasteBuffer)
					draw()
				}
				pasteBuffer = nil
			}
		case *tcell.EventKey:
			if tev.Key() == tcell.KeyCtrlC {
				return nil
			}
			if inPaste {
				switch tev.Key() {
				case tcell.KeyRune:
					pasteBuffer = append(pasteBuffer, string(tev.Rune())...)
				case tcell.KeyEnter, tcell.KeyLF:
					pasteBuffer = append(pasteBuffer, '\n')
				case tcell.KeyTab:
					pasteBuffer = append(pasteBuffer, '\t')
				}
				continue
			}
			app.HandleKey(tev)
			draw()
		}
	}
}

// RunApp finds a registered builder by name and runs it.
func RunApp(name string, args []string) error {
	buildApp, ok := registry[name]
	if !ok {
		return fmt.Errorf("unknown app %q", name)
	}
	return Run(buildApp, args)
}
