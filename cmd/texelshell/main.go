// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelshell/main.go
// Summary: Entry point for the texelshell terminal pane.
// Usage: texelshell [-log path] [-shell /bin/bash] [app]

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/framegrace/texelshell/config"
	"github.com/framegrace/texelshell/internal/devshell"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "texelshell: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("texelshell", flag.ContinueOnError)
	logPath := fs.String("log", "", "Log file (default: log_file from texelshell.json)")
	shell := fs.String("shell", "", "Command interpreter for submitted lines")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdin and stdout must be a terminal")
	}

	sys := config.System()
	if err := config.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "texelshell: config: %v\n", err)
	}

	closeLog := setupLogging(*logPath, sys.GetString("", "log_file", "texelshell.log"))
	defer closeLog()

	app := sys.GetString("", "defaultApp", "texelshell")
	if fs.NArg() > 0 {
		app = fs.Arg(0)
	}

	var args []string
	if *shell != "" {
		args = []string{*shell}
	}
	log.Printf("Main: Starting %s", app)
	if err := devshell.RunApp(app, args); err != nil {
		return err
	}
	log.Printf("Main: Exited")
	return nil
}

// setupLogging points the standard logger at a file; the terminal belongs to
// the screen while the app runs.
func setupLogging(flagPath, configured string) func() {
	path := flagPath
	if path == "" {
		resolved, err := config.DataPath("texelshell", configured)
		if err != nil {
			log.SetOutput(io.Discard)
			return func() {}
		}
		path = resolved
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "texelshell: cannot create log directory: %v\n", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		fmt.Fprintf(os.Stderr, "texelshell: cannot open log %s: %v\n", path, err)
		log.SetOutput(io.Discard)
		return func() {}
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return func() { f.Close() }
}
