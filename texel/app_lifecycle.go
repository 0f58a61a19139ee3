// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: texel/app_lifecycle.go
// Summary: Starts and stops child apps whose Run loop lives in a goroutine.
// Usage: The shell uses it for its embedded status bar.

package texel

import (
	"log"
	"sync"
)

// AppLifecycle starts and stops apps on behalf of a host.
type AppLifecycle interface {
	StartApp(app App)
	StopApp(app App)
}

// LocalAppLifecycle runs apps in-process. Each Run loop gets its own
// goroutine; Wait blocks until all of them have returned.
type LocalAppLifecycle struct {
	wg sync.WaitGroup
}

// StartApp launches app.Run asynchronously.
func (l *LocalAppLifecycle) StartApp(app App) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := app.Run(); err != nil {
			log.Printf("Lifecycle: %s exited: %v", app.GetTitle(), err)
		}
	}()
}

// StopApp asks the app to stop; it does not wait for Run to return.
func (l *LocalAppLifecycle) StopApp(app App) {
	app.Stop()
}

// Wait blocks until every started app has returned from Run.
func (l *LocalAppLifecycle) Wait() {
	l.wg.Wait()
}
