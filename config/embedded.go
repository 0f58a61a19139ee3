// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/embedded.go
// Summary: Loads and caches parsed defaults from embedded JSON files.
// The embedded JSON files in defaults/ are the single source of truth.

package config

import (
	"encoding/json"
	"sync"

	"github.com/framegrace/texelshell/defaults"
)

var (
	embeddedSystemOnce sync.Once
	embeddedSystem     Config
	embeddedSystemErr  error

	embeddedApps   = make(map[string]Config)
	embeddedAppsMu sync.RWMutex
)

// embeddedSystemDefaults returns the parsed system defaults from embedded JSON.
func embeddedSystemDefaults() (Config, error) {
	embeddedSystemOnce.Do(func() {
		data, err := defaults.SystemConfig()
		if err != nil {
			embeddedSystemErr = err
			return
		}
		var cfg Config
		if err := json.Unmarshal(data, &cfg); err != nil {
			embeddedSystemErr = err
			return
		}
		embeddedSystem = cfg
	})
	return embeddedSystem, embeddedSystemErr
}

// embeddedAppDefaults returns the parsed app defaults from embedded JSON,
// cached per app.
func embeddedAppDefaults(app string) (Config, error) {
	embeddedAppsMu.RLock()
	if cfg, ok := embeddedApps[app]; ok {
		embeddedAppsMu.RUnlock()
		return cfg, nil
	}
	embeddedAppsMu.RUnlock()

	data, err := defaults.AppConfig(app)
	if err != nil {
		// No embedded config for this app.
		return nil, nil
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	embeddedAppsMu.Lock()
	embeddedApps[app] = cfg
	embeddedAppsMu.Unlock()

	return cfg, nil
}

func defaultSystemConfig() Config {
	cfg, err := embeddedSystemDefaults()
	if err != nil || cfg == nil {
		return nil
	}
	return Clone(cfg)
}

func defaultAppConfig(app string) Config {
	cfg, err := embeddedAppDefaults(app)
	if err != nil || cfg == nil {
		return nil
	}
	return Clone(cfg)
}
