// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Load and first-run seeding logic for the config store.

package config

import "log"

func loadSystemLocked() error {
	path, err := systemConfigPath()
	if err != nil {
		log.Printf("Config: Failed to resolve system config path: %v", err)
		system = make(Config)
		applySystemDefaults(system)
		return err
	}

	cfg, exists, readErr := loadOrSeed(path, defaultSystemConfig)
	applySystemDefaults(cfg)

	system = cfg
	if readErr == nil && exists {
		log.Printf("Config: Loaded system config from %s", path)
	}
	return readErr
}

func loadAppLocked(name string) (Config, error) {
	path, err := appConfigPath(name)
	if err != nil {
		return nil, err
	}

	cfg, exists, readErr := loadOrSeed(path, func() Config { return defaultAppConfig(name) })
	applyAppDefaults(name, cfg)

	if readErr == nil && exists {
		log.Printf("Config: Loaded app %q config from %s", name, path)
	}
	return cfg, readErr
}

// loadOrSeed reads path. Missing or empty files are replaced by the embedded
// defaults, which are written back so users have something to edit.
func loadOrSeed(path string, defaults func() Config) (Config, bool, error) {
	cfg, exists, readErr := readConfig(path)
	if readErr != nil {
		log.Printf("Config: Failed to read config %s: %v", path, readErr)
		return make(Config), exists, readErr
	}
	if exists && len(cfg) > 0 {
		return cfg, true, nil
	}

	def := defaults()
	if def == nil {
		return make(Config), exists, nil
	}
	if err := writeConfig(path, def); err != nil {
		log.Printf("Config: Failed to write default config %s: %v", path, err)
		return def, exists, err
	}
	return def, exists, nil
}
