// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for system and app configuration files.

package config

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("", Section{
		"defaultApp": "texelshell",
		"log_file":   "texelshell.log",
	})
}

func applyAppDefaults(app string, cfg Config) {
	if cfg == nil {
		return
	}
	switch app {
	case "texelshell":
		cfg.RegisterDefaults("texelshell", Section{
			"prompt":           "{dir} > ",
			"shell":            "/bin/sh",
			"max_output_lines": 10000,
			"border_color":     "darkgray",
			"east_asian_wide":  false,
		})
		cfg.RegisterDefaults("texelshell.history", Section{
			"enabled": true,
			"path":    "history.db",
			"limit":   500,
		})
		cfg.RegisterDefaults("texelshell.shortcuts", Section{
			"h": "~",
			"r": "/",
			"t": "/tmp",
		})
	case "statusbar":
		cfg.RegisterDefaults("statusbar", Section{
			"normal_color":     "aqua",
			"navigation_color": "olive",
			"shortcut_color":   "purple",
			"dir_color":        "gray",
		})
	}
}
