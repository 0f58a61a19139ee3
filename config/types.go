// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Typed access helpers for config store data.
// Notes: Values come from JSON, so numbers usually arrive as float64.

package config

import (
	"encoding/json"
	"strconv"
)

// Section returns the named section or nil if missing. The empty name is the
// top level of the config.
func (c Config) Section(sectionName string) Section {
	if c == nil {
		return nil
	}
	if sectionName == "" {
		return Section(c)
	}
	switch v := c[sectionName].(type) {
	case Section:
		return v
	case map[string]interface{}:
		return Section(v)
	}
	return nil
}

func (c Config) lookup(sectionName, key string) (interface{}, bool) {
	section := c.Section(sectionName)
	if section == nil {
		return nil, false
	}
	val, ok := section[key]
	return val, ok
}

// RegisterDefaults fills in missing keys of a section without touching keys
// the user already set.
func (c Config) RegisterDefaults(sectionName string, defaults Section) {
	if c == nil || defaults == nil {
		return
	}
	section := c.Section(sectionName)
	if section == nil {
		section = make(Section, len(defaults))
		c[sectionName] = section
	}
	for key, value := range defaults {
		if _, ok := section[key]; !ok {
			section[key] = value
		}
	}
}

// GetString returns a string value, or defaultValue if it is missing or not a string.
func (c Config) GetString(sectionName, key, defaultValue string) string {
	if s, ok := c.stringValue(sectionName, key); ok {
		return s
	}
	return defaultValue
}

func (c Config) stringValue(sectionName, key string) (string, bool) {
	val, _ := c.lookup(sectionName, key)
	s, ok := val.(string)
	return s, ok
}

// GetInt returns an integer value. JSON numbers and numeric strings are accepted.
func (c Config) GetInt(sectionName, key string, defaultValue int) int {
	val, ok := c.lookup(sectionName, key)
	if !ok {
		return defaultValue
	}
	switch v := val.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

// GetBool returns a boolean value. Strings go through strconv.ParseBool and
// numbers are true when non-zero.
func (c Config) GetBool(sectionName, key string, defaultValue bool) bool {
	val, ok := c.lookup(sectionName, key)
	if !ok {
		return defaultValue
	}
	switch v := val.(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return defaultValue
}

// GetStringMap returns the string-valued entries of a section. Non-string
// values are skipped.
func (c Config) GetStringMap(sectionName string) map[string]string {
	section := c.Section(sectionName)
	if section == nil {
		return nil
	}
	out := make(map[string]string, len(section))
	for key, val := range section {
		if s, ok := val.(string); ok {
			out[key] = s
		}
	}
	return out
}
