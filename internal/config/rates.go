package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultRates maps preset names to annual percentage rates.
var DefaultRates = map[string]float64{
	"cash":         0.5,
	"bonds":        3,
	"conservative": 4,
	"balanced":     6,
	"growth":       8,
}

// ResolveRate accepts either a number ("6", "6.5%") or a preset name.
// Presets from the config file take precedence over the built-in table.
func ResolveRate(cfg Config, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty rate")
	}

	if v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64); err == nil {
		return v, nil
	}

	name := strings.ToLower(s)
	for k, v := range cfg.Rates.Presets {
		if strings.ToLower(k) == name {
			return v, nil
		}
	}
	if v, ok := DefaultRates[name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("unknown rate %q (presets: %s)", raw, strings.Join(RateNames(cfg), ", "))
}

// RateNames lists every known preset, sorted.
func RateNames(cfg Config) []string {
	seen := make(map[string]bool, len(DefaultRates)+len(cfg.Rates.Presets))
	for name := range DefaultRates {
		seen[name] = true
	}
	for name := range cfg.Rates.Presets {
		seen[strings.ToLower(name)] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
