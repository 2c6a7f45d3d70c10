// Package policy applies the per-entity enable flag and confidence threshold
// to detected matches.
package policy

import (
	"sort"

	"github.com/redactyl/anonymizer/internal/config"
	"github.com/redactyl/anonymizer/internal/types"
)

// Allowed reports whether a match of type t at confidence conf passes cfg.
// A type with no entry is dropped, as is a disabled one. A match exactly at
// the threshold is kept.
func Allowed(cfg config.AnonymizationConfig, t types.EntityType, conf float64) bool {
	ec, ok := cfg.Entity(t)
	if !ok || !ec.Enabled {
		return false
	}
	if th, set := ec.Threshold(); set && conf < th {
		return false
	}
	return true
}

// Filter returns the matches in ms that cfg allows, preserving order.
func Filter(ms []types.Match, cfg config.AnonymizationConfig) []types.Match {
	out := make([]types.Match, 0, len(ms))
	for _, m := range ms {
		if Allowed(cfg, m.Type, m.Confidence) {
			out = append(out, m)
		}
	}
	return out
}

// Enabled lists the entity types cfg turns on, in Types order.
func Enabled(cfg config.AnonymizationConfig) []types.EntityType {
	var out []types.EntityType
	for _, t := range Types(cfg) {
		if ec, _ := cfg.Entity(t); ec.Enabled {
			out = append(out, t)
		}
	}
	return out
}

// Types lists every entity type cfg configures: built-in types in display
// order, then any other configured types sorted by name.
func Types(cfg config.AnonymizationConfig) []types.EntityType {
	var out []types.EntityType
	seen := map[types.EntityType]bool{}
	for _, t := range types.EntityTypes() {
		seen[t] = true
		if _, ok := cfg.Entity(t); ok {
			out = append(out, t)
		}
	}
	var extra []types.EntityType
	for t := range cfg.Entities {
		if !seen[t] {
			extra = append(extra, t)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
