package config

import (
	"github.com/redactyl/anonymizer/internal/types"
)

// Parse converts an untyped profile (decoded JSON or YAML) into a validated
// AnonymizationConfig. It never fails: malformed fields are repaired.
//
//   - locale: missing or non-string becomes DefaultLocale
//   - entities: missing or not an object becomes DefaultEntities; keys are
//     upper-cased, and when several fold together the upper-case key wins
//   - entities.*.enabled: anything but a boolean becomes true
//   - entities.*.strategy: unknown names become REDACT
//   - entities.*.confidence: non-numeric or outside [0,1] becomes 0.5
//   - dictionaryPaths: not an array becomes empty; non-string items are dropped
func Parse(raw map[string]any) AnonymizationConfig {
	cfg := AnonymizationConfig{
		Locale:          DefaultLocale,
		DictionaryPaths: []string{},
	}
	if raw == nil {
		cfg.Entities = DefaultEntities()
		return cfg
	}

	if s, ok := raw["locale"].(string); ok && s != "" {
		cfg.Locale = s
	}
	if s, ok := raw["hmacKey"].(string); ok {
		cfg.HMACKey = s
	}
	if s, ok := raw["salt"].(string); ok {
		cfg.Salt = s
	}

	if items, ok := raw["dictionaryPaths"].([]any); ok {
		for _, it := range items {
			if s, ok := it.(string); ok && s != "" {
				cfg.DictionaryPaths = append(cfg.DictionaryPaths, s)
			}
		}
	}

	entities, ok := asMap(raw["entities"])
	if !ok {
		cfg.Entities = DefaultEntities()
		return cfg
	}
	cfg.Entities = make(map[types.EntityType]EntityConfig, len(entities))
	keys := make([]string, 0, len(entities))
	for name := range entities {
		keys = append(keys, name)
	}
	for norm, name := range foldEntityKeys(keys) {
		cfg.Entities[norm] = parseEntity(entities[name])
	}
	return cfg
}

func parseEntity(v any) EntityConfig {
	ec := EntityConfig{Enabled: true, Strategy: types.StrategyRedact}
	fields, ok := asMap(v)
	if !ok {
		if b, isBool := v.(bool); isBool {
			ec.Enabled = b
		}
		return ec
	}
	if b, isBool := fields["enabled"].(bool); isBool {
		ec.Enabled = b
	}
	if s, isStr := fields["strategy"].(string); isStr {
		ec.Strategy = ParseStrategy(s)
	}
	if c, present := fields["confidence"]; present && c != nil {
		f, isNum := asFloat(c)
		if !isNum {
			f = DefaultConfidence
		}
		ec.Confidence = Float(clampConfidence(f))
	}
	if s, isStr := fields["customPattern"].(string); isStr {
		ec.CustomPattern = s
	}
	return ec
}

// asMap accepts both decoder shapes: encoding/json and yaml.v3 produce
// map[string]any, older YAML documents can yield map[any]any.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	}
	return nil, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
