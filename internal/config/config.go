package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/redactyl/anonymizer/internal/types"
)

const (
	// DefaultLocale is used when a profile omits locale.
	DefaultLocale = "UK"
	// DefaultConfidence replaces out-of-range thresholds.
	DefaultConfidence = 0.5
)

// ErrNoConfig is returned by profile discovery when nothing was found.
var ErrNoConfig = errors.New("no config")

// EntityConfig is the policy for one entity type.
type EntityConfig struct {
	Enabled       bool               `json:"enabled" yaml:"enabled"`
	Strategy      types.StrategyName `json:"strategy" yaml:"strategy"`
	Confidence    *float64           `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	CustomPattern string             `json:"customPattern,omitempty" yaml:"customPattern,omitempty"`
}

// AnonymizationConfig is the validated pipeline profile. It is treated as
// immutable once a pipeline has been built from it.
type AnonymizationConfig struct {
	Locale          string                             `json:"locale" yaml:"locale"`
	Entities        map[types.EntityType]EntityConfig `json:"entities" yaml:"entities"`
	DictionaryPaths []string                           `json:"dictionaryPaths" yaml:"dictionaryPaths"`
	HMACKey         string                             `json:"hmacKey,omitempty" yaml:"hmacKey,omitempty"`
	Salt            string                             `json:"salt,omitempty" yaml:"salt,omitempty"`
}

// Entity returns the policy for t, if one is configured.
func (c AnonymizationConfig) Entity(t types.EntityType) (EntityConfig, bool) {
	ec, ok := c.Entities[t]
	return ec, ok
}

// Threshold returns the confidence threshold and whether one is set.
func (ec EntityConfig) Threshold() (float64, bool) {
	if ec.Confidence == nil {
		return 0, false
	}
	return *ec.Confidence, true
}

// Float returns a pointer to v, for building EntityConfig literals.
func Float(v float64) *float64 { return &v }

// DefaultEntities returns the built-in policy table. Every type is enabled
// with a 0.5 threshold.
func DefaultEntities() map[types.EntityType]EntityConfig {
	strategies := map[types.EntityType]types.StrategyName{
		types.EntityPerson:      types.StrategyPseudonym,
		types.EntitySingleName:  types.StrategyPseudonym,
		types.EntityOrg:         types.StrategyPseudonym,
		types.EntityEmail:       types.StrategyMask,
		types.EntityPhone:       types.StrategyMask,
		types.EntityPostcode:    types.StrategyMask,
		types.EntityIPAddress:   types.StrategyHash,
		types.EntityCard:        types.StrategyRedact,
		types.EntityNINumber:    types.StrategyRedact,
		types.EntityNHSNumber:   types.StrategyRedact,
		types.EntityIBAN:        types.StrategyRedact,
		types.EntitySortCode:    types.StrategyRedact,
		types.EntityURL:         types.StrategyRedact,
		types.EntityDateOfBirth: types.StrategyRedact,
		types.EntityPassport:    types.StrategyRedact,
		types.EntityCustom:      types.StrategyRedact,
	}
	out := make(map[types.EntityType]EntityConfig, len(strategies))
	for t, s := range strategies {
		out[t] = EntityConfig{Enabled: true, Strategy: s, Confidence: Float(DefaultConfidence)}
	}
	return out
}

// Default returns the profile used when no file is supplied.
func Default() AnonymizationConfig {
	return AnonymizationConfig{
		Locale:          DefaultLocale,
		Entities:        DefaultEntities(),
		DictionaryPaths: []string{},
	}
}

// ParseStrategy maps a strategy name, case-insensitively, onto a known
// strategy. Anything unrecognised becomes REDACT.
func ParseStrategy(s string) types.StrategyName {
	name := types.StrategyName(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range types.Strategies() {
		if name == known {
			return name
		}
	}
	return types.StrategyRedact
}

// Normalize repairs a typed config with the same rules Parse applies to
// untyped input.
func Normalize(c AnonymizationConfig) AnonymizationConfig {
	out := AnonymizationConfig{
		Locale:  strings.TrimSpace(c.Locale),
		HMACKey: c.HMACKey,
		Salt:    c.Salt,
	}
	if out.Locale == "" {
		out.Locale = DefaultLocale
	}
	if c.Entities == nil {
		out.Entities = DefaultEntities()
	} else {
		out.Entities = make(map[types.EntityType]EntityConfig, len(c.Entities))
		keys := make([]string, 0, len(c.Entities))
		for t := range c.Entities {
			keys = append(keys, string(t))
		}
		for norm, key := range foldEntityKeys(keys) {
			ec := c.Entities[types.EntityType(key)]
			ec.Strategy = ParseStrategy(string(ec.Strategy))
			if ec.Confidence != nil {
				ec.Confidence = Float(clampConfidence(*ec.Confidence))
			}
			out.Entities[norm] = ec
		}
	}
	out.DictionaryPaths = append([]string{}, c.DictionaryPaths...)
	return out
}

func normalizeType(s string) types.EntityType {
	return types.EntityType(strings.ToUpper(strings.TrimSpace(s)))
}

// foldEntityKeys picks, for each normalized entity type, the key whose
// settings apply when several keys fold to the same type. A key already in
// canonical form wins; otherwise the first key in sorted order does.
func foldEntityKeys(keys []string) map[types.EntityType]string {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	winners := make(map[types.EntityType]string, len(sorted))
	for _, key := range sorted {
		norm := normalizeType(key)
		prev, seen := winners[norm]
		if !seen || (key == string(norm) && prev != string(norm)) {
			winners[norm] = key
		}
	}
	return winners
}

func clampConfidence(v float64) float64 {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return DefaultConfidence
	}
	return v
}

// LoadFile reads a JSON or YAML profile and runs it through Parse. YAML is
// chosen by a .yaml/.yml extension, JSON otherwise.
func LoadFile(path string) (AnonymizationConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return AnonymizationConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &raw)
	default:
		err = json.Unmarshal(b, &raw)
	}
	if err != nil {
		return AnonymizationConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return Parse(raw), nil
}

var profileNames = []string{
	".anonymizer.json", ".anonymizer.yaml", ".anonymizer.yml",
	"anonymizer.json", "anonymizer.yaml", "anonymizer.yml",
}

// LoadLocal searches dir for a profile file and returns it with its path.
func LoadLocal(dir string) (AnonymizationConfig, string, error) {
	for _, name := range profileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			cfg, err := LoadFile(p)
			return cfg, p, err
		}
	}
	return AnonymizationConfig{}, "", ErrNoConfig
}

// LoadGlobal loads the user profile from the XDG config dir or ~/.config.
func LoadGlobal() (AnonymizationConfig, string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return AnonymizationConfig{}, "", ErrNoConfig
	}
	for _, name := range []string{"config.json", "config.yaml", "config.yml"} {
		p := filepath.Join(base, "anonymizer", name)
		if _, err := os.Stat(p); err == nil {
			cfg, err := LoadFile(p)
			return cfg, p, err
		}
	}
	return AnonymizationConfig{}, "", ErrNoConfig
}

// Resolve picks the profile by precedence: explicit path, then a profile in
// dir, then the global profile, then Default. The returned source is empty
// when defaults were used.
func Resolve(explicit, dir string) (AnonymizationConfig, string, error) {
	if explicit != "" {
		cfg, err := LoadFile(explicit)
		return cfg, explicit, err
	}
	if cfg, p, err := LoadLocal(dir); !errors.Is(err, ErrNoConfig) {
		return cfg, p, err
	}
	if cfg, p, err := LoadGlobal(); !errors.Is(err, ErrNoConfig) {
		return cfg, p, err
	}
	return Default(), "", nil
}

// Marshal encodes c as "json" or "yaml".
func Marshal(c AnonymizationConfig, format string) ([]byte, error) {
	if strings.EqualFold(format, "yaml") || strings.EqualFold(format, "yml") {
		return yaml.Marshal(c)
	}
	return json.MarshalIndent(c, "", "  ")
}
