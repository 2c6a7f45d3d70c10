// Package cache persists pseudonym mapping tables between runs so labels
// stay stable across invocations that share a key and salt.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blang/semver/v4"

	"github.com/redactyl/anonymizer/internal/types"
)

// FormatVersion is written into every saved file. Files with a different
// major version are refused.
var FormatVersion = semver.MustParse("1.0.0")

var ErrIncompatibleVersion = errors.New("incompatible mapping file version")

// Store is the on-disk envelope.
type Store struct {
	Version  string                   `json:"version"`
	SavedAt  time.Time                `json:"savedAt"`
	Mappings []types.PseudonymMapping `json:"mappings"`
}

// DefaultPath returns the mapping file used when none is given: inside .git
// when dir is a repository so it is not committed by accident, else a
// dotfile in dir.
func DefaultPath(dir string) string {
	gitDir := filepath.Join(dir, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "anonymizer-mappings.json")
	}
	return filepath.Join(dir, ".anonymizer-mappings.json")
}

// Load reads a mapping file. A missing file yields an empty store and the
// os error so callers can distinguish first runs.
func Load(path string) (Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Store{Version: FormatVersion.String(), Mappings: []types.PseudonymMapping{}}, err
	}
	var st Store
	if err := json.Unmarshal(b, &st); err != nil {
		return Store{}, fmt.Errorf("parse mappings %s: %w", path, err)
	}
	v, err := semver.ParseTolerant(st.Version)
	if err != nil {
		return Store{}, fmt.Errorf("%w: %s: %q", ErrIncompatibleVersion, path, st.Version)
	}
	if v.Major != FormatVersion.Major {
		return Store{}, fmt.Errorf("%w: %s has %s, want %d.x", ErrIncompatibleVersion, path, v, FormatVersion.Major)
	}
	if st.Mappings == nil {
		st.Mappings = []types.PseudonymMapping{}
	}
	return st, nil
}

// LoadMappings is Load returning only the table.
func LoadMappings(path string) ([]types.PseudonymMapping, error) {
	st, err := Load(path)
	return st.Mappings, err
}

// SaveMappings writes ms with the current format version. The file is
// owner-only: keys are keyed hashes, but labels link records together.
func SaveMappings(path string, ms []types.PseudonymMapping) error {
	if ms == nil {
		ms = []types.PseudonymMapping{}
	}
	st := Store{
		Version:  FormatVersion.String(),
		SavedAt:  time.Now().UTC(),
		Mappings: ms,
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0600); err != nil {
		return fmt.Errorf("write mappings %s: %w", path, err)
	}
	return nil
}
